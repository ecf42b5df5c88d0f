package membership

// Role is a member's capability level within one project. Roles are
// stored as three-letter codes and ordered Spectator < Contributor <
// Director < Administrator.
type Role string

const (
	RoleAdministrator Role = "ADM"
	RoleDirector      Role = "DIR"
	RoleContributor   Role = "CON"
	RoleSpectator     Role = "SPE"
)

var roleRanks = map[Role]int{
	RoleSpectator:     0,
	RoleContributor:   1,
	RoleDirector:      2,
	RoleAdministrator: 3,
}

var roleNames = map[Role]string{
	RoleAdministrator: "Administrator",
	RoleDirector:      "Director",
	RoleContributor:   "Contributor",
	RoleSpectator:     "Spectator",
}

// ParseRole accepts either the stored code or the display name.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	if r.Valid() {
		return r, true
	}
	for code, name := range roleNames {
		if name == s {
			return code, true
		}
	}
	return "", false
}

// Valid reports whether the role is one of the four known codes.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Name returns the display name for the role code.
func (r Role) Name() string {
	return roleNames[r]
}

// AtLeast reports whether the role ranks at or above other. Unknown
// roles rank below everything.
func (r Role) AtLeast(other Role) bool {
	return roleRanks[r] >= roleRanks[other]
}

// Action is a project-scoped operation gated by role.
type Action int

const (
	ActionViewProject Action = iota
	ActionEditProject
	ActionDeleteProject
	ActionAddMember
	ActionRemoveMember
	ActionCreateBug
	ActionEditAnyBug
	ActionDeleteBug
	ActionAssignBug
	ActionCreateTag
	ActionDeleteTag
	ActionMarkBug
	ActionUploadAttachment
	ActionDeleteAttachment
)

// actionFloors maps each action to the minimum role that may perform it.
// Per-entity overrides (reporter edits own bug, creator deletes own
// attachment) live in the owning services, not here.
var actionFloors = map[Action]Role{
	ActionViewProject:      RoleSpectator,
	ActionEditProject:      RoleAdministrator,
	ActionDeleteProject:    RoleAdministrator,
	ActionAddMember:        RoleDirector,
	ActionRemoveMember:     RoleDirector,
	ActionCreateBug:        RoleContributor,
	ActionEditAnyBug:       RoleDirector,
	ActionDeleteBug:        RoleAdministrator,
	ActionAssignBug:        RoleDirector,
	ActionCreateTag:        RoleContributor,
	ActionDeleteTag:        RoleDirector,
	ActionMarkBug:          RoleContributor,
	ActionUploadAttachment: RoleContributor,
	ActionDeleteAttachment: RoleDirector,
}

// Allows reports whether the role meets the action's floor.
func (r Role) Allows(a Action) bool {
	floor, ok := actionFloors[a]
	if !ok {
		return false
	}
	return r.AtLeast(floor)
}

// roleTransitions enumerates every permitted (actor, from, to) role
// change. Absence means denial: there is no fallback rule, so a
// combination outside the table is rejected even for Administrators.
// Keeping a member's current role is deliberately absent.
var roleTransitions = map[Role]map[Role][]Role{
	RoleAdministrator: {
		RoleAdministrator: {RoleDirector, RoleContributor, RoleSpectator},
		RoleDirector:      {RoleAdministrator, RoleContributor, RoleSpectator},
		RoleContributor:   {RoleAdministrator, RoleDirector, RoleSpectator},
		RoleSpectator:     {RoleAdministrator, RoleDirector, RoleContributor},
	},
	RoleDirector: {
		RoleContributor: {RoleSpectator},
		RoleSpectator:   {RoleContributor},
	},
}

// CanChangeRole reports whether actor may move a member holding from to
// the role to.
func CanChangeRole(actor, from, to Role) bool {
	for _, allowed := range roleTransitions[actor][from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanRemoveMember reports whether actor may remove a member holding
// target. Administrators may remove anyone; Directors only Contributors
// and Spectators.
func CanRemoveMember(actor, target Role) bool {
	if actor == RoleAdministrator {
		return true
	}
	if actor == RoleDirector {
		return !target.AtLeast(RoleDirector)
	}
	return false
}
