package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
)

type projectResponse struct {
	PublicID    string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Role        membership.Role `json:"role,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

func toProjectResponse(p *project.Project, m *membership.Membership) projectResponse {
	resp := projectResponse{
		PublicID:    p.PublicID,
		Title:       p.Title,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format(timeLayout),
	}
	if m != nil {
		resp.Role = m.Role
	}
	return resp
}

// projectDetail is the full project view: the project, the requester's
// role, the member list and the bug list in one response.
type projectDetail struct {
	projectResponse
	Members []memberResponse `json:"members"`
	Bugs    []bug.Bug        `json:"bugs"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.svc.Projects.Create(r.Context(), u.ID, project.CreateRequest{
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(p, &membership.Membership{Role: membership.RoleAdministrator}))
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	summaries, err := s.svc.Projects.ListMine(r.Context(), u.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	type item struct {
		PublicID    string          `json:"id"`
		Title       string          `json:"title"`
		Role        membership.Role `json:"role"`
		MemberCount int             `json:"member_count"`
		BugCount    int             `json:"bug_count"`
		CreatedAt   string          `json:"created_at"`
	}
	items := make([]item, 0, len(summaries))
	for _, sum := range summaries {
		items = append(items, item{
			PublicID:    sum.PublicID,
			Title:       sum.Title,
			Role:        sum.Role,
			MemberCount: sum.MemberCount,
			BugCount:    sum.BugCount,
			CreatedAt:   sum.CreatedAt.Format(timeLayout),
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}
	publicID := chi.URLParam(r, "projectID")

	p, m, err := s.svc.Projects.Get(r.Context(), u.ID, publicID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	members, err := s.svc.Memberships.ListMembers(r.Context(), u.ID, p.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	bugs, err := s.svc.Bugs.List(r.Context(), u.ID, publicID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, projectDetail{
		projectResponse: toProjectResponse(p, m),
		Members:         toMemberResponses(members),
		Bugs:            bugs,
	})
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := s.svc.Projects.Update(r.Context(), u.ID, chi.URLParam(r, "projectID"), project.UpdateRequest{
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(p, nil))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	if err := s.svc.Projects.Delete(r.Context(), u.ID, chi.URLParam(r, "projectID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProjectActivity(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	p, _, err := s.svc.Projects.Get(r.Context(), u.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entries, err := s.svc.Activities.Recent(r.Context(), activityOptions(r, p.ID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
