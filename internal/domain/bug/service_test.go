package bug_test

import (
	"context"
	"testing"

	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
	"github.com/bugpen/bugpen/internal/repository"
	"github.com/bugpen/bugpen/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	bugs        *mocks.BugRepository
	projects    *mocks.ProjectRepository
	memberships *mocks.MembershipRepository
	attachments *mocks.AttachmentRepository
	blobs       *mocks.BlobStore
	activities  *mocks.ActivityRepository
	svc         *bug.Service
}

func newFixture() *fixture {
	f := &fixture{
		bugs:        &mocks.BugRepository{},
		projects:    &mocks.ProjectRepository{},
		memberships: &mocks.MembershipRepository{},
		attachments: &mocks.AttachmentRepository{},
		blobs:       &mocks.BlobStore{},
		activities:  &mocks.ActivityRepository{},
	}
	f.svc = bug.NewService(f.bugs, f.projects, f.memberships, f.attachments, f.blobs, f.activities, nil)
	return f
}

// grant wires the project lookup and the requester's membership.
func (f *fixture) grant(ctx context.Context, userID string, role membership.Role) {
	f.projects.On("GetByPublicID", ctx, "PUB1").
		Return(&project.Project{ID: "p1", PublicID: "PUB1", Title: "Payments"}, nil)
	f.memberships.On("Get", ctx, userID, "p1").
		Return(&membership.Membership{ID: "m-" + userID, UserID: userID, ProjectID: "p1", Role: role}, nil)
}

func TestBugService_Report(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)
	f.bugs.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*bug.Bug).Index = 7
	}).Return(nil)
	f.activities.On("Log", ctx, mock.Anything).Return(nil)

	b, err := f.svc.Report(ctx, "contributor", "PUB1", bug.ReportRequest{
		Title:   "Crash on save",
		Impact:  3,
		Urgency: 4,
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), b.Index)
	require.Equal(t, "contributor", b.ReporterID)
	require.Equal(t, "p1", b.ProjectID)
}

func TestBugService_Report_SpectatorForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "spectator", membership.RoleSpectator)

	_, err := f.svc.Report(ctx, "spectator", "PUB1", bug.ReportRequest{Title: "x", Impact: 1, Urgency: 1})
	require.ErrorIs(t, err, membership.ErrNotAuthorized)
	f.bugs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBugService_Report_ScoreValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)

	for _, req := range []bug.ReportRequest{
		{Title: "x", Impact: 0, Urgency: 1},
		{Title: "x", Impact: 1, Urgency: 6},
		{Title: "", Impact: 1, Urgency: 1},
	} {
		_, err := f.svc.Report(ctx, "contributor", "PUB1", req)
		require.ErrorIs(t, err, bug.ErrInvalidInput)
	}
}

func TestBugService_Get_WrongProjectIsNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "spectator", membership.RoleSpectator)
	f.bugs.On("Get", ctx, "p1", "foreign-bug").Return(nil, repository.ErrNotFound)

	_, err := f.svc.Get(ctx, "spectator", "PUB1", "foreign-bug")
	require.ErrorIs(t, err, bug.ErrBugNotFound)
}

func TestBugService_Update_DirectorEditsAnyBug(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "director", membership.RoleDirector)
	f.bugs.On("Get", ctx, "p1", "b1").
		Return(&bug.Bug{ID: "b1", ProjectID: "p1", Title: "old", ReporterID: "someone", Impact: 2, Urgency: 2}, nil)
	f.bugs.On("Update", ctx, mock.Anything).Return(nil)
	f.activities.On("Log", ctx, mock.Anything).Return(nil)

	title := "new title"
	b, err := f.svc.Update(ctx, "director", "PUB1", "b1", bug.UpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "new title", b.Title)
	f.bugs.AssertNotCalled(t, "IsAssigned", mock.Anything, mock.Anything, mock.Anything)
}

func TestBugService_Update_ReporterOverride(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)
	f.bugs.On("Get", ctx, "p1", "b1").
		Return(&bug.Bug{ID: "b1", ProjectID: "p1", Title: "old", ReporterID: "contributor", Impact: 2, Urgency: 2}, nil)
	f.bugs.On("Update", ctx, mock.Anything).Return(nil)
	f.activities.On("Log", ctx, mock.Anything).Return(nil)

	title := "fixed repro steps"
	b, err := f.svc.Update(ctx, "contributor", "PUB1", "b1", bug.UpdateRequest{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "fixed repro steps", b.Title)
}

func TestBugService_Update_AssigneeOverride(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)
	f.bugs.On("Get", ctx, "p1", "b1").
		Return(&bug.Bug{ID: "b1", ProjectID: "p1", Title: "old", ReporterID: "someone", Impact: 2, Urgency: 2}, nil)
	f.bugs.On("IsAssigned", ctx, "b1", "m-contributor").Return(true, nil)
	f.bugs.On("Update", ctx, mock.Anything).Return(nil)
	f.activities.On("Log", ctx, mock.Anything).Return(nil)

	urgency := 5
	b, err := f.svc.Update(ctx, "contributor", "PUB1", "b1", bug.UpdateRequest{Urgency: &urgency})
	require.NoError(t, err)
	require.Equal(t, 5, b.Urgency)
}

func TestBugService_Update_UnrelatedContributorForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)
	f.bugs.On("Get", ctx, "p1", "b1").
		Return(&bug.Bug{ID: "b1", ProjectID: "p1", Title: "old", ReporterID: "someone", Impact: 2, Urgency: 2}, nil)
	f.bugs.On("IsAssigned", ctx, "b1", "m-contributor").Return(false, nil)

	title := "nope"
	_, err := f.svc.Update(ctx, "contributor", "PUB1", "b1", bug.UpdateRequest{Title: &title})
	require.ErrorIs(t, err, membership.ErrNotAuthorized)
	f.bugs.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBugService_Delete_RequiresAdministrator(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "director", membership.RoleDirector)

	err := f.svc.Delete(ctx, "director", "PUB1", "b1")
	require.ErrorIs(t, err, membership.ErrNotAuthorized)
}

func TestBugService_Delete_CleansBlobs(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "admin", membership.RoleAdministrator)
	f.bugs.On("Get", ctx, "p1", "b1").
		Return(&bug.Bug{ID: "b1", ProjectID: "p1", Index: 3, Title: "x"}, nil)
	f.attachments.On("ListIDsByBug", ctx, "b1").Return([]string{"a1"}, nil)
	f.bugs.On("Delete", ctx, "b1").Return(nil)
	f.blobs.On("Delete", ctx, "a1").Return(nil)
	f.activities.On("Log", ctx, mock.Anything).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, "admin", "PUB1", "b1"))
	f.blobs.AssertCalled(t, "Delete", ctx, "a1")
}

func TestBugService_Assign(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "director", membership.RoleDirector)
	f.bugs.On("Get", ctx, "p1", "b1").Return(&bug.Bug{ID: "b1", ProjectID: "p1"}, nil)
	f.memberships.On("Get", ctx, "worker", "p1").
		Return(&membership.Membership{ID: "m-worker", UserID: "worker", ProjectID: "p1", Role: membership.RoleContributor}, nil)
	f.bugs.On("CreateAssignment", ctx, mock.Anything).Return(nil)
	f.activities.On("Log", ctx, mock.Anything).Return(nil)

	a, err := f.svc.Assign(ctx, "director", "PUB1", "b1", "worker")
	require.NoError(t, err)
	require.Equal(t, "b1", a.BugID)
	require.Equal(t, "m-worker", a.MembershipID)
}

func TestBugService_Assign_TargetNotMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "director", membership.RoleDirector)
	f.bugs.On("Get", ctx, "p1", "b1").Return(&bug.Bug{ID: "b1", ProjectID: "p1"}, nil)
	f.memberships.On("Get", ctx, "outsider", "p1").Return(nil, repository.ErrNotFound)

	_, err := f.svc.Assign(ctx, "director", "PUB1", "b1", "outsider")
	require.ErrorIs(t, err, membership.ErrTargetNotMember)
}

func TestBugService_Assign_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "director", membership.RoleDirector)
	f.bugs.On("Get", ctx, "p1", "b1").Return(&bug.Bug{ID: "b1", ProjectID: "p1"}, nil)
	f.memberships.On("Get", ctx, "worker", "p1").
		Return(&membership.Membership{ID: "m-worker", UserID: "worker", ProjectID: "p1", Role: membership.RoleContributor}, nil)
	f.bugs.On("CreateAssignment", ctx, mock.Anything).Return(repository.ErrConflict)

	_, err := f.svc.Assign(ctx, "director", "PUB1", "b1", "worker")
	require.ErrorIs(t, err, bug.ErrAlreadyAssigned)
}

func TestBugService_Unassign_Missing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "director", membership.RoleDirector)
	f.bugs.On("Get", ctx, "p1", "b1").Return(&bug.Bug{ID: "b1", ProjectID: "p1"}, nil)
	f.memberships.On("Get", ctx, "worker", "p1").
		Return(&membership.Membership{ID: "m-worker", UserID: "worker", ProjectID: "p1", Role: membership.RoleContributor}, nil)
	f.bugs.On("DeleteAssignment", ctx, "b1", "m-worker").Return(repository.ErrNotFound)

	err := f.svc.Unassign(ctx, "director", "PUB1", "b1", "worker")
	require.ErrorIs(t, err, bug.ErrAssignmentNotFound)
}

func TestBugService_Assign_ContributorForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)

	_, err := f.svc.Assign(ctx, "contributor", "PUB1", "b1", "worker")
	require.ErrorIs(t, err, membership.ErrNotAuthorized)
}
