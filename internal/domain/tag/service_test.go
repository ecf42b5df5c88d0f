package tag_test

import (
	"context"
	"testing"

	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
	"github.com/bugpen/bugpen/internal/domain/tag"
	"github.com/bugpen/bugpen/internal/repository"
	"github.com/bugpen/bugpen/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tags        *mocks.TagRepository
	projects    *mocks.ProjectRepository
	memberships *mocks.MembershipRepository
	bugs        *mocks.BugRepository
	activities  *mocks.ActivityRepository
	svc         *tag.Service
}

func newFixture() *fixture {
	f := &fixture{
		tags:        &mocks.TagRepository{},
		projects:    &mocks.ProjectRepository{},
		memberships: &mocks.MembershipRepository{},
		bugs:        &mocks.BugRepository{},
		activities:  &mocks.ActivityRepository{},
	}
	f.svc = tag.NewService(f.tags, f.projects, f.memberships, f.bugs, f.activities, nil)
	return f
}

func (f *fixture) grant(ctx context.Context, userID string, role membership.Role) {
	f.projects.On("GetByPublicID", ctx, "PUB1").
		Return(&project.Project{ID: "p1", PublicID: "PUB1", Title: "Payments"}, nil)
	f.memberships.On("Get", ctx, userID, "p1").
		Return(&membership.Membership{ID: "m-" + userID, UserID: userID, ProjectID: "p1", Role: role}, nil)
}

func validCreate() tag.CreateRequest {
	return tag.CreateRequest{
		Title:           "regression",
		TextColor:       "#fff",
		BackgroundColor: "#c00",
		BorderColor:     "#900",
	}
}

func TestTagService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)
	f.tags.On("Create", ctx, mock.Anything).Return(nil)
	f.activities.On("Log", ctx, mock.Anything).Return(nil)

	created, err := f.svc.Create(ctx, "contributor", "PUB1", validCreate())
	require.NoError(t, err)
	require.Equal(t, "p1", created.ProjectID)
	require.Equal(t, "contributor", created.CreatorID)
}

func TestTagService_Create_SpectatorForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "spectator", membership.RoleSpectator)

	_, err := f.svc.Create(ctx, "spectator", "PUB1", validCreate())
	require.ErrorIs(t, err, membership.ErrNotAuthorized)
}

func TestTagService_Create_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)
	f.tags.On("Create", ctx, mock.Anything).Return(repository.ErrConflict)

	_, err := f.svc.Create(ctx, "contributor", "PUB1", validCreate())
	require.ErrorIs(t, err, tag.ErrDuplicateTag)
}

func TestTagService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)

	req := validCreate()
	req.Title = "  "
	_, err := f.svc.Create(ctx, "contributor", "PUB1", req)
	require.ErrorIs(t, err, tag.ErrInvalidInput)

	req = validCreate()
	req.BorderColor = ""
	_, err = f.svc.Create(ctx, "contributor", "PUB1", req)
	require.ErrorIs(t, err, tag.ErrInvalidInput)
}

func TestTagService_Delete_RequiresDirector(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)

	err := f.svc.Delete(ctx, "contributor", "PUB1", "t1")
	require.ErrorIs(t, err, membership.ErrNotAuthorized)
	f.tags.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTagService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "director", membership.RoleDirector)
	f.tags.On("Get", ctx, "p1", "t1").Return(&tag.Tag{ID: "t1", ProjectID: "p1", Title: "regression"}, nil)
	f.tags.On("Delete", ctx, "t1").Return(nil)
	f.activities.On("Log", ctx, mock.Anything).Return(nil)

	require.NoError(t, f.svc.Delete(ctx, "director", "PUB1", "t1"))
}

func TestTagService_Mark(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)
	f.bugs.On("Get", ctx, "p1", "b1").Return(&bug.Bug{ID: "b1", ProjectID: "p1"}, nil)
	f.tags.On("Get", ctx, "p1", "t1").Return(&tag.Tag{ID: "t1", ProjectID: "p1"}, nil)
	f.tags.On("CreateMark", ctx, mock.Anything).Return(nil)

	mk, err := f.svc.Mark(ctx, "contributor", "PUB1", "b1", "t1")
	require.NoError(t, err)
	require.Equal(t, "b1", mk.BugID)
	require.Equal(t, "t1", mk.TagID)
}

func TestTagService_Mark_TagFromAnotherProject(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)
	f.bugs.On("Get", ctx, "p1", "b1").Return(&bug.Bug{ID: "b1", ProjectID: "p1"}, nil)
	f.tags.On("Get", ctx, "p1", "foreign-tag").Return(nil, repository.ErrNotFound)

	_, err := f.svc.Mark(ctx, "contributor", "PUB1", "b1", "foreign-tag")
	require.ErrorIs(t, err, tag.ErrTagNotFound)
}

func TestTagService_Mark_Duplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)
	f.bugs.On("Get", ctx, "p1", "b1").Return(&bug.Bug{ID: "b1", ProjectID: "p1"}, nil)
	f.tags.On("Get", ctx, "p1", "t1").Return(&tag.Tag{ID: "t1", ProjectID: "p1"}, nil)
	f.tags.On("CreateMark", ctx, mock.Anything).Return(repository.ErrConflict)

	_, err := f.svc.Mark(ctx, "contributor", "PUB1", "b1", "t1")
	require.ErrorIs(t, err, tag.ErrAlreadyMarked)
}

func TestTagService_Unmark_Missing(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "contributor", membership.RoleContributor)
	f.bugs.On("Get", ctx, "p1", "b1").Return(&bug.Bug{ID: "b1", ProjectID: "p1"}, nil)
	f.tags.On("Get", ctx, "p1", "t1").Return(&tag.Tag{ID: "t1", ProjectID: "p1"}, nil)
	f.tags.On("DeleteMark", ctx, "b1", "t1").Return(repository.ErrNotFound)

	err := f.svc.Unmark(ctx, "contributor", "PUB1", "b1", "t1")
	require.ErrorIs(t, err, tag.ErrMarkNotFound)
}

func TestTagService_Mark_SpectatorForbidden(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.grant(ctx, "spectator", membership.RoleSpectator)

	_, err := f.svc.Mark(ctx, "spectator", "PUB1", "b1", "t1")
	require.ErrorIs(t, err, membership.ErrNotAuthorized)
}
