// Package mocks provides testify mocks for the persistence contracts.
// Each mock implements the widest repository surface for its entity, so
// it also satisfies the narrower consumer-side interfaces the domain
// packages declare.
package mocks

import (
	"context"
	"io"

	"github.com/bugpen/bugpen/internal/domain/activity"
	"github.com/bugpen/bugpen/internal/domain/attachment"
	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
	"github.com/bugpen/bugpen/internal/domain/tag"
	"github.com/bugpen/bugpen/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

// UserRepository is a mock for user.Repository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetBySubject(ctx context.Context, subject string) (*user.User, error) {
	args := m.Called(ctx, subject)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByPublicID(ctx context.Context, publicID string) (*user.User, error) {
	args := m.Called(ctx, publicID)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Search(ctx context.Context, words []string, limit int) ([]user.Profile, error) {
	args := m.Called(ctx, words, limit)
	if list, ok := args.Get(0).([]user.Profile); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) CountMemberships(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project, creator *membership.Membership) error {
	args := m.Called(ctx, proj, creator)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) GetByPublicID(ctx context.Context, publicID string) (*project.Project, error) {
	args := m.Called(ctx, publicID)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) ListByUser(ctx context.Context, userID string) ([]project.Summary, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]project.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// MembershipRepository is a mock for membership.Repository.
type MembershipRepository struct {
	mock.Mock
}

func (m *MembershipRepository) Create(ctx context.Context, mb *membership.Membership) error {
	args := m.Called(ctx, mb)
	return args.Error(0)
}

func (m *MembershipRepository) Get(ctx context.Context, userID, projectID string) (*membership.Membership, error) {
	args := m.Called(ctx, userID, projectID)
	if mb, ok := args.Get(0).(*membership.Membership); ok {
		return mb, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MembershipRepository) GetByID(ctx context.Context, id string) (*membership.Membership, error) {
	args := m.Called(ctx, id)
	if mb, ok := args.Get(0).(*membership.Membership); ok {
		return mb, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MembershipRepository) ListByProject(ctx context.Context, projectID string) ([]membership.Member, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]membership.Member); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MembershipRepository) UpdateRole(ctx context.Context, id string, role membership.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MembershipRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MembershipRepository) CountByRole(ctx context.Context, projectID string, role membership.Role) (int, error) {
	args := m.Called(ctx, projectID, role)
	return args.Int(0), args.Error(1)
}

func (m *MembershipRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// BugRepository is a mock for bug.Repository.
type BugRepository struct {
	mock.Mock
}

func (m *BugRepository) Create(ctx context.Context, b *bug.Bug) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BugRepository) Get(ctx context.Context, projectID, id string) (*bug.Bug, error) {
	args := m.Called(ctx, projectID, id)
	if b, ok := args.Get(0).(*bug.Bug); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BugRepository) ListByProject(ctx context.Context, projectID string) ([]bug.Bug, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]bug.Bug); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BugRepository) Update(ctx context.Context, b *bug.Bug) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BugRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BugRepository) CreateAssignment(ctx context.Context, a *bug.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *BugRepository) DeleteAssignment(ctx context.Context, bugID, membershipID string) error {
	args := m.Called(ctx, bugID, membershipID)
	return args.Error(0)
}

func (m *BugRepository) ListAssignees(ctx context.Context, bugID string) ([]bug.Assignee, error) {
	args := m.Called(ctx, bugID)
	if list, ok := args.Get(0).([]bug.Assignee); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BugRepository) IsAssigned(ctx context.Context, bugID, membershipID string) (bool, error) {
	args := m.Called(ctx, bugID, membershipID)
	return args.Bool(0), args.Error(1)
}

// TagRepository is a mock for tag.Repository.
type TagRepository struct {
	mock.Mock
}

func (m *TagRepository) Create(ctx context.Context, t *tag.Tag) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TagRepository) Get(ctx context.Context, projectID, id string) (*tag.Tag, error) {
	args := m.Called(ctx, projectID, id)
	if t, ok := args.Get(0).(*tag.Tag); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TagRepository) ListByProject(ctx context.Context, projectID string) ([]tag.Tag, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]tag.Tag); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TagRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TagRepository) CreateMark(ctx context.Context, mk *tag.Mark) error {
	args := m.Called(ctx, mk)
	return args.Error(0)
}

func (m *TagRepository) DeleteMark(ctx context.Context, bugID, tagID string) error {
	args := m.Called(ctx, bugID, tagID)
	return args.Error(0)
}

func (m *TagRepository) ListMarksByBug(ctx context.Context, bugID string) ([]tag.Tag, error) {
	args := m.Called(ctx, bugID)
	if list, ok := args.Get(0).([]tag.Tag); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// AttachmentRepository is a mock for attachment.Repository.
type AttachmentRepository struct {
	mock.Mock
}

func (m *AttachmentRepository) Create(ctx context.Context, a *attachment.Attachment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AttachmentRepository) Get(ctx context.Context, bugID, id string) (*attachment.Attachment, error) {
	args := m.Called(ctx, bugID, id)
	if a, ok := args.Get(0).(*attachment.Attachment); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttachmentRepository) ListByBug(ctx context.Context, bugID string) ([]attachment.Attachment, error) {
	args := m.Called(ctx, bugID)
	if list, ok := args.Get(0).([]attachment.Attachment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttachmentRepository) ListIDsByBug(ctx context.Context, bugID string) ([]string, error) {
	args := m.Called(ctx, bugID)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttachmentRepository) ListIDsByProject(ctx context.Context, projectID string) ([]string, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]string); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *AttachmentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// BlobStore is a mock for the blob store.
type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) Put(ctx context.Context, key string, content io.Reader) error {
	args := m.Called(ctx, key, content)
	return args.Error(0)
}

func (m *BlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BlobStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
