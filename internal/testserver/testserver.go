// Package testserver wires the full stack over an in-memory database
// for functional tests.
package testserver

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugpen/bugpen/internal/blob"
	"github.com/bugpen/bugpen/internal/domain/activity"
	"github.com/bugpen/bugpen/internal/domain/attachment"
	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
	"github.com/bugpen/bugpen/internal/domain/tag"
	"github.com/bugpen/bugpen/internal/domain/user"
	"github.com/bugpen/bugpen/internal/identity"
	"github.com/bugpen/bugpen/internal/sqlite"
	"github.com/bugpen/bugpen/internal/transport"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
}

// New starts a server backed by an in-memory database and a temp-dir
// blob store. Each token in the table authenticates as the claims it
// maps to.
func New(t *testing.T, tokens map[string]identity.Claims) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	blobs, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	userRepo := sqlite.NewUserRepository(db)
	projectRepo := sqlite.NewProjectRepository(db)
	membershipRepo := sqlite.NewMembershipRepository(db)
	bugRepo := sqlite.NewBugRepository(db)
	tagRepo := sqlite.NewTagRepository(db)
	attachmentRepo := sqlite.NewAttachmentRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	svc := transport.Services{
		Users:       user.NewService(userRepo, nil),
		Projects:    project.NewService(projectRepo, membershipRepo, attachmentRepo, blobs, nil),
		Memberships: membership.NewService(membershipRepo, activityRepo, nil),
		Bugs:        bug.NewService(bugRepo, projectRepo, membershipRepo, attachmentRepo, blobs, activityRepo, nil),
		Tags:        tag.NewService(tagRepo, projectRepo, membershipRepo, bugRepo, activityRepo, nil),
		Attachments: attachment.NewService(attachmentRepo, projectRepo, membershipRepo, bugRepo, blobs, activityRepo, nil),
		Activities:  activity.NewService(activityRepo, nil),
	}

	verifier := identity.NewStaticVerifier(tokens)
	server := httptest.NewServer(transport.NewServer(svc, transport.AuthMiddleware(verifier, svc.Users), nil, nil))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{Server: server, DB: db}
}
