// Package transport exposes the HTTP API. Handlers translate requests
// into service calls and domain errors into statuses; no authorization
// decisions are made here.
package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bugpen/bugpen/internal/domain/activity"
	"github.com/bugpen/bugpen/internal/domain/attachment"
	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
	"github.com/bugpen/bugpen/internal/domain/tag"
	"github.com/bugpen/bugpen/internal/domain/user"
)

// Services groups the domain services the HTTP layer dispatches to.
type Services struct {
	Users       *user.Service
	Projects    *project.Service
	Memberships *membership.Service
	Bugs        *bug.Service
	Tags        *tag.Service
	Attachments *attachment.Service
	Activities  *activity.Service
}

// Server wires HTTP handlers over the domain services.
type Server struct {
	svc    Services
	logger *slog.Logger
}

// NewServer creates the router with middleware and all API routes.
func NewServer(svc Services, authMiddleware func(http.Handler) http.Handler, metrics *Metrics, logger *slog.Logger) *chi.Mux {
	srv := &Server{svc: svc, logger: logger}

	r := chi.NewRouter()
	if metrics != nil {
		r.Use(metrics.Middleware)
	}

	r.Get("/healthz", srv.handleHealth)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}

		r.Get("/me", srv.handleMe)
		r.Patch("/me", srv.handleUpdateMe)
		r.Get("/profiles/search", srv.handleSearchProfiles)
		r.Get("/profiles/{userID}", srv.handleGetProfile)
		r.Get("/stats/memberships-count", srv.handleMembershipsCount)

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", srv.handleCreateProject)
			r.Get("/", srv.handleListProjects)

			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", srv.handleGetProject)
				r.Patch("/", srv.handleUpdateProject)
				r.Delete("/", srv.handleDeleteProject)

				r.Get("/activity", srv.handleProjectActivity)

				r.Route("/members", func(r chi.Router) {
					r.Get("/", srv.handleListMembers)
					r.Post("/", srv.handleAddMember)
					r.Delete("/{userID}", srv.handleRemoveMember)
					r.Put("/{userID}/role", srv.handleChangeRole)
				})

				r.Route("/tags", func(r chi.Router) {
					r.Get("/", srv.handleListTags)
					r.Post("/", srv.handleCreateTag)
					r.Delete("/{tagID}", srv.handleDeleteTag)
				})

				r.Route("/bugs", func(r chi.Router) {
					r.Get("/", srv.handleListBugs)
					r.Post("/", srv.handleReportBug)

					r.Route("/{bugID}", func(r chi.Router) {
						r.Get("/", srv.handleGetBug)
						r.Patch("/", srv.handleUpdateBug)
						r.Delete("/", srv.handleDeleteBug)

						r.Get("/assignees", srv.handleListAssignees)
						r.Post("/assignees", srv.handleAssignBug)
						r.Delete("/assignees/{userID}", srv.handleUnassignBug)

						r.Get("/tags", srv.handleBugTags)
						r.Put("/tags/{tagID}", srv.handleMarkBug)
						r.Delete("/tags/{tagID}", srv.handleUnmarkBug)

						r.Get("/attachments", srv.handleListAttachments)
						r.Post("/attachments", srv.handleUploadAttachment)
						r.Get("/attachments/{attachmentID}", srv.handleDownloadAttachment)
						r.Delete("/attachments/{attachmentID}", srv.handleDeleteAttachment)
					})
				})
			})
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// principal returns the authenticated user, failing the request when
// the auth middleware did not run.
func (s *Server) principal(w http.ResponseWriter, r *http.Request) (*user.User, bool) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	return u, true
}

// resolveUser maps a public user id from the URL to the internal user.
func (s *Server) resolveUser(w http.ResponseWriter, r *http.Request, publicID string) (*user.User, bool) {
	u, err := s.svc.Users.GetByPublicID(r.Context(), publicID)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	return u, true
}
