package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bugpen/bugpen/internal/domain/bug"
)

func (s *Server) handleReportBug(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Reproducible bool   `json:"reproducible"`
		Impact       int    `json:"impact"`
		Urgency      int    `json:"urgency"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := s.svc.Bugs.Report(r.Context(), u.ID, chi.URLParam(r, "projectID"), bug.ReportRequest{
		Title:        body.Title,
		Description:  body.Description,
		Reproducible: body.Reproducible,
		Impact:       body.Impact,
		Urgency:      body.Urgency,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleListBugs(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	bugs, err := s.svc.Bugs.List(r.Context(), u.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bugs)
}

func (s *Server) handleGetBug(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	b, err := s.svc.Bugs.Get(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleUpdateBug(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body struct {
		Title        *string `json:"title"`
		Description  *string `json:"description"`
		Reproducible *bool   `json:"reproducible"`
		Impact       *int    `json:"impact"`
		Urgency      *int    `json:"urgency"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := s.svc.Bugs.Update(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"), bug.UpdateRequest{
		Title:        body.Title,
		Description:  body.Description,
		Reproducible: body.Reproducible,
		Impact:       body.Impact,
		Urgency:      body.Urgency,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBug(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	if err := s.svc.Bugs.Delete(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListAssignees(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	assignees, err := s.svc.Bugs.Assignees(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignees)
}

func (s *Server) handleAssignBug(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &body); err != nil || body.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	target, ok := s.resolveUser(w, r, body.UserID)
	if !ok {
		return
	}

	a, err := s.svc.Bugs.Assign(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"), target.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUnassignBug(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}
	target, ok := s.resolveUser(w, r, chi.URLParam(r, "userID"))
	if !ok {
		return
	}

	if err := s.svc.Bugs.Unassign(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"), target.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
