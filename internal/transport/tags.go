package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bugpen/bugpen/internal/domain/tag"
)

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body struct {
		Title           string `json:"title"`
		TextColor       string `json:"text_color"`
		BackgroundColor string `json:"background_color"`
		BorderColor     string `json:"border_color"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := s.svc.Tags.Create(r.Context(), u.ID, chi.URLParam(r, "projectID"), tag.CreateRequest{
		Title:           body.Title,
		TextColor:       body.TextColor,
		BackgroundColor: body.BackgroundColor,
		BorderColor:     body.BorderColor,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	tags, err := s.svc.Tags.List(r.Context(), u.ID, chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	if err := s.svc.Tags.Delete(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "tagID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBugTags(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	tags, err := s.svc.Tags.BugTags(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleMarkBug(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	m, err := s.svc.Tags.Mark(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"), chi.URLParam(r, "tagID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUnmarkBug(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	if err := s.svc.Tags.Unmark(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"), chi.URLParam(r, "tagID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
