package transport

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bugpen/bugpen/internal/domain/attachment"
)

// maxUploadBytes caps a single attachment upload.
const maxUploadBytes = 32 << 20

func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	a, err := s.svc.Attachments.Upload(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"), attachment.UploadRequest{
		Title:       title,
		ContentType: contentType,
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleListAttachments(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	attachments, err := s.svc.Attachments.List(r.Context(), u.ID, chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, attachments)
}

func (s *Server) handleDownloadAttachment(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	a, content, err := s.svc.Attachments.Download(r.Context(), u.ID,
		chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"), chi.URLParam(r, "attachmentID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Title}))
	if a.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", a.Size))
	}
	if _, err := io.Copy(w, content); err != nil && s.logger != nil {
		s.logger.Warn("attachment download interrupted", "attachment_id", a.ID, "error", err)
	}
}

func (s *Server) handleDeleteAttachment(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	err := s.svc.Attachments.Delete(r.Context(), u.ID,
		chi.URLParam(r, "projectID"), chi.URLParam(r, "bugID"), chi.URLParam(r, "attachmentID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
