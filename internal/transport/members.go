package transport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bugpen/bugpen/internal/domain/membership"
)

const timeLayout = time.RFC3339

type memberResponse struct {
	UserID  string          `json:"user_id"`
	Name    string          `json:"name"`
	Picture string          `json:"picture,omitempty"`
	Role    membership.Role `json:"role"`
	Since   string          `json:"since"`
}

func toMemberResponse(m membership.Member) memberResponse {
	return memberResponse{
		UserID:  m.UserPublicID,
		Name:    m.Name,
		Picture: m.Picture,
		Role:    m.Role,
		Since:   m.CreatedAt.Format(timeLayout),
	}
}

func toMemberResponses(members []membership.Member) []memberResponse {
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	return out
}

// projectInternalID resolves the URL's project id to the internal id,
// verifying the requester's membership along the way.
func (s *Server) projectInternalID(w http.ResponseWriter, r *http.Request, requesterID string) (string, bool) {
	p, _, err := s.svc.Projects.Get(r.Context(), requesterID, chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(w, err)
		return "", false
	}
	return p.ID, true
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}
	projectID, ok := s.projectInternalID(w, r, u.ID)
	if !ok {
		return
	}

	members, err := s.svc.Memberships.ListMembers(r.Context(), u.ID, projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberResponses(members))
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}
	projectID, ok := s.projectInternalID(w, r, u.ID)
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

	m, err := s.svc.Memberships.Add(r.Context(), u.ID, projectID, target.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, memberResponse{
		UserID: target.PublicID,
		Name:   target.Name,
		Role:   m.Role,
		Since:  m.CreatedAt.Format(timeLayout),
	})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}
	projectID, ok := s.projectInternalID(w, r, u.ID)
	if !ok {
		return
	}
	target, ok := s.resolveUser(w, r, chi.URLParam(r, "userID"))
	if !ok {
		return
	}

	if err := s.svc.Memberships.Remove(r.Context(), u.ID, projectID, target.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}
	projectID, ok := s.projectInternalID(w, r, u.ID)
	if !ok {
		return
	}
	target, ok := s.resolveUser(w, r, chi.URLParam(r, "userID"))
	if !ok {
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role, valid := membership.ParseRole(body.Role)
	if !valid {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}

	m, err := s.svc.Memberships.ChangeRole(r.Context(), u.ID, projectID, target.ID, role)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, memberResponse{
		UserID: target.PublicID,
		Name:   target.Name,
		Role:   m.Role,
		Since:  m.CreatedAt.Format(timeLayout),
	})
}
