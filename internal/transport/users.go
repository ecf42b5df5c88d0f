package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bugpen/bugpen/internal/domain/user"
)

// meResponse is the caller's own profile; the internal id and subject
// never leave the server.
type meResponse struct {
	PublicID string `json:"public_id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Locale   string `json:"locale,omitempty"`
	Picture  string `json:"picture,omitempty"`
}

func toMeResponse(u *user.User) meResponse {
	return meResponse{
		PublicID: u.PublicID,
		Name:     u.Name,
		Email:    u.Email,
		Locale:   u.Locale,
		Picture:  u.Picture,
	}
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toMeResponse(u))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	u, ok := s.principal(w, r)
	if !ok {
		return
	}

	var body struct {
		Name    *string `json:"name"`
		Locale  *string `json:"locale"`
		Picture *string `json:"picture"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.svc.Users.Update(r.Context(), u.ID, user.UpdateRequest{
		Name:    body.Name,
		Locale:  body.Locale,
		Picture: body.Picture,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMeResponse(updated))
}

func (s *Server) handleSearchProfiles(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	profiles, err := s.svc.Users.Search(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profiles)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	profile, err := s.svc.Users.Profile(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleMembershipsCount(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.principal(w, r); !ok {
		return
	}

	n, err := s.svc.Memberships.Count(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"memberships_count": n})
}
