package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bugpen/bugpen/internal/domain/attachment"
	"github.com/bugpen/bugpen/internal/domain/bug"
	"github.com/bugpen/bugpen/internal/domain/membership"
	"github.com/bugpen/bugpen/internal/domain/project"
	"github.com/bugpen/bugpen/internal/domain/tag"
	"github.com/bugpen/bugpen/internal/domain/user"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeDomainError maps domain sentinel errors to HTTP statuses.
// Membership absence maps to 404: non-members must not learn whether a
// project exists.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, membership.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "operation not permitted")
	case errors.Is(err, membership.ErrNotMember),
		errors.Is(err, membership.ErrTargetNotMember),
		errors.Is(err, membership.ErrUserNotFound),
		errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, bug.ErrBugNotFound),
		errors.Is(err, bug.ErrAssignmentNotFound),
		errors.Is(err, tag.ErrTagNotFound),
		errors.Is(err, tag.ErrMarkNotFound),
		errors.Is(err, attachment.ErrAttachmentNotFound),
		errors.Is(err, user.ErrUserNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, membership.ErrAlreadyMember),
		errors.Is(err, membership.ErrLastAdministrator),
		errors.Is(err, bug.ErrAlreadyAssigned),
		errors.Is(err, tag.ErrDuplicateTag),
		errors.Is(err, tag.ErrAlreadyMarked),
		errors.Is(err, project.ErrIDExhausted),
		errors.Is(err, user.ErrIDExhausted):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, membership.ErrInvalidRole),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, bug.ErrInvalidInput),
		errors.Is(err, tag.ErrInvalidInput),
		errors.Is(err, attachment.ErrInvalidInput),
		errors.Is(err, user.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
