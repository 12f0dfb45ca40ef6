package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authkit/authkit/internal/application/auth"
	"github.com/authkit/authkit/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// UserEnvelope wraps login and register responses.
type UserEnvelope struct {
	User     *auth.AuthUser `json:"user,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes. Unrecognized
// errors become a generic 500 so no internal detail leaks.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, domain.ErrDuplicateEmail.Error())
	case errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, domain.ErrInvalidToken.Error())
	case errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusGone, domain.ErrTokenExpired.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
