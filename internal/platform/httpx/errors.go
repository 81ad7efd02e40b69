// Package httpx provides HTTP response utilities following RFC7807 problem details.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors forming the service-wide error taxonomy. Repositories and
// services wrap these so that transport code can map any error chain to a
// status code without knowing which layer produced it.
var (
	// ErrValidation marks malformed or missing request input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized marks a missing or invalid caller identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks a known identity with insufficient rights.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks a uniqueness invariant violated on create.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks a referenced entity absent on a by-id operation.
	ErrNotFound = errors.New("not found")
)

// RespondError maps a domain error to an RFC7807 response.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
