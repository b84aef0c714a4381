package accounts

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/landmark/internal/roles"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrDuplicate  = errors.New("account email already registered")
	ErrNoIdentity = errors.New("no authenticated identity")
)

// MapHTTPStatus maps account domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNoIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, roles.ErrPermissionDenied):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
