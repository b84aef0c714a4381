package submissions

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/JaimeStill/landmark/internal/roles"
)

// Domain errors for submission operations.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("submission not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrExternalService   = errors.New("external service failure")
	ErrPermissionDenied  = roles.ErrPermissionDenied
)

// ValidationError lists field-level problems with a submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FieldErrors exposes the problems for JSON error responses.
func (e *ValidationError) FieldErrors() map[string]string {
	return e.Fields
}

func invalid(field, problem string) error {
	return &ValidationError{Fields: map[string]string{field: problem}}
}

// MapHTTPStatus maps submission domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrExternalService):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
