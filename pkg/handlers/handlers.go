// Package handlers provides JSON response helpers shared by domain HTTP handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// FieldErrors is implemented by errors that carry per-field validation messages.
type FieldErrors interface {
	FieldErrors() map[string]string
}

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes an ErrorResponse with the given status code.
// Server errors are logged with their cause and returned with a generic message.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	body := ErrorResponse{Error: err.Error()}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
		if status == http.StatusInternalServerError {
			body.Error = "internal error, try again"
		}
	}

	var fe FieldErrors
	if errors.As(err, &fe) {
		body.Fields = fe.FieldErrors()
	}

	RespondJSON(w, status, body)
}

// DecodeJSON decodes the request body into T, rejecting unknown fields.
func DecodeJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(&v)
	return v, err
}
