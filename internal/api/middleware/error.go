// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// Error codes carried in the error envelope.
const (
	ErrValidation   = "VALIDATION_ERROR"
	ErrNotFound     = "NOT_FOUND"
	ErrInternal     = "INTERNAL_ERROR"
	ErrUpload       = "UPLOAD_ERROR"
	ErrNoFile       = "NO_FILE"
	ErrExport       = "EXPORT_ERROR"
	ErrUnauthorized = "UNAUTHORIZED"
)

// ErrorBody is the inner object of an error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse is the envelope shared by every non-2xx JSON response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// FieldError describes one failed field in a VALIDATION_ERROR response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope with the given status code.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// WriteErrorWithDetails writes the error envelope with additional details.
func WriteErrorWithDetails(w http.ResponseWriter, status int, code, message string, details any) {
	WriteJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

// WriteValidationError writes a 400 VALIDATION_ERROR with field details.
func WriteValidationError(w http.ResponseWriter, message string, details []FieldError) {
	if len(details) == 0 {
		WriteError(w, http.StatusBadRequest, ErrValidation, message)
		return
	}
	WriteErrorWithDetails(w, http.StatusBadRequest, ErrValidation, message, details)
}

// WriteInternalError logs err and writes an opaque 500.
func WriteInternalError(w http.ResponseWriter, log logrus.FieldLogger, message string, err error) {
	log.WithError(err).Error(message)
	WriteError(w, http.StatusInternalServerError, ErrInternal, message)
}

// ErrorRecovery returns middleware that recovers from panics and returns a 500 error.
func ErrorRecovery(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(logrus.Fields{
						"method": r.Method,
						"path":   r.URL.Path,
						"panic":  err,
					}).Errorf("Panic recovered\n%s", debug.Stack())
					WriteError(w, http.StatusInternalServerError, ErrInternal, "An unexpected error occurred")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
