// Package errs defines the typed HTTP errors returned by handlers and
// middleware. The global error handler turns them into JSON responses;
// anything that is not an *HTTPError is reported as a 500.
package errs

import "net/http"

// FieldError describes a single invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is an error with the status code and message to send back.
type HTTPError struct {
	Status  int          `json:"-"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Validation is returned for malformed input such as a missing upload.
func Validation(message string, fields ...FieldError) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: message, Errors: fields}
}

// Unauthorized is returned when the caller's credential is missing or
// invalid.
func Unauthorized(message string) *HTTPError {
	return &HTTPError{Status: http.StatusUnauthorized, Message: message}
}

// NotFound is returned when the addressed record does not exist.
func NotFound(message string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: message}
}

// Conflict is returned when a unique constraint would be violated.
func Conflict(message string) *HTTPError {
	return &HTTPError{Status: http.StatusConflict, Message: message}
}

// Internal hides the underlying cause behind a generic message.
func Internal() *HTTPError {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: http.StatusText(http.StatusInternalServerError),
	}
}
