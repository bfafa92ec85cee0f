package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotAuthenticated is returned by operations that require a session when
// no access token is stored.
var ErrNotAuthenticated = errors.New("not authenticated")

// AppError is an error reported by the backend: a status code plus the
// message body, surfaced verbatim to the caller.
type AppError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func NewAppError(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// IsAuthError reports whether err is a 401/403 from the backend.
func IsAuthError(err error) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status == http.StatusUnauthorized || ae.Status == http.StatusForbidden
	}
	return false
}

// IsValidationError reports whether err is a 4xx other than an auth failure,
// i.e. a structured rejection the user should see in the originating form.
func IsValidationError(err error) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status >= 400 && ae.Status < 500 &&
			ae.Status != http.StatusUnauthorized && ae.Status != http.StatusForbidden
	}
	return false
}

// IsServerError reports whether err is a 5xx.
func IsServerError(err error) bool {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status >= 500
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 0 for connectivity and
// local errors that never reached the server.
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}
