package apierror

import (
	"fmt"
	"net/http"
)

// APIError is the error type every layer returns for failures that have a
// well-defined client-facing shape. Anything else surfaces as a generic 500.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}

// Unauthenticated covers missing/invalid/expired tokens and unresolvable
// identities. Always 401, never carries verification detail.
func Unauthenticated(message string) *APIError {
	return New("UNAUTHENTICATED", message, "", http.StatusUnauthorized)
}

// Forbidden covers account-state, role and ownership policy rejections.
func Forbidden(message string) *APIError {
	return New("FORBIDDEN", message, "", http.StatusForbidden)
}

func NotFound(message string) *APIError {
	return New("NOT_FOUND", message, "", http.StatusNotFound)
}

func BadRequest(message string) *APIError {
	return New("BAD_REQUEST", message, "", http.StatusBadRequest)
}

func Conflict(message string) *APIError {
	return New("CONFLICT", message, "", http.StatusConflict)
}

// Internal wraps unexpected failures with a non-leaking client message. The
// underlying detail stays in Details for server-side logging only.
func Internal(detail string) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "Internal server error. Please try again.",
		Details:    detail,
		HTTPStatus: http.StatusInternalServerError,
	}
}
