package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrConnection marks transport-level failures: the request never produced
// an HTTP response. Session state must not be cleared on these.
var ErrConnection = errors.New("connection error")

// ErrUnauthenticated matches 401 responses: the credential was missing,
// expired, or revoked. Consumers are expected to clear the session on it.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden matches 403 responses: authenticated but not allowed.
var ErrForbidden = errors.New("forbidden")

// Credential discriminators returned by the login endpoint. They key the
// error message to the form field that caused the rejection.
const (
	CodeEmailNotFound   = "EMAIL_NOT_FOUND"
	CodeInvalidPassword = "INVALID_PASSWORD"
)

// Error is a non-2xx response from the remote API.
type Error struct {
	Status  int    // HTTP status
	Code    string // business discriminator, when the API sent one
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Is maps HTTP statuses onto the package sentinels so callers can branch
// with errors.Is without inspecting status codes.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthenticated:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	}
	return false
}
