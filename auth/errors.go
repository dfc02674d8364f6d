package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned by operations that need a session
	// when none exists.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrLoginIncomplete is returned when the remote API accepted the
	// credentials but the response lacked a usable token.
	ErrLoginIncomplete = errors.New("login response missing token")
)

// Form fields a credential rejection can be keyed to.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// CredentialError is a login rejection tied to a specific form field, built
// from the API's discriminator code. Field is empty when the API did not
// say which input was wrong.
type CredentialError struct {
	Field   string
	Code    string
	Message string
}

func (e *CredentialError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("credentials rejected: %s", e.Message)
	}
	return fmt.Sprintf("credentials rejected (%s): %s", e.Field, e.Message)
}
