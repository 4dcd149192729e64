// Package service contains the entity services and the auth manager:
// input validation, CRUD orchestration and derived aggregates for the
// three dashboard domains.  Services own the business rules; all SQL
// lives one layer down in repository.
package service

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned for both an unknown username and a
// wrong password.  The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError reports a rejected field on create or update.  It is
// recoverable: handlers surface it as HTTP 400 so the caller can
// re-prompt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// invalid builds a ValidationError for a field.
func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
