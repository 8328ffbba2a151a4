package domain

import (
	"errors"
	"fmt"
)

var ErrEmailTaken = errors.New("email already in use")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrOwnerNotFound = errors.New("owner does not exist")
var ErrProjectNotFound = errors.New("project not found")
var ErrAlreadyMember = errors.New("user is already a member of this project")
var ErrForbidden = errors.New("access forbidden")

// ValidationError reports a malformed input with the field it belongs to.
// It is always recoverable and maps to a 4xx response at the transport layer.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
