// Package apperr defines the error taxonomy shared by repositories,
// the asset manager and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidID marks identifiers that do not match the store's
	// primary-key encoding. Rejected before any store access.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrNotFound marks lookups by primary key that matched no record.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a violated uniqueness rule (duplicate email).
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials is deliberately uninformative: the same error
	// covers unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAssetDeletion marks a failed asset-store destroy that must block
	// the record mutation it preceded.
	ErrAssetDeletion = errors.New("asset deletion failed")
)

// ValidationError reports a malformed or missing input field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
