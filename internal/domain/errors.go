package domain

import (
	"errors"
	"fmt"
)

// ReferenceNotFoundError signals an identifier that does not resolve in
// the reference catalog. It is fatal to the calling request and must
// never be swallowed into a default value: a silently defaulted carbon
// factor or price would corrupt every figure computed downstream.
type ReferenceNotFoundError struct {
	Kind string // "geography", "persona", "device_class", ...
	Key  string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("reference not found: %s %q", e.Kind, e.Key)
}

// NewReferenceNotFound creates a reference lookup failure
func NewReferenceNotFound(kind, key string) error {
	return &ReferenceNotFoundError{Kind: kind, Key: key}
}

// IsReferenceNotFound reports whether err is a reference lookup failure
func IsReferenceNotFound(err error) bool {
	var rnf *ReferenceNotFoundError
	return errors.As(err, &rnf)
}

// ValidationError signals malformed caller input. It surfaces before any
// calculation proceeds; no partial computation is performed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates an input validation failure
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is an input validation failure
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
