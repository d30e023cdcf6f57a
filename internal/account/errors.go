package account

import (
	"errors"
	"fmt"
)

// Kind classifies provisioning failures for the endpoint's error mapping.
type Kind int

const (
	// KindInternal covers unexpected storage or lookup failures.
	KindInternal Kind = iota
	// KindValidation means a required request field is missing or malformed.
	KindValidation
	// KindConflict means the compare-and-insert race was lost twice: the
	// initial insert and the post-retry insert both hit a uniqueness
	// constraint.
	KindConflict
	// KindDependency means the user row exists but a follow-up step (group
	// membership, default entries, home directory) failed. The account is in
	// a partial state that a later login can finish.
	KindDependency
)

type Error struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		return fmt.Sprintf("missing required field: %s", e.Field)
	case KindConflict:
		return fmt.Sprintf("conflict while provisioning account: %v", e.Err)
	case KindDependency:
		return fmt.Sprintf("account initialization incomplete: %v", e.Err)
	default:
		return fmt.Sprintf("account provisioning failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the error kind, defaulting to KindInternal for errors that
// did not originate in this package.
func KindOf(err error) Kind {
	var accErr *Error
	if errors.As(err, &accErr) {
		return accErr.Kind
	}
	return KindInternal
}

// FieldOf returns the offending field name for validation errors.
func FieldOf(err error) string {
	var accErr *Error
	if errors.As(err, &accErr) {
		return accErr.Field
	}
	return ""
}

func validationError(field string) *Error {
	return &Error{Kind: KindValidation, Field: field}
}

func conflictError(err error) *Error {
	return &Error{Kind: KindConflict, Err: err}
}

func dependencyError(err error) *Error {
	return &Error{Kind: KindDependency, Err: err}
}

func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}
