// Package apperr defines the failure taxonomy returned by every service call.
//
// A failure is always one of a small set of kinds. Callers branch on the kind
// with errors.Is and never see raw storage errors.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrInternal   = errors.New("internal error")
)

// Error is a tagged failure. Kind is one of the sentinel errors above.
type Error struct {
	Kind   error
	Entity string // "project", "task", ...; empty for Forbidden
	Key    string // id, name or field that triggered the failure
	Reason string

	// Cause is the underlying fault of an Internal failure. It is kept for
	// logging and is not part of Error().
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case ErrNotFound:
		return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
	case ErrForbidden:
		if e.Reason == "" {
			return e.Kind.Error()
		}
		return fmt.Sprintf("forbidden: %s", e.Reason)
	case ErrConflict:
		if e.Reason != "" {
			return fmt.Sprintf("conflict: %s", e.Reason)
		}
		return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
	case ErrValidation:
		if e.Key == "" {
			return fmt.Sprintf("validation failed: %s", e.Reason)
		}
		return fmt.Sprintf("validation failed: %s: %s", e.Key, e.Reason)
	default:
		return ErrInternal.Error()
	}
}

func (e *Error) Unwrap() error { return e.Kind }

// NotFound reports that a resource, or a required parent, does not exist.
func NotFound(entity string, id any) *Error {
	return &Error{Kind: ErrNotFound, Entity: entity, Key: fmt.Sprint(id)}
}

// Forbidden reports that the actor lacks the ownership or role required for
// an already located resource.
func Forbidden(reason string) *Error {
	return &Error{Kind: ErrForbidden, Reason: reason}
}

// Conflict reports a uniqueness violation on entity identified by key.
func Conflict(entity, key string) *Error {
	return &Error{Kind: ErrConflict, Entity: entity, Key: key}
}

// Conflictf reports a conflict that is not a plain duplicate key, such as a
// relationship that already exists.
func Conflictf(entity, key, format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Entity: entity, Key: key, Reason: fmt.Sprintf(format, args...)}
}

func Validation(field, reason string) *Error {
	return &Error{Kind: ErrValidation, Key: field, Reason: reason}
}

func Validationf(field, format string, args ...any) *Error {
	return Validation(field, fmt.Sprintf(format, args...))
}

// Internal wraps an unexpected fault. The cause never reaches Error().
func Internal(cause error) *Error {
	return &Error{Kind: ErrInternal, Cause: cause}
}

// KindOf returns the sentinel kind of err, or ErrInternal for errors that do
// not belong to the taxonomy.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range []error{ErrNotFound, ErrForbidden, ErrConflict, ErrValidation, ErrInternal} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsForbidden(err error) bool  { return errors.Is(err, ErrForbidden) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
