// Package apperr defines the engine's error taxonomy. Every rejected
// operation carries exactly one kind, so callers can always determine
// how to react (fix input, re-read and retry, or give up) without
// parsing messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error
type Kind string

const (
	// KindValidation: malformed input, caller's fault, never retried
	KindValidation Kind = "validation"
	// KindPermission: actor not authorized for this action or stage
	KindPermission Kind = "permission"
	// KindInvalidState: action not valid from the invoice's current status
	KindInvalidState Kind = "invalid_state"
	// KindConflict: optimistic-lock conflict, caller should re-read and retry
	KindConflict Kind = "conflict"
	// KindPeriodClosed: the accounting period gate denied the submission
	KindPeriodClosed Kind = "period_closed"
	// KindNotFound: the referenced record does not exist
	KindNotFound Kind = "not_found"
)

// Error is a kinded engine error
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap returns the wrapped cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind, so sentinel comparisons like
// errors.Is(err, apperr.Validation("")) work alongside KindOf.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// KindOf returns the kind of an engine error, or "" for other errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Validation creates a validation error
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// Permission creates a permission error
func Permission(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPermission, Msg: fmt.Sprintf(format, args...)}
}

// InvalidState creates an invalid-state error
func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// Conflict creates an optimistic-concurrency conflict error
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// PeriodClosed creates a period-closed error
func PeriodClosed(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPeriodClosed, Msg: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error for a record
func NotFound(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("%s %s not found", resource, id)}
}

// Wrap attaches a cause to a kinded error
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}
