// Package apperrors defines the error taxonomy shared by the engine, the
// storage layer and the RPC services.
//
// Every error carries a Kind. Callers branch on the kind with errors.Is
// against the package sentinels:
//
//	if errors.Is(err, apperrors.ErrConflict) {
//		// reselect and retry the join
//	}
package apperrors

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	KindValidation        Kind = "VALIDATION"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindStateTransition   Kind = "STATE_TRANSITION"
	KindInsufficientFunds Kind = "INSUFFICIENT_FUNDS"
)

// Error is a categorized engine error.
type Error struct {
	Kind    Kind
	Message string

	// Integrity marks a fault caused by an invariant breach elsewhere
	// (e.g. a round whose winner slot has no participant) rather than by
	// the caller's input.
	Integrity bool

	// Err is an optional underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a sentinel of the same kind. A sentinel is an
// *Error with an empty Message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrStateTransition   = &Error{Kind: KindStateTransition}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
)

// Validation reports malformed input.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Integrity reports a missing entity whose absence breaks an invariant.
func Integrity(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...), Integrity: true}
}

// Conflict reports a lost race or an occupied resource. Callers may retry.
func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// ConflictWrap reports a conflict detected by the storage layer.
func ConflictWrap(err error, format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...), Err: err}
}

// StateTransition reports an illegal status change.
func StateTransition(format string, args ...any) error {
	return &Error{Kind: KindStateTransition, Message: fmt.Sprintf(format, args...)}
}

// InsufficientFunds reports a balance too small for a payment.
func InsufficientFunds(format string, args ...any) error {
	return &Error{Kind: KindInsufficientFunds, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsIntegrity reports whether err is an integrity fault.
func IsIntegrity(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Integrity
}
