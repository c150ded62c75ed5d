// Package apperror defines the closed set of outcome errors returned by the
// catalog's core operations. Transport layers switch on Kind to build responses.
package apperror

import (
	"errors"
	"fmt"
)

// Kind identifies one of the five failure outcomes a core operation can report.
type Kind int

const (
	KindUnauthenticated Kind = iota + 1
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Reason qualifies a KindForbidden error.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonRoleRequired Reason = "role_required"
	ReasonNotOwner     Reason = "not_owner"
)

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the concrete error value for every Kind.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func Forbidden(reason Reason, msg string) *Error {
	return &Error{Kind: KindForbidden, Reason: reason, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func InvalidInput(msg string, fields ...FieldError) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg, Fields: fields}
}

// Wrap attaches cause to e and returns e.
func (e *Error) Wrap(cause error) *Error {
	e.Err = cause
	return e
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// ReasonOf returns the forbidden reason carried by err, if any.
func ReasonOf(err error) Reason {
	if appErr, ok := As(err); ok {
		return appErr.Reason
	}
	return ReasonNone
}
