// Package apperror defines the structured error returned across the
// validation, creation and signup layers.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an Error.
type Kind string

const (
	KindTypeMismatch          Kind = "TYPE_MISMATCH"
	KindUnknownEntity         Kind = "UNKNOWN_ENTITY"
	KindUnexpectedFields      Kind = "UNEXPECTED_FIELDS"
	KindFieldValidationFailed Kind = "FIELD_VALIDATION_FAILED"
	KindPersistence           Kind = "PERSISTENCE_ERROR"
	KindDuplicateUser         Kind = "DUPLICATE_USER"
	KindValidationFailure     Kind = "VALIDATION_FAILURE"
	KindGenericFailure        Kind = "GENERIC_FAILURE"
)

// Error is a field-addressable error. Message is safe to show to callers;
// Cause holds the internal error and is never rendered by Error().
type Error struct {
	Kind    Kind
	Message string
	// Fields maps a field path to its message.
	Fields map[string]string
	Cause  error
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("[%s] %s (%s)", e.Kind, e.Message, strings.Join(parts, "; "))
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by kind so sentinels like ErrTypeMismatch work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Fields == nil
}

// WithField records a message for a single field.
func (e *Error) WithField(field, message string) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
	return e
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Kind-only sentinels for errors.Is checks.
var (
	ErrTypeMismatch          = &Error{Kind: KindTypeMismatch}
	ErrUnknownEntity         = &Error{Kind: KindUnknownEntity}
	ErrUnexpectedFields      = &Error{Kind: KindUnexpectedFields}
	ErrFieldValidationFailed = &Error{Kind: KindFieldValidationFailed}
	ErrPersistence           = &Error{Kind: KindPersistence}
	ErrDuplicateUser         = &Error{Kind: KindDuplicateUser}
	ErrValidationFailure     = &Error{Kind: KindValidationFailure}
	ErrGenericFailure        = &Error{Kind: KindGenericFailure}
)

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
