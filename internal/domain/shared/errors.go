package shared

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrorKind classifies domain failures so transports can map them without
// inspecting messages
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindInvalidState      ErrorKind = "INVALID_STATE"
	KindInsufficientFunds ErrorKind = "INSUFFICIENT_FUNDS"
	KindConflict          ErrorKind = "CONFLICT"
	KindUnauthorized      ErrorKind = "UNAUTHORIZED"
	KindInvalidInput      ErrorKind = "INVALID_INPUT"
	KindInternal          ErrorKind = "INTERNAL"
)

// Error is a classified domain error
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind when the target carries no message,
// so errors.Is(err, ErrNotFound) works for every not-found error
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Sentinels for errors.Is checks
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrInvalidState      = &Error{Kind: KindInvalidState}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized}
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrInternal          = &Error{Kind: KindInternal}
)

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(format string, args ...any) error {
	return newError(KindNotFound, format, args...)
}

func NewForbidden(format string, args ...any) error {
	return newError(KindForbidden, format, args...)
}

func NewInvalidState(format string, args ...any) error {
	return newError(KindInvalidState, format, args...)
}

func NewConflict(format string, args ...any) error {
	return newError(KindConflict, format, args...)
}

func NewUnauthorized(format string, args ...any) error {
	return newError(KindUnauthorized, format, args...)
}

func NewInvalidInput(format string, args ...any) error {
	return newError(KindInvalidInput, format, args...)
}

// NewInternal wraps an unexpected failure; the cause is kept for logs only
func NewInternal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// InsufficientFundsError reports a debit that would take a balance below zero
type InsufficientFundsError struct {
	UserID    uuid.UUID
	Required  int64
	Available int64
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient points: required %d, available %d", e.Required, e.Available)
}

// Is lets errors.Is(err, ErrInsufficientFunds) match
func (e InsufficientFundsError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == KindInsufficientFunds && t.Message == ""
}

// KindOf classifies err. Unclassified errors are internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var funds InsufficientFundsError
	if errors.As(err, &funds) {
		return KindInsufficientFunds
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of a classified error
func MessageOf(err error) string {
	var funds InsufficientFundsError
	if errors.As(err, &funds) {
		return funds.Error()
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Kind != KindInternal {
		if domainErr.Message != "" {
			return domainErr.Message
		}
		return string(domainErr.Kind)
	}
	return "An internal server error occurred"
}
