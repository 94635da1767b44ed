package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies a service failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindPrecondition
	KindConflict
	KindInvalidOtp
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindNotFound:
		return "NotFoundError"
	case KindForbidden:
		return "ForbiddenError"
	case KindPrecondition:
		return "PreconditionError"
	case KindConflict:
		return "ConflictError"
	case KindInvalidOtp:
		return "InvalidOtpError"
	case KindUnauthorized:
		return "UnauthorizedError"
	}
	return "UnexpectedError"
}

// Error is returned by every service operation that fails for a known reason.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrPrecondition = &Error{Kind: KindPrecondition}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrInvalidOtp   = &Error{Kind: KindInvalidOtp}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
)

func ValidationError(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundError(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ForbiddenError(format string, args ...interface{}) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func PreconditionError(format string, args ...interface{}) error {
	return &Error{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

func ConflictError(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidOtpError(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidOtp, Message: fmt.Sprintf(format, args...)}
}

func UnauthorizedError(format string, args ...interface{}) error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func UnexpectedError(message string, err error) error {
	return &Error{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf returns the kind of err, KindUnexpected for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// lookupError maps gorm.ErrRecordNotFound to a NotFoundError and wraps
// anything else as unexpected.
func lookupError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError("%s not found", what)
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return UnexpectedError("load "+what, err)
}

// dbError wraps a write failure unless it already is a service error.
func dbError(err error, action string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return UnexpectedError(action, err)
}
