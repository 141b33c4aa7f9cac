package workflow

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota
	KindPastDate
	KindConflict
	KindAuthorization
	KindNotFound
	KindInvalidState
	KindInternal
)

// Error is the typed failure every workflow operation returns. The engine
// never panics on bad input; callers map Kind onto their transport.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func PastDate(message string) error {
	return &Error{Kind: KindPastDate, Message: message}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(message string) error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func InvalidState(message string) error {
	return &Error{Kind: KindInvalidState, Message: message}
}

func Internal(cause error) error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: cause}
}

// KindOf extracts the error kind, treating anything untyped (driver
// failures, broken invariants) as KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
