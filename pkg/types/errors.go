package types

import (
	"errors"
	"fmt"
)

// Sentinel conditions every service failure is classified under.
var (
	ErrNotFound     = errors.New("not found")
	ErrLocked       = errors.New("locked")
	ErrInvalidInput = errors.New("invalid input")
)

// Error is a classified service error. errors.Is(err, ErrLocked) and friends
// match on Kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound reports a reference to an entity that does not exist.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Locked reports a mutation blocked by a final-published story.
func Locked(format string, args ...any) error {
	return &Error{Kind: ErrLocked, Message: fmt.Sprintf(format, args...)}
}

// Invalid reports input rejected before any store write.
func Invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsLocked reports whether err is a locked condition.
func IsLocked(err error) bool { return errors.Is(err, ErrLocked) }

// IsInvalid reports whether err is an invalid-input condition.
func IsInvalid(err error) bool { return errors.Is(err, ErrInvalidInput) }
