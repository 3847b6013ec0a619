package types

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of compile or evaluation failure.
type ErrorCode string

// Error codes. S: syntax of the rewritten body, T: static target checks,
// D: failures detected while evaluating against a scope.
const (
	// S0xxx: Parser/Syntax errors
	ErrStringNotClosed   ErrorCode = "S0101"
	ErrInvalidNumber     ErrorCode = "S0102"
	ErrUnsupportedEscape ErrorCode = "S0103"
	ErrSyntaxError       ErrorCode = "S0201"
	ErrExpectedToken     ErrorCode = "S0202"
	ErrUnexpectedChar    ErrorCode = "S0203"
	ErrEmptyExpression   ErrorCode = "S0204"
	ErrTooDeep           ErrorCode = "S0205"

	// T0xxx: Static target errors
	ErrNotAssignable ErrorCode = "T2001"

	// D0xxx: Evaluation errors
	ErrInvokeNonFunction ErrorCode = "D1002"
	ErrCallFailed        ErrorCode = "D1003"
	ErrCannotSet         ErrorCode = "D2002"
	ErrUnknownIdentifier ErrorCode = "D2003"
)

// ErrNoSetter is returned by Expression.Set when the expression was compiled
// without write access or its setter could not be built.
var ErrNoSetter = errors.New("expression has no setter")

// Error represents a structured compile or evaluation error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int
	Token    string
	Err      error
}

// NewError creates a new error. Use a negative position when the location
// is unknown.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if there
// is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
