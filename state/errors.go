package state

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every failure raised by the state is a
// *RuntimeError whose Kind is one of these, so callers can test with
// errors.Is.
var (
	ErrArithmetic      = errors.New("arithmetic error")
	ErrComparison      = errors.New("comparison error")
	ErrConcatenation   = errors.New("concatenation error")
	ErrLength          = errors.New("length error")
	ErrTableKey        = errors.New("invalid table key")
	ErrInvalidIndex    = errors.New("invalid stack index")
	ErrNotCallable     = errors.New("value is not callable")
	ErrStackOverflow   = errors.New("stack overflow")
	ErrNotTable        = errors.New("value is not a table")
	ErrMalformedCode   = errors.New("malformed bytecode")
	ErrBudgetExhausted = errors.New("instruction budget exhausted")
)

// RuntimeError is an error raised while operating on a state. Source and
// Line are filled in with the position of the instruction that failed
// when the error surfaces from a running Lua function.
type RuntimeError struct {
	Kind   error
	Msg    string
	Source string
	Line   int
}

func (e *RuntimeError) Error() string {
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, msg)
	}
	return msg
}

func (e *RuntimeError) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
