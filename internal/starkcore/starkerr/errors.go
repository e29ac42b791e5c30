// Package starkerr defines the typed error taxonomy the prover returns,
// generalizing the reference prover's VMError/ErrorCode shape onto the
// proving-pipeline failure modes spec.md's error-handling section names.
package starkerr

import "fmt"

// Code discriminates the broad category of a proving failure.
type Code int

const (
	CodeUnknown Code = iota
	CodeConfig
	CodeInvalidConstraint
	CodeDebugAssertion
	CodeProvingFailure
	CodeInvalidTrace
)

func (c Code) String() string {
	switch c {
	case CodeConfig:
		return "config"
	case CodeInvalidConstraint:
		return "invalid_constraint"
	case CodeDebugAssertion:
		return "debug_assertion"
	case CodeProvingFailure:
		return "proving_failure"
	case CodeInvalidTrace:
		return "invalid_trace"
	default:
		return "unknown"
	}
}

// Error is the prover's wrapped error type: a stable Code plus a
// human-readable message and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New builds an *Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds an *Error wrapping cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// InvalidConstraint reports a constraint that fails to vanish on its
// declared divisor — always fatal; the reference prover only logs this case
// to stderr and continues, which spec.md's stricter invariant forbids.
func InvalidConstraint(format string, args ...any) *Error {
	return New(CodeInvalidConstraint, fmt.Sprintf(format, args...))
}

// DebugAssertion reports an internal consistency check failing (e.g. a
// divisor has an unexpected degree, a domain size mismatch).
func DebugAssertion(format string, args ...any) *Error {
	return New(CodeDebugAssertion, fmt.Sprintf(format, args...))
}
