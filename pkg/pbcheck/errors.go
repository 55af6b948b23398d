package pbcheck

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseError is a structural or lexical failure while reading a proof or
// formula line. It always carries a source location.
type ParseError struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: parse error: %s", e.File, e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("line %d, column %d: parse error: %s", e.Line, e.Column, e.Msg)
}

// NewParseError builds a ParseError at the given line/column.
func NewParseError(file string, line, column int, format string, args ...interface{}) *ParseError {
	return &ParseError{File: file, Line: line, Column: column, Msg: fmt.Sprintf(format, args...)}
}

// InvalidProofError is a semantic failure: a rule's check did not hold
// (equality mismatch, failed RUP, undischarged sub-goal, dominance order
// violation, unjustified deletion of a core constraint, and so on).
type InvalidProofError struct {
	Line int
	Rule string
	Msg  string
	Hint string
}

func (e *InvalidProofError) Error() string {
	s := fmt.Sprintf("line %d: invalid proof in rule %q: %s", e.Line, e.Rule, e.Msg)
	if e.Hint != "" {
		s += " (" + e.Hint + ")"
	}
	return s
}

// NewInvalidProofError builds an InvalidProofError. hint may be empty.
func NewInvalidProofError(line int, rule, hint, format string, args ...interface{}) *InvalidProofError {
	return &InvalidProofError{Line: line, Rule: rule, Msg: fmt.Sprintf(format, args...), Hint: hint}
}

// InternalError marks a violated invariant: a bug in the checker itself,
// as opposed to a malformed or invalid proof. The cause is wrapped with
// github.com/pkg/errors so a stack trace survives to the top-level
// handler even though the error crosses several call frames inside the
// dispatcher.
type InternalError struct {
	Msg   string
	cause error
}

func (e *InternalError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("internal invariant violation: %s: %v", e.Msg, e.cause)
	}
	return fmt.Sprintf("internal invariant violation: %s", e.Msg)
}

func (e *InternalError) Unwrap() error { return e.cause }

// NewInternalError wraps cause (which may be nil) in an InternalError,
// attaching a stack trace via pkg/errors when cause is non-nil.
func NewInternalError(cause error, format string, args ...interface{}) *InternalError {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		cause = errors.Wrap(cause, msg)
	}
	return &InternalError{Msg: msg, cause: cause}
}

// UnsupportedFeatureError is raised for a rule identifier or option that
// the current build does not implement.
type UnsupportedFeatureError struct {
	Rule string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("unsupported feature: rule %q is not implemented", e.Rule)
}

// ExitCode enumerates the checker CLI's externally observable exit
// statuses. pkg/pbcheck never calls os.Exit; cmd/pbcheck maps errors
// returned from this package to one of these codes.
type ExitCode int

const (
	ExitSuccess             ExitCode = 0
	ExitInvalidProof        ExitCode = 1
	ExitParseError          ExitCode = 2
	ExitUnimplementedRule   ExitCode = 3
	ExitInternalError       ExitCode = 4
	ExitUserInterrupt       ExitCode = 100
)

// ExitCodeFor classifies an error returned by the verifier into the exit
// code the CLI should report.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	switch {
	case errors.As(err, new(*ParseError)):
		return ExitParseError
	case errors.As(err, new(*InvalidProofError)):
		return ExitInvalidProof
	case errors.As(err, new(*UnsupportedFeatureError)):
		return ExitUnimplementedRule
	case errors.As(err, new(*InternalError)):
		return ExitInternalError
	default:
		return ExitInternalError
	}
}
