// Package diagnostics defines the two error kinds of the predicate language:
// SyntaxError from the lexer and EvalError from the evaluator.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a diagnostic
type ErrorCode string

const (
	// Syntax
	ErrS001 ErrorCode = "S001" // no token matches at offset
	ErrS002 ErrorCode = "S002" // two tokens without a separating space
	ErrS003 ErrorCode = "S003" // number literal beyond float64 range

	// Evaluation
	ErrE001 ErrorCode = "E001" // stack underflow
	ErrE002 ErrorCode = "E002" // operand type mismatch
	ErrE003 ErrorCode = "E003" // unknown target
	ErrE004 ErrorCode = "E004" // unknown member
	ErrE005 ErrorCode = "E005" // to_num on an unparsable string
	ErrE006 ErrorCode = "E006" // final stack is not exactly one boolean
	ErrE007 ErrorCode = "E007" // variadic count is not a non-negative integer
)

var messages = map[ErrorCode]string{
	ErrS001: "unexpected character %q",
	ErrS002: "expected space after %q",
	ErrS003: "number %s is out of range",
	ErrE001: "stack underflow: %s needs %v operand(s)",
	ErrE002: "%s expected %s but got %s",
	ErrE003: "unknown target %q",
	ErrE004: "unknown member %q of %q",
	ErrE005: "cannot convert %q to a number",
	ErrE006: "%s",
	ErrE007: "%s count must be a non-negative integer, got %s",
}

func format(code ErrorCode, args ...interface{}) string {
	if msg, ok := messages[code]; ok {
		return fmt.Sprintf(msg, args...)
	}
	return string(code)
}

// SyntaxError reports a predicate that the lexer could not fully consume.
type SyntaxError struct {
	Code   ErrorCode
	Source string
	Offset int // byte offset where matching failed
	Msg    string
}

// NewSyntaxError builds a SyntaxError with the message registered for code.
func NewSyntaxError(code ErrorCode, source string, offset int, args ...interface{}) *SyntaxError {
	return &SyntaxError{Code: code, Source: source, Offset: offset, Msg: format(code, args...)}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error [%s] at offset %d in %q: %s", e.Code, e.Offset, e.Source, e.Msg)
}

// Caret renders the source with a marker under the failing offset.
func (e *SyntaxError) Caret() string {
	return e.Source + "\n" + strings.Repeat(" ", e.Offset) + "^"
}

// EvalError reports a failure while reducing a term sequence.
type EvalError struct {
	Code  ErrorCode
	Index int    // index of the failing term, -1 for the final stack check
	Term  string // source text of the failing term
	Msg   string
}

// NewEvalError builds an EvalError with the message registered for code.
func NewEvalError(code ErrorCode, index int, term string, args ...interface{}) *EvalError {
	return &EvalError{Code: code, Index: index, Term: term, Msg: format(code, args...)}
}

func (e *EvalError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("eval error [%s]: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("eval error [%s] at term %d (%s): %s", e.Code, e.Index, e.Term, e.Msg)
}

// IsSyntax reports whether err wraps a SyntaxError.
func IsSyntax(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// IsEval reports whether err wraps an EvalError.
func IsEval(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee)
}

// CodeOf returns the code of the diagnostic wrapped by err, or "".
func CodeOf(err error) ErrorCode {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Code
	}
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}
