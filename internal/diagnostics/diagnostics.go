package diagnostics

import (
	"fmt"

	"github.com/funvibe/lamb/internal/token"
)

type ErrorCode string

const (
	// Parser errors
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // illegal token or identifier
	ErrP003 ErrorCode = "P003" // expected token missing
	ErrP004 ErrorCode = "P004" // trailing input after program
	ErrP005 ErrorCode = "P005" // no prefix parse function
	ErrP006 ErrorCode = "P006" // nesting too deep

	// Runtime errors
	ErrR001 ErrorCode = "R001" // arithmetic domain error
	ErrR002 ErrorCode = "R002" // ill-typed projection
	ErrR003 ErrorCode = "R003" // internal invariant violation
	ErrR004 ErrorCode = "R004" // evaluation cancelled
)

var descriptions = map[ErrorCode]string{
	ErrP001: "unexpected token",
	ErrP002: "illegal token",
	ErrP003: "missing token",
	ErrP004: "trailing input",
	ErrP005: "unexpected expression start",
	ErrP006: "nesting too deep",
	ErrR001: "arithmetic domain error",
	ErrR002: "ill-typed projection",
	ErrR003: "internal error",
	ErrR004: "evaluation cancelled",
}

// Description returns a short human readable name for the code.
func (c ErrorCode) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return "error"
}

// Known reports whether c is one of the defined codes.
func (c ErrorCode) Known() bool {
	_, ok := descriptions[c]
	return ok
}

// IsParse reports whether the code belongs to the parser range.
func (c ErrorCode) IsParse() bool {
	return len(c) > 0 && c[0] == 'P'
}

// DiagnosticError is a located error produced by a pipeline stage.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	File    string
	Message string
	// Cause is the underlying error for runtime diagnostics, if any.
	Cause error
}

func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Message: message}
}

// NewRuntimeError wraps an evaluation error; runtime errors carry no position.
func NewRuntimeError(code ErrorCode, cause error) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: cause.Error(), Cause: cause}
}

func (e *DiagnosticError) Error() string {
	loc := ""
	if e.Token.Line > 0 {
		loc = fmt.Sprintf("%d:%d: ", e.Token.Line, e.Token.Column)
		if e.File != "" {
			loc = e.File + ":" + loc
		}
	} else if e.File != "" {
		loc = e.File + ": "
	}
	return fmt.Sprintf("%serror [%s]: %s", loc, e.Code, e.Message)
}

func (e *DiagnosticError) Unwrap() error {
	return e.Cause
}
