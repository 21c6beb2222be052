package lamb

import (
	"strings"

	"github.com/funvibe/lamb/internal/diagnostics"
)

// Error carries the diagnostics of a failed run. Parsing stops at the first
// error and evaluation has no partial results, so there is usually exactly one.
type Error struct {
	Diagnostics []*diagnostics.DiagnosticError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = d.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the diagnostics to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		errs[i] = d
	}
	return errs
}

// Code returns the code of the first diagnostic.
func (e *Error) Code() diagnostics.ErrorCode {
	if len(e.Diagnostics) == 0 {
		return ""
	}
	return e.Diagnostics[0].Code
}

// IsParse reports whether the program was rejected before evaluation.
func (e *Error) IsParse() bool {
	return e.Code().IsParse()
}

// IsInternal reports an invariant violation inside the interpreter.
func (e *Error) IsInternal() bool {
	return e.Code() == diagnostics.ErrR003
}
