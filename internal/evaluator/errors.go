package evaluator

import (
	"errors"
	"fmt"

	"github.com/funvibe/lamb/internal/ast"
)

// Sentinels for errors.Is. Every *Error matches exactly one of them.
var (
	ErrDomain      = errors.New("arithmetic domain error")
	ErrProjection  = errors.New("ill-typed projection")
	ErrUnknownTree = errors.New("unknown tree")
	ErrCancelled   = errors.New("evaluation cancelled")
)

// Error is a failed reduction. Node is the offending subtree, with its
// operands already evaluated where that applies.
type Error struct {
	Kind    error
	Op      ast.Kind
	Node    ast.Node
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func domainError(op ast.Kind, node ast.Node, format string, args ...interface{}) *Error {
	return &Error{Kind: ErrDomain, Op: op, Node: node, Message: fmt.Sprintf(format, args...)}
}

func unknownTree(n ast.Node) *Error {
	return &Error{Kind: ErrUnknownTree, Node: n, Message: fmt.Sprintf("no rule for %T", n)}
}
