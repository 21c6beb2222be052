// Package evaluator reduces trees toward normal form.
//
// Application passes its argument unevaluated; let evaluates the bound value
// first. A redex whose operands do not have the shape its rule needs (a
// number for arithmetic, a lambda for application) is left in place with its
// operands evaluated, so open terms reduce as far as they can.
package evaluator

import (
	"context"
	"log"
	"unicode/utf8"

	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/names"
	"github.com/funvibe/lamb/internal/prettyprinter"
)

// pollInterval is how many descents pass between checks of Context.
const pollInterval = 256

// traceWidth truncates redexes in trace output.
const traceWidth = 72

type Evaluator struct {
	// Names supplies fresh binder names during substitution.
	Names *names.Generator
	// Context, if set, is polled between steps. Evaluation has no time
	// limit of its own.
	Context context.Context
	// Trace, if set, receives one line per applied rule.
	Trace *log.Logger

	steps uint64
	ticks uint64
}

// New returns an evaluator drawing fresh names from gen, or from
// names.Default when gen is nil.
func New(gen *names.Generator) *Evaluator {
	if gen == nil {
		gen = names.Default
	}
	return &Evaluator{Names: gen}
}

// Evaluate reduces tree with a fresh machine evaluator and the process-wide
// name generator.
func Evaluate(tree ast.Node) (ast.Node, error) {
	return New(nil).Eval(tree)
}

// Steps reports how many rules have been applied since the evaluator was
// created.
func (e *Evaluator) Steps() uint64 {
	return e.steps
}

func (e *Evaluator) substitute(tree ast.Node, name string, repl ast.Node) (ast.Node, error) {
	return Substitute(tree, name, repl, e.Names)
}

// step records one rule application.
func (e *Evaluator) step(rule string, redex ast.Node) {
	e.steps++
	if e.Trace != nil {
		e.Trace.Printf("step %d: %s %s", e.steps, rule, truncate(prettyprinter.Render(redex), traceWidth))
	}
}

// poll checks for cancellation every pollInterval calls.
func (e *Evaluator) poll() error {
	e.ticks++
	if e.Context == nil || e.ticks%pollInterval != 0 {
		return nil
	}
	if err := e.Context.Err(); err != nil {
		return &Error{Kind: ErrCancelled, Message: err.Error()}
	}
	return nil
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}
