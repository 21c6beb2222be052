// Package backend provides an interface for different execution backends.
// This allows switching between the stack machine and the recursive
// tree-walk evaluator.
package backend

import (
	"context"
	"fmt"
	"log"

	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/config"
	"github.com/funvibe/lamb/internal/evaluator"
	"github.com/funvibe/lamb/internal/names"
	"github.com/funvibe/lamb/internal/pipeline"
)

// Backend is the interface for execution backends
type Backend interface {
	// Run reduces ctx.AstRoot, records the step count on ctx and returns
	// the normal form.
	Run(ctx *pipeline.PipelineContext) (ast.Node, error)

	// Name returns the backend name for display
	Name() string
}

// Options are shared by every backend.
type Options struct {
	// Names supplies fresh binder names; nil means names.Default.
	Names *names.Generator
	// Context cancels a running evaluation.
	Context context.Context
	// Trace receives one line per reduction step.
	Trace *log.Logger
}

func (o Options) evaluator() *evaluator.Evaluator {
	ev := evaluator.New(o.Names)
	ev.Context = o.Context
	ev.Trace = o.Trace
	return ev
}

// New returns the backend registered under name (see config.Backend*).
func New(name string, opts Options) (Backend, error) {
	switch name {
	case config.BackendMachine, "":
		return NewMachine(opts), nil
	case config.BackendTree:
		return NewTreeWalk(opts), nil
	}
	return nil, fmt.Errorf("unknown backend %q", name)
}

// MachineBackend runs the explicit-stack evaluator.
type MachineBackend struct {
	opts Options
}

// NewMachine creates a new machine backend
func NewMachine(opts Options) *MachineBackend {
	return &MachineBackend{opts: opts}
}

func (b *MachineBackend) Run(ctx *pipeline.PipelineContext) (ast.Node, error) {
	if ctx.AstRoot == nil {
		return nil, fmt.Errorf("no AST to execute")
	}
	ev := b.opts.evaluator()
	result, err := ev.Eval(ctx.AstRoot)
	ctx.Steps = ev.Steps()
	return result, err
}

func (b *MachineBackend) Name() string {
	return config.BackendMachine
}
