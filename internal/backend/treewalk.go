package backend

import (
	"fmt"

	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/config"
	"github.com/funvibe/lamb/internal/pipeline"
)

// TreeWalkBackend wraps the recursive reference evaluator
type TreeWalkBackend struct {
	opts Options
}

// NewTreeWalk creates a new tree-walk backend
func NewTreeWalk(opts Options) *TreeWalkBackend {
	return &TreeWalkBackend{opts: opts}
}

// Run executes the program using tree-walk interpretation
func (b *TreeWalkBackend) Run(ctx *pipeline.PipelineContext) (ast.Node, error) {
	if ctx.AstRoot == nil {
		return nil, fmt.Errorf("no AST to execute")
	}

	ev := b.opts.evaluator()
	result, err := ev.EvalTree(ctx.AstRoot)
	ctx.Steps = ev.Steps()
	return result, err
}

// Name returns the backend name
func (b *TreeWalkBackend) Name() string {
	return config.BackendTree
}
