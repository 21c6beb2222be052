package backend

import (
	"errors"
	"fmt"

	"github.com/funvibe/lamb/internal/diagnostics"
	"github.com/funvibe/lamb/internal/evaluator"
	"github.com/funvibe/lamb/internal/pipeline"
)

// ExecutionProcessor implements pipeline.Processor to run a Backend
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) (out *pipeline.PipelineContext) {
	// If previous steps failed, don't run execution
	if ctx.AstRoot == nil || len(ctx.Errors) > 0 {
		return ctx
	}

	out = ctx
	defer func() {
		if r := recover(); r != nil {
			ctx.Result = nil
			ctx.AddError(diagnostics.NewRuntimeError(diagnostics.ErrR003,
				fmt.Errorf("%s backend: internal error: %v", p.Backend.Name(), r)))
		}
	}()

	result, err := p.Backend.Run(ctx)
	if err != nil {
		ctx.AddError(diagnostics.NewRuntimeError(ErrorCode(err), err))
		return ctx
	}
	ctx.Result = result
	return ctx
}

// ErrorCode maps an evaluation error to its diagnostic code.
func ErrorCode(err error) diagnostics.ErrorCode {
	switch {
	case errors.Is(err, evaluator.ErrDomain):
		return diagnostics.ErrR001
	case errors.Is(err, evaluator.ErrProjection):
		return diagnostics.ErrR002
	case errors.Is(err, evaluator.ErrCancelled):
		return diagnostics.ErrR004
	}
	return diagnostics.ErrR003
}
