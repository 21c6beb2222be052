package pipeline

import (
	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/diagnostics"
	"github.com/funvibe/lamb/internal/token"
)

// Processor is one pipeline stage.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// TokenStream is the token source the parser reads from. Once input is
// exhausted it keeps returning EOF.
type TokenStream interface {
	Next() token.Token
}

// PipelineContext carries one program through lexing, parsing and evaluation.
type PipelineContext struct {
	SourceCode  string
	FilePath    string
	TokenStream TokenStream
	AstRoot     ast.Node

	// Result is the normal (or stuck) form produced by the execution stage.
	Result ast.Node
	// Steps counts reduction rule applications.
	Steps uint64

	Errors []*diagnostics.DiagnosticError
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source}
}

// Failed reports whether any stage has recorded an error.
func (ctx *PipelineContext) Failed() bool {
	return len(ctx.Errors) > 0
}

// AddError records err, filling in the file path when the stage left it empty.
func (ctx *PipelineContext) AddError(err *diagnostics.DiagnosticError) {
	if err.File == "" {
		err.File = ctx.FilePath
	}
	ctx.Errors = append(ctx.Errors, err)
}
