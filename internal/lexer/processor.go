package lexer

import "github.com/funvibe/lamb/internal/pipeline"

// LexerProcessor attaches a buffered token stream over the source to ctx.
// Illegal tokens are reported by the parser, which knows where they occur.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.TokenStream = NewTokenStream(New(ctx.SourceCode))
	return ctx
}
