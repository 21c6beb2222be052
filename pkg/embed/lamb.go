// Package lamb is the embedding API: it runs a program through lexing,
// parsing, reduction and rendering and returns the normal form.
package lamb

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kr/pretty"

	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/backend"
	"github.com/funvibe/lamb/internal/config"
	"github.com/funvibe/lamb/internal/lexer"
	"github.com/funvibe/lamb/internal/names"
	"github.com/funvibe/lamb/internal/parser"
	"github.com/funvibe/lamb/internal/pipeline"
	"github.com/funvibe/lamb/internal/prettyprinter"
)

// Result is a successfully reduced program.
type Result struct {
	// Tree is the normal (or stuck) form.
	Tree ast.Node
	// Text is Tree rendered as source.
	Text string
	// Steps counts applied reduction rules.
	Steps uint64
	// FreeVars lists the variables left free in Tree, sorted.
	FreeVars []string
}

type options struct {
	backend string
	names   *names.Generator
	trace   *log.Logger
	file    string
	dump    io.Writer
}

// Option configures Interpret.
type Option func(*options)

// WithBackend selects "machine" (default) or "tree".
func WithBackend(name string) Option {
	return func(o *options) { o.backend = name }
}

// WithNames sets the fresh-name generator. Programs evaluated concurrently
// may share one generator.
func WithNames(gen *names.Generator) Option {
	return func(o *options) { o.names = gen }
}

// WithTrace logs every reduction step to l.
func WithTrace(l *log.Logger) Option {
	return func(o *options) { o.trace = l }
}

// WithFile sets the file name used in diagnostics.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithASTDump writes the parsed tree to w before evaluation.
func WithASTDump(w io.Writer) Option {
	return func(o *options) { o.dump = w }
}

// Interpret parses and reduces source. Cancelling ctx stops a running
// reduction. Failures are returned as *Error.
func Interpret(ctx context.Context, source string, opts ...Option) (*Result, error) {
	o := options{backend: config.BackendMachine}
	for _, opt := range opts {
		opt(&o)
	}

	b, err := backend.New(o.backend, backend.Options{
		Names:   o.names,
		Context: ctx,
		Trace:   o.trace,
	})
	if err != nil {
		return nil, err
	}

	processors := []pipeline.Processor{
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
	}
	if o.dump != nil {
		processors = append(processors, &dumpProcessor{w: o.dump})
	}
	processors = append(processors, backend.NewExecutionProcessor(b))

	pctx := pipeline.NewPipelineContext(source)
	pctx.FilePath = o.file
	pctx = pipeline.New(processors...).Run(pctx)

	if len(pctx.Errors) > 0 {
		return nil, &Error{Diagnostics: pctx.Errors}
	}
	return &Result{
		Tree:     pctx.Result,
		Text:     prettyprinter.Render(pctx.Result),
		Steps:    pctx.Steps,
		FreeVars: ast.FreeVars(pctx.Result),
	}, nil
}

// InterpretFile reads path and interprets its contents.
func InterpretFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Interpret(ctx, string(content), append([]Option{WithFile(path)}, opts...)...)
}

// dumpProcessor prints the parsed tree.
type dumpProcessor struct {
	w io.Writer
}

func (d *dumpProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot != nil && len(ctx.Errors) == 0 {
		fmt.Fprintf(d.w, "%# v\n", pretty.Formatter(ctx.AstRoot))
	}
	return ctx
}

// Parse returns the tree for source without evaluating it.
func Parse(source string) (ast.Node, error) {
	pctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(pipeline.NewPipelineContext(source))
	if len(pctx.Errors) > 0 {
		return nil, &Error{Diagnostics: pctx.Errors}
	}
	return pctx.AstRoot, nil
}
