package backend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/backend"
	"github.com/funvibe/lamb/internal/diagnostics"
	"github.com/funvibe/lamb/internal/evaluator"
	"github.com/funvibe/lamb/internal/lexer"
	"github.com/funvibe/lamb/internal/names"
	"github.com/funvibe/lamb/internal/parser"
	"github.com/funvibe/lamb/internal/pipeline"
)

func run(src string, b backend.Backend) *pipeline.PipelineContext {
	p := pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		backend.NewExecutionProcessor(b),
	)
	return p.Run(pipeline.NewPipelineContext(src))
}

func TestNew(t *testing.T) {
	for _, name := range []string{"machine", "tree", ""} {
		b, err := backend.New(name, backend.Options{})
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if name != "" && b.Name() != name {
			t.Errorf("Name() = %q, want %q", b.Name(), name)
		}
	}
	if _, err := backend.New("vm", backend.Options{}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestExecutionProcessor(t *testing.T) {
	for _, name := range []string{"machine", "tree"} {
		t.Run(name, func(t *testing.T) {
			b, _ := backend.New(name, backend.Options{Names: names.New("Var")})
			ctx := run(`let x = 1 + 2 in x * x`, b)
			if len(ctx.Errors) > 0 {
				t.Fatalf("unexpected errors: %v", ctx.Errors)
			}
			if !ast.Equal(ctx.Result, ast.Num(9)) {
				t.Errorf("Result = %#v", ctx.Result)
			}
			if ctx.Steps != 3 {
				t.Errorf("Steps = %d, want 3", ctx.Steps)
			}
		})
	}
}

func TestExecutionErrorCodes(t *testing.T) {
	tests := []struct {
		src  string
		code diagnostics.ErrorCode
	}{
		{"1 / 0", diagnostics.ErrR001},
		{"log 0 base 2", diagnostics.ErrR001},
		{"hd #", diagnostics.ErrR002},
		{"tl x", diagnostics.ErrR002},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			ctx := run(tt.src, backend.NewMachine(backend.Options{}))
			if len(ctx.Errors) != 1 {
				t.Fatalf("expected one error, got %v", ctx.Errors)
			}
			if ctx.Errors[0].Code != tt.code {
				t.Errorf("code = %s, want %s", ctx.Errors[0].Code, tt.code)
			}
			if ctx.Result != nil {
				t.Error("failed evaluation must not leave a result")
			}
		})
	}
}

func TestExecutionSkippedAfterParseError(t *testing.T) {
	ctx := run("(1 +", backend.NewMachine(backend.Options{}))
	if len(ctx.Errors) == 0 || !ctx.Errors[0].Code.IsParse() {
		t.Fatalf("expected a parse error, got %v", ctx.Errors)
	}
	if ctx.Result != nil || ctx.Steps != 0 {
		t.Error("execution should not have run")
	}
}

func TestCancelledBackend(t *testing.T) {
	cctx, cancel := context.WithCancel(context.Background())
	cancel()
	ctx := run(`(\x. x x) (\x. x x)`, backend.NewTreeWalk(backend.Options{Context: cctx}))
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.ErrR004 {
		t.Fatalf("expected R004, got %v", ctx.Errors)
	}
	if !errors.Is(ctx.Errors[0], evaluator.ErrCancelled) {
		t.Error("diagnostic should unwrap to ErrCancelled")
	}
}

type panickingBackend struct{}

func (panickingBackend) Run(*pipeline.PipelineContext) (ast.Node, error) { panic("boom") }
func (panickingBackend) Name() string                                    { return "panicking" }

func TestPanicBecomesInternalError(t *testing.T) {
	ctx := run("x", panickingBackend{})
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.ErrR003 {
		t.Fatalf("expected R003, got %v", ctx.Errors)
	}
}
