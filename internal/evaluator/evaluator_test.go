package evaluator

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/lexer"
	"github.com/funvibe/lamb/internal/names"
	"github.com/funvibe/lamb/internal/parser"
	"github.com/funvibe/lamb/internal/pipeline"
)

func parseSource(t *testing.T, src string) ast.Node {
	t.Helper()
	ctx := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).
		Run(pipeline.NewPipelineContext(src))
	if len(ctx.Errors) > 0 {
		t.Fatalf("parsing %q failed: %v", src, ctx.Errors[0])
	}
	return ctx.AstRoot
}

type evalFunc func(*Evaluator, ast.Node) (ast.Node, error)

var backends = map[string]evalFunc{
	"machine": (*Evaluator).Eval,
	"tree":    (*Evaluator).EvalTree,
}

func TestEvaluate(t *testing.T) {
	x, y := ast.Var("x"), ast.Var("y")
	one, two := ast.Num(1), ast.Num(2)

	tests := []struct {
		name string
		tree ast.Node
		want ast.Node
	}{
		{"beta", ast.App(ast.Lam("x", ast.Plus(x, one)), two), ast.Num(3)},
		{"let is call by value",
			ast.Let("x", ast.Plus(one, two), ast.Multiply(x, x)), ast.Num(9)},
		{"stuck conditional", ast.If(ast.Var("b"), one, two), ast.If(ast.Var("b"), one, two)},
		{"conditional true", ast.If(ast.Leq(one, two), x, y), x},
		{"conditional false", ast.If(ast.Eq(one, two), x, y), y},
		{"negative is truthy", ast.If(ast.Num(-1), x, y), x},
		{"stuck application keeps argument", ast.App(x, ast.Plus(one, one)), ast.App(x, ast.Plus(one, one))},
		{"stuck arithmetic evaluates operands", ast.Plus(x, ast.Multiply(two, two)), ast.Plus(x, ast.Num(4))},
		{"stuck comparison", ast.Leq(x, ast.Plus(one, one)), ast.Leq(x, two)},
		{"stuck log", ast.Log(x, two), ast.Log(x, two)},
		{"stuck fix", ast.Fix(x), ast.Fix(x)},
		{"lambda body is not evaluated", ast.Lam("x", ast.Plus(one, one)), ast.Lam("x", ast.Plus(one, one))},
		{"sequence keeps both", ast.Prog(ast.Plus(one, one), ast.Multiply(two, two)), ast.Prog(two, ast.Num(4))},
		{"cons evaluates both", ast.Cons(ast.Plus(one, one), ast.Nil()), ast.Cons(two, ast.Nil())},
		{"hd", ast.Hd(ast.Cons(ast.Plus(one, one), ast.Nil())), two},
		{"tl", ast.Tl(ast.Cons(one, ast.Cons(two, ast.Nil()))), ast.Cons(two, ast.Nil())},
		{"comparison true", ast.Leq(two, two), one},
		{"comparison false", ast.Eq(one, two), ast.Num(0)},
		{"log", ast.Log(ast.Num(8), two), ast.Num(3)},
		{"power", ast.Power(two, ast.Num(10)), ast.Num(1024)},
		{"division", ast.Divide(one, ast.Num(4)), ast.Num(0.25)},
		{"fix unfolds lambdas", ast.Fix(ast.Lam("f", ast.Num(7))), ast.Num(7)},
		{"letrec binder unfolds in body", ast.LetRec("f", one, ast.Plus(ast.Var("f"), one)), two},
		{"nil and variables are values", ast.Cons(x, ast.Nil()), ast.Cons(x, ast.Nil())},
	}
	for backend, eval := range backends {
		for _, tt := range tests {
			t.Run(backend+"/"+tt.name, func(t *testing.T) {
				got, err := eval(New(names.New("Var")), tt.tree)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !ast.Equal(got, tt.want) {
					t.Errorf("mismatch:\n%s", pretty.Diff(tt.want, got))
				}
			})
		}
	}
}

func TestEvaluatePrograms(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Node
	}{
		{`letrec fact = \n. if n <= 0 then 1 else n * fact (n - 1) in fact 5`, ast.Num(120)},
		{`letrec fib = \n. if n <= 1 then n else fib (n - 1) + fib (n - 2) in fib 15`, ast.Num(610)},
		{`let twice = \f. \x. f (f x) in twice (\y. y * 3) 2`, ast.Num(18)},
		{`(fix \f. \n. if n == 0 then 0 else f (n - 1)) 10`, ast.Num(0)},
		{`letrec len = \l. if l == 0 then 0 else 1 in len 3`, ast.Num(1)},
		{`let k = \x. \y. x in k 1 (hd #)`, ast.Num(1)},
		{`letrec map = \f. \l. (f (hd l)) : # in map (\x. x + 1) (1 : 2 : #)`,
			ast.Cons(ast.Num(2), ast.Nil())},
		{`(\x. \y. x) y`, nil},
	}
	for backend, eval := range backends {
		for _, tt := range tests {
			t.Run(backend+"/"+tt.src, func(t *testing.T) {
				got, err := eval(New(names.New("Var")), parseSource(t, tt.src))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.want == nil {
					// (\x. \y. x) y must not capture the free y.
					lam, ok := got.(*ast.Lambda)
					if !ok || lam.Binder == "y" || !ast.Equal(lam.Body, ast.Var("y")) {
						t.Errorf("capture: got %# v", pretty.Formatter(got))
					}
					return
				}
				if !ast.Equal(got, tt.want) {
					t.Errorf("mismatch:\n%s", pretty.Diff(tt.want, got))
				}
			})
		}
	}
}

func TestFixMatchesUnfolding(t *testing.T) {
	f := parseSource(t, `\self. \n. if n <= 0 then 42 else self (n - 1)`)
	direct, err := New(names.New("Var")).Eval(ast.App(ast.Fix(f), ast.Num(3)))
	if err != nil {
		t.Fatal(err)
	}
	unfolded, err := New(names.New("Var")).Eval(ast.App(ast.App(f, ast.Fix(f)), ast.Num(3)))
	if err != nil {
		t.Fatal(err)
	}
	if !ast.Equal(direct, unfolded) || !ast.Equal(direct, ast.Num(42)) {
		t.Errorf("fix f = %v, f (fix f) = %v", direct, unfolded)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	programs := []string{
		`(\x. x) y`,
		`f (1 + 2)`,
		`if b then 1 + 1 else 2`,
		`x + 2 * 3`,
		`\x. (\y. y) x`,
		`let id = \x. x in id (z : #) ;; hd (1 : #)`,
		`fix g`,
		`letrec f = \n. f n in f`,
		`(\x. \y. x y) y`,
		`log a base 2 <= 1`,
	}
	for _, src := range programs {
		t.Run(src, func(t *testing.T) {
			ev := New(names.New("Var"))
			once, err := ev.Eval(parseSource(t, src))
			if err != nil {
				t.Fatal(err)
			}
			twice, err := ev.Eval(once)
			if err != nil {
				t.Fatal(err)
			}
			if !ast.Equal(once, twice) {
				t.Errorf("not idempotent:\n%s", pretty.Diff(once, twice))
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name string
		tree ast.Node
		kind error
		op   ast.Kind
	}{
		{"hd of nil", ast.Hd(ast.Nil()), ErrProjection, ast.KindHd},
		{"tl of number", ast.Tl(ast.Num(1)), ErrProjection, ast.KindTl},
		{"hd of open term", ast.Hd(ast.Var("l")), ErrProjection, ast.KindHd},
		{"division by zero", ast.Divide(ast.Num(1), ast.Num(0)), ErrDomain, ast.KindDivide},
		{"log of zero", ast.Log(ast.Num(0), ast.Num(2)), ErrDomain, ast.KindLog},
		{"log base one", ast.Log(ast.Num(5), ast.Num(1)), ErrDomain, ast.KindLog},
		{"log negative base", ast.Log(ast.Num(5), ast.Num(-2)), ErrDomain, ast.KindLog},
		{"nan power", ast.Power(ast.Num(-8), ast.Num(0.5)), ErrDomain, ast.KindPower},
		{"overflow", ast.Power(ast.Num(10), ast.Num(400)), ErrDomain, ast.KindPower},
		{"overflow in product", ast.Multiply(ast.Num(1e300), ast.Num(1e300)), ErrDomain, ast.KindMultiply},
		{"error under let", ast.Let("x", ast.Divide(ast.Num(1), ast.Num(0)), ast.Var("x")), ErrDomain, ast.KindDivide},
		{"unknown tree", ast.App(nil, ast.Num(1)), ErrUnknownTree, 0},
	}
	for backend, eval := range backends {
		for _, tt := range tests {
			t.Run(backend+"/"+tt.name, func(t *testing.T) {
				_, err := eval(New(names.New("Var")), tt.tree)
				if !errors.Is(err, tt.kind) {
					t.Fatalf("expected %v, got %v", tt.kind, err)
				}
				var evalErr *Error
				if !errors.As(err, &evalErr) {
					t.Fatalf("expected *Error, got %T", err)
				}
				if evalErr.Op != tt.op {
					t.Errorf("Op = %s, want %s", evalErr.Op, tt.op)
				}
			})
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	programs := []string{
		`letrec fact = \n. if n <= 0 then 1 else n * fact (n - 1) in fact 6`,
		`let compose = \f. \g. \x. f (g x) in compose (\a. a + 1) (\b. b * 2) 5`,
		`(\x. \y. \z. x y z) y z`,
		`let xs = 1 : 2 : # in hd (tl xs)`,
		`let x = 2 in (\y. x ^ y) 10 ;; log 100 base 10`,
		`if (\v. v) 1 then \q. q else 0`,
	}
	for _, src := range programs {
		t.Run(src, func(t *testing.T) {
			tree := parseSource(t, src)
			m := New(names.New("Var"))
			viaMachine, err := m.Eval(tree)
			if err != nil {
				t.Fatal(err)
			}
			w := New(names.New("Var"))
			viaTree, err := w.EvalTree(tree)
			if err != nil {
				t.Fatal(err)
			}
			if !ast.Equal(viaMachine, viaTree) {
				t.Errorf("backends disagree:\n%s", pretty.Diff(viaMachine, viaTree))
			}
			if m.Steps() != w.Steps() {
				t.Errorf("steps: machine %d, tree %d", m.Steps(), w.Steps())
			}
		})
	}
}

func TestMachineDeepRecursion(t *testing.T) {
	src := `letrec sum = \n. let m = n in if m <= 0 then 0 else m + sum (m - 1) in sum 20000`
	got, err := New(names.New("Var")).Eval(parseSource(t, src))
	if err != nil {
		t.Fatal(err)
	}
	if !ast.Equal(got, ast.Num(200010000)) {
		t.Errorf("got %# v", pretty.Formatter(got))
	}
}

func TestSteps(t *testing.T) {
	ev := New(names.New("Var"))
	if _, err := ev.Eval(parseSource(t, `(\x. x + 1) 2`)); err != nil {
		t.Fatal(err)
	}
	if ev.Steps() != 2 {
		t.Errorf("Steps() = %d, want 2 (beta, plus)", ev.Steps())
	}
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for backend, eval := range backends {
		t.Run(backend, func(t *testing.T) {
			ev := New(names.New("Var"))
			ev.Context = ctx
			_, err := eval(ev, parseSource(t, `(\x. x x) (\x. x x)`))
			if !errors.Is(err, ErrCancelled) {
				t.Fatalf("expected ErrCancelled, got %v", err)
			}
		})
	}
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	ev := New(names.New("Var"))
	ev.Trace = log.New(&buf, "", 0)
	if _, err := ev.Eval(parseSource(t, `let x = 1 + 2 in x * x`)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"step 1: Plus 1.0 + 2.0",
		"step 2: let let x = 3.0 in x * x",
		"step 3: Multiply 3.0 * 3.0",
	}
	if len(lines) != len(want) {
		t.Fatalf("got trace:\n%s", buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestDefaultGenerator(t *testing.T) {
	before := names.Default.Issued()
	got, err := Evaluate(parseSource(t, `(\x. \y. x) y`))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(*ast.Lambda); !ok {
		t.Fatalf("got %T", got)
	}
	if names.Default.Issued() <= before {
		t.Error("expected the default generator to be used")
	}
}
