package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/names"
	"github.com/funvibe/lamb/internal/prettyprinter"
	lamb "github.com/funvibe/lamb/pkg/embed"
)

// Options configure Run.
type Options struct {
	// Workers bounds the number of cases evaluated at once; zero means
	// GOMAXPROCS.
	Workers int
	// Names is shared by every case; nil uses names.Default.
	Names   *names.Generator
	Backend string
}

// Result is the outcome of one case.
type Result struct {
	Case    string
	Passed  bool
	Got     string
	Code    string
	Steps   uint64
	Reason  string
	Elapsed time.Duration
}

// Report collects the results of a run in case order.
type Report struct {
	RunID   uuid.UUID
	Suite   string
	Results []Result
	Passed  int
	Failed  int
}

// Failures returns the results of failed cases.
func (r *Report) Failures() []Result {
	return lo.Filter(r.Results, func(res Result, _ int) bool { return !res.Passed })
}

// OK reports whether every case passed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Run evaluates every case of suite concurrently. A failing case does not
// stop the others; Run returns an error only if ctx is cancelled.
func Run(ctx context.Context, suite *Suite, opts Options) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if opts.Names == nil {
		opts.Names = names.Default
	}

	results := make([]Result, len(suite.Cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range suite.Cases {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = runCase(gctx, c, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passed := lo.CountBy(results, func(r Result) bool { return r.Passed })
	return &Report{
		RunID:   uuid.New(),
		Suite:   suite.Name,
		Results: results,
		Passed:  passed,
		Failed:  len(results) - passed,
	}, nil
}

func runCase(ctx context.Context, c Case, opts Options) Result {
	start := time.Now()
	res := Result{Case: c.Name}
	out, err := lamb.Interpret(ctx, c.Source, lamb.WithBackend(opts.Backend), lamb.WithNames(opts.Names))
	res.Elapsed = time.Since(start)

	if err != nil {
		var lerr *lamb.Error
		if errors.As(err, &lerr) {
			res.Code = string(lerr.Code())
		}
		switch {
		case c.Error == "":
			res.Reason = fmt.Sprintf("unexpected error: %v", err)
		case res.Code != c.Error:
			res.Reason = fmt.Sprintf("error %s, want %s: %v", res.Code, c.Error, err)
		default:
			res.Passed = true
		}
		return res
	}

	res.Got = out.Text
	res.Steps = out.Steps
	if c.Error != "" {
		res.Reason = fmt.Sprintf("got %s, want error %s", out.Text, c.Error)
		return res
	}
	want, err := lamb.Parse(c.Want)
	if err != nil {
		res.Reason = fmt.Sprintf("bad want: %v", err)
		return res
	}
	if !ast.AlphaEquivalent(out.Tree, want) {
		res.Reason = fmt.Sprintf("got %s, want %s", out.Text, prettyprinter.Render(want))
		return res
	}
	if c.Steps != nil && *c.Steps != out.Steps {
		res.Reason = fmt.Sprintf("took %d steps, want %d", out.Steps, *c.Steps)
		return res
	}
	res.Passed = true
	return res
}
