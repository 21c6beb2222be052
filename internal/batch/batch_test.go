package batch

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/funvibe/lamb/internal/names"
)

func TestPropertiesSuite(t *testing.T) {
	suite, err := Load("testdata/properties.yaml")
	if err != nil {
		t.Fatal(err)
	}
	for _, backend := range []string{"machine", "tree"} {
		t.Run(backend, func(t *testing.T) {
			report, err := Run(context.Background(), suite, Options{Workers: 4, Names: names.New("Var"), Backend: backend})
			if err != nil {
				t.Fatal(err)
			}
			for _, f := range report.Failures() {
				t.Errorf("%s: %s", f.Case, f.Reason)
			}
			if report.Passed != len(suite.Cases) || !report.OK() {
				t.Errorf("passed %d of %d", report.Passed, len(suite.Cases))
			}
			if report.RunID == uuid.Nil {
				t.Error("missing run id")
			}
			if report.Suite != "reduction properties" {
				t.Errorf("Suite = %q", report.Suite)
			}
		})
	}
}

func TestLoadKeepsListSyntax(t *testing.T) {
	suite, err := Load("testdata/properties.yaml")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"list tail":          "tl (1 : 1 + 1 : #)",
		"head of empty list": "hd #",
	}
	for _, c := range suite.Cases {
		if src, ok := want[c.Name]; ok {
			if c.Source != src {
				t.Errorf("%s: source = %q, want %q", c.Name, c.Source, src)
			}
			delete(want, c.Name)
		}
	}
	if len(want) != 0 {
		t.Errorf("missing cases: %v", want)
	}
}

func TestRunReportsFailures(t *testing.T) {
	suite, err := Parse([]byte(`
cases:
  - name: wrong value
    source: 1 + 1
    want: "3"
  - name: unexpected error
    source: "hd #"
    want: "1"
  - name: missing error
    source: "1"
    error: R001
  - name: wrong code
    source: 1 / 0
    error: R002
  - name: wrong steps
    source: 1 + 1
    want: "2"
    steps: 5
  - name: ok
    source: \x. x
    want: \y. y
`), "inline")
	if err != nil {
		t.Fatal(err)
	}
	report, err := Run(context.Background(), suite, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if report.Passed != 1 || report.Failed != 5 {
		t.Fatalf("passed %d failed %d", report.Passed, report.Failed)
	}
	reasons := map[string]string{}
	for _, f := range report.Failures() {
		reasons[f.Case] = f.Reason
	}
	expect := map[string]string{
		"wrong value":      "got 2.0, want 3.0",
		"unexpected error": "unexpected error",
		"missing error":    "want error R001",
		"wrong code":       "error R001, want R002",
		"wrong steps":      "took 1 steps, want 5",
	}
	for name, want := range expect {
		if !strings.Contains(reasons[name], want) {
			t.Errorf("%s: reason %q does not mention %q", name, reasons[name], want)
		}
	}
	if report.Results[5].Case != "ok" || !report.Results[5].Passed {
		t.Errorf("results out of order: %+v", report.Results[5])
	}
	if report.Suite != "inline" {
		t.Errorf("Suite = %q", report.Suite)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "cases:\n  - name: a\n    source: x\n    want: x\n    expect: x\n", "expect"},
		{"missing name", "cases:\n  - source: x\n    want: x\n", "missing name"},
		{"missing source", "cases:\n  - name: a\n    want: x\n", "missing source"},
		{"both outcomes", "cases:\n  - name: a\n    source: x\n    want: x\n    error: R001\n", "exactly one"},
		{"no outcome", "cases:\n  - name: a\n    source: x\n", "exactly one"},
		{"unknown code", "cases:\n  - name: a\n    source: x\n    error: E42\n", "unknown error code"},
		{"duplicate", "cases:\n  - name: a\n    source: x\n    want: x\n  - name: a\n    source: y\n    want: y\n", "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), "suite.yaml")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestRunCancelled(t *testing.T) {
	suite := &Suite{Name: "loop", Cases: []Case{{Name: "omega", Source: `(\x. x x) (\x. x x)`, Want: "1"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, suite, Options{}); err == nil {
		t.Fatal("expected cancellation error")
	}
}
