package prettyprinter_test

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/ast/astgen"
	"github.com/funvibe/lamb/internal/prettyprinter"
)

// FuzzRenderRoundTrip checks that rendering any tree the parser can build
// and parsing the text again gives back an equal tree.
func FuzzRenderRoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{5, 1, 9, 0, 2})
	f.Add([]byte{8, 9, 0, 1, 16, 3, 2, 1, 2, 3})
	f.Add([]byte{12, 13, 0, 2, 9, 3, 0, 17, 0, 1, 0, 2})
	f.Add([]byte{9, 4, 2, 2, 3, 6, 9, 0, 2, 5, 1})
	f.Add([]byte{18, 15, 2, 3, 2, 6, 7, 19, 11, 1, 2, 0})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 512 {
			return
		}
		tree := astgen.NewFromData(data).Tree()
		text := prettyprinter.Render(tree)
		again := parse(t, text)
		if !ast.Equal(tree, again) {
			t.Errorf("round trip through %q changed the tree:\n%s", text, pretty.Diff(tree, again))
		}
	})
}
