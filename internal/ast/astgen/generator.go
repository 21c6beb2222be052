// Package astgen builds random trees for fuzz targets. Every tree it returns
// is one the parser can produce.
package astgen

import (
	"math/rand"

	"github.com/funvibe/lamb/internal/ast"
)

// RandomSource abstracts the source of randomness.
type RandomSource interface {
	Intn(n int) int
}

// ByteSource uses a byte slice as a source of randomness. Once the data is
// used up every choice is 0, which always selects a leaf.
type ByteSource struct {
	data []byte
	pos  int
}

func (s *ByteSource) Intn(n int) int {
	if n <= 0 || s.pos >= len(s.data) {
		return 0
	}
	v := int(s.data[s.pos])
	s.pos++
	return v % n
}

const MaxDepth = 6

// Generator produces trees over a small fixed set of variable names so that
// binders frequently shadow and capture each other.
type Generator struct {
	src   RandomSource
	depth int
	vars  []string
}

func New(seed int64) *Generator {
	return &Generator{src: rand.New(rand.NewSource(seed)), vars: defaultVars()}
}

func NewFromData(data []byte) *Generator {
	return &Generator{src: &ByteSource{data: data}, vars: defaultVars()}
}

func defaultVars() []string {
	return []string{"x", "y", "z", "f"}
}

// Name returns one of the generator's variable names.
func (g *Generator) Name() string {
	return g.vars[g.src.Intn(len(g.vars))]
}

// Tree returns a random tree.
func (g *Generator) Tree() ast.Node {
	if g.depth >= MaxDepth {
		return g.leaf()
	}
	g.depth++
	defer func() { g.depth-- }()

	switch choice := g.src.Intn(20); {
	case choice < 4:
		return g.leaf()
	case choice < 6:
		return ast.Lam(g.Name(), g.Tree())
	case choice < 8:
		return ast.App(g.Tree(), g.Tree())
	case choice < 10:
		return ast.NewArith(ast.KindPlus+ast.Kind(g.src.Intn(5)), g.Tree(), g.Tree())
	case choice < 11:
		return ast.NewComparison(ast.KindLeq+ast.Kind(g.src.Intn(2)), g.Tree(), g.Tree())
	case choice < 12:
		return ast.If(g.Tree(), g.Tree(), g.Tree())
	case choice < 13:
		return ast.Let(g.Name(), g.Tree(), g.Tree())
	case choice < 14:
		return ast.LetRec(g.Name(), g.Tree(), g.Tree())
	case choice < 15:
		return ast.Fix(g.Tree())
	case choice < 16:
		return ast.Log(g.Tree(), g.Tree())
	case choice < 17:
		return ast.Prog(g.Tree(), g.Tree())
	case choice < 18:
		return ast.Cons(g.Tree(), g.Tree())
	case choice < 19:
		return ast.Hd(g.Tree())
	default:
		return ast.Tl(g.Tree())
	}
}

func (g *Generator) leaf() ast.Node {
	switch g.src.Intn(4) {
	case 0, 1:
		return ast.Var(g.Name())
	case 2:
		v := float64(g.src.Intn(10))
		if v != 0 && g.src.Intn(4) == 0 {
			v = -v
		}
		return ast.Num(v)
	default:
		return ast.Nil()
	}
}
