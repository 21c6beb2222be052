package prettyprinter

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/config"
)

// --- Code Printer (Output looks like source code) ---

// Precedence levels (higher = binds tighter). Keyword forms that extend to
// the right (let, letrec, if) sit just above sequencing; lambda and
// application are always printed in their own parentheses.
const (
	precLowest = iota
	precSeq
	precOpen
	precCons
	precCompare
	precSum
	precProduct
	precPower
	precPrefix
	precAtom
)

var infixOperators = map[ast.Kind]string{
	ast.KindPlus:     "+",
	ast.KindMinus:    "-",
	ast.KindMultiply: "*",
	ast.KindDivide:   "/",
	ast.KindPower:    "^",
	ast.KindLeq:      "<=",
	ast.KindEq:       "==",
	ast.KindCons:     ":",
	ast.KindProg:     ";;",
}

// Right-associative operators
var rightAssoc = map[ast.Kind]bool{
	ast.KindPower: true,
	ast.KindCons:  true,
	ast.KindProg:  true,
}

// Non-associative operators parenthesize both operands.
var nonAssoc = map[ast.Kind]bool{
	ast.KindLeq: true,
	ast.KindEq:  true,
}

func precedenceOf(n ast.Node) int {
	switch n.Kind() {
	case ast.KindProg:
		return precSeq
	case ast.KindLet, ast.KindLetRec, ast.KindIf:
		return precOpen
	case ast.KindCons:
		return precCons
	case ast.KindLeq, ast.KindEq:
		return precCompare
	case ast.KindPlus, ast.KindMinus:
		return precSum
	case ast.KindMultiply, ast.KindDivide:
		return precProduct
	case ast.KindPower:
		return precPower
	case ast.KindFix, ast.KindHd, ast.KindTl, ast.KindLog:
		return precPrefix
	case ast.KindNum:
		// A leading minus sign makes a negative literal an operator-level form.
		if math.Signbit(n.(*ast.Number).Value) {
			return precPower
		}
	}
	return precAtom
}

type CodePrinter struct {
	buf bytes.Buffer
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Render returns the source form of n. Parsing the result yields a tree equal
// to n for every tree the parser can produce.
func Render(n ast.Node) string {
	p := NewCodePrinter()
	p.Print(n)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

// Print appends the source form of n.
func (p *CodePrinter) Print(n ast.Node) {
	p.printExpr(n, precLowest)
}

// printExpr prints n, wrapping it in parentheses when it binds looser than
// minPrec.
func (p *CodePrinter) printExpr(n ast.Node, minPrec int) {
	if precedenceOf(n) < minPrec {
		p.write("(")
		defer p.write(")")
	}

	switch n := n.(type) {
	case *ast.Variable:
		p.write(n.Name)
	case *ast.Number:
		p.write(FormatNumber(n.Value))
	case *ast.EmptyList:
		p.write(config.NilLiteral)
	case *ast.Lambda:
		p.write("(\\")
		p.write(n.Binder)
		p.write(".")
		p.printExpr(n.Body, precOpen)
		p.write(")")
	case *ast.Application:
		p.write("(")
		p.printExpr(n.Fn, precPrefix)
		p.write(" ")
		p.printExpr(n.Arg, precPrefix)
		p.write(")")
	case *ast.Arith:
		p.printInfix(n, n.Left, n.Right)
	case *ast.Comparison:
		p.printInfix(n, n.Left, n.Right)
	case *ast.ConsCell:
		p.printInfix(n, n.Head, n.Tail)
	case *ast.Sequence:
		p.printInfix(n, n.First, n.Second)
	case *ast.Logarithm:
		p.write("log ")
		p.printExpr(n.Arg, precPrefix)
		p.write(" base ")
		p.printExpr(n.Base, precPrefix)
	case *ast.Conditional:
		p.write("if ")
		p.printExpr(n.Cond, precSeq)
		p.write(" then ")
		p.printExpr(n.Then, precSeq)
		p.write(" else ")
		p.printExpr(n.Else, precOpen)
	case *ast.LetBinding:
		p.printLet("let", n.Binder, n.Value, n.Body)
	case *ast.LetRecBinding:
		p.printLet("letrec", n.Binder, n.Value, n.Body)
	case *ast.Fixpoint:
		p.printPrefix("fix", n.Target)
	case *ast.Projection:
		if n.Op == ast.KindHd {
			p.printPrefix("hd", n.List)
		} else {
			p.printPrefix("tl", n.List)
		}
	default:
		panic(fmt.Sprintf("unhandled case: %T", n))
	}
}

func (p *CodePrinter) printInfix(n, left, right ast.Node) {
	prec := precedenceOf(n)
	leftPrec, rightPrec := prec, prec+1
	switch {
	case nonAssoc[n.Kind()]:
		leftPrec = prec + 1
	case rightAssoc[n.Kind()]:
		leftPrec, rightPrec = prec+1, prec
	}
	p.printExpr(left, leftPrec)
	p.write(" ")
	p.write(infixOperators[n.Kind()])
	p.write(" ")
	p.printExpr(right, rightPrec)
}

func (p *CodePrinter) printPrefix(keyword string, operand ast.Node) {
	p.write(keyword)
	p.write(" ")
	p.printExpr(operand, precPrefix)
}

func (p *CodePrinter) printLet(keyword, binder string, value, body ast.Node) {
	p.write(keyword)
	p.write(" ")
	p.write(binder)
	p.write(" = ")
	p.printExpr(value, precSeq)
	p.write(" in ")
	p.printExpr(body, precOpen)
}

// FormatNumber prints v the way results are shown: integral values keep a
// trailing ".0" and very large or very small magnitudes use exponent form.
func FormatNumber(v float64) string {
	abs := math.Abs(v)
	if v != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
