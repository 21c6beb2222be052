package evaluator

import (
	"fmt"
	"math"

	"github.com/funvibe/lamb/internal/ast"
)

// The helpers below implement the individual reduction rules on operands that
// are already in normal form. Both evaluators call them, so the two agree by
// construction on everything except traversal order.

// combine reduces an arithmetic, comparison or logarithm node whose operands
// have been evaluated to l and r. When either operand is not a number the
// node is stuck and is rebuilt with the evaluated operands; reduced is false.
func combine(n ast.Node, l, r ast.Node) (result ast.Node, reduced bool, err error) {
	ln, lok := l.(*ast.Number)
	rn, rok := r.(*ast.Number)
	if !lok || !rok {
		return ast.Rebuild(n, "", []ast.Node{l, r}), false, nil
	}
	a, b := ln.Value, rn.Value

	var v float64
	switch op := n.Kind(); op {
	case ast.KindPlus:
		v = a + b
	case ast.KindMinus:
		v = a - b
	case ast.KindMultiply:
		v = a * b
	case ast.KindDivide:
		if b == 0 {
			return nil, false, domainError(op, ast.Divide(l, r), "division by zero")
		}
		v = a / b
	case ast.KindPower:
		v = math.Pow(a, b)
	case ast.KindLog:
		switch {
		case a <= 0:
			return nil, false, domainError(op, ast.Log(l, r), "logarithm of non-positive number %s", formatFloat(a))
		case b <= 0 || b == 1:
			return nil, false, domainError(op, ast.Log(l, r), "invalid logarithm base %s", formatFloat(b))
		}
		v = math.Log(a) / math.Log(b)
	case ast.KindLeq:
		return ast.Num(truth(a <= b)), true, nil
	case ast.KindEq:
		return ast.Num(truth(a == b)), true, nil
	default:
		return nil, false, unknownTree(n)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false, domainError(n.Kind(), ast.Rebuild(n, "", []ast.Node{l, r}),
			"%s of %s and %s is not a finite number", n.Kind(), formatFloat(a), formatFloat(b))
	}
	return ast.Num(v), true, nil
}

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// selectBranch picks the branch of c for an evaluated condition. A condition
// that is not a number leaves the conditional stuck.
func selectBranch(c *ast.Conditional, cond ast.Node) (ast.Node, bool) {
	num, ok := cond.(*ast.Number)
	if !ok {
		return nil, false
	}
	if num.Value != 0 {
		return c.Then, true
	}
	return c.Else, true
}

// project applies hd or tl to an evaluated list.
func project(op ast.Kind, list ast.Node) (ast.Node, error) {
	cell, ok := list.(*ast.ConsCell)
	if !ok {
		return nil, &Error{
			Kind:    ErrProjection,
			Op:      op,
			Node:    list,
			Message: fmt.Sprintf("%s expects a list cell, got %s", opName(op), list.Kind()),
		}
	}
	if op == ast.KindHd {
		return cell.Head, nil
	}
	return cell.Tail, nil
}

func opName(op ast.Kind) string {
	switch op {
	case ast.KindHd:
		return "hd"
	case ast.KindTl:
		return "tl"
	}
	return op.String()
}

// recursiveValue is what a letrec binder stands for in its body.
func recursiveValue(binder string, value ast.Node) ast.Node {
	return ast.Fix(ast.Lam(binder, value))
}

// unfold is the fixpoint rule: fix f => f (fix f).
func unfold(lam *ast.Lambda) ast.Node {
	return ast.App(lam, ast.Fix(lam))
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
