package evaluator

import (
	"github.com/funvibe/lamb/internal/ast"
)

// EvalTree is the direct recursive evaluator. It applies the same rules as
// Eval and is kept as the reference the machine is checked against; its
// recursion depth follows the program's.
func (e *Evaluator) EvalTree(tree ast.Node) (ast.Node, error) {
	return e.evalTree(tree)
}

func (e *Evaluator) evalTree(n ast.Node) (ast.Node, error) {
	for {
		if err := e.poll(); err != nil {
			return nil, err
		}
		switch node := n.(type) {
		case *ast.Variable, *ast.Number, *ast.Lambda, *ast.EmptyList:
			return node, nil

		case *ast.Application:
			fn, err := e.evalTree(node.Fn)
			if err != nil {
				return nil, err
			}
			lam, ok := fn.(*ast.Lambda)
			if !ok {
				return ast.App(fn, node.Arg), nil
			}
			e.step("beta", ast.App(lam, node.Arg))
			if n, err = e.substitute(lam.Body, lam.Binder, node.Arg); err != nil {
				return nil, err
			}

		case *ast.Arith, *ast.Comparison, *ast.Logarithm:
			kids := ast.Children(node)
			l, err := e.evalTree(kids[0])
			if err != nil {
				return nil, err
			}
			r, err := e.evalTree(kids[1])
			if err != nil {
				return nil, err
			}
			val, reduced, err := combine(node, l, r)
			if err != nil {
				return nil, err
			}
			if reduced {
				e.step(node.Kind().String(), ast.Rebuild(node, "", []ast.Node{l, r}))
			}
			return val, nil

		case *ast.Conditional:
			cond, err := e.evalTree(node.Cond)
			if err != nil {
				return nil, err
			}
			branch, ok := selectBranch(node, cond)
			if !ok {
				return ast.If(cond, node.Then, node.Else), nil
			}
			e.step("if", ast.If(cond, node.Then, node.Else))
			n = branch

		case *ast.LetBinding:
			val, err := e.evalTree(node.Value)
			if err != nil {
				return nil, err
			}
			e.step("let", ast.Let(node.Binder, val, node.Body))
			if n, err = e.substitute(node.Body, node.Binder, val); err != nil {
				return nil, err
			}

		case *ast.LetRecBinding:
			val, err := e.evalTree(node.Value)
			if err != nil {
				return nil, err
			}
			e.step("letrec", ast.LetRec(node.Binder, val, node.Body))
			if n, err = e.substitute(node.Body, node.Binder, recursiveValue(node.Binder, val)); err != nil {
				return nil, err
			}

		case *ast.Fixpoint:
			target, err := e.evalTree(node.Target)
			if err != nil {
				return nil, err
			}
			lam, ok := target.(*ast.Lambda)
			if !ok {
				return ast.Fix(target), nil
			}
			e.step("fix", ast.Fix(lam))
			n = unfold(lam)

		case *ast.Sequence, *ast.ConsCell:
			kids := ast.Children(node)
			first, err := e.evalTree(kids[0])
			if err != nil {
				return nil, err
			}
			second, err := e.evalTree(kids[1])
			if err != nil {
				return nil, err
			}
			return ast.Rebuild(node, "", []ast.Node{first, second}), nil

		case *ast.Projection:
			list, err := e.evalTree(node.List)
			if err != nil {
				return nil, err
			}
			val, err := project(node.Op, list)
			if err != nil {
				return nil, err
			}
			e.step(opName(node.Op), &ast.Projection{Op: node.Op, List: list})
			return val, nil

		default:
			return nil, unknownTree(n)
		}
	}
}
