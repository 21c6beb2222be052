package evaluator

import (
	"github.com/funvibe/lamb/internal/ast"
)

// frameKind says what a frame waits for. frameApply has evaluated the
// function and holds the pending argument. frameOperandLeft has its first
// operand evaluated and frameOperandRight both. framePairLeft holds the
// evaluated first component of a Prog or Cons.
type frameKind int

const (
	frameApply frameKind = iota
	frameOperandLeft
	frameOperandRight
	frameCond
	frameLet
	frameLetRec
	frameFix
	framePairLeft
	framePairRight
	frameProject
)

type frame struct {
	kind frameKind
	node ast.Node
	// left holds the evaluated first operand for the *Right frames.
	left ast.Node
}

// Eval reduces tree to normal form on an explicit stack of frames, so deep
// recursion in the program does not grow the goroutine stack. Beta, let,
// letrec and fix steps continue with the substituted body in place of the
// redex without pushing a frame.
func (e *Evaluator) Eval(tree ast.Node) (ast.Node, error) {
	var stack []frame
	cur := tree
	var val ast.Node
	// descending is true while cur still has to be evaluated and false while
	// val is being returned to the frame on top of the stack.
	descending := true

	for {
		if descending {
			if err := e.poll(); err != nil {
				return nil, err
			}
			switch n := cur.(type) {
			case *ast.Variable, *ast.Number, *ast.Lambda, *ast.EmptyList:
				val = n
				descending = false
			case *ast.Application:
				stack = append(stack, frame{kind: frameApply, node: n})
				cur = n.Fn
			case *ast.Arith:
				stack = append(stack, frame{kind: frameOperandLeft, node: n})
				cur = n.Left
			case *ast.Comparison:
				stack = append(stack, frame{kind: frameOperandLeft, node: n})
				cur = n.Left
			case *ast.Logarithm:
				stack = append(stack, frame{kind: frameOperandLeft, node: n})
				cur = n.Arg
			case *ast.Conditional:
				stack = append(stack, frame{kind: frameCond, node: n})
				cur = n.Cond
			case *ast.LetBinding:
				stack = append(stack, frame{kind: frameLet, node: n})
				cur = n.Value
			case *ast.LetRecBinding:
				stack = append(stack, frame{kind: frameLetRec, node: n})
				cur = n.Value
			case *ast.Fixpoint:
				stack = append(stack, frame{kind: frameFix, node: n})
				cur = n.Target
			case *ast.Sequence:
				stack = append(stack, frame{kind: framePairLeft, node: n})
				cur = n.First
			case *ast.ConsCell:
				stack = append(stack, frame{kind: framePairLeft, node: n})
				cur = n.Head
			case *ast.Projection:
				stack = append(stack, frame{kind: frameProject, node: n})
				cur = n.List
			default:
				return nil, unknownTree(cur)
			}
			continue
		}

		if len(stack) == 0 {
			return val, nil
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var err error
		switch f.kind {
		case frameApply:
			app := f.node.(*ast.Application)
			lam, ok := val.(*ast.Lambda)
			if !ok {
				val = ast.App(val, app.Arg)
				break
			}
			e.step("beta", ast.App(lam, app.Arg))
			cur, err = e.substitute(lam.Body, lam.Binder, app.Arg)
			descending = true

		case frameOperandLeft:
			stack = append(stack, frame{kind: frameOperandRight, node: f.node, left: val})
			cur, descending = secondOperand(f.node), true

		case frameOperandRight:
			redex := ast.Rebuild(f.node, "", []ast.Node{f.left, val})
			var reduced bool
			val, reduced, err = combine(f.node, f.left, val)
			if reduced {
				e.step(f.node.Kind().String(), redex)
			}

		case frameCond:
			c := f.node.(*ast.Conditional)
			branch, ok := selectBranch(c, val)
			if !ok {
				val = ast.If(val, c.Then, c.Else)
				break
			}
			e.step("if", ast.If(val, c.Then, c.Else))
			cur, descending = branch, true

		case frameLet:
			let := f.node.(*ast.LetBinding)
			e.step("let", ast.Let(let.Binder, val, let.Body))
			cur, err = e.substitute(let.Body, let.Binder, val)
			descending = true

		case frameLetRec:
			rec := f.node.(*ast.LetRecBinding)
			e.step("letrec", ast.LetRec(rec.Binder, val, rec.Body))
			cur, err = e.substitute(rec.Body, rec.Binder, recursiveValue(rec.Binder, val))
			descending = true

		case frameFix:
			lam, ok := val.(*ast.Lambda)
			if !ok {
				val = ast.Fix(val)
				break
			}
			e.step("fix", ast.Fix(lam))
			cur, descending = unfold(lam), true

		case framePairLeft:
			stack = append(stack, frame{kind: framePairRight, node: f.node, left: val})
			cur, descending = ast.Children(f.node)[1], true

		case framePairRight:
			val = ast.Rebuild(f.node, "", []ast.Node{f.left, val})

		case frameProject:
			p := f.node.(*ast.Projection)
			redex := &ast.Projection{Op: p.Op, List: val}
			if val, err = project(p.Op, val); err == nil {
				e.step(opName(p.Op), redex)
			}
		}
		if err != nil {
			return nil, err
		}
	}
}

func secondOperand(n ast.Node) ast.Node {
	switch n := n.(type) {
	case *ast.Arith:
		return n.Right
	case *ast.Comparison:
		return n.Right
	case *ast.Logarithm:
		return n.Base
	}
	return nil
}
