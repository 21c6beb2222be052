package evaluator

import (
	"github.com/funvibe/lamb/internal/ast"
	"github.com/funvibe/lamb/internal/names"
)

// scope is a persistent list of pending replacements, innermost first.
// A nil repl marks a name that a binder has shadowed.
type scope struct {
	name string
	repl ast.Node
	next *scope
	// live counts the names with a non-nil replacement that are visible
	// from this entry.
	live int
}

func (s *scope) lookup(name string) *scope {
	for e := s; e != nil; e = e.next {
		if e.name == name {
			return e
		}
	}
	return nil
}

func (s *scope) liveCount() int {
	if s == nil {
		return 0
	}
	return s.live
}

func (s *scope) bind(name string, repl ast.Node) *scope {
	live := s.liveCount()
	if prev := s.lookup(name); prev != nil && prev.repl != nil {
		live--
	}
	if repl != nil {
		live++
	}
	return &scope{name: name, repl: repl, next: s, live: live}
}

// Substitute replaces the free occurrences of name in tree by repl. Binders
// are renamed to fresh names from gen so that free variables of repl are
// never captured; a binder equal to name shadows it and its scope is left
// untouched.
func Substitute(tree ast.Node, name string, repl ast.Node, gen *names.Generator) (ast.Node, error) {
	return substitute(tree, (*scope)(nil).bind(name, repl), gen)
}

type substTask struct {
	node   ast.Node
	scope  *scope
	binder string
	// expanded is set once the children have been scheduled; the task then
	// waits for their results on the output stack.
	expanded bool
}

// substitute applies every replacement in env at once. Renaming a binder
// adds binder -> Var(fresh) to the environment of its scope, which is the
// same as substituting the fresh name first and the original replacement
// afterwards.
func substitute(tree ast.Node, env *scope, gen *names.Generator) (ast.Node, error) {
	tasks := []substTask{{node: tree, scope: env}}
	var out []ast.Node

	for len(tasks) > 0 {
		t := tasks[len(tasks)-1]
		tasks = tasks[:len(tasks)-1]

		if t.expanded {
			kids := ast.Children(t.node)
			n := len(kids)
			rebuilt := ast.Rebuild(t.node, t.binder, out[len(out)-n:])
			out = out[:len(out)-n]
			out = append(out, rebuilt)
			continue
		}

		if !known(t.node) {
			return nil, unknownTree(t.node)
		}
		if t.scope.liveCount() == 0 {
			out = append(out, t.node)
			continue
		}
		if v, ok := t.node.(*ast.Variable); ok {
			if e := t.scope.lookup(v.Name); e != nil && e.repl != nil {
				out = append(out, e.repl)
			} else {
				out = append(out, v)
			}
			continue
		}

		kids := ast.Children(t.node)
		if len(kids) == 0 {
			out = append(out, t.node)
			continue
		}

		inner := t.scope
		binder, isBinder := ast.Binder(t.node)
		if isBinder {
			inner = t.scope.bind(binder, nil)
			if inner.liveCount() > 0 {
				fresh := gen.Next()
				inner = t.scope.bind(binder, ast.Var(fresh))
				binder = fresh
			}
		}

		tasks = append(tasks, substTask{node: t.node, scope: t.scope, binder: binder, expanded: true})
		scopes := ast.BinderScopes(t.node)
		for i := len(kids) - 1; i >= 0; i-- {
			s := t.scope
			if isBinder && scopes[i] {
				s = inner
			}
			tasks = append(tasks, substTask{node: kids[i], scope: s})
		}
	}

	return out[0], nil
}

func known(n ast.Node) bool {
	switch n.(type) {
	case *ast.Variable, *ast.Lambda, *ast.Application, *ast.Number,
		*ast.Arith, *ast.Logarithm, *ast.Conditional, *ast.Comparison,
		*ast.LetBinding, *ast.LetRecBinding, *ast.Fixpoint, *ast.Sequence,
		*ast.ConsCell, *ast.Projection, *ast.EmptyList:
		return true
	}
	return false
}
