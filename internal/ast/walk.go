package ast

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Children returns the direct subtrees of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Variable, *Number, *EmptyList:
		return nil
	case *Lambda:
		return []Node{n.Body}
	case *Application:
		return []Node{n.Fn, n.Arg}
	case *Arith:
		return []Node{n.Left, n.Right}
	case *Logarithm:
		return []Node{n.Arg, n.Base}
	case *Conditional:
		return []Node{n.Cond, n.Then, n.Else}
	case *Comparison:
		return []Node{n.Left, n.Right}
	case *LetBinding:
		return []Node{n.Value, n.Body}
	case *LetRecBinding:
		return []Node{n.Value, n.Body}
	case *Fixpoint:
		return []Node{n.Target}
	case *Sequence:
		return []Node{n.First, n.Second}
	case *ConsCell:
		return []Node{n.Head, n.Tail}
	case *Projection:
		return []Node{n.List}
	default:
		panic(fmt.Sprintf("unhandled case: %T", n))
	}
}

// Binder returns the name bound by n, if n is a binding form.
func Binder(n Node) (string, bool) {
	switch n := n.(type) {
	case *Lambda:
		return n.Binder, true
	case *LetBinding:
		return n.Binder, true
	case *LetRecBinding:
		return n.Binder, true
	}
	return "", false
}

// BinderScopes reports, for each child of a binding form, whether the binder
// is in scope there. A let binder does not scope over its own value.
func BinderScopes(n Node) []bool {
	switch n.(type) {
	case *Lambda:
		return []bool{true}
	case *LetBinding:
		return []bool{false, true}
	case *LetRecBinding:
		return []bool{true, true}
	}
	return nil
}

// Rebuild returns a node of the same variant as n with the given binder and
// children. The binder is ignored for non-binding forms.
func Rebuild(n Node, binder string, kids []Node) Node {
	switch n := n.(type) {
	case *Variable, *Number, *EmptyList:
		return n
	case *Lambda:
		return Lam(binder, kids[0])
	case *Application:
		return App(kids[0], kids[1])
	case *Arith:
		return NewArith(n.Op, kids[0], kids[1])
	case *Logarithm:
		return Log(kids[0], kids[1])
	case *Conditional:
		return If(kids[0], kids[1], kids[2])
	case *Comparison:
		return NewComparison(n.Op, kids[0], kids[1])
	case *LetBinding:
		return Let(binder, kids[0], kids[1])
	case *LetRecBinding:
		return LetRec(binder, kids[0], kids[1])
	case *Fixpoint:
		return Fix(kids[0])
	case *Sequence:
		return Prog(kids[0], kids[1])
	case *ConsCell:
		return Cons(kids[0], kids[1])
	case *Projection:
		return &Projection{Op: n.Op, List: kids[0]}
	default:
		panic(fmt.Sprintf("unhandled case: %T", n))
	}
}

// Equal reports whether a and b are structurally identical, binder names
// included.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *Variable:
		return a.Name == b.(*Variable).Name
	case *Number:
		return a.Value == b.(*Number).Value
	}
	ba, _ := Binder(a)
	bb, _ := Binder(b)
	if ba != bb {
		return false
	}
	ka, kb := Children(a), Children(b)
	for i := range ka {
		if !Equal(ka[i], kb[i]) {
			return false
		}
	}
	return true
}

// AlphaEquivalent reports whether a and b are equal up to consistent renaming
// of bound variables. Free variables must match by name.
func AlphaEquivalent(a, b Node) bool {
	return alphaEq(a, b, nil, nil)
}

// alphaEq tracks binders as parallel stacks; a bound variable is identified by
// the depth of its innermost binder.
func alphaEq(a, b Node, envA, envB []string) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *Variable:
		ia := slices.Index(reversed(envA), a.Name)
		ib := slices.Index(reversed(envB), b.(*Variable).Name)
		if ia < 0 && ib < 0 {
			return a.Name == b.(*Variable).Name
		}
		return ia == ib
	case *Number:
		return a.Value == b.(*Number).Value
	}
	ka, kb := Children(a), Children(b)
	ba, isBinder := Binder(a)
	bb, _ := Binder(b)
	scopes := BinderScopes(a)
	for i := range ka {
		ea, eb := envA, envB
		if isBinder && scopes[i] {
			ea = append(slices.Clip(envA), ba)
			eb = append(slices.Clip(envB), bb)
		}
		if !alphaEq(ka[i], kb[i], ea, eb) {
			return false
		}
	}
	return true
}

func reversed(s []string) []string {
	out := slices.Clone(s)
	slices.Reverse(out)
	return out
}

// FreeVars returns the sorted, de-duplicated names occurring free in n.
func FreeVars(n Node) []string {
	var names []string
	collectFree(n, map[string]int{}, &names)
	names = lo.Uniq(names)
	slices.Sort(names)
	return names
}

func collectFree(n Node, bound map[string]int, out *[]string) {
	if v, ok := n.(*Variable); ok {
		if bound[v.Name] == 0 {
			*out = append(*out, v.Name)
		}
		return
	}
	binder, isBinder := Binder(n)
	scopes := BinderScopes(n)
	for i, kid := range Children(n) {
		if isBinder && scopes[i] {
			bound[binder]++
			collectFree(kid, bound, out)
			bound[binder]--
			continue
		}
		collectFree(kid, bound, out)
	}
}

// Size counts the nodes in n.
func Size(n Node) int {
	total := 1
	for _, kid := range Children(n) {
		total += Size(kid)
	}
	return total
}
