package ast

import "fmt"

// Kind tags every node variant. Several variants of the same shape share one
// struct (Arith, Comparison, Projection) and are told apart by Kind.
type Kind int

const (
	KindVar Kind = iota
	KindLam
	KindApp
	KindNum
	KindPlus
	KindMinus
	KindMultiply
	KindDivide
	KindPower
	KindLog
	KindIf
	KindLeq
	KindEq
	KindLet
	KindLetRec
	KindFix
	KindProg
	KindCons
	KindHd
	KindTl
	KindNil
)

var kindNames = [...]string{
	KindVar:      "Var",
	KindLam:      "Lam",
	KindApp:      "App",
	KindNum:      "Num",
	KindPlus:     "Plus",
	KindMinus:    "Minus",
	KindMultiply: "Multiply",
	KindDivide:   "Divide",
	KindPower:    "Power",
	KindLog:      "Log",
	KindIf:       "If",
	KindLeq:      "Leq",
	KindEq:       "Eq",
	KindLet:      "Let",
	KindLetRec:   "LetRec",
	KindFix:      "Fix",
	KindProg:     "Prog",
	KindCons:     "Cons",
	KindHd:       "Hd",
	KindTl:       "Tl",
	KindNil:      "Nil",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsArith reports whether k is one of the binary arithmetic operators.
func (k Kind) IsArith() bool {
	return k >= KindPlus && k <= KindPower
}

// IsComparison reports whether k is Leq or Eq.
func (k Kind) IsComparison() bool {
	return k == KindLeq || k == KindEq
}

// Node is the closed set of tree variants. Nodes are never mutated after
// construction; transformations always build new nodes.
type Node interface {
	Kind() Kind
	node()
}

// Variable is a free or bound variable reference.
type Variable struct {
	Name string
}

// Lambda is a function abstraction.
type Lambda struct {
	Binder string
	Body   Node
}

// Application applies Fn to Arg.
type Application struct {
	Fn  Node
	Arg Node
}

// Number is a numeric literal or a reduced number.
type Number struct {
	Value float64
}

// Arith is a binary arithmetic node; Op is one of Plus..Power.
type Arith struct {
	Op    Kind
	Left  Node
	Right Node
}

// Logarithm is the logarithm of Arg in Base.
type Logarithm struct {
	Arg  Node
	Base Node
}

// Conditional is if/then/else.
type Conditional struct {
	Cond Node
	Then Node
	Else Node
}

// Comparison is Leq or Eq.
type Comparison struct {
	Op    Kind
	Left  Node
	Right Node
}

// LetBinding binds Binder to Value in Body only.
type LetBinding struct {
	Binder string
	Value  Node
	Body   Node
}

// LetRecBinding binds Binder in both Value and Body.
type LetRecBinding struct {
	Binder string
	Value  Node
	Body   Node
}

// Fixpoint applies the fixpoint operator to Target.
type Fixpoint struct {
	Target Node
}

// Sequence keeps the results of both expressions.
type Sequence struct {
	First  Node
	Second Node
}

// ConsCell is a list cell.
type ConsCell struct {
	Head Node
	Tail Node
}

// Projection is Hd or Tl applied to List.
type Projection struct {
	Op   Kind
	List Node
}

// EmptyList is the empty list.
type EmptyList struct{}

func (*Variable) Kind() Kind      { return KindVar }
func (*Lambda) Kind() Kind        { return KindLam }
func (*Application) Kind() Kind   { return KindApp }
func (*Number) Kind() Kind        { return KindNum }
func (a *Arith) Kind() Kind       { return a.Op }
func (*Logarithm) Kind() Kind     { return KindLog }
func (*Conditional) Kind() Kind   { return KindIf }
func (c *Comparison) Kind() Kind  { return c.Op }
func (*LetBinding) Kind() Kind    { return KindLet }
func (*LetRecBinding) Kind() Kind { return KindLetRec }
func (*Fixpoint) Kind() Kind      { return KindFix }
func (*Sequence) Kind() Kind      { return KindProg }
func (*ConsCell) Kind() Kind      { return KindCons }
func (p *Projection) Kind() Kind  { return p.Op }
func (*EmptyList) Kind() Kind     { return KindNil }

func (*Variable) node()      {}
func (*Lambda) node()        {}
func (*Application) node()   {}
func (*Number) node()        {}
func (*Arith) node()         {}
func (*Logarithm) node()     {}
func (*Conditional) node()   {}
func (*Comparison) node()    {}
func (*LetBinding) node()    {}
func (*LetRecBinding) node() {}
func (*Fixpoint) node()      {}
func (*Sequence) node()      {}
func (*ConsCell) node()      {}
func (*Projection) node()    {}
func (*EmptyList) node()     {}

var emptyList = &EmptyList{}

func Var(name string) Node              { return &Variable{Name: name} }
func Lam(binder string, body Node) Node { return &Lambda{Binder: binder, Body: body} }
func App(fn, arg Node) Node             { return &Application{Fn: fn, Arg: arg} }
func Num(v float64) Node                { return &Number{Value: v} }
func Plus(l, r Node) Node               { return &Arith{Op: KindPlus, Left: l, Right: r} }
func Minus(l, r Node) Node              { return &Arith{Op: KindMinus, Left: l, Right: r} }
func Multiply(l, r Node) Node           { return &Arith{Op: KindMultiply, Left: l, Right: r} }
func Divide(l, r Node) Node             { return &Arith{Op: KindDivide, Left: l, Right: r} }
func Power(l, r Node) Node              { return &Arith{Op: KindPower, Left: l, Right: r} }
func Log(arg, base Node) Node           { return &Logarithm{Arg: arg, Base: base} }
func If(cond, then, els Node) Node      { return &Conditional{Cond: cond, Then: then, Else: els} }
func Leq(l, r Node) Node                { return &Comparison{Op: KindLeq, Left: l, Right: r} }
func Eq(l, r Node) Node                 { return &Comparison{Op: KindEq, Left: l, Right: r} }
func Let(binder string, value, body Node) Node {
	return &LetBinding{Binder: binder, Value: value, Body: body}
}
func LetRec(binder string, value, body Node) Node {
	return &LetRecBinding{Binder: binder, Value: value, Body: body}
}
func Fix(target Node) Node         { return &Fixpoint{Target: target} }
func Prog(first, second Node) Node { return &Sequence{First: first, Second: second} }
func Cons(head, tail Node) Node    { return &ConsCell{Head: head, Tail: tail} }
func Hd(list Node) Node            { return &Projection{Op: KindHd, List: list} }
func Tl(list Node) Node            { return &Projection{Op: KindTl, List: list} }
func Nil() Node                    { return emptyList }

// NewArith builds an arithmetic node for op, which must satisfy op.IsArith().
func NewArith(op Kind, l, r Node) Node {
	return &Arith{Op: op, Left: l, Right: r}
}

// NewComparison builds a comparison node for op, which must satisfy op.IsComparison().
func NewComparison(op Kind, l, r Node) Node {
	return &Comparison{Op: op, Left: l, Right: r}
}
