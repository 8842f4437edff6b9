package can

import (
	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/ident"
	"github.com/roan-lang/roan/frontend/types"
)

// Expr is a canonical expression: all identifiers resolved to symbols, all
// operators lowered to calls, and every local-definition block reordered
// into dependency order.
type Expr interface {
	ast.Positioner
	canExprNode()
}

type Int struct {
	ast.Range
	Value int64
}

func (*Int) canExprNode() {}

type Float struct {
	ast.Range
	Value float64
}

func (*Float) canExprNode() {}

type Str struct {
	ast.Range
	Value string
}

func (*Str) canExprNode() {}

// InterpolatedStr alternates literal prefixes with resolved interpolation
// expressions, ending with a literal suffix.
type InterpolatedStr struct {
	ast.Range
	Segments []StrSegment
	Suffix   string
}

func (*InterpolatedStr) canExprNode() {}

// StrSegment is one literal prefix followed by one interpolated expression.
// The expression is a full Expr rather than a bare symbol so an unresolved
// interpolation can degrade to a RuntimeError in place.
type StrSegment struct {
	Prefix string
	Expr   Expr
}

type EmptyRecord struct {
	ast.Range
}

func (*EmptyRecord) canExprNode() {}

type EmptyList struct {
	ast.Range
}

func (*EmptyList) canExprNode() {}

type List struct {
	ast.Range
	Var   types.Variable
	Elems []Expr
}

func (*List) canExprNode() {}

// Var reads the value bound to a resolved symbol.
type Var struct {
	ast.Range
	Var    types.Variable
	Symbol ident.Symbol
}

func (*Var) canExprNode() {}

// FunctionPointer refers to a promoted closure by its procedure symbol.
type FunctionPointer struct {
	ast.Range
	Var    types.Variable
	Symbol ident.Symbol
}

func (*FunctionPointer) canExprNode() {}

// Call applies Fn to Args. Operator applications lower to this shape too.
type Call struct {
	ast.Range
	Var  types.Variable
	Fn   Expr
	Args []Expr
}

func (*Call) canExprNode() {}

// ApplyVariant applies a resolved variant constructor.
type ApplyVariant struct {
	ast.Range
	Symbol ident.Symbol
	Args   []Expr
}

func (*ApplyVariant) canExprNode() {}

type If struct {
	ast.Range
	Cond Expr
	Then Expr
	Else Expr
}

func (*If) canExprNode() {}

type Case struct {
	ast.Range
	Cond     Expr
	Branches []CaseBranch
}

func (*Case) canExprNode() {}

type CaseBranch struct {
	Pattern Pattern
	Body    Expr
}

// Define is a block of local assignments, listed in dependency order so no
// assignment's initializer reads a not-yet-bound sibling at runtime,
// followed by the expression the block returns.
type Define struct {
	ast.Range
	Var         types.Variable
	Assignments []Assignment
	Ret         Expr
}

func (*Define) canExprNode() {}

type Assignment struct {
	Pattern Pattern
	Value   Expr
}

// RuntimeError is a canonical node for source that cannot evaluate: the
// expression is kept in the tree so canonicalization of everything around
// it continues, and evaluating it is the contained problem.
type RuntimeError struct {
	ast.Range
	Problem RuntimeProblem
}

func (*RuntimeError) canExprNode() {}
