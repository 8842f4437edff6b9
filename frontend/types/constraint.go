package types

import (
	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/ident"
)

// Constraint is one node of the obligation tree handed to the solver.
// And is order-insensitive for solving; the deterministic order we build is
// only there to keep error locality stable.
type Constraint interface {
	constraintNode()
}

// True is the trivially satisfied constraint. Expressions that already
// degraded to runtime errors impose it so the solver has nothing to check.
type True struct{}

func (True) constraintNode() {}

// Eq obliges Type to unify with the expected type.
type Eq struct {
	Type     Type
	Expected Expected
	Range    ast.Range
}

func (Eq) constraintNode() {}

// Lookup obliges the type bound to Symbol (by an enclosing Let) to unify
// with the expected type.
type Lookup struct {
	Symbol   ident.Symbol
	Expected Expected
	Range    ast.Range
}

func (Lookup) constraintNode() {}

// And is the conjunction of its children.
type And struct {
	Constraints []Constraint
}

func (And) constraintNode() {}

// Let scopes type variables and assignment types over a sub-tree.
type Let struct {
	*LetConstraint
}

func (Let) constraintNode() {}

// LetConstraint introduces rigid variables (from user annotations, which the
// solver must not generalize) and flex variables (solver-inferred), binds
// each assigned symbol to its principal type, and carries two nested slots:
// the constraint that must hold while establishing the bindings, and the
// constraint that must hold given the bindings.
type LetConstraint struct {
	RigidVars       []Variable
	FlexVars        []Variable
	AssignmentTypes map[ident.Symbol]LocatedType
	Assignments     Constraint
	Ret             Constraint
}

// LocatedType is a type tagged with the source range it came from.
type LocatedType struct {
	ast.Range
	Type Type
}

// Expected is the type an expression is checked against, with an optional
// reason used for error reporting.
type Expected struct {
	Type   Type
	Reason Reason
	Range  ast.Range
}

// NoExpectation checks against a type with no particular blame attached.
func NoExpectation(t Type) Expected {
	return Expected{Type: t}
}

// ForReason records why this type is expected, for the solver's error
// messages.
func ForReason(r Reason, t Type, rng ast.Range) Expected {
	return Expected{Type: t, Reason: r, Range: rng}
}

// Reason explains where an expectation came from.
type Reason struct {
	Kind ReasonKind
	// Op is set for the operator-related reason kinds.
	Op ast.Operator
}

type ReasonKind int

const (
	ReasonNone ReasonKind = iota
	ReasonElemInList
	ReasonOperatorArgLeft
	ReasonOperatorArgRight
	ReasonOperatorRet
	ReasonIfCondition
	ReasonIfBranch
	ReasonCaseBranch
	ReasonFnCall
	ReasonFnArg
	ReasonInterpolatedVar
	ReasonPatternLiteral
)
