package types

import (
	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/ident"
)

// Constraint builders for literals. Each ties the literal's builtin type to
// whatever the surrounding expression expects.

func IntLiteral(expected Expected, rng ast.Range) Constraint {
	return Eq{Type: IntType(), Expected: expected, Range: rng}
}

func FloatLiteral(expected Expected, rng ast.Range) Constraint {
	return Eq{Type: FloatType(), Expected: expected, Range: rng}
}

func StrLiteral(expected Expected, rng ast.Range) Constraint {
	return Eq{Type: StrType(), Expected: expected, Range: rng}
}

// OperatorTypes is the hardcoded argument and return types of one binary
// operator.
type OperatorTypes struct {
	Left  Type
	Right Type
	Ret   Type
}

// ForOperator returns the fixed type table entry for op. The pipe operator
// has no entry: it desugars into an application before constraints are
// generated.
func ForOperator(op ast.Operator) OperatorTypes {
	switch op {
	case ast.Plus, ast.Minus, ast.Star, ast.Percent, ast.Caret:
		return OperatorTypes{Left: IntType(), Right: IntType(), Ret: IntType()}
	case ast.Slash:
		return OperatorTypes{Left: FloatType(), Right: FloatType(), Ret: FloatType()}
	case ast.EqualEqual, ast.NotEqual, ast.LessThan, ast.LessThanOrEq, ast.GreaterThan, ast.GreaterThanOrEq:
		return OperatorTypes{Left: IntType(), Right: IntType(), Ret: BoolType()}
	case ast.And, ast.Or:
		return OperatorTypes{Left: BoolType(), Right: BoolType(), Ret: BoolType()}
	}
	return OperatorTypes{Left: IntType(), Right: IntType(), Ret: IntType()}
}

var operatorSymbols = map[ast.Operator]ident.Symbol{
	ast.Plus:            ident.NewSymbol("Int", "plus"),
	ast.Minus:           ident.NewSymbol("Int", "minus"),
	ast.Star:            ident.NewSymbol("Int", "times"),
	ast.Slash:           ident.NewSymbol("Float", "div"),
	ast.Percent:         ident.NewSymbol("Int", "rem"),
	ast.Caret:           ident.NewSymbol("Int", "pow"),
	ast.EqualEqual:      ident.NewSymbol("Bool", "isEq"),
	ast.NotEqual:        ident.NewSymbol("Bool", "isNotEq"),
	ast.LessThan:        ident.NewSymbol("Int", "lessThan"),
	ast.LessThanOrEq:    ident.NewSymbol("Int", "lessThanOrEq"),
	ast.GreaterThan:     ident.NewSymbol("Int", "greaterThan"),
	ast.GreaterThanOrEq: ident.NewSymbol("Int", "greaterThanOrEq"),
	ast.And:             ident.NewSymbol("Bool", "and"),
	ast.Or:              ident.NewSymbol("Bool", "or"),
}

// DesugarOperator is the builtin function symbol an operator application
// lowers to.
func DesugarOperator(op ast.Operator) ident.Symbol {
	if sym, ok := operatorSymbols[op]; ok {
		return sym
	}
	return ident.NewSymbol("Bool", "unknownOperator")
}
