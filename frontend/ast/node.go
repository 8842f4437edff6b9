// Package ast holds the parsed, precedence-resolved syntax tree consumed by
// canonicalization. Operator precedence and associativity have already been
// applied by the parsing stage, so Operator nodes here nest exactly as they
// should evaluate.
package ast

// Node is the base interface for all AST nodes.
type Node interface {
	Positioner
}

// Expr is the interface for all expression nodes in the AST.
type Expr interface {
	Node
	exprNode() // Marker method to distinguish expressions
}

// Pattern is the interface for all binding-pattern nodes in the AST.
type Pattern interface {
	Node
	patternNode() // Marker method to distinguish patterns
}
