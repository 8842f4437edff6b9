package can

import (
	"fmt"
	"strings"

	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/ident"
)

// LocatedIdent is a source identifier tagged with where it appeared.
type LocatedIdent struct {
	ast.Range
	Ident ident.Ident
}

// Problem is one non-fatal semantic diagnostic. Problems accumulate on the
// Env and never stop canonicalization of sibling nodes; rendering them to
// full human-readable reports is a later stage's concern.
type Problem interface {
	ast.Positioner
	problemNode()
}

// UnrecognizedConstant is a reference to a name absent from scope, echoed
// back exactly as written in source.
type UnrecognizedConstant struct {
	ast.Range
	Ident ident.Ident
}

func (*UnrecognizedConstant) problemNode() {}

func (p *UnrecognizedConstant) String() string {
	return fmt.Sprintf("unrecognized name '%s'", p.Ident)
}

// UnrecognizedVariant is an application of a variant constructor the module
// never declared.
type UnrecognizedVariant struct {
	ast.Range
	Name string
}

func (*UnrecognizedVariant) problemNode() {}

func (p *UnrecognizedVariant) String() string {
	return fmt.Sprintf("unrecognized variant '%s'", p.Name)
}

// UnusedArgument is a closure argument the body never reads.
type UnusedArgument struct {
	ast.Range
	Ident ident.Ident
}

func (*UnusedArgument) problemNode() {}

func (p *UnusedArgument) String() string {
	return fmt.Sprintf("unused argument '%s'", p.Ident)
}

// UnusedAssignment is a local binding that the block's return expression
// does not reach, directly or transitively.
type UnusedAssignment struct {
	ast.Range
	Ident ident.Ident
}

func (*UnusedAssignment) problemNode() {}

func (p *UnusedAssignment) String() string {
	return fmt.Sprintf("unused assignment '%s'", p.Ident)
}

// CircularAssignment is a cycle of sibling value bindings with no closure
// breaking the dependency. Idents lists every participant in cycle order,
// starting from the alphabetically lowest.
type CircularAssignment struct {
	ast.Range
	Idents []LocatedIdent
}

func (*CircularAssignment) problemNode() {}

func (p *CircularAssignment) String() string {
	names := make([]string, len(p.Idents))
	for i, li := range p.Idents {
		names[i] = li.Ident.String()
	}
	return fmt.Sprintf("circular assignment: %s", strings.Join(names, " -> "))
}

// RuntimeErrorProblem wraps a RuntimeProblem that was also recorded as a
// canonical RuntimeError node, such as a malformed literal.
type RuntimeErrorProblem struct {
	ast.Range
	Err RuntimeProblem
}

func (*RuntimeErrorProblem) problemNode() {}

func (p *RuntimeErrorProblem) String() string {
	return p.Err.Describe()
}

// RuntimeProblem is the payload of a RuntimeError canonical node.
type RuntimeProblem interface {
	runtimeProblemNode()
	Describe() string
}

type IntOutsideRange struct {
	Raw string
}

func (IntOutsideRange) runtimeProblemNode() {}

func (p IntOutsideRange) Describe() string {
	return fmt.Sprintf("integer literal '%s' is outside the representable range", p.Raw)
}

type FloatOutsideRange struct {
	Raw string
}

func (FloatOutsideRange) runtimeProblemNode() {}

func (p FloatOutsideRange) Describe() string {
	return fmt.Sprintf("float literal '%s' is outside the representable range", p.Raw)
}

type InvalidHex struct {
	Raw string
}

func (InvalidHex) runtimeProblemNode() {}

func (p InvalidHex) Describe() string {
	return fmt.Sprintf("invalid hexadecimal literal '%s'", p.Raw)
}

type InvalidOctal struct {
	Raw string
}

func (InvalidOctal) runtimeProblemNode() {}

func (p InvalidOctal) Describe() string {
	return fmt.Sprintf("invalid octal literal '%s'", p.Raw)
}

type InvalidBinary struct {
	Raw string
}

func (InvalidBinary) runtimeProblemNode() {}

func (p InvalidBinary) Describe() string {
	return fmt.Sprintf("invalid binary literal '%s'", p.Raw)
}

// UnrecognizedConstantError mirrors the UnrecognizedConstant problem inside
// the canonical tree, so evaluation of the broken reference can fail with
// the original name.
type UnrecognizedConstantError struct {
	Ident ident.Ident
}

func (UnrecognizedConstantError) runtimeProblemNode() {}

func (p UnrecognizedConstantError) Describe() string {
	return fmt.Sprintf("unrecognized name '%s'", p.Ident)
}

type UnrecognizedVariantError struct {
	Name string
}

func (UnrecognizedVariantError) runtimeProblemNode() {}

func (p UnrecognizedVariantError) Describe() string {
	return fmt.Sprintf("unrecognized variant '%s'", p.Name)
}

// NoImplementation marks an annotation-only def: deliberately inert until
// full annotations land, not a diagnostic.
type NoImplementation struct{}

func (NoImplementation) runtimeProblemNode() {}

func (p NoImplementation) Describe() string {
	return "annotation without an implementation"
}

// NotYetImplemented marks a construct this stage cannot canonicalize yet.
// It degrades the expression instead of aborting the build.
type NotYetImplemented struct {
	Description string
}

func (NotYetImplemented) runtimeProblemNode() {}

func (p NotYetImplemented) Describe() string {
	return fmt.Sprintf("%s are not supported yet", p.Description)
}

// MalformedSyntax carries a parse-stage recovery marker through to runtime.
type MalformedSyntax struct {
	Description string
}

func (MalformedSyntax) runtimeProblemNode() {}

func (p MalformedSyntax) Describe() string {
	return fmt.Sprintf("malformed syntax: %s", p.Description)
}

// AssignmentRegion records where one assignment's pattern and value sit.
type AssignmentRegion struct {
	Pattern ast.Range
	Value   ast.Range
}

// CircularAssignmentError replaces a whole definition block whose bindings
// form an illegal value cycle. It carries the full ordered cycle membership
// so the diagnostic can point at every participant.
type CircularAssignmentError struct {
	Idents  []LocatedIdent
	Regions []AssignmentRegion
	Ret     ast.Range
}

func (CircularAssignmentError) runtimeProblemNode() {}

func (p CircularAssignmentError) Describe() string {
	names := make([]string, len(p.Idents))
	for i, li := range p.Idents {
		names[i] = li.Ident.String()
	}
	return fmt.Sprintf("circular assignment: %s", strings.Join(names, " -> "))
}
