// Package types holds the type representation and the constraint tree that
// canonicalization produces for the unification solver. Constraints are
// built here but never interpreted; solving is a separate stage.
package types

// Variable identifies one type variable minted by a VarStore.
type Variable uint32

// Type is the (closed) set of type shapes this stage can mention.
type Type interface {
	typeNode()
}

// TypeVar is a reference to a type variable.
type TypeVar struct {
	Var Variable
}

func (TypeVar) typeNode() {}

// Applied is a named type constructor applied to zero or more arguments,
// e.g. Int, Str, or List a.
type Applied struct {
	Module string
	Name   string
	Args   []Type
}

func (Applied) typeNode() {}

// Function is an arrow type from Args to Ret.
type Function struct {
	Args []Type
	Ret  Type
}

func (Function) typeNode() {}

// EmptyRec is the type of the empty record literal.
type EmptyRec struct{}

func (EmptyRec) typeNode() {}

func IntType() Type {
	return Applied{Module: "Int", Name: "Int"}
}

func FloatType() Type {
	return Applied{Module: "Float", Name: "Float"}
}

func StrType() Type {
	return Applied{Module: "Str", Name: "Str"}
}

func BoolType() Type {
	return Applied{Module: "Bool", Name: "Bool"}
}

func ListType(elem Type) Type {
	return Applied{Module: "List", Name: "List", Args: []Type{elem}}
}

// EmptyListType is the type of a list literal with no elements: a list whose
// element type is an unconstrained fresh variable.
func EmptyListType(v Variable) Type {
	return ListType(TypeVar{Var: v})
}
