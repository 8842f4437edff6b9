package ast

// Numeric literals keep the raw source text (underscore digit separators
// included); canonicalization owns the parsing so that malformed literals
// degrade to runtime errors instead of failing the build.

// IntLit is a decimal integer literal.
type IntLit struct {
	Range
	Raw string
}

func (e *IntLit) exprNode() {}

// HexIntLit is a hexadecimal integer literal, with or without its 0x prefix.
type HexIntLit struct {
	Range
	Raw string
}

func (e *HexIntLit) exprNode() {}

// OctalIntLit is an octal integer literal, with or without its 0o prefix.
type OctalIntLit struct {
	Range
	Raw string
}

func (e *OctalIntLit) exprNode() {}

// BinaryIntLit is a binary integer literal, with or without its 0b prefix.
type BinaryIntLit struct {
	Range
	Raw string
}

func (e *BinaryIntLit) exprNode() {}

// FloatLit is a floating-point literal.
type FloatLit struct {
	Range
	Raw string
}

func (e *FloatLit) exprNode() {}

// StrLit is a plain (non-interpolated) string literal.
type StrLit struct {
	Range
	Value string
}

func (e *StrLit) exprNode() {}

// BlockStrLit is a multi-line string literal.
type BlockStrLit struct {
	Range
	Lines []string
}

func (e *BlockStrLit) exprNode() {}

// InterpolatedStrLit is a string with interpolated identifiers:
// each pair is a literal prefix followed by one interpolated name,
// and Suffix is the trailing literal segment.
type InterpolatedStrLit struct {
	Range
	Pairs  []InterpolationPair
	Suffix string
}

func (e *InterpolatedStrLit) exprNode() {}

type InterpolationPair struct {
	Prefix string
	Var    *Var
}

// RecordLit is a record literal; empty records are the unit value.
type RecordLit struct {
	Range
	Fields []RecordField
}

func (e *RecordLit) exprNode() {}

type RecordField struct {
	Range
	Name  string
	Value Expr
}

// ListLit is a list literal.
type ListLit struct {
	Range
	Elems []Expr
}

func (e *ListLit) exprNode() {}

// Var is a reference to a name, optionally qualified by a module path.
type Var struct {
	Range
	// Module is the qualifying module path, or "" when the reference is
	// unqualified.
	Module string
	Name   string
}

func (e *Var) exprNode() {}

// BinOp applies a binary operator to Left and Right.
type BinOp struct {
	Range
	Left    Expr
	Op      Operator
	OpRange Range
	Right   Expr
}

func (e *BinOp) exprNode() {}

// Apply is function application with an explicit argument list.
type Apply struct {
	Range
	Fn   Expr
	Args []Expr
}

func (e *Apply) exprNode() {}

// ApplyVariant applies a variant constructor, possibly with no arguments.
type ApplyVariant struct {
	Range
	Name string
	Args []Expr
}

func (e *ApplyVariant) exprNode() {}

// Closure is an anonymous function literal.
type Closure struct {
	Range
	Args []Pattern
	Body Expr
}

func (e *Closure) exprNode() {}

// If is a two-armed conditional.
type If struct {
	Range
	Cond Expr
	Then Expr
	Else Expr
}

func (e *If) exprNode() {}

// Case matches a condition against a sequence of pattern branches.
type Case struct {
	Range
	Cond     Expr
	Branches []CaseBranch
}

func (e *Case) exprNode() {}

type CaseBranch struct {
	Range
	Pattern Pattern
	Body    Expr
}

// Defs is a block of mutually-visible local bindings followed by the
// expression the block evaluates to.
type Defs struct {
	Range
	Defs []Def
	Ret  Expr
}

func (e *Defs) exprNode() {}

// Def is one binding in a Defs block. A def may be a bare annotation
// (Pattern and Body nil), a plain body (Annotation nil), or both.
type Def struct {
	Range
	Annotation *Annotation
	Pattern    Pattern
	Body       Expr
}

// Annotation is a type annotation line attached to a def. Its payload is
// opaque to canonicalization, which currently only acknowledges it.
type Annotation struct {
	Range
	Name string
}

// Access reads a named field from a record value.
type Access struct {
	Range
	Record Expr
	Field  string
}

func (e *Access) exprNode() {}

// AccessorFunction is a field accessor used as a first-class function.
type AccessorFunction struct {
	Range
	Field string
}

func (e *AccessorFunction) exprNode() {}

// SpaceBefore wraps an expression preceded by whitespace or comments.
// Canonicalization unwraps it transparently.
type SpaceBefore struct {
	Range
	Expr     Expr
	Comments []string
}

func (e *SpaceBefore) exprNode() {}

// SpaceAfter wraps an expression followed by whitespace or comments.
// Canonicalization unwraps it transparently.
type SpaceAfter struct {
	Range
	Expr     Expr
	Comments []string
}

func (e *SpaceAfter) exprNode() {}

// Malformed is a parse-stage placeholder for syntax the parser recovered
// from; canonicalization turns it into a runtime error node.
type Malformed struct {
	Range
	Problem string
}

func (e *Malformed) exprNode() {}

// UnwrapExpr strips any space/comment wrappers around an expression.
func UnwrapExpr(e Expr) Expr {
	for {
		switch wrapped := e.(type) {
		case *SpaceBefore:
			e = wrapped.Expr
		case *SpaceAfter:
			e = wrapped.Expr
		default:
			return e
		}
	}
}
