package ast

// IdentPattern binds a simple identifier.
type IdentPattern struct {
	Range
	Name string
}

func (p *IdentPattern) patternNode() {}

// UnderscorePattern matches anything and binds nothing.
type UnderscorePattern struct {
	Range
}

func (p *UnderscorePattern) patternNode() {}

// IntPattern matches an integer literal.
type IntPattern struct {
	Range
	Raw string
}

func (p *IntPattern) patternNode() {}

// StrPattern matches a string literal.
type StrPattern struct {
	Range
	Value string
}

func (p *StrPattern) patternNode() {}

// EmptyRecordPattern matches the unit value.
type EmptyRecordPattern struct {
	Range
}

func (p *EmptyRecordPattern) patternNode() {}

// VariantPattern matches a variant constructor and destructures its
// arguments.
type VariantPattern struct {
	Range
	Name string
	Args []Pattern
}

func (p *VariantPattern) patternNode() {}

// SpaceBeforePattern wraps a pattern preceded by whitespace or comments.
type SpaceBeforePattern struct {
	Range
	Pattern  Pattern
	Comments []string
}

func (p *SpaceBeforePattern) patternNode() {}

// SpaceAfterPattern wraps a pattern followed by whitespace or comments.
type SpaceAfterPattern struct {
	Range
	Pattern  Pattern
	Comments []string
}

func (p *SpaceAfterPattern) patternNode() {}

// UnwrapPattern strips any space/comment wrappers around a pattern.
func UnwrapPattern(p Pattern) Pattern {
	for {
		switch wrapped := p.(type) {
		case *SpaceBeforePattern:
			p = wrapped.Pattern
		case *SpaceAfterPattern:
			p = wrapped.Pattern
		default:
			return p
		}
	}
}
