package can

import (
	"strconv"
	"strings"

	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/ident"
	"github.com/roan-lang/roan/frontend/types"
)

// Pattern is a canonical binding pattern with its identifiers resolved.
type Pattern interface {
	ast.Positioner
	canPatternNode()
}

type IdentifierPattern struct {
	ast.Range
	Symbol ident.Symbol
}

func (*IdentifierPattern) canPatternNode() {}

type UnderscorePattern struct {
	ast.Range
}

func (*UnderscorePattern) canPatternNode() {}

type IntLiteralPattern struct {
	ast.Range
	Value int64
}

func (*IntLiteralPattern) canPatternNode() {}

type StrLiteralPattern struct {
	ast.Range
	Value string
}

func (*StrLiteralPattern) canPatternNode() {}

type EmptyRecordPattern struct {
	ast.Range
}

func (*EmptyRecordPattern) canPatternNode() {}

// UnsupportedPattern stands in for pattern shapes this stage cannot resolve
// yet; matching against it is a runtime error.
type UnsupportedPattern struct {
	ast.Range
	Description string
}

func (*UnsupportedPattern) canPatternNode() {}

// PatternKind says which construct introduced the pattern, for diagnostics.
type PatternKind int

const (
	AssignmentPattern PatternKind = iota
	FunctionArgPattern
	CaseBranchPattern
)

// boundIdent is one identifier a pattern binds, before it is inserted into
// scope.
type boundIdent struct {
	id     ident.Ident
	symbol ident.Symbol
	rng    ast.Range
}

// identsFromPatterns collects every identifier the given patterns bind,
// minting each one's symbol from the scope without inserting it.
func identsFromPatterns(scope *Scope, patterns ...ast.Pattern) []boundIdent {
	var answer []boundIdent
	for _, pattern := range patterns {
		answer = addIdentsFromPattern(scope, pattern, answer)
	}
	return answer
}

func addIdentsFromPattern(scope *Scope, pattern ast.Pattern, answer []boundIdent) []boundIdent {
	switch p := pattern.(type) {
	case *ast.IdentPattern:
		answer = append(answer, boundIdent{
			id:     ident.Unqualified(p.Name),
			symbol: scope.Symbol(p.Name),
			rng:    ast.RangeOf(p),
		})
	case *ast.VariantPattern:
		for _, arg := range p.Args {
			answer = addIdentsFromPattern(scope, arg, answer)
		}
	case *ast.SpaceBeforePattern:
		// Newline and comment info does not matter in canonicalization.
		answer = addIdentsFromPattern(scope, p.Pattern, answer)
	case *ast.SpaceAfterPattern:
		answer = addIdentsFromPattern(scope, p.Pattern, answer)
	}
	return answer
}

// removeIdents drops every identifier bound by pattern from the shadowable
// set: you cannot shadow yourself, though you can still refer to yourself.
func removeIdents(pattern ast.Pattern, idents map[ident.Ident]Binding) {
	switch p := pattern.(type) {
	case *ast.IdentPattern:
		delete(idents, ident.Unqualified(p.Name))
	case *ast.VariantPattern:
		for _, arg := range p.Args {
			removeIdents(arg, idents)
		}
	case *ast.SpaceBeforePattern:
		removeIdents(p.Pattern, idents)
	case *ast.SpaceAfterPattern:
		removeIdents(p.Pattern, idents)
	}
}

// canonicalizePattern resolves one binding pattern, registering the
// identifiers it binds into scope. shadowable is the set of enclosing names
// the pattern is allowed to shadow; a hit means shadowing, which is noted
// but deliberately not reported yet.
func canonicalizePattern(
	env *Env,
	scope *Scope,
	kind PatternKind,
	pattern ast.Pattern,
	shadowable map[ident.Ident]Binding,
) Pattern {
	rng := ast.RangeOf(pattern)
	switch p := ast.UnwrapPattern(pattern).(type) {
	case *ast.IdentPattern:
		id := ident.Unqualified(p.Name)
		if shadowed, ok := shadowable[id]; ok {
			env.logger.Debug("pattern shadows an enclosing binding",
				"name", p.Name, "shadowed", shadowed.Symbol, "kind", int(kind))
		}
		symbol := scope.Symbol(p.Name)
		scope.Bind(id, Binding{Symbol: symbol, Range: ast.RangeOf(p)})
		return &IdentifierPattern{Range: ast.RangeOf(p), Symbol: symbol}
	case *ast.UnderscorePattern:
		return &UnderscorePattern{Range: ast.RangeOf(p)}
	case *ast.IntPattern:
		value, err := strconv.ParseInt(strings.ReplaceAll(p.Raw, "_", ""), 10, 64)
		if err != nil {
			runtimeErr := IntOutsideRange{Raw: p.Raw}
			env.Problem(&RuntimeErrorProblem{Range: ast.RangeOf(p), Err: runtimeErr})
			return &UnsupportedPattern{Range: ast.RangeOf(p), Description: runtimeErr.Describe()}
		}
		return &IntLiteralPattern{Range: ast.RangeOf(p), Value: value}
	case *ast.StrPattern:
		return &StrLiteralPattern{Range: ast.RangeOf(p), Value: p.Value}
	case *ast.EmptyRecordPattern:
		return &EmptyRecordPattern{Range: ast.RangeOf(p)}
	case *ast.VariantPattern:
		runtimeErr := NotYetImplemented{Description: "variant patterns"}
		env.Problem(&RuntimeErrorProblem{Range: ast.RangeOf(p), Err: runtimeErr})
		return &UnsupportedPattern{Range: ast.RangeOf(p), Description: runtimeErr.Describe()}
	}
	runtimeErr := NotYetImplemented{Description: "patterns of this shape"}
	env.Problem(&RuntimeErrorProblem{Range: rng, Err: runtimeErr})
	return &UnsupportedPattern{Range: rng, Description: runtimeErr.Describe()}
}

// patternState accumulates the constraint-side effect of canonicalizing
// patterns: the variables they introduce, the types their symbols are bound
// to, and any constraints literal sub-patterns impose.
type patternState struct {
	assignmentTypes map[ident.Symbol]types.LocatedType
	vars            []types.Variable
	constraints     []types.Constraint
}

func newPatternState() *patternState {
	return &patternState{
		assignmentTypes: make(map[ident.Symbol]types.LocatedType),
	}
}

func (st *patternState) addPattern(scope *Scope, pattern ast.Pattern, expected types.Expected) {
	rng := ast.RangeOf(pattern)
	switch p := ast.UnwrapPattern(pattern).(type) {
	case *ast.IdentPattern:
		st.assignmentTypes[scope.Symbol(p.Name)] = types.LocatedType{
			Range: ast.RangeOf(p),
			Type:  expected.Type,
		}
	case *ast.UnderscorePattern:
		// Binds nothing and constrains nothing.
	case *ast.IntPattern:
		st.constraints = append(st.constraints, types.Eq{
			Type:     types.IntType(),
			Expected: types.ForReason(types.Reason{Kind: types.ReasonPatternLiteral}, expected.Type, rng),
			Range:    rng,
		})
	case *ast.StrPattern:
		st.constraints = append(st.constraints, types.Eq{
			Type:     types.StrType(),
			Expected: types.ForReason(types.Reason{Kind: types.ReasonPatternLiteral}, expected.Type, rng),
			Range:    rng,
		})
	case *ast.EmptyRecordPattern:
		st.constraints = append(st.constraints, types.Eq{
			Type:     types.EmptyRec{},
			Expected: types.ForReason(types.Reason{Kind: types.ReasonPatternLiteral}, expected.Type, rng),
			Range:    rng,
		})
	}
}

// addPatternToLookupTypes records that every later lookup of the symbols
// this pattern binds should resolve to exprType.
func addPatternToLookupTypes(
	scope *Scope,
	pattern ast.Pattern,
	lookupTypes map[ident.Symbol]types.LocatedType,
	exprType types.Type,
) {
	if p, ok := ast.UnwrapPattern(pattern).(*ast.IdentPattern); ok {
		lookupTypes[scope.Symbol(p.Name)] = types.LocatedType{
			Range: ast.RangeOf(p),
			Type:  exprType,
		}
	}
}
