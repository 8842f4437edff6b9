// Package can resolves the parsed syntax tree into the canonical IR:
// every identifier becomes a Symbol, operators lower to builtin calls,
// closures are promoted to named procedures, and local definition blocks are
// reordered into dependency order. Alongside the canonical tree it emits the
// constraint tree the unification solver consumes, so a single walk serves
// both name resolution and type-constraint generation.
package can

import (
	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/ident"
	"github.com/roan-lang/roan/frontend/types"
)

// Output is the per-expression result threaded back up the recursive
// descent: which symbols the expression referenced, the symbol it calls in
// tail position (if any), and the constraint it imposes on the solver.
type Output struct {
	References References
	// TailCall is the symbol this expression calls in tail position, or ""
	// when the expression's value is not produced by a direct call.
	TailCall   ident.Symbol
	Constraint types.Constraint
}

func NewOutput() Output {
	return Output{References: NewReferences(), Constraint: types.True{}}
}

// Declaration canonicalizes the body of one top-level declaration.
//
// declaredIdents is everything visible before the body's own bindings:
// builtins, imports, and the module's other top-level values. Problems are
// collected rather than returned as an error; a non-empty problem list with
// a usable tree is the normal shape for broken-but-recoverable source.
func Declaration(
	varStore *types.VarStore,
	home string,
	name string,
	expr ast.Expr,
	declaredIdents map[ident.Ident]Binding,
	declaredVariants map[ident.Symbol]LocatedName,
	expected types.Expected,
) (Expr, Output, []Problem, Procedures) {
	env := NewEnv(home, declaredVariants)
	scope := NewScope(home+"$"+name+"$", declaredIdents)
	canExpr, out := canonicalizeExpr(env, varStore, &scope, expr, expected)
	return canExpr, out, env.Problems, env.Procedures
}

func canonicalizeExpr(
	env *Env,
	varStore *types.VarStore,
	scope *Scope,
	expr ast.Expr,
	expected types.Expected,
) (Expr, Output) {
	rng := ast.RangeOf(expr)
	switch e := expr.(type) {
	case *ast.IntLit:
		out := NewOutput()
		con, node := intFromRaw(env, e.Raw, expected, rng)
		out.Constraint = con
		return node, out
	case *ast.HexIntLit:
		out := NewOutput()
		con, node := hexFromRaw(env, e.Raw, expected, rng)
		out.Constraint = con
		return node, out
	case *ast.OctalIntLit:
		out := NewOutput()
		con, node := octalFromRaw(env, e.Raw, expected, rng)
		out.Constraint = con
		return node, out
	case *ast.BinaryIntLit:
		out := NewOutput()
		con, node := binaryFromRaw(env, e.Raw, expected, rng)
		out.Constraint = con
		return node, out
	case *ast.FloatLit:
		out := NewOutput()
		con, node := floatFromRaw(env, e.Raw, expected, rng)
		out.Constraint = con
		return node, out
	case *ast.StrLit:
		out := NewOutput()
		out.Constraint = types.StrLiteral(expected, rng)
		return &Str{Range: rng, Value: e.Value}, out
	case *ast.InterpolatedStrLit:
		return canonicalizeInterpolated(env, varStore, scope, e, expected)
	case *ast.RecordLit:
		if len(e.Fields) == 0 {
			out := NewOutput()
			out.Constraint = types.Eq{Type: types.EmptyRec{}, Expected: expected, Range: rng}
			return &EmptyRecord{Range: rng}, out
		}
		return notYetImplemented(env, rng, "record literals with fields")
	case *ast.ListLit:
		return canonicalizeList(env, varStore, scope, e, expected)
	case *ast.Var:
		return canonicalizeVar(env, varStore, scope, e, expected)
	case *ast.BinOp:
		return canonicalizeBinOp(env, varStore, scope, e, expected)
	case *ast.Apply:
		return canonicalizeApply(env, varStore, scope, e, expected)
	case *ast.ApplyVariant:
		return canonicalizeApplyVariant(env, varStore, scope, e, expected)
	case *ast.Closure:
		return canonicalizeClosure(env, varStore, scope, e, expected)
	case *ast.If:
		return canonicalizeIf(env, varStore, scope, e, expected)
	case *ast.Case:
		return canonicalizeCase(env, varStore, scope, e, expected)
	case *ast.Defs:
		return canonicalizeDefs(env, varStore, scope, e, expected)
	case *ast.SpaceBefore:
		return canonicalizeExpr(env, varStore, scope, e.Expr, expected)
	case *ast.SpaceAfter:
		return canonicalizeExpr(env, varStore, scope, e.Expr, expected)
	case *ast.Access:
		return notYetImplemented(env, rng, "record field access expressions")
	case *ast.AccessorFunction:
		return notYetImplemented(env, rng, "field accessor functions")
	case *ast.BlockStrLit:
		return notYetImplemented(env, rng, "block string literals")
	case *ast.Malformed:
		runtimeErr := MalformedSyntax{Description: e.Problem}
		env.Problem(&RuntimeErrorProblem{Range: rng, Err: runtimeErr})
		out := NewOutput()
		return &RuntimeError{Range: rng, Problem: runtimeErr}, out
	}
	return notYetImplemented(env, rng, "expressions of this shape")
}

func notYetImplemented(env *Env, rng ast.Range, description string) (Expr, Output) {
	runtimeErr := NotYetImplemented{Description: description}
	env.Problem(&RuntimeErrorProblem{Range: rng, Err: runtimeErr})
	return &RuntimeError{Range: rng, Problem: runtimeErr}, NewOutput()
}

// resolveIdent looks a source identifier up in scope. An unqualified name
// that misses is retried qualified by the home module, so a top-level value
// can be referenced without its module prefix. global reports whether the
// name resolved through a qualified form: a retry hit is a read of a
// module-level value, not of a local binding.
func resolveIdent(env *Env, scope *Scope, id ident.Ident) (binding Binding, global, ok bool) {
	if binding, ok := scope.Lookup(id); ok {
		return binding, id.IsQualified(), true
	}
	if !id.IsQualified() {
		if binding, ok := scope.Lookup(ident.Qualified(env.Home, id.Name)); ok {
			return binding, true, true
		}
	}
	return Binding{}, false, false
}

func canonicalizeVar(
	env *Env,
	varStore *types.VarStore,
	scope *Scope,
	e *ast.Var,
	expected types.Expected,
) (Expr, Output) {
	rng := ast.RangeOf(e)
	out := NewOutput()
	id := ident.Ident{Module: e.Module, Name: e.Name}
	binding, global, ok := resolveIdent(env, scope, id)
	if !ok {
		env.Problem(&UnrecognizedConstant{Range: rng, Ident: id})
		return &RuntimeError{Range: rng, Problem: UnrecognizedConstantError{Ident: id}}, out
	}
	if global {
		out.References.Globals.Insert(binding.Symbol)
	} else {
		out.References.Locals.Insert(binding.Symbol)
	}
	out.Constraint = types.Lookup{Symbol: binding.Symbol, Expected: expected, Range: rng}
	return &Var{Range: rng, Var: varStore.Fresh(), Symbol: binding.Symbol}, out
}

func canonicalizeInterpolated(
	env *Env,
	varStore *types.VarStore,
	scope *Scope,
	e *ast.InterpolatedStrLit,
	expected types.Expected,
) (Expr, Output) {
	rng := ast.RangeOf(e)
	out := NewOutput()
	segments := make([]StrSegment, 0, len(e.Pairs))
	constraints := make([]types.Constraint, 0, len(e.Pairs)+1)
	for _, pair := range e.Pairs {
		varRng := ast.RangeOf(pair.Var)
		varExpected := types.ForReason(
			types.Reason{Kind: types.ReasonInterpolatedVar}, types.StrType(), varRng)
		segExpr, segOut := canonicalizeVar(env, varStore, scope, pair.Var, varExpected)
		out.References = out.References.Union(segOut.References)
		constraints = append(constraints, segOut.Constraint)
		segments = append(segments, StrSegment{Prefix: pair.Prefix, Expr: segExpr})
	}
	constraints = append(constraints, types.StrLiteral(expected, rng))
	out.Constraint = types.And{Constraints: constraints}
	return &InterpolatedStr{Range: rng, Segments: segments, Suffix: e.Suffix}, out
}

func canonicalizeList(
	env *Env,
	varStore *types.VarStore,
	scope *Scope,
	e *ast.ListLit,
	expected types.Expected,
) (Expr, Output) {
	rng := ast.RangeOf(e)
	out := NewOutput()
	elemVar := varStore.Fresh()
	if len(e.Elems) == 0 {
		out.Constraint = types.Eq{Type: types.EmptyListType(elemVar), Expected: expected, Range: rng}
		return &EmptyList{Range: rng}, out
	}
	elemType := types.TypeVar{Var: elemVar}
	elems := make([]Expr, 0, len(e.Elems))
	constraints := make([]types.Constraint, 0, len(e.Elems)+1)
	for _, elem := range e.Elems {
		elemRng := ast.RangeOf(elem)
		elemExpected := types.ForReason(
			types.Reason{Kind: types.ReasonElemInList}, elemType, elemRng)
		elemExpr, elemOut := canonicalizeExpr(env, varStore, scope, elem, elemExpected)
		out.References = out.References.Union(elemOut.References)
		constraints = append(constraints, elemOut.Constraint)
		elems = append(elems, elemExpr)
	}
	constraints = append(constraints, types.Eq{
		Type: types.ListType(elemType), Expected: expected, Range: rng})
	out.Constraint = types.And{Constraints: constraints}
	return &List{Range: rng, Var: elemVar, Elems: elems}, out
}

func canonicalizeBinOp(
	env *Env,
	varStore *types.VarStore,
	scope *Scope,
	e *ast.BinOp,
	expected types.Expected,
) (Expr, Output) {
	rng := ast.RangeOf(e)
	if e.Op == ast.Pizza {
		return canonicalizeApply(env, varStore, scope, desugarPizza(e), expected)
	}

	opTypes := types.ForOperator(e.Op)
	leftExpected := types.ForReason(
		types.Reason{Kind: types.ReasonOperatorArgLeft, Op: e.Op}, opTypes.Left, ast.RangeOf(e.Left))
	rightExpected := types.ForReason(
		types.Reason{Kind: types.ReasonOperatorArgRight, Op: e.Op}, opTypes.Right, ast.RangeOf(e.Right))
	leftExpr, leftOut := canonicalizeExpr(env, varStore, scope, e.Left, leftExpected)
	rightExpr, rightOut := canonicalizeExpr(env, varStore, scope, e.Right, rightExpected)

	out := NewOutput()
	out.References = leftOut.References.Union(rightOut.References)
	out.Constraint = types.And{Constraints: []types.Constraint{
		leftOut.Constraint,
		rightOut.Constraint,
		types.Eq{
			Type:     opTypes.Ret,
			Expected: types.ForReason(types.Reason{Kind: types.ReasonOperatorRet, Op: e.Op}, expected.Type, rng),
			Range:    rng,
		},
	}}

	// The pipe operator is the only operator that can be a tail call; a
	// lowered builtin never is, and it contributes no reference edges.
	fnSymbol := types.DesugarOperator(e.Op)
	fn := &Var{Range: e.OpRange, Var: varStore.Fresh(), Symbol: fnSymbol}
	return &Call{Range: rng, Var: varStore.Fresh(), Fn: fn, Args: []Expr{leftExpr, rightExpr}}, out
}

// desugarPizza rewrites `arg |> fn` into an application of fn with arg
// appended as the final argument, so `x |> add 1` means `add 1 x`.
func desugarPizza(e *ast.BinOp) *ast.Apply {
	rng := ast.RangeOf(e)
	switch fn := ast.UnwrapExpr(e.Right).(type) {
	case *ast.Apply:
		args := make([]ast.Expr, 0, len(fn.Args)+1)
		args = append(args, fn.Args...)
		args = append(args, e.Left)
		return &ast.Apply{Range: rng, Fn: fn.Fn, Args: args}
	default:
		return &ast.Apply{Range: rng, Fn: e.Right, Args: []ast.Expr{e.Left}}
	}
}

func canonicalizeApply(
	env *Env,
	varStore *types.VarStore,
	scope *Scope,
	e *ast.Apply,
	expected types.Expected,
) (Expr, Output) {
	rng := ast.RangeOf(e)
	out := NewOutput()

	fnVar := varStore.Fresh()
	fnType := types.TypeVar{Var: fnVar}
	fnExpr, fnOut := canonicalizeExpr(env, varStore, scope, e.Fn, types.NoExpectation(fnType))
	out.References = out.References.Union(fnOut.References)

	args := make([]Expr, 0, len(e.Args))
	argTypes := make([]types.Type, 0, len(e.Args))
	constraints := make([]types.Constraint, 0, len(e.Args)+2)
	constraints = append(constraints, fnOut.Constraint)
	for _, arg := range e.Args {
		argVar := varStore.Fresh()
		argType := types.TypeVar{Var: argVar}
		argRng := ast.RangeOf(arg)
		argExpected := types.ForReason(types.Reason{Kind: types.ReasonFnArg}, argType, argRng)
		argExpr, argOut := canonicalizeExpr(env, varStore, scope, arg, argExpected)
		out.References = out.References.Union(argOut.References)
		constraints = append(constraints, argOut.Constraint)
		args = append(args, argExpr)
		argTypes = append(argTypes, argType)
	}
	constraints = append(constraints, types.Eq{
		Type: fnType,
		Expected: types.ForReason(
			types.Reason{Kind: types.ReasonFnCall},
			types.Function{Args: argTypes, Ret: expected.Type},
			rng),
		Range: rng,
	})
	out.Constraint = types.And{Constraints: constraints}

	// A call whose head resolved to a plain symbol is a candidate tail call.
	if head, ok := fnExpr.(*Var); ok {
		out.References.Calls.Insert(head.Symbol)
		out.TailCall = head.Symbol
	}
	return &Call{Range: rng, Var: varStore.Fresh(), Fn: fnExpr, Args: args}, out
}

func canonicalizeApplyVariant(
	env *Env,
	varStore *types.VarStore,
	scope *Scope,
	e *ast.ApplyVariant,
	expected types.Expected,
) (Expr, Output) {
	rng := ast.RangeOf(e)
	out := NewOutput()

	args := make([]Expr, 0, len(e.Args))
	constraints := make([]types.Constraint, 0, len(e.Args))
	for _, arg := range e.Args {
		argVar := varStore.Fresh()
		argExpected := types.NoExpectation(types.TypeVar{Var: argVar})
		argExpr, argOut := canonicalizeExpr(env, varStore, scope, arg, argExpected)
		out.References = out.References.Union(argOut.References)
		constraints = append(constraints, argOut.Constraint)
		args = append(args, argExpr)
	}
	out.Constraint = types.And{Constraints: constraints}

	symbol := ident.NewSymbol(env.Home, e.Name)
	if _, ok := env.Variants[symbol]; !ok {
		env.Problem(&UnrecognizedVariant{Range: rng, Name: e.Name})
		return &RuntimeError{Range: rng, Problem: UnrecognizedVariantError{Name: e.Name}}, out
	}
	return &ApplyVariant{Range: rng, Symbol: symbol, Args: args}, out
}

func canonicalizeClosure(
	env *Env,
	varStore *types.VarStore,
	scope *Scope,
	e *ast.Closure,
	expected types.Expected,
) (Expr, Output) {
	rng := ast.RangeOf(e)
	symbol := scope.GenUnique()
	bodyScope := scope.Clone()
	shadowable := scope.identsMap()

	st := newPatternState()
	canArgs := make([]Pattern, 0, len(e.Args))
	argTypes := make([]types.Type, 0, len(e.Args))
	flexVars := make([]types.Variable, 0, len(e.Args)+2)
	for _, arg := range e.Args {
		canArgs = append(canArgs,
			canonicalizePattern(env, &bodyScope, FunctionArgPattern, arg, shadowable))
		argVar := varStore.Fresh()
		argType := types.TypeVar{Var: argVar}
		st.addPattern(&bodyScope, arg, types.NoExpectation(argType))
		argTypes = append(argTypes, argType)
		flexVars = append(flexVars, argVar)
	}
	bound := identsFromPatterns(&bodyScope, e.Args...)

	retVar := varStore.Fresh()
	retType := types.TypeVar{Var: retVar}
	flexVars = append(flexVars, retVar)
	bodyExpr, bodyOut := canonicalizeExpr(env, varStore, &bodyScope, e.Body,
		types.NoExpectation(retType))

	references := bodyOut.References
	for _, b := range bound {
		if !references.HasLocal(b.symbol) && !references.Calls.Contains(b.symbol) {
			env.Problem(&UnusedArgument{Range: b.rng, Ident: b.id})
		}
		references.Locals.Remove(b.symbol)
		references.Calls.Remove(b.symbol)
	}

	v := varStore.Fresh()
	env.RegisterClosure(symbol, canArgs, bodyExpr, rng, references, v)

	out := NewOutput()
	out.References = references
	// The body's tail call is surfaced so that binding this closure to a
	// name can recognize self-tail-recursion.
	out.TailCall = bodyOut.TailCall
	out.Constraint = types.Let{LetConstraint: &types.LetConstraint{
		FlexVars:        flexVars,
		AssignmentTypes: st.assignmentTypes,
		Assignments: types.And{
			Constraints: append(st.constraints, bodyOut.Constraint)},
		Ret: types.Eq{
			Type:     types.Function{Args: argTypes, Ret: retType},
			Expected: expected,
			Range:    rng,
		},
	}}
	return &FunctionPointer{Range: rng, Var: v, Symbol: symbol}, out
}

func canonicalizeIf(
	env *Env,
	varStore *types.VarStore,
	scope *Scope,
	e *ast.If,
	expected types.Expected,
) (Expr, Output) {
	rng := ast.RangeOf(e)
	condExpected := types.ForReason(
		types.Reason{Kind: types.ReasonIfCondition}, types.BoolType(), ast.RangeOf(e.Cond))
	condExpr, condOut := canonicalizeExpr(env, varStore, scope, e.Cond, condExpected)

	thenExpected := types.ForReason(
		types.Reason{Kind: types.ReasonIfBranch}, expected.Type, ast.RangeOf(e.Then))
	thenExpr, thenOut := canonicalizeExpr(env, varStore, scope, e.Then, thenExpected)
	elseExpected := types.ForReason(
		types.Reason{Kind: types.ReasonIfBranch}, expected.Type, ast.RangeOf(e.Else))
	elseExpr, elseOut := canonicalizeExpr(env, varStore, scope, e.Else, elseExpected)

	out := NewOutput()
	out.References = condOut.References.Union(thenOut.References).Union(elseOut.References)
	out.TailCall = mergeTailCalls(thenOut.TailCall, elseOut.TailCall)
	out.Constraint = types.And{Constraints: []types.Constraint{
		condOut.Constraint, thenOut.Constraint, elseOut.Constraint,
	}}
	return &If{Range: rng, Cond: condExpr, Then: thenExpr, Else: elseExpr}, out
}

func canonicalizeCase(
	env *Env,
	varStore *types.VarStore,
	scope *Scope,
	e *ast.Case,
	expected types.Expected,
) (Expr, Output) {
	rng := ast.RangeOf(e)
	condVar := varStore.Fresh()
	condType := types.TypeVar{Var: condVar}
	condExpr, condOut := canonicalizeExpr(env, varStore, scope, e.Cond,
		types.NoExpectation(condType))

	out := NewOutput()
	out.References = out.References.Union(condOut.References)
	constraints := make([]types.Constraint, 0, len(e.Branches)+1)
	constraints = append(constraints, condOut.Constraint)

	branches := make([]CaseBranch, 0, len(e.Branches))
	tail := ident.Symbol("")
	for i, branch := range e.Branches {
		// Each branch gets its own scope so pattern bindings stay local.
		branchScope := scope.Clone()
		shadowable := scope.identsMap()
		st := newPatternState()
		pattern := canonicalizePattern(env, &branchScope, CaseBranchPattern, branch.Pattern, shadowable)
		st.addPattern(&branchScope, branch.Pattern, types.NoExpectation(condType))
		bound := identsFromPatterns(&branchScope, branch.Pattern)

		bodyExpected := types.ForReason(
			types.Reason{Kind: types.ReasonCaseBranch}, expected.Type, ast.RangeOf(branch.Body))
		bodyExpr, bodyOut := canonicalizeExpr(env, varStore, &branchScope, branch.Body, bodyExpected)

		references := bodyOut.References
		for _, b := range bound {
			references.Locals.Remove(b.symbol)
			references.Calls.Remove(b.symbol)
		}
		out.References = out.References.Union(references)
		if i == 0 {
			tail = bodyOut.TailCall
		} else {
			tail = mergeTailCalls(tail, bodyOut.TailCall)
		}

		constraints = append(constraints, types.Let{LetConstraint: &types.LetConstraint{
			FlexVars:        []types.Variable{condVar},
			AssignmentTypes: st.assignmentTypes,
			Assignments:     types.And{Constraints: st.constraints},
			Ret:             bodyOut.Constraint,
		}})
		branches = append(branches, CaseBranch{Pattern: pattern, Body: bodyExpr})
	}
	out.TailCall = tail
	out.Constraint = types.And{Constraints: constraints}
	return &Case{Range: rng, Cond: condExpr, Branches: branches}, out
}

// mergeTailCalls combines the tail calls of two sibling branches. A branch
// without a tail call does not disqualify its sibling's; two branches tail
// calling different symbols do disqualify each other, since the expression
// as a whole has no single tail callee.
func mergeTailCalls(a, b ident.Symbol) ident.Symbol {
	switch {
	case a == "":
		return b
	case b == "" || a == b:
		return a
	default:
		return ""
	}
}
