package can

import (
	"errors"
	"slices"

	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/ident"
	"github.com/roan-lang/roan/frontend/types"
	"github.com/roan-lang/roan/internal/graph"
	"github.com/roan-lang/roan/util"
)

// workDef is one binding of a Defs block in normalized form: annotation-only
// defs are synthesized into a binding whose value is a runtime error, so a
// later reference to the annotated name resolves and fails at evaluation
// rather than at resolution.
type workDef struct {
	rng     ast.Range
	pattern ast.Pattern
	body    ast.Expr
}

// assignmentInfo is what the defs resolver records per bound symbol: the
// source identifier for diagnostics, the references its initializer makes,
// and which workDef bound it.
type assignmentInfo struct {
	ident      LocatedIdent
	references References
	def        int
}

// defInfo accumulates the constraint-side state of one nesting level of a
// Defs block: the type variables it introduces, the assignment types it
// binds, and the per-binding constraints.
type defInfo struct {
	vars            []types.Variable
	assignmentTypes map[ident.Symbol]types.LocatedType
	constraints     []types.Constraint
}

func newDefInfo() *defInfo {
	return &defInfo{assignmentTypes: make(map[ident.Symbol]types.LocatedType)}
}

// canonicalizeDefs resolves a block of mutually-visible local bindings.
//
// All patterns bind before any body canonicalizes, so sibling bindings can
// reference each other freely; the runtime ordering is then recovered by
// topologically sorting the reference graph. A reference cycle is legal only
// when a closure body breaks it, since a closure defers the reads until the
// call; a cycle among plain values has no evaluation order and replaces the
// whole block with a runtime error.
func canonicalizeDefs(
	env *Env,
	varStore *types.VarStore,
	scope *Scope,
	e *ast.Defs,
	expected types.Expected,
) (Expr, Output) {
	rng := ast.RangeOf(e)
	blockScope := scope.Clone()
	shadowable := scope.identsMap()

	defs := normalizeDefs(env, e.Defs)
	for _, d := range defs {
		removeIdents(d.pattern, shadowable)
	}

	canPatterns := make([]Pattern, len(defs))
	boundByDef := make([][]boundIdent, len(defs))
	for i, d := range defs {
		canPatterns[i] = canonicalizePattern(env, &blockScope, AssignmentPattern, d.pattern, shadowable)
		boundByDef[i] = identsFromPatterns(&blockScope, d.pattern)
	}

	flexInfo := newDefInfo()
	rigidInfo := newDefInfo()
	values := make([]Expr, len(defs))
	refsByAssignment := make(map[ident.Symbol]*assignmentInfo)
	for i, d := range defs {
		values[i] = canonicalizeDefBody(env, varStore, &blockScope, d, canPatterns[i], flexInfo, refsByAssignment, i)
	}

	retExpr, retOut := canonicalizeExpr(env, varStore, &blockScope, e.Ret, expected)

	used := reportUnusedAssignments(env, retOut.References, refsByAssignment, env.Procedures, defs, boundByDef)

	out := NewOutput()
	// Only references reachable from the return expression escape the block;
	// an unused binding's reads stay invisible to the enclosing scope, so its
	// dependencies can be reported unused there in turn.
	out.References = used
	out.TailCall = retOut.TailCall
	out.Constraint = types.Let{LetConstraint: &types.LetConstraint{
		RigidVars:       rigidInfo.vars,
		AssignmentTypes: rigidInfo.assignmentTypes,
		Assignments:     types.And{Constraints: rigidInfo.constraints},
		Ret: types.Let{LetConstraint: &types.LetConstraint{
			FlexVars:        flexInfo.vars,
			AssignmentTypes: flexInfo.assignmentTypes,
			Assignments:     types.And{Constraints: flexInfo.constraints},
			Ret: types.Let{LetConstraint: &types.LetConstraint{
				AssignmentTypes: flexInfo.assignmentTypes,
				Assignments:     types.True{},
				Ret:             retOut.Constraint,
			}},
		}},
	}}

	successors := func(symbol ident.Symbol) []ident.Symbol {
		info, ok := refsByAssignment[symbol]
		if !ok {
			return nil
		}
		return localSuccessors(info.references, env.Procedures)
	}

	symbols := make([]ident.Symbol, 0, len(refsByAssignment))
	for symbol := range refsByAssignment {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)

	sorted, err := graph.TopologicalSort(symbols, successors)
	var cycle *graph.CycleError[ident.Symbol]
	if errors.As(err, &cycle) {
		return canonicalCycleError(env, rng, cycle.Node, successors, refsByAssignment, defs, e.Ret), out
	}

	// Dependencies must be bound before their dependents at runtime, which
	// is the reverse of node-before-successors order.
	slices.Reverse(sorted)
	assignments := make([]Assignment, 0, len(defs))
	emitted := make([]bool, len(defs))
	for _, symbol := range sorted {
		i := refsByAssignment[symbol].def
		if emitted[i] {
			continue
		}
		emitted[i] = true
		assignments = append(assignments, Assignment{Pattern: canPatterns[i], Value: values[i]})
	}
	// Bindings without any named symbol, such as an underscore pattern, have
	// no place in the graph; everything they can reference is already bound.
	for i := range defs {
		if !emitted[i] {
			assignments = append(assignments, Assignment{Pattern: canPatterns[i], Value: values[i]})
		}
	}

	return &Define{
		Range:       rng,
		Var:         varStore.Fresh(),
		Assignments: assignments,
		Ret:         retExpr,
	}, out
}

// normalizeDefs turns the parser's def list into uniform pattern/body pairs.
// An annotation without a body binds the annotated name to a runtime error,
// so the name stays resolvable until an implementation lands.
func normalizeDefs(env *Env, astDefs []ast.Def) []workDef {
	defs := make([]workDef, 0, len(astDefs))
	for _, d := range astDefs {
		if d.Pattern == nil {
			if d.Annotation == nil {
				continue
			}
			env.logger.Debug("annotation without implementation", "name", d.Annotation.Name)
			defs = append(defs, workDef{
				rng:     ast.RangeOf(&d),
				pattern: &ast.IdentPattern{Range: d.Annotation.Range, Name: d.Annotation.Name},
			})
			continue
		}
		defs = append(defs, workDef{rng: ast.RangeOf(&d), pattern: d.Pattern, body: d.Body})
	}
	return defs
}

// canonicalizeDefBody canonicalizes one binding's initializer and records
// its constraint and reference bookkeeping. A closure bound directly to an
// identifier is renamed from its generated symbol to the identifier's, and
// its assignment references are left empty: the closure body's reads happen
// at call time, so they must not count as initialization-order edges.
func canonicalizeDefBody(
	env *Env,
	varStore *types.VarStore,
	blockScope *Scope,
	d workDef,
	canPattern Pattern,
	flexInfo *defInfo,
	refsByAssignment map[ident.Symbol]*assignmentInfo,
	defIndex int,
) Expr {
	exprVar := varStore.Fresh()
	exprType := types.TypeVar{Var: exprVar}

	st := newPatternState()
	st.addPattern(blockScope, d.pattern, types.NoExpectation(exprType))
	st.vars = append(st.vars, exprVar)

	var value Expr
	bodyOut := NewOutput()
	if d.body == nil {
		value = &RuntimeError{Range: d.rng, Problem: NoImplementation{}}
	} else {
		value, bodyOut = canonicalizeExpr(env, varStore, blockScope, d.body, types.NoExpectation(exprType))
	}

	references := bodyOut.References
	if fp, ok := value.(*FunctionPointer); ok {
		if ip, ok := canPattern.(*IdentifierPattern); ok {
			selfTailRecursive := bodyOut.TailCall == ip.Symbol
			env.Procedures.Rename(fp.Symbol, ip.Symbol, ip.Symbol.Name(), selfTailRecursive)
			value = &FunctionPointer{Range: fp.Range, Var: fp.Var, Symbol: ip.Symbol}
			references = NewReferences()
		}
	}

	for _, b := range identsFromPatterns(blockScope, d.pattern) {
		refsByAssignment[b.symbol] = &assignmentInfo{
			ident:      LocatedIdent{Range: b.rng, Ident: b.id},
			references: references,
			def:        defIndex,
		}
	}

	flexInfo.vars = append(flexInfo.vars, st.vars...)
	for symbol, located := range st.assignmentTypes {
		flexInfo.assignmentTypes[symbol] = located
	}
	flexInfo.constraints = append(flexInfo.constraints, types.Let{LetConstraint: &types.LetConstraint{
		FlexVars:        []types.Variable{exprVar},
		AssignmentTypes: st.assignmentTypes,
		Assignments:     types.And{Constraints: st.constraints},
		Ret:             bodyOut.Constraint,
	}})
	return value
}

// reportUnusedAssignments walks the reference graph outward from the block's
// return expression and reports every binding the walk never reaches. The
// walk is transitive in both directions a reference can take: through the
// initializer of a referenced binding and through the body of a called
// procedure. It returns the reachable references, which are also the only
// ones the block exposes to its enclosing scope.
func reportUnusedAssignments(
	env *Env,
	retRefs References,
	refsByAssignment map[ident.Symbol]*assignmentInfo,
	procedures Procedures,
	defs []workDef,
	boundByDef [][]boundIdent,
) References {
	used := retRefs.Clone()
	visitedAssignments := util.NewEmptySet[ident.Symbol]()
	visitedProcedures := util.NewEmptySet[ident.Symbol]()
	for _, symbol := range sortedSymbols(retRefs.Locals.Slice()) {
		used = used.Union(referencesFromLocal(symbol, visitedAssignments, visitedProcedures, refsByAssignment, procedures))
	}
	for _, symbol := range sortedSymbols(retRefs.Calls.Slice()) {
		used = used.Union(referencesFromCall(symbol, visitedAssignments, visitedProcedures, refsByAssignment, procedures))
	}

	for i := range defs {
		for _, b := range boundByDef[i] {
			if used.HasLocal(b.symbol) || used.Calls.Contains(b.symbol) {
				continue
			}
			env.Problem(&UnusedAssignment{Range: b.rng, Ident: b.id})
		}
	}
	return used
}

// referencesFromLocal is the transitive closure of references reachable by
// reading the named binding's value.
func referencesFromLocal(
	symbol ident.Symbol,
	visitedAssignments, visitedProcedures util.MSet[ident.Symbol],
	refsByAssignment map[ident.Symbol]*assignmentInfo,
	procedures Procedures,
) References {
	answer := NewReferences()
	info, ok := refsByAssignment[symbol]
	if !ok || visitedAssignments.Contains(symbol) {
		return answer
	}
	visitedAssignments.Add(symbol)
	answer = answer.Union(info.references)
	for _, local := range sortedSymbols(info.references.Locals.Slice()) {
		answer = answer.Union(referencesFromLocal(local, visitedAssignments, visitedProcedures, refsByAssignment, procedures))
	}
	for _, call := range sortedSymbols(info.references.Calls.Slice()) {
		answer = answer.Union(referencesFromCall(call, visitedAssignments, visitedProcedures, refsByAssignment, procedures))
	}
	return answer
}

// referencesFromCall is the transitive closure of references reachable by
// calling the named procedure.
func referencesFromCall(
	symbol ident.Symbol,
	visitedAssignments, visitedProcedures util.MSet[ident.Symbol],
	refsByAssignment map[ident.Symbol]*assignmentInfo,
	procedures Procedures,
) References {
	answer := NewReferences()
	proc, ok := procedures[symbol]
	if !ok || visitedProcedures.Contains(symbol) {
		return answer
	}
	visitedProcedures.Add(symbol)
	answer = answer.Union(proc.References)
	for _, local := range sortedSymbols(proc.References.Locals.Slice()) {
		answer = answer.Union(referencesFromLocal(local, visitedAssignments, visitedProcedures, refsByAssignment, procedures))
	}
	for _, call := range sortedSymbols(proc.References.Calls.Slice()) {
		answer = answer.Union(referencesFromCall(call, visitedAssignments, visitedProcedures, refsByAssignment, procedures))
	}
	return answer
}

// localSuccessors lists the sibling symbols a binding's initializer needs
// bound first: the values it reads directly, plus the values read by any
// procedure it calls during initialization, transitively.
func localSuccessors(references References, procedures Procedures) []ident.Symbol {
	answer := util.NewSetOf(references.Locals.Slice())
	visited := util.NewEmptySet[ident.Symbol]()
	for _, call := range sortedSymbols(references.Calls.Slice()) {
		answer.Add(callSuccessors(call, procedures, visited)...)
	}
	return sortedSymbols(answer.AsSlice())
}

func callSuccessors(symbol ident.Symbol, procedures Procedures, visited util.MSet[ident.Symbol]) []ident.Symbol {
	proc, ok := procedures[symbol]
	if !ok || visited.Contains(symbol) {
		return nil
	}
	visited.Add(symbol)
	answer := util.NewSetOf(proc.References.Locals.Slice())
	for _, call := range sortedSymbols(proc.References.Calls.Slice()) {
		answer.Add(callSuccessors(call, procedures, visited)...)
	}
	return sortedSymbols(answer.AsSlice())
}

func sortedSymbols(symbols []ident.Symbol) []ident.Symbol {
	slices.Sort(symbols)
	return symbols
}

// canonicalCycleError reports an illegal value cycle and replaces the whole
// block with a runtime error carrying every participant. The cycle is listed
// in edge order and rotated so the alphabetically lowest name leads, keeping
// the report stable no matter which member the sort tripped over.
func canonicalCycleError(
	env *Env,
	rng ast.Range,
	node ident.Symbol,
	successors func(ident.Symbol) []ident.Symbol,
	refsByAssignment map[ident.Symbol]*assignmentInfo,
	defs []workDef,
	ret ast.Expr,
) Expr {
	component := graph.StronglyConnectedComponent(node, successors)
	component = rotateToLowest(component, refsByAssignment)

	idents := make([]LocatedIdent, 0, len(component))
	regions := make([]AssignmentRegion, 0, len(component))
	for _, symbol := range component {
		info := refsByAssignment[symbol]
		idents = append(idents, info.ident)
		d := defs[info.def]
		regions = append(regions, AssignmentRegion{
			Pattern: ast.RangeOf(d.pattern),
			Value:   ast.RangeOf(d.body),
		})
	}

	env.Problem(&CircularAssignment{Range: rng, Idents: idents})
	return &RuntimeError{Range: rng, Problem: CircularAssignmentError{
		Idents:  idents,
		Regions: regions,
		Ret:     ast.RangeOf(ret),
	}}
}

func rotateToLowest(component []ident.Symbol, refsByAssignment map[ident.Symbol]*assignmentInfo) []ident.Symbol {
	if len(component) == 0 {
		return component
	}
	lowest := 0
	for i, symbol := range component {
		if refsByAssignment[symbol].ident.Ident.Name < refsByAssignment[component[lowest]].ident.Ident.Name {
			lowest = i
		}
	}
	rotated := make([]ident.Symbol, 0, len(component))
	rotated = append(rotated, component[lowest:]...)
	rotated = append(rotated, component[:lowest]...)
	return rotated
}
