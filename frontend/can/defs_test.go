package can

import (
	"testing"

	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/ident"
	"github.com/roan-lang/roan/frontend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func def(name string, body ast.Expr) ast.Def {
	return ast.Def{Pattern: &ast.IdentPattern{Name: name}, Body: body}
}

func declSymbol(name string) ident.Symbol {
	return ident.Symbol("Test$decl$" + name)
}

func assignedSymbols(t *testing.T, expr Expr) []ident.Symbol {
	t.Helper()
	require.IsType(t, &Define{}, expr)
	symbols := make([]ident.Symbol, 0)
	for _, assignment := range expr.(*Define).Assignments {
		if ip, ok := assignment.Pattern.(*IdentifierPattern); ok {
			symbols = append(symbols, ip.Symbol)
		}
	}
	return symbols
}

func TestDefsOrderedByDependencies(t *testing.T) {
	expr, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			def("a", &ast.Var{Name: "b"}),
			def("b", &ast.Var{Name: "c"}),
			def("c", &ast.IntLit{Raw: "1"}),
		},
		Ret: &ast.Var{Name: "a"},
	})
	require.Empty(t, problems)
	assert.Equal(t,
		[]ident.Symbol{declSymbol("c"), declSymbol("b"), declSymbol("a")},
		assignedSymbols(t, expr))
}

func TestDefsSiblingsVisibleInAnyOrder(t *testing.T) {
	// A definition may reference a sibling bound further down the block.
	_, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			def("first", &ast.Var{Name: "second"}),
			def("second", &ast.IntLit{Raw: "2"}),
		},
		Ret: &ast.Var{Name: "first"},
	})
	assert.Empty(t, problems)
}

func TestDefsTransitivelyUsedBindingsAreNotReported(t *testing.T) {
	_, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			def("a", &ast.IntLit{Raw: "1"}),
			def("b", &ast.Var{Name: "a"}),
			def("c", &ast.IntLit{Raw: "2"}),
		},
		Ret: &ast.Var{Name: "b"},
	})
	require.Len(t, problems, 1)
	require.IsType(t, &UnusedAssignment{}, problems[0])
	assert.Equal(t, "c", problems[0].(*UnusedAssignment).Ident.Name)
}

func TestDefsUnusedBindingReferencesDoNotEscape(t *testing.T) {
	// The inner block reads outer only from u, which is itself unused, so the
	// read must not leak out of the block: both bindings are dead.
	_, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{def("outer", &ast.IntLit{Raw: "1"})},
		Ret: &ast.Defs{
			Defs: []ast.Def{def("u", &ast.Var{Name: "outer"})},
			Ret:  &ast.IntLit{Raw: "2"},
		},
	})
	names := make([]string, 0, len(problems))
	for _, problem := range problems {
		require.IsType(t, &UnusedAssignment{}, problem)
		names = append(names, problem.(*UnusedAssignment).Ident.Name)
	}
	assert.ElementsMatch(t, []string{"u", "outer"}, names)
}

func TestDefsSelfTailRecursiveClosure(t *testing.T) {
	factorialish := &ast.Closure{
		Args: []ast.Pattern{&ast.IdentPattern{Name: "n"}},
		Body: &ast.If{
			Cond: &ast.BinOp{Left: &ast.Var{Name: "n"}, Op: ast.EqualEqual, Right: &ast.IntLit{Raw: "0"}},
			Then: &ast.IntLit{Raw: "0"},
			Else: &ast.Apply{
				Fn: &ast.Var{Name: "f"},
				Args: []ast.Expr{
					&ast.BinOp{Left: &ast.Var{Name: "n"}, Op: ast.Minus, Right: &ast.IntLit{Raw: "1"}},
				},
			},
		},
	}
	_, _, problems, procedures := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{def("f", factorialish)},
		Ret:  &ast.Apply{Fn: &ast.Var{Name: "f"}, Args: []ast.Expr{&ast.IntLit{Raw: "5"}}},
	})
	require.Empty(t, problems)

	proc, ok := procedures[declSymbol("f")]
	require.True(t, ok, "closure must be renamed to its assigned symbol")
	assert.Equal(t, "f", proc.Name)
	assert.True(t, proc.IsSelfTailRecursive)
}

func TestDefsArithmeticBranchKeepsSelfTailRecursion(t *testing.T) {
	// The n * 1 branch performs no call at all, so it must not cancel the
	// sibling branch's recursive tail call.
	body := &ast.If{
		Cond: &ast.BinOp{Left: &ast.Var{Name: "n"}, Op: ast.EqualEqual, Right: &ast.IntLit{Raw: "0"}},
		Then: &ast.BinOp{Left: &ast.Var{Name: "n"}, Op: ast.Star, Right: &ast.IntLit{Raw: "1"}},
		Else: &ast.Apply{
			Fn: &ast.Var{Name: "f"},
			Args: []ast.Expr{
				&ast.BinOp{Left: &ast.Var{Name: "n"}, Op: ast.Minus, Right: &ast.IntLit{Raw: "1"}},
			},
		},
	}
	_, _, problems, procedures := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{def("f", &ast.Closure{
			Args: []ast.Pattern{&ast.IdentPattern{Name: "n"}},
			Body: body,
		})},
		Ret: &ast.Apply{Fn: &ast.Var{Name: "f"}, Args: []ast.Expr{&ast.IntLit{Raw: "5"}}},
	})
	require.Empty(t, problems)

	proc, ok := procedures[declSymbol("f")]
	require.True(t, ok)
	assert.True(t, proc.IsSelfTailRecursive)
}

func TestDefsNonTailRecursionIsNotTaggedTail(t *testing.T) {
	// n * f(n - 1) still multiplies after the recursive call returns.
	body := &ast.If{
		Cond: &ast.BinOp{Left: &ast.Var{Name: "n"}, Op: ast.EqualEqual, Right: &ast.IntLit{Raw: "0"}},
		Then: &ast.IntLit{Raw: "1"},
		Else: &ast.BinOp{
			Left: &ast.Var{Name: "n"},
			Op:   ast.Star,
			Right: &ast.Apply{
				Fn: &ast.Var{Name: "f"},
				Args: []ast.Expr{
					&ast.BinOp{Left: &ast.Var{Name: "n"}, Op: ast.Minus, Right: &ast.IntLit{Raw: "1"}},
				},
			},
		},
	}
	_, _, problems, procedures := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{def("f", &ast.Closure{
			Args: []ast.Pattern{&ast.IdentPattern{Name: "n"}},
			Body: body,
		})},
		Ret: &ast.Apply{Fn: &ast.Var{Name: "f"}, Args: []ast.Expr{&ast.IntLit{Raw: "5"}}},
	})
	require.Empty(t, problems)

	proc, ok := procedures[declSymbol("f")]
	require.True(t, ok)
	assert.False(t, proc.IsSelfTailRecursive)
}

func TestDefsSelfRecursionIsNotACycle(t *testing.T) {
	_, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{def("f", &ast.Closure{
			Args: []ast.Pattern{&ast.IdentPattern{Name: "n"}},
			Body: &ast.Apply{Fn: &ast.Var{Name: "f"}, Args: []ast.Expr{&ast.Var{Name: "n"}}},
		})},
		Ret: &ast.Apply{Fn: &ast.Var{Name: "f"}, Args: []ast.Expr{&ast.IntLit{Raw: "1"}}},
	})
	for _, problem := range problems {
		_, isCycle := problem.(*CircularAssignment)
		assert.False(t, isCycle, "self recursion through a closure is not a cycle")
	}
}

func TestDefsMutuallyRecursiveClosuresAreLegal(t *testing.T) {
	closureCalling := func(callee string) *ast.Closure {
		return &ast.Closure{
			Args: []ast.Pattern{&ast.IdentPattern{Name: "n"}},
			Body: &ast.Apply{Fn: &ast.Var{Name: callee}, Args: []ast.Expr{&ast.Var{Name: "n"}}},
		}
	}
	expr, _, problems, procedures := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			def("even", closureCalling("odd")),
			def("odd", closureCalling("even")),
		},
		Ret: &ast.Apply{Fn: &ast.Var{Name: "even"}, Args: []ast.Expr{&ast.IntLit{Raw: "2"}}},
	})
	require.Empty(t, problems)
	require.IsType(t, &Define{}, expr)
	assert.Contains(t, procedures, declSymbol("even"))
	assert.Contains(t, procedures, declSymbol("odd"))
}

func TestDefsValueCycleIsReported(t *testing.T) {
	expr, out, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			def("b", &ast.Var{Name: "a"}),
			def("a", &ast.Var{Name: "b"}),
		},
		Ret: &ast.Var{Name: "a"},
	})
	require.IsType(t, &RuntimeError{}, expr)
	// The block still hands the solver its full constraint, so types behind
	// the cycle keep getting checked.
	assert.IsType(t, types.Let{}, out.Constraint)
	runtimeErr := expr.(*RuntimeError).Problem
	require.IsType(t, CircularAssignmentError{}, runtimeErr)
	cycle := runtimeErr.(CircularAssignmentError)
	require.Len(t, cycle.Idents, 2)
	// Rotation keeps the report stable: the alphabetically lowest name leads.
	assert.Equal(t, "a", cycle.Idents[0].Ident.Name)
	assert.Equal(t, "b", cycle.Idents[1].Ident.Name)
	assert.Len(t, cycle.Regions, 2)

	require.Len(t, problems, 1)
	require.IsType(t, &CircularAssignment{}, problems[0])
	assert.Len(t, problems[0].(*CircularAssignment).Idents, 2)
}

func TestDefsSelfReferentialValueIsACycle(t *testing.T) {
	expr, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			def("a", &ast.BinOp{Left: &ast.Var{Name: "a"}, Op: ast.Plus, Right: &ast.IntLit{Raw: "1"}}),
		},
		Ret: &ast.Var{Name: "a"},
	})
	require.IsType(t, &RuntimeError{}, expr)
	require.Len(t, problems, 1)
	assert.IsType(t, &CircularAssignment{}, problems[0])
}

func TestDefsCycleReportKeepsEdgeOrder(t *testing.T) {
	// The cycle runs b -> d -> c -> b and the sort trips over it at c, via a.
	// The report must follow the edges from the lowest name, not re-sort the
	// members alphabetically.
	expr, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			def("a", &ast.Var{Name: "c"}),
			def("b", &ast.Var{Name: "d"}),
			def("c", &ast.Var{Name: "b"}),
			def("d", &ast.Var{Name: "c"}),
		},
		Ret: &ast.Var{Name: "a"},
	})
	require.IsType(t, &RuntimeError{}, expr)
	runtimeErr := expr.(*RuntimeError).Problem
	require.IsType(t, CircularAssignmentError{}, runtimeErr)
	cycle := runtimeErr.(CircularAssignmentError)
	require.Len(t, cycle.Idents, 3)
	names := make([]string, 0, 3)
	for _, located := range cycle.Idents {
		names = append(names, located.Ident.Name)
	}
	assert.Equal(t, []string{"b", "d", "c"}, names)
	assert.Len(t, cycle.Regions, 3)

	require.Len(t, problems, 1)
	assert.IsType(t, &CircularAssignment{}, problems[0])
}

func TestDefsInnerBindingsDoNotLeak(t *testing.T) {
	_, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			def("f", &ast.Closure{
				Args: []ast.Pattern{&ast.UnderscorePattern{}},
				Body: &ast.Defs{
					Defs: []ast.Def{def("x", &ast.IntLit{Raw: "1"})},
					Ret:  &ast.Var{Name: "x"},
				},
			}),
		},
		Ret: &ast.Var{Name: "x"},
	})
	var unrecognized *UnrecognizedConstant
	for _, problem := range problems {
		if p, ok := problem.(*UnrecognizedConstant); ok {
			unrecognized = p
		}
	}
	require.NotNil(t, unrecognized, "x must not be visible outside the closure body")
	assert.Equal(t, "x", unrecognized.Ident.Name)
}

func TestDefsUnderscoreBindingEvaluatesLast(t *testing.T) {
	expr, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			{Pattern: &ast.UnderscorePattern{}, Body: &ast.Var{Name: "a"}},
			def("a", &ast.IntLit{Raw: "1"}),
		},
		Ret: &ast.Var{Name: "a"},
	})
	require.Empty(t, problems)
	require.IsType(t, &Define{}, expr)
	assignments := expr.(*Define).Assignments
	require.Len(t, assignments, 2)
	assert.IsType(t, &IdentifierPattern{}, assignments[0].Pattern)
	assert.IsType(t, &UnderscorePattern{}, assignments[1].Pattern)
}

func TestDefsAnnotationWithoutBody(t *testing.T) {
	expr, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			{Annotation: &ast.Annotation{Name: "x"}},
		},
		Ret: &ast.Var{Name: "x"},
	})
	require.Empty(t, problems, "referencing an annotated name must resolve")
	require.IsType(t, &Define{}, expr)
	assignments := expr.(*Define).Assignments
	require.Len(t, assignments, 1)
	require.IsType(t, &RuntimeError{}, assignments[0].Value)
	assert.IsType(t, NoImplementation{}, assignments[0].Value.(*RuntimeError).Problem)
}

func TestDefsClosureValueIsRenamedPointer(t *testing.T) {
	expr, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			def("f", &ast.Closure{
				Args: []ast.Pattern{&ast.IdentPattern{Name: "n"}},
				Body: &ast.Var{Name: "n"},
			}),
		},
		Ret: &ast.Apply{Fn: &ast.Var{Name: "f"}, Args: []ast.Expr{&ast.IntLit{Raw: "1"}}},
	})
	require.Empty(t, problems)
	require.IsType(t, &Define{}, expr)
	assignments := expr.(*Define).Assignments
	require.Len(t, assignments, 1)
	require.IsType(t, &FunctionPointer{}, assignments[0].Value)
	assert.Equal(t, declSymbol("f"), assignments[0].Value.(*FunctionPointer).Symbol)
}

func TestDefsClosureDependenciesOrderBeforeCallers(t *testing.T) {
	// base is a plain value read by the closure's body; a value initialized
	// by calling the closure must come after base.
	expr, _, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{
			def("result", &ast.Apply{Fn: &ast.Var{Name: "f"}, Args: []ast.Expr{&ast.IntLit{Raw: "1"}}}),
			def("f", &ast.Closure{
				Args: []ast.Pattern{&ast.UnderscorePattern{}},
				Body: &ast.Var{Name: "base"},
			}),
			def("base", &ast.IntLit{Raw: "10"}),
		},
		Ret: &ast.Var{Name: "result"},
	})
	require.Empty(t, problems)
	symbols := assignedSymbols(t, expr)
	index := make(map[ident.Symbol]int, len(symbols))
	for i, symbol := range symbols {
		index[symbol] = i
	}
	assert.Less(t, index[declSymbol("base")], index[declSymbol("result")])
}

func TestDefsTailCallOfReturnPropagates(t *testing.T) {
	_, out, problems, _ := testCanonicalize(&ast.Defs{
		Defs: []ast.Def{def("a", &ast.IntLit{Raw: "1"})},
		Ret:  &ast.Apply{Fn: &ast.Var{Name: "answer"}, Args: []ast.Expr{&ast.Var{Name: "a"}}},
	})
	require.Empty(t, problems)
	assert.Equal(t, ident.NewSymbol("Test", "answer"), out.TailCall)
}
