package can

import (
	"testing"

	"github.com/roan-lang/roan/frontend/ident"
	"github.com/stretchr/testify/assert"
)

func refsWithLocals(names ...string) References {
	refs := NewReferences()
	for _, name := range names {
		refs.Locals.Insert(ident.Symbol(name))
	}
	return refs
}

func TestReferencesUnionCombines(t *testing.T) {
	a := refsWithLocals("x")
	a.Calls.Insert(ident.Symbol("f"))
	b := refsWithLocals("y")
	b.Globals.Insert(ident.Symbol("Int$abs"))

	union := a.Union(b)
	assert.True(t, union.HasLocal(ident.Symbol("x")))
	assert.True(t, union.HasLocal(ident.Symbol("y")))
	assert.True(t, union.Calls.Contains(ident.Symbol("f")))
	assert.True(t, union.Globals.Contains(ident.Symbol("Int$abs")))
}

func TestReferencesUnionDoesNotMutateOperands(t *testing.T) {
	a := refsWithLocals("x")
	b := refsWithLocals("y")
	_ = a.Union(b)
	assert.False(t, a.HasLocal(ident.Symbol("y")))
	assert.False(t, b.HasLocal(ident.Symbol("x")))
}

func TestReferencesUnionIdempotent(t *testing.T) {
	a := refsWithLocals("x", "y")
	union := a.Union(a)
	assert.Equal(t, 2, union.Locals.Size())
}

func TestReferencesCloneIsIndependent(t *testing.T) {
	a := refsWithLocals("x")
	clone := a.Clone()
	clone.Locals.Insert(ident.Symbol("y"))
	assert.False(t, a.HasLocal(ident.Symbol("y")))
}
