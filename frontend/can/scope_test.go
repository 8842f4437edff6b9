package can

import (
	"testing"

	"github.com/roan-lang/roan/frontend/ident"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeBindAndLookup(t *testing.T) {
	scope := NewScope("Main$main$", nil)
	id := ident.Unqualified("x")
	scope.Bind(id, Binding{Symbol: scope.Symbol("x")})

	binding, ok := scope.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, ident.Symbol("Main$main$x"), binding.Symbol)
}

func TestScopeCloneIsolation(t *testing.T) {
	parent := NewScope("Main$main$", nil)
	child := parent.Clone()
	child.Bind(ident.Unqualified("x"), Binding{Symbol: child.Symbol("x")})

	assert.True(t, child.Contains(ident.Unqualified("x")))
	assert.False(t, parent.Contains(ident.Unqualified("x")))
}

func TestScopeCloneSeesEarlierBindings(t *testing.T) {
	parent := NewScope("Main$main$", nil)
	parent.Bind(ident.Unqualified("x"), Binding{Symbol: parent.Symbol("x")})
	child := parent.Clone()
	assert.True(t, child.Contains(ident.Unqualified("x")))
}

func TestScopeShadowingInChildOnly(t *testing.T) {
	parent := NewScope("Main$main$", map[ident.Ident]Binding{
		ident.Unqualified("x"): {Symbol: ident.NewSymbol("Main", "x")},
	})
	child := parent.Clone()
	child.Bind(ident.Unqualified("x"), Binding{Symbol: child.Symbol("x")})

	childBinding, _ := child.Lookup(ident.Unqualified("x"))
	parentBinding, _ := parent.Lookup(ident.Unqualified("x"))
	assert.Equal(t, ident.Symbol("Main$main$x"), childBinding.Symbol)
	assert.Equal(t, ident.Symbol("Main$x"), parentBinding.Symbol)
}

func TestScopeGenUniqueSharedAcrossClones(t *testing.T) {
	parent := NewScope("Main$main$", nil)
	child := parent.Clone()

	assert.Equal(t, ident.Symbol("Main$main$0"), parent.GenUnique())
	assert.Equal(t, ident.Symbol("Main$main$1"), child.GenUnique())
	assert.Equal(t, ident.Symbol("Main$main$2"), parent.GenUnique())
}
