package can

import (
	"hash/fnv"
	"strconv"

	"github.com/benbjohnson/immutable"
	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/ident"
)

// Binding is everything a scope knows about a name: the symbol it resolves
// to and where it was bound.
type Binding struct {
	Symbol ident.Symbol
	Range  ast.Range
}

type identHasher struct{}

func (identHasher) Hash(key ident.Ident) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key.Module))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(key.Name))
	return h.Sum32()
}

func (identHasher) Equal(a, b ident.Ident) bool {
	return a == b
}

// Scope maps source identifiers to bindings for one lexical block.
//
// The backing map is persistent: Clone shares structure with the parent, so
// cloning at every nested block is cheap, and a Bind on a child scope never
// shows through the parent's view. The generated-symbol counter is the one
// thing clones share, so every closure within a declaration gets a distinct
// index no matter which nested scope mints it.
type Scope struct {
	// prefix qualifies every symbol this scope mints, e.g. "Main$main$".
	prefix string
	unique *uint32
	idents *immutable.Map[ident.Ident, Binding]
}

// NewScope makes the root scope of one declaration from the module's
// pre-declared identifiers. prefix is the home module joined with the
// declaration's own name.
func NewScope(prefix string, declared map[ident.Ident]Binding) Scope {
	idents := immutable.NewMap[ident.Ident, Binding](identHasher{})
	for id, binding := range declared {
		idents = idents.Set(id, binding)
	}
	return Scope{
		prefix: prefix,
		unique: new(uint32),
		idents: idents,
	}
}

// Clone returns a child scope that sees everything this scope sees. Later
// binds on either scope are invisible to the other.
func (s *Scope) Clone() Scope {
	return *s
}

func (s *Scope) Lookup(id ident.Ident) (Binding, bool) {
	return s.idents.Get(id)
}

func (s *Scope) Contains(id ident.Ident) bool {
	_, ok := s.idents.Get(id)
	return ok
}

// Bind registers id in this scope. Binding a name that is already in scope
// shadows it for this scope and its later clones only.
func (s *Scope) Bind(id ident.Ident, binding Binding) {
	s.idents = s.idents.Set(id, binding)
}

// Symbol mints the resolved symbol for a name bound in this scope.
func (s *Scope) Symbol(name string) ident.Symbol {
	return ident.Symbol(s.prefix + name)
}

// GenUnique mints a symbol for an anonymous closure. The first closure in
// Main.main is named "Main$main$0", the next "Main$main$1", and so on.
func (s *Scope) GenUnique() ident.Symbol {
	n := *s.unique
	*s.unique++
	return ident.Symbol(s.prefix + strconv.FormatUint(uint64(n), 10))
}

// identsMap copies the scope's bindings into a plain map, used as the
// working set of shadowable identifiers while canonicalizing a pattern.
func (s *Scope) identsMap() map[ident.Ident]Binding {
	out := make(map[ident.Ident]Binding, s.idents.Len())
	for itr := s.idents.Iterator(); !itr.Done(); {
		id, binding, _ := itr.Next()
		out[id] = binding
	}
	return out
}
