package can

import (
	set "github.com/hashicorp/go-set/v3"
	"github.com/roan-lang/roan/frontend/ident"
)

// References records which symbols an expression touches. A symbol appears
// in Calls only when it was the head of a direct application; appearing in
// Locals means its value was read.
type References struct {
	Locals  *set.Set[ident.Symbol]
	Calls   *set.Set[ident.Symbol]
	Globals *set.Set[ident.Symbol]
}

func NewReferences() References {
	return References{
		Locals:  set.New[ident.Symbol](0),
		Calls:   set.New[ident.Symbol](0),
		Globals: set.New[ident.Symbol](0),
	}
}

// Union combines two reference records into a fresh one. It is associative,
// commutative and idempotent, which the transitive-closure walk in the defs
// resolver relies on when it unions the same record repeatedly.
func (r References) Union(other References) References {
	out := r.Clone()
	out.Locals.InsertSlice(other.Locals.Slice())
	out.Calls.InsertSlice(other.Calls.Slice())
	out.Globals.InsertSlice(other.Globals.Slice())
	return out
}

func (r References) Clone() References {
	return References{
		Locals:  r.Locals.Copy(),
		Calls:   r.Calls.Copy(),
		Globals: r.Globals.Copy(),
	}
}

func (r References) HasLocal(symbol ident.Symbol) bool {
	return r.Locals.Contains(symbol)
}
