package can

import (
	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/ident"
	"github.com/roan-lang/roan/frontend/types"
)

// Procedure is a closure promoted to a named, top-level code-gen unit.
// It is created under a generated symbol when the closure literal is
// canonicalized and renamed once the closure is bound to an identifier.
type Procedure struct {
	ast.Range
	// Name is the source name the closure was bound to, for debugging and
	// stack traces; "" while the closure is still anonymous.
	Name string
	Args []Pattern
	Body Expr
	// References are the values the closure closes over: the body's
	// references with the closure's own arguments removed.
	References          References
	IsSelfTailRecursive bool
	Var                 types.Variable
}

// Procedures is the per-declaration registry of promoted closures, owned by
// the Env and threaded through the recursive descent.
type Procedures map[ident.Symbol]*Procedure

func (p Procedures) Register(symbol ident.Symbol, proc *Procedure) {
	p[symbol] = proc
}

// Rename moves a procedure from its generated symbol to the symbol it was
// assigned to, so calls by assigned name resolve to it, and records the
// source name and self-tail-recursion status discovered at assignment time.
func (p Procedures) Rename(old, new ident.Symbol, name string, selfTailRecursive bool) {
	proc, ok := p[old]
	if !ok {
		return
	}
	delete(p, old)
	proc.Name = name
	proc.IsSelfTailRecursive = selfTailRecursive
	p[new] = proc
}
