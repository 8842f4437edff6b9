package can

import (
	"log/slog"
	"maps"

	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/ident"
	"github.com/roan-lang/roan/frontend/types"
	"github.com/roan-lang/roan/internal/log"
)

// LocatedName is a declared name tagged with where it was declared.
type LocatedName struct {
	ast.Range
	Name string
}

// Env is the mutable context of one declaration's canonicalization: the
// home module, the declared variant constructors, the accumulated problems,
// and the promoted-closure registry. It is owned by the declaration entry
// point and passed by pointer through the whole descent, so concurrent
// canonicalization of different declarations cannot interfere.
type Env struct {
	Home     string
	Variants map[ident.Symbol]LocatedName
	// Problems is an append-only sink; nothing recorded here stops
	// canonicalization of sibling nodes.
	Problems   []Problem
	Procedures Procedures

	logger *slog.Logger
}

func NewEnv(home string, declaredVariants map[ident.Symbol]LocatedName) *Env {
	variants := make(map[ident.Symbol]LocatedName, len(declaredVariants))
	maps.Copy(variants, declaredVariants)
	return &Env{
		Home:       home,
		Variants:   variants,
		Procedures: make(Procedures),
		logger:     log.DefaultLogger.With("section", "canonicalize"),
	}
}

func (env *Env) Problem(problem Problem) {
	env.logger.Debug("recorded problem", "problem", problem, "range", ast.RangeOf(problem).String())
	env.Problems = append(env.Problems, problem)
}

// RegisterClosure promotes a just-canonicalized closure literal into the
// procedure registry under its generated symbol.
func (env *Env) RegisterClosure(
	symbol ident.Symbol,
	args []Pattern,
	body Expr,
	rng ast.Range,
	references References,
	v types.Variable,
) {
	env.Procedures.Register(symbol, &Procedure{
		Range:      rng,
		Args:       args,
		Body:       body,
		References: references,
		Var:        v,
	})
}
