package can

import (
	"math"
	"strconv"
	"strings"

	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/types"
)

// Numeric literals arrive as raw source substrings. Underscore digit
// separators are stripped before parsing for every radix, and a parse
// failure never aborts canonicalization: the literal degrades to a
// RuntimeError node and the solver is handed a True constraint, since there
// is nothing left to check about an already-broken expression.

func intFromRaw(env *Env, raw string, expected types.Expected, rng ast.Range) (types.Constraint, Expr) {
	value, err := strconv.ParseInt(stripSeparators(raw), 10, 64)
	if err != nil {
		return degradeNum(env, IntOutsideRange{Raw: raw}, rng)
	}
	return types.IntLiteral(expected, rng), &Int{Range: rng, Value: value}
}

func floatFromRaw(env *Env, raw string, expected types.Expected, rng ast.Range) (types.Constraint, Expr) {
	value, err := strconv.ParseFloat(stripSeparators(raw), 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return degradeNum(env, FloatOutsideRange{Raw: raw}, rng)
	}
	return types.FloatLiteral(expected, rng), &Float{Range: rng, Value: value}
}

func hexFromRaw(env *Env, raw string, expected types.Expected, rng ast.Range) (types.Constraint, Expr) {
	value, err := strconv.ParseInt(stripRadixPrefix(raw, "0x", "0X"), 16, 64)
	if err != nil {
		return degradeNum(env, InvalidHex{Raw: raw}, rng)
	}
	return types.IntLiteral(expected, rng), &Int{Range: rng, Value: value}
}

func octalFromRaw(env *Env, raw string, expected types.Expected, rng ast.Range) (types.Constraint, Expr) {
	value, err := strconv.ParseInt(stripRadixPrefix(raw, "0o", "0O"), 8, 64)
	if err != nil {
		return degradeNum(env, InvalidOctal{Raw: raw}, rng)
	}
	return types.IntLiteral(expected, rng), &Int{Range: rng, Value: value}
}

func binaryFromRaw(env *Env, raw string, expected types.Expected, rng ast.Range) (types.Constraint, Expr) {
	value, err := strconv.ParseInt(stripRadixPrefix(raw, "0b", "0B"), 2, 64)
	if err != nil {
		return degradeNum(env, InvalidBinary{Raw: raw}, rng)
	}
	return types.IntLiteral(expected, rng), &Int{Range: rng, Value: value}
}

func degradeNum(env *Env, problem RuntimeProblem, rng ast.Range) (types.Constraint, Expr) {
	env.Problem(&RuntimeErrorProblem{Range: rng, Err: problem})
	return types.True{}, &RuntimeError{Range: rng, Problem: problem}
}

func stripSeparators(raw string) string {
	return strings.ReplaceAll(raw, "_", "")
}

func stripRadixPrefix(raw string, prefixes ...string) string {
	cleaned := stripSeparators(raw)
	for _, prefix := range prefixes {
		if rest, ok := strings.CutPrefix(cleaned, prefix); ok {
			return rest
		}
	}
	return cleaned
}
