package astjson

import (
	"testing"

	"github.com/roan-lang/roan/frontend/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIntLiteral(t *testing.T) {
	expr, err := DecodeExpr([]byte(`{"kind":"int","raw":"42","start":1,"end":3}`))
	require.NoError(t, err)
	require.IsType(t, &ast.IntLit{}, expr)
	lit := expr.(*ast.IntLit)
	assert.Equal(t, "42", lit.Raw)
	assert.Equal(t, "1-3", ast.RangeOf(lit).String())
}

func TestDecodeBinOp(t *testing.T) {
	expr, err := DecodeExpr([]byte(`{
		"kind": "binop",
		"op": "|>",
		"left": {"kind": "int", "raw": "1"},
		"right": {"kind": "var", "name": "inc"}
	}`))
	require.NoError(t, err)
	require.IsType(t, &ast.BinOp{}, expr)
	binop := expr.(*ast.BinOp)
	assert.Equal(t, ast.Pizza, binop.Op)
	assert.IsType(t, &ast.IntLit{}, binop.Left)
	assert.IsType(t, &ast.Var{}, binop.Right)
}

func TestDecodeUnknownOperator(t *testing.T) {
	_, err := DecodeExpr([]byte(`{
		"kind": "binop",
		"op": "<=>",
		"left": {"kind": "int", "raw": "1"},
		"right": {"kind": "int", "raw": "2"}
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<=>")
}

func TestDecodeClosureWithDefs(t *testing.T) {
	expr, err := DecodeExpr([]byte(`{
		"kind": "closure",
		"args": [{"kind": "ident", "name": "n"}],
		"body": {
			"kind": "defs",
			"defs": [
				{"pattern": {"kind": "ident", "name": "x"}, "body": {"kind": "int", "raw": "1"}},
				{"annotation": {"name": "y"}}
			],
			"ret": {"kind": "var", "name": "x"}
		}
	}`))
	require.NoError(t, err)
	require.IsType(t, &ast.Closure{}, expr)
	closure := expr.(*ast.Closure)
	require.Len(t, closure.Args, 1)
	require.IsType(t, &ast.Defs{}, closure.Body)
	defs := closure.Body.(*ast.Defs)
	require.Len(t, defs.Defs, 2)
	assert.NotNil(t, defs.Defs[0].Pattern)
	require.NotNil(t, defs.Defs[1].Annotation)
	assert.Equal(t, "y", defs.Defs[1].Annotation.Name)
	assert.Nil(t, defs.Defs[1].Pattern)
}

func TestDecodeInterpolatedString(t *testing.T) {
	expr, err := DecodeExpr([]byte(`{
		"kind": "interpolated_str",
		"pairs": [{"prefix": "hi ", "var": {"kind": "var", "name": "name"}}],
		"suffix": "!"
	}`))
	require.NoError(t, err)
	require.IsType(t, &ast.InterpolatedStrLit{}, expr)
	lit := expr.(*ast.InterpolatedStrLit)
	require.Len(t, lit.Pairs, 1)
	assert.Equal(t, "name", lit.Pairs[0].Var.Name)
	assert.Equal(t, "!", lit.Suffix)
}

func TestDecodeInterpolationRejectsNonVar(t *testing.T) {
	_, err := DecodeExpr([]byte(`{
		"kind": "interpolated_str",
		"pairs": [{"prefix": "hi ", "var": {"kind": "int", "raw": "1"}}],
		"suffix": ""
	}`))
	require.Error(t, err)
}

func TestDecodeCase(t *testing.T) {
	expr, err := DecodeExpr([]byte(`{
		"kind": "case",
		"cond": {"kind": "var", "name": "x"},
		"branches": [
			{"pattern": {"kind": "int", "raw": "0"}, "body": {"kind": "str", "value": "zero"}},
			{"pattern": {"kind": "underscore"}, "body": {"kind": "str", "value": "other"}}
		]
	}`))
	require.NoError(t, err)
	require.IsType(t, &ast.Case{}, expr)
	branches := expr.(*ast.Case).Branches
	require.Len(t, branches, 2)
	assert.IsType(t, &ast.IntPattern{}, branches[0].Pattern)
	assert.IsType(t, &ast.UnderscorePattern{}, branches[1].Pattern)
}

func TestDecodeMissingChildFails(t *testing.T) {
	_, err := DecodeExpr([]byte(`{"kind": "if", "cond": {"kind": "var", "name": "x"}}`))
	require.Error(t, err)
}

func TestDecodeUnknownKindFails(t *testing.T) {
	_, err := DecodeExpr([]byte(`{"kind": "mystery"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery")
}

func TestDecodeDefRequiresPatternOrAnnotation(t *testing.T) {
	_, err := DecodeExpr([]byte(`{
		"kind": "defs",
		"defs": [{}],
		"ret": {"kind": "int", "raw": "1"}
	}`))
	require.Error(t, err)
}
