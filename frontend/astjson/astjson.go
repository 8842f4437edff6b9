// Package astjson decodes the parser's JSON dump of a syntax tree into ast
// nodes. The canonicalizer does not parse source itself; a separate parsing
// stage emits its tree as JSON, and this package is the seam between them.
//
// Every node is an object with a "kind" discriminator plus kind-specific
// fields; "start" and "end" carry the source offsets.
package astjson

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/roan-lang/roan/frontend/ast"
	"go/token"
)

// DecodeExpr decodes one expression tree.
func DecodeExpr(data []byte) (ast.Expr, error) {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "could not decode expression node")
	}
	return exprFromRaw(raw)
}

type rawNode struct {
	Kind  string    `json:"kind"`
	Start token.Pos `json:"start"`
	End   token.Pos `json:"end"`

	Raw      string            `json:"raw,omitempty"`
	Value    string            `json:"value,omitempty"`
	Lines    []string          `json:"lines,omitempty"`
	Name     string            `json:"name,omitempty"`
	Module   string            `json:"module,omitempty"`
	Op       string            `json:"op,omitempty"`
	Field    string            `json:"field,omitempty"`
	Problem  string            `json:"problem,omitempty"`
	Suffix   string            `json:"suffix,omitempty"`
	Comments []string          `json:"comments,omitempty"`
	Pairs    []rawPair         `json:"pairs,omitempty"`
	Fields   []rawRecordField  `json:"fields,omitempty"`
	Elems    []json.RawMessage `json:"elems,omitempty"`
	Args     []json.RawMessage `json:"args,omitempty"`
	Fn       json.RawMessage   `json:"fn,omitempty"`
	Left     json.RawMessage   `json:"left,omitempty"`
	Right    json.RawMessage   `json:"right,omitempty"`
	Cond     json.RawMessage   `json:"cond,omitempty"`
	Then     json.RawMessage   `json:"then,omitempty"`
	Else     json.RawMessage   `json:"else,omitempty"`
	Body     json.RawMessage   `json:"body,omitempty"`
	Ret      json.RawMessage   `json:"ret,omitempty"`
	Expr     json.RawMessage   `json:"expr,omitempty"`
	Pattern  json.RawMessage   `json:"pattern,omitempty"`
	Branches []rawBranch       `json:"branches,omitempty"`
	Defs     []rawDef          `json:"defs,omitempty"`
}

type rawPair struct {
	Prefix string  `json:"prefix"`
	Var    rawNode `json:"var"`
}

type rawRecordField struct {
	Name  string          `json:"name"`
	Start token.Pos       `json:"start"`
	End   token.Pos       `json:"end"`
	Value json.RawMessage `json:"value"`
}

type rawBranch struct {
	Start   token.Pos       `json:"start"`
	End     token.Pos       `json:"end"`
	Pattern json.RawMessage `json:"pattern"`
	Body    json.RawMessage `json:"body"`
}

type rawDef struct {
	Start      token.Pos       `json:"start"`
	End        token.Pos       `json:"end"`
	Annotation *rawAnnotation  `json:"annotation,omitempty"`
	Pattern    json.RawMessage `json:"pattern,omitempty"`
	Body       json.RawMessage `json:"body,omitempty"`
}

type rawAnnotation struct {
	Start token.Pos `json:"start"`
	End   token.Pos `json:"end"`
	Name  string    `json:"name"`
}

func (n rawNode) rng() ast.Range {
	return ast.Range{PosStart: n.Start, PosEnd: n.End}
}

var operators = map[string]ast.Operator{
	"+":  ast.Plus,
	"-":  ast.Minus,
	"*":  ast.Star,
	"/":  ast.Slash,
	"%":  ast.Percent,
	"^":  ast.Caret,
	"==": ast.EqualEqual,
	"!=": ast.NotEqual,
	"<":  ast.LessThan,
	"<=": ast.LessThanOrEq,
	">":  ast.GreaterThan,
	">=": ast.GreaterThanOrEq,
	"&&": ast.And,
	"||": ast.Or,
	"|>": ast.Pizza,
}

func decodeExprs(raws []json.RawMessage) ([]ast.Expr, error) {
	exprs := make([]ast.Expr, 0, len(raws))
	for i, raw := range raws {
		expr, err := DecodeExpr(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func decodeChild(raw json.RawMessage, what string) (ast.Expr, error) {
	if len(raw) == 0 {
		return nil, errors.Errorf("missing %s", what)
	}
	expr, err := DecodeExpr(raw)
	return expr, errors.Wrap(err, what)
}

func exprFromRaw(n rawNode) (ast.Expr, error) {
	rng := n.rng()
	switch n.Kind {
	case "int":
		return &ast.IntLit{Range: rng, Raw: n.Raw}, nil
	case "hex_int":
		return &ast.HexIntLit{Range: rng, Raw: n.Raw}, nil
	case "octal_int":
		return &ast.OctalIntLit{Range: rng, Raw: n.Raw}, nil
	case "binary_int":
		return &ast.BinaryIntLit{Range: rng, Raw: n.Raw}, nil
	case "float":
		return &ast.FloatLit{Range: rng, Raw: n.Raw}, nil
	case "str":
		return &ast.StrLit{Range: rng, Value: n.Value}, nil
	case "block_str":
		return &ast.BlockStrLit{Range: rng, Lines: n.Lines}, nil
	case "interpolated_str":
		pairs := make([]ast.InterpolationPair, 0, len(n.Pairs))
		for i, pair := range n.Pairs {
			if pair.Var.Kind != "var" {
				return nil, errors.Errorf("interpolation %d: expected a var node, got %q", i, pair.Var.Kind)
			}
			pairs = append(pairs, ast.InterpolationPair{
				Prefix: pair.Prefix,
				Var:    &ast.Var{Range: pair.Var.rng(), Module: pair.Var.Module, Name: pair.Var.Name},
			})
		}
		return &ast.InterpolatedStrLit{Range: rng, Pairs: pairs, Suffix: n.Suffix}, nil
	case "record":
		fields := make([]ast.RecordField, 0, len(n.Fields))
		for _, f := range n.Fields {
			value, err := decodeChild(f.Value, "record field "+f.Name)
			if err != nil {
				return nil, err
			}
			fields = append(fields, ast.RecordField{
				Range: ast.Range{PosStart: f.Start, PosEnd: f.End},
				Name:  f.Name,
				Value: value,
			})
		}
		return &ast.RecordLit{Range: rng, Fields: fields}, nil
	case "list":
		elems, err := decodeExprs(n.Elems)
		if err != nil {
			return nil, errors.Wrap(err, "list")
		}
		return &ast.ListLit{Range: rng, Elems: elems}, nil
	case "var":
		return &ast.Var{Range: rng, Module: n.Module, Name: n.Name}, nil
	case "binop":
		op, ok := operators[n.Op]
		if !ok {
			return nil, errors.Errorf("unknown operator %q", n.Op)
		}
		left, err := decodeChild(n.Left, "left operand")
		if err != nil {
			return nil, err
		}
		right, err := decodeChild(n.Right, "right operand")
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Range: rng, Left: left, Op: op, OpRange: rng, Right: right}, nil
	case "apply":
		fn, err := decodeChild(n.Fn, "applied function")
		if err != nil {
			return nil, err
		}
		args, err := decodeExprs(n.Args)
		if err != nil {
			return nil, errors.Wrap(err, "apply arguments")
		}
		return &ast.Apply{Range: rng, Fn: fn, Args: args}, nil
	case "apply_variant":
		args, err := decodeExprs(n.Args)
		if err != nil {
			return nil, errors.Wrap(err, "variant arguments")
		}
		return &ast.ApplyVariant{Range: rng, Name: n.Name, Args: args}, nil
	case "closure":
		args := make([]ast.Pattern, 0, len(n.Args))
		for i, raw := range n.Args {
			pattern, err := DecodePattern(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "closure argument %d", i)
			}
			args = append(args, pattern)
		}
		body, err := decodeChild(n.Body, "closure body")
		if err != nil {
			return nil, err
		}
		return &ast.Closure{Range: rng, Args: args, Body: body}, nil
	case "if":
		cond, err := decodeChild(n.Cond, "if condition")
		if err != nil {
			return nil, err
		}
		then, err := decodeChild(n.Then, "then branch")
		if err != nil {
			return nil, err
		}
		els, err := decodeChild(n.Else, "else branch")
		if err != nil {
			return nil, err
		}
		return &ast.If{Range: rng, Cond: cond, Then: then, Else: els}, nil
	case "case":
		cond, err := decodeChild(n.Cond, "case condition")
		if err != nil {
			return nil, err
		}
		branches := make([]ast.CaseBranch, 0, len(n.Branches))
		for i, b := range n.Branches {
			pattern, err := DecodePattern(b.Pattern)
			if err != nil {
				return nil, errors.Wrapf(err, "branch %d pattern", i)
			}
			body, err := decodeChild(b.Body, "branch body")
			if err != nil {
				return nil, errors.Wrapf(err, "branch %d", i)
			}
			branches = append(branches, ast.CaseBranch{
				Range:   ast.Range{PosStart: b.Start, PosEnd: b.End},
				Pattern: pattern,
				Body:    body,
			})
		}
		return &ast.Case{Range: rng, Cond: cond, Branches: branches}, nil
	case "defs":
		defs := make([]ast.Def, 0, len(n.Defs))
		for i, d := range n.Defs {
			def, err := defFromRaw(d)
			if err != nil {
				return nil, errors.Wrapf(err, "def %d", i)
			}
			defs = append(defs, def)
		}
		ret, err := decodeChild(n.Ret, "block return expression")
		if err != nil {
			return nil, err
		}
		return &ast.Defs{Range: rng, Defs: defs, Ret: ret}, nil
	case "access":
		record, err := decodeChild(n.Expr, "accessed record")
		if err != nil {
			return nil, err
		}
		return &ast.Access{Range: rng, Record: record, Field: n.Field}, nil
	case "accessor":
		return &ast.AccessorFunction{Range: rng, Field: n.Field}, nil
	case "space_before":
		inner, err := decodeChild(n.Expr, "wrapped expression")
		if err != nil {
			return nil, err
		}
		return &ast.SpaceBefore{Range: rng, Expr: inner, Comments: n.Comments}, nil
	case "space_after":
		inner, err := decodeChild(n.Expr, "wrapped expression")
		if err != nil {
			return nil, err
		}
		return &ast.SpaceAfter{Range: rng, Expr: inner, Comments: n.Comments}, nil
	case "malformed":
		return &ast.Malformed{Range: rng, Problem: n.Problem}, nil
	}
	return nil, errors.Errorf("unknown expression kind %q", n.Kind)
}

func defFromRaw(d rawDef) (ast.Def, error) {
	def := ast.Def{Range: ast.Range{PosStart: d.Start, PosEnd: d.End}}
	if d.Annotation != nil {
		def.Annotation = &ast.Annotation{
			Range: ast.Range{PosStart: d.Annotation.Start, PosEnd: d.Annotation.End},
			Name:  d.Annotation.Name,
		}
	}
	if len(d.Pattern) > 0 {
		pattern, err := DecodePattern(d.Pattern)
		if err != nil {
			return ast.Def{}, errors.Wrap(err, "pattern")
		}
		def.Pattern = pattern
	}
	if len(d.Body) > 0 {
		body, err := DecodeExpr(d.Body)
		if err != nil {
			return ast.Def{}, errors.Wrap(err, "body")
		}
		def.Body = body
	}
	if def.Annotation == nil && def.Pattern == nil {
		return ast.Def{}, errors.New("def carries neither annotation nor pattern")
	}
	return def, nil
}

// DecodePattern decodes one binding-pattern tree.
func DecodePattern(data []byte) (ast.Pattern, error) {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "could not decode pattern node")
	}
	return patternFromRaw(raw)
}

func patternFromRaw(n rawNode) (ast.Pattern, error) {
	rng := n.rng()
	switch n.Kind {
	case "ident":
		return &ast.IdentPattern{Range: rng, Name: n.Name}, nil
	case "underscore":
		return &ast.UnderscorePattern{Range: rng}, nil
	case "int":
		return &ast.IntPattern{Range: rng, Raw: n.Raw}, nil
	case "str":
		return &ast.StrPattern{Range: rng, Value: n.Value}, nil
	case "empty_record":
		return &ast.EmptyRecordPattern{Range: rng}, nil
	case "variant":
		args := make([]ast.Pattern, 0, len(n.Args))
		for i, raw := range n.Args {
			arg, err := DecodePattern(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "variant argument %d", i)
			}
			args = append(args, arg)
		}
		return &ast.VariantPattern{Range: rng, Name: n.Name, Args: args}, nil
	case "space_before":
		inner, err := DecodePattern(n.Pattern)
		if err != nil {
			return nil, errors.Wrap(err, "wrapped pattern")
		}
		return &ast.SpaceBeforePattern{Range: rng, Pattern: inner, Comments: n.Comments}, nil
	case "space_after":
		inner, err := DecodePattern(n.Pattern)
		if err != nil {
			return nil, errors.Wrap(err, "wrapped pattern")
		}
		return &ast.SpaceAfterPattern{Range: rng, Pattern: inner, Comments: n.Comments}, nil
	}
	return nil, errors.Errorf("unknown pattern kind %q", n.Kind)
}
