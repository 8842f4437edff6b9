package can

import (
	"fmt"
	"strconv"
	"strings"
)

// ExprString renders a canonical expression as readable pseudo-source, for
// debugging output and test assertions.
func ExprString(expr Expr) string {
	ctx := newShowContext()
	ctx.showExpr(expr)
	return ctx.String()
}

type showContext struct {
	*strings.Builder
	indent    int
	indentStr string
}

func newShowContext() *showContext {
	return &showContext{
		Builder:   &strings.Builder{},
		indentStr: "  ",
	}
}

func (ctx *showContext) newline() {
	ctx.WriteString("\n" + strings.Repeat(ctx.indentStr, ctx.indent))
}

func (ctx *showContext) showExpr(expr Expr) {
	if expr == nil {
		ctx.WriteString("nil")
		return
	}
	switch expr := expr.(type) {
	case *Int:
		ctx.WriteString(strconv.FormatInt(expr.Value, 10))
	case *Float:
		ctx.WriteString(strconv.FormatFloat(expr.Value, 'g', -1, 64))
	case *Str:
		ctx.WriteString(strconv.Quote(expr.Value))
	case *InterpolatedStr:
		ctx.WriteString("\"")
		for _, seg := range expr.Segments {
			ctx.WriteString(seg.Prefix + "\\(")
			ctx.showExpr(seg.Expr)
			ctx.WriteString(")")
		}
		ctx.WriteString(expr.Suffix + "\"")
	case *EmptyRecord:
		ctx.WriteString("{}")
	case *EmptyList:
		ctx.WriteString("[]")
	case *List:
		ctx.WriteString("[")
		for i, elem := range expr.Elems {
			if i > 0 {
				ctx.WriteString(", ")
			}
			ctx.showExpr(elem)
		}
		ctx.WriteString("]")
	case *Var:
		ctx.WriteString(expr.Symbol.String())
	case *FunctionPointer:
		ctx.WriteString("&" + expr.Symbol.String())
	case *Call:
		ctx.showExpr(expr.Fn)
		ctx.WriteString("(")
		for i, arg := range expr.Args {
			if i > 0 {
				ctx.WriteString(", ")
			}
			ctx.showExpr(arg)
		}
		ctx.WriteString(")")
	case *ApplyVariant:
		ctx.WriteString(expr.Symbol.String())
		for _, arg := range expr.Args {
			ctx.WriteString(" ")
			ctx.showExpr(arg)
		}
	case *If:
		ctx.WriteString("if ")
		ctx.showExpr(expr.Cond)
		ctx.WriteString(" then ")
		ctx.showExpr(expr.Then)
		ctx.WriteString(" else ")
		ctx.showExpr(expr.Else)
	case *Case:
		ctx.WriteString("case ")
		ctx.showExpr(expr.Cond)
		ctx.WriteString(" of")
		ctx.indent++
		for _, branch := range expr.Branches {
			ctx.newline()
			ctx.showPattern(branch.Pattern)
			ctx.WriteString(" -> ")
			ctx.showExpr(branch.Body)
		}
		ctx.indent--
	case *Define:
		for _, assignment := range expr.Assignments {
			ctx.showPattern(assignment.Pattern)
			ctx.WriteString(" = ")
			ctx.showExpr(assignment.Value)
			ctx.newline()
		}
		ctx.showExpr(expr.Ret)
	case *RuntimeError:
		ctx.WriteString("<error: " + expr.Problem.Describe() + ">")
	default:
		ctx.WriteString(fmt.Sprintf("<%T>", expr))
	}
}

func (ctx *showContext) showPattern(pattern Pattern) {
	switch pattern := pattern.(type) {
	case *IdentifierPattern:
		ctx.WriteString(pattern.Symbol.String())
	case *UnderscorePattern:
		ctx.WriteString("_")
	case *IntLiteralPattern:
		ctx.WriteString(strconv.FormatInt(pattern.Value, 10))
	case *StrLiteralPattern:
		ctx.WriteString(strconv.Quote(pattern.Value))
	case *EmptyRecordPattern:
		ctx.WriteString("{}")
	case *UnsupportedPattern:
		ctx.WriteString("<pattern: " + pattern.Description + ">")
	default:
		ctx.WriteString(fmt.Sprintf("<%T>", pattern))
	}
}
