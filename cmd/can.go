package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/roan-lang/roan/frontend/ast"
	"github.com/roan-lang/roan/frontend/astjson"
	"github.com/roan-lang/roan/frontend/can"
	"github.com/roan-lang/roan/frontend/ident"
	"github.com/roan-lang/roan/frontend/types"
	"github.com/roan-lang/roan/internal/log"
	"github.com/spf13/cobra"
)

var CanCmd = &cobra.Command{
	Use:          "can file.ast.json",
	Short:        "Canonicalize a parsed declaration and print the result",
	RunE:         runCan,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

var (
	canHome  *string
	canName  *string
	logLevel *int
)

func init() {
	canHome = CanCmd.Flags().String("home", "Main", "home module of the declaration")
	canName = CanCmd.Flags().String("name", "main", "name of the declaration")
	logLevel = CanCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
}

func runCan(cmd *cobra.Command, args []string) error {
	log.SetLevel(slog.Level(*logLevel))

	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(err, "could not read input")
	}
	expr, err := astjson.DecodeExpr(data)
	if err != nil {
		return errors.Wrap(err, "could not decode syntax tree")
	}

	varStore := types.NewVarStore()
	expected := types.NoExpectation(types.TypeVar{Var: varStore.Fresh()})
	canExpr, out, problems, procedures := can.Declaration(
		varStore, *canHome, *canName, expr,
		builtinIdents(), nil, expected,
	)

	fmt.Println(can.ExprString(canExpr))

	if len(procedures) > 0 {
		fmt.Println()
		names := make([]string, 0, len(procedures))
		byName := make(map[string]ident.Symbol, len(procedures))
		for symbol := range procedures {
			names = append(names, symbol.String())
			byName[symbol.String()] = symbol
		}
		sort.Strings(names)
		for _, name := range names {
			proc := procedures[byName[name]]
			suffix := ""
			if proc.IsSelfTailRecursive {
				suffix = " (self tail recursive)"
			}
			fmt.Printf("procedure %s/%d%s\n", name, len(proc.Args), suffix)
		}
	}

	if out.TailCall != "" {
		fmt.Printf("\ntail call: %s\n", out.TailCall)
	}

	if len(problems) > 0 {
		fmt.Println()
		for _, problem := range problems {
			fmt.Printf("problem at %s: %v\n", ast.RangeOf(problem), problem)
		}
	}
	return nil
}

// builtinIdents is the ambient scope the CLI canonicalizes against: the
// builtin modules' values, addressable both qualified and bare.
func builtinIdents() map[ident.Ident]can.Binding {
	idents := make(map[ident.Ident]can.Binding)
	for module, names := range map[string][]string{
		"Int":   {"plus", "minus", "times", "rem", "pow", "lessThan", "lessThanOrEq", "greaterThan", "greaterThanOrEq", "abs", "negate"},
		"Float": {"div"},
		"Bool":  {"isEq", "isNotEq", "and", "or", "not"},
		"Str":   {"concat"},
		"List":  {"map", "push", "length"},
	} {
		for _, name := range names {
			symbol := ident.NewSymbol(module, name)
			idents[ident.Qualified(module, name)] = can.Binding{Symbol: symbol}
		}
	}
	return idents
}
