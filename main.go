package main

import (
	"os"

	"github.com/roan-lang/roan/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "roan [subcommand]",
	Short:        "roan\n the canonicalizing frontend of a small functional language",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.CanCmd)
}
