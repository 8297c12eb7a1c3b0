package cmd

import (
	"fmt"

	"github.com/josephlewis42/myshell/core/shell"
	"github.com/spf13/cobra"
)

// builtinsCmd lists the commands the interpreter handles itself
var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "Show the builtin commands of the interpreter.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range shell.ListBuiltins() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(builtinsCmd)
}
