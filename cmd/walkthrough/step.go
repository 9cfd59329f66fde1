package main

import (
	"os"

	"github.com/aretw0/walkthrough/internal/cli"
	"github.com/spf13/cobra"
)

var stepCmd = &cobra.Command{
	Use:   "step <module> <ops...>",
	Short: "Run a scripted manual navigation",
	Long: `Applies manual operations in order and prints the snapshot after each one.
Operations: next, prev, goto:N, reset.`,
	Example: `  walkthrough step polling next next prev goto:3 reset`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFrom(cmd, args)
		if err != nil {
			return err
		}
		ops, err := cli.ParseOps(args[1:])
		if err != nil {
			return err
		}
		return cli.RunSteps(os.Stdout, opts, ops)
	},
}

func init() {
	rootCmd.AddCommand(stepCmd)
}
