package main

import (
	"fmt"

	"github.com/aretw0/walkthrough/internal/compiler"
	"github.com/aretw0/walkthrough/internal/validator"
	"github.com/aretw0/walkthrough/pkg/adapters/file"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check every module definition",
	Long:  `Compiles every module in the directory and reports construction errors.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			dir = args[0]
		}

		results, err := validator.ValidateModules(file.New(dir), compiler.NewParser(nil))
		for _, r := range results {
			if r.Err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "ok    %s (%d steps)\n", r.ID, r.Module.Timeline.Len())
			}
		}
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All modules are valid! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
