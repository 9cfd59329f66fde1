package main

import (
	"fmt"

	"github.com/aretw0/walkthrough/internal/presentation/tui"
	"github.com/aretw0/walkthrough/internal/samples"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write the sample modules",
	Long:  `Copies the built-in polling, long polling, WebSocket and SSE modules into a directory.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			dir = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")

		tui.PrintBanner(cmd.OutOrStdout())
		written, err := samples.Write(dir, force)
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
		if err != nil {
			return err
		}
		if len(written) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to do, samples already exist (use --force to overwrite).")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite existing files")
}
