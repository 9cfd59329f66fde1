package main

import (
	"github.com/aretw0/walkthrough/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [module]",
	Short: "Show a module overview",
	Long:  `Prints the module description and step table, or a Mermaid diagram with --format mermaid.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		format, _ := cmd.Flags().GetString("format")
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return cli.RunInspect(cmd.OutOrStdout(), dir, id, cli.InspectFormat(format))
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringP("format", "f", string(cli.FormatMarkdown), "Output format (markdown, mermaid)")
}
