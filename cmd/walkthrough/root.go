package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/walkthrough/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "walkthrough",
	Short: "Walkthrough plays animated explanations of network patterns",
	Long: `Walkthrough steps through timelines that explain polling, long polling,
WebSockets and server sent events, either on a timer or one click at a time.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing module definitions")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

// loggerFrom builds the logger for the --log-level flag.
func loggerFrom(cmd *cobra.Command) (*slog.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	return cli.NewLogger(level)
}

// optionsFrom collects the shared player options.
func optionsFrom(cmd *cobra.Command, args []string) (cli.Options, error) {
	logger, err := loggerFrom(cmd)
	if err != nil {
		return cli.Options{}, err
	}
	dir, _ := cmd.Flags().GetString("dir")
	opts := cli.Options{Dir: dir, Logger: logger}
	if len(args) > 0 {
		opts.ModuleID = args[0]
	}
	return opts, nil
}
