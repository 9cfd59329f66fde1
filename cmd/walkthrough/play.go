package main

import (
	"context"
	"os"

	"github.com/aretw0/walkthrough/internal/cli"
	"github.com/spf13/cobra"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play [module]",
	Short: "Autoplay a module in real time",
	Long:  `Mounts the module, plays every step on its interval and exits on completion or Ctrl+C.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFrom(cmd, args)
		if err != nil {
			return err
		}
		opts.Speed, _ = cmd.Flags().GetFloat64("speed")

		ctx, stop := cli.SignalContext(context.Background())
		defer stop()

		return cli.RunPlay(ctx, os.Stdout, opts)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().Float64("speed", 1, "Playback speed factor (2 = twice as fast)")
}
