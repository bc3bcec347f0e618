package main

import (
	"github.com/aretw0/sortviz/internal/cli"
	"github.com/aretw0/sortviz/pkg/runner"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <algorithm> --array 5,3,4",
	Short: "Step through a sorting run in the terminal",
	Long: `Records a run and plays it back one step at a time.

Commands: n(ext), p(rev), f(irst), l(ast), g(oto) N, play, h(elp), q(uit).
With --json, frames are written as JSON lines and commands are read the same way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		array, _ := cmd.Flags().GetIntSlice("array")
		jsonMode, _ := cmd.Flags().GetBool("json")
		autoplay, _ := cmd.Flags().GetBool("autoplay")
		interval, _ := cmd.Flags().GetDuration("interval")

		return cli.Play(cmd.Context(), app, cli.PlayOptions{
			Algorithm: args[0],
			Array:     array,
			JSON:      jsonMode,
			Autoplay:  autoplay,
			Interval:  interval,
			In:        cmd.InOrStdin(),
			Out:       cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().IntSliceP("array", "a", nil, "Comma separated integers to sort")
	playCmd.Flags().Bool("json", false, "Use JSON lines for frames and commands")
	playCmd.Flags().Bool("autoplay", false, "Advance through every step without waiting")
	playCmd.Flags().Duration("interval", runner.DefaultInterval, "Delay between frames during autoplay")
	_ = playCmd.MarkFlagRequired("array")
}
