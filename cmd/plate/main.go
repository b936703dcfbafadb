// Command plate renders and analyzes the plate reverb.
//
// Usage:
//
//	plate render [flags]
//	plate analyze [flags]
//
// Examples:
//
//	plate render --signal burst --samples 500 > burst.csv
//	plate render --signal impulse --format wav --out plate.wav --decay 0.7
//	plate analyze --decay 0.8 --damping 0.3
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	verbose bool
	logger  = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "plate",
		Short: "Render and analyze a figure-eight plate reverb",
		Long: `plate drives the plate reverb network offline.

render writes the stereo response to a test signal as CSV or WAV.
analyze renders an impulse response and prints its decay and color.`,
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging to stderr")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newAnalyzeCmd())
	return root
}
