package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/measure/tail"
)

type analyzeOptions struct {
	plate     plateFlags
	seconds   float64
	crossover float64
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print decay and spectral metrics of the plate impulse response",
		Long: `Analyze renders the plate impulse response and prints RT60, EDT,
inter-channel correlation and spectral color.

Example:
  plate analyze --decay 0.8 --damping 0.3 --seconds 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.OutOrStdout(), opts)
		},
	}

	opts.plate.register(cmd.Flags())
	cmd.Flags().Float64Var(&opts.seconds, "seconds", 3, "Impulse response length in seconds")
	cmd.Flags().Float64Var(&opts.crossover, "crossover", tail.DefaultCrossoverHz, "Brightness split frequency in Hz")
	return cmd
}

func runAnalyze(stdout io.Writer, opts *analyzeOptions) error {
	samples := int(opts.seconds * opts.plate.sampleRate)
	input, err := makeSignal("impulse", samples, 0, 0)
	if err != nil {
		return err
	}

	// The dry impulse would dominate the peak and the spectrum.
	plate := opts.plate
	plate.wet = 1
	proc, err := plate.processor()
	if err != nil {
		return err
	}

	left := append([]float64(nil), input...)
	right := append([]float64(nil), input...)
	if err := proc.ProcessStereo(left, right); err != nil {
		return err
	}

	analyzer := tail.NewAnalyzer(opts.plate.sampleRate)
	analyzer.CrossoverHz = opts.crossover
	m, err := analyzer.Analyze(left, right)
	if err != nil {
		return err
	}
	if m.RT60 == 0 {
		logger.Warn("no usable decay; try a longer --seconds", slog.Float64("seconds", opts.seconds))
	}

	return printMetrics(stdout, m, opts.plate.sampleRate)
}

func printMetrics(w io.Writer, m tail.Metrics, sampleRate float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "RT60\t%.3f s\n", m.RT60)
	fmt.Fprintf(tw, "T30\t%.3f s\n", m.T30)
	fmt.Fprintf(tw, "T20\t%.3f s\n", m.T20)
	fmt.Fprintf(tw, "EDT\t%.3f s\n", m.EDT)
	fmt.Fprintf(tw, "Peak\t%d (%.1f ms)\n", m.PeakIndex, 1000*float64(m.PeakIndex)/sampleRate)
	fmt.Fprintf(tw, "Level\t%.1f dBFS\n", core.LinearToDB(m.PeakLevel))
	fmt.Fprintf(tw, "Energy\t%.6g (%.1f dB)\n", m.Energy, core.LinearPowerToDB(m.Energy))
	fmt.Fprintf(tw, "Correlation\t%.4f\n", m.Correlation)
	fmt.Fprintf(tw, "Centroid\t%.0f Hz\n", m.SpectralCentroid)
	fmt.Fprintf(tw, "Brightness\t%.4f\n", m.BrightnessRatio)
	return tw.Flush()
}
