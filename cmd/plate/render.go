package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-plate/internal/testutil"
)

type renderOptions struct {
	plate    plateFlags
	signal   string
	samples  int
	burstLen int
	format   string
	bitDepth int
	out      string
	seed     int64
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the plate response to a test signal",
		Long: `Render feeds a test signal through the plate and writes the
stereo result.

CSV output has the columns t,input,left,right. WAV output is an
interleaved stereo PCM file and needs --out.

Examples:
  plate render --signal burst --samples 500
  plate render --signal impulse --samples 144000 --format wav --out ir.wav`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), opts)
		},
	}

	opts.plate.register(cmd.Flags())
	cmd.Flags().StringVar(&opts.signal, "signal", "burst", "Test signal: burst, impulse or noise")
	cmd.Flags().IntVarP(&opts.samples, "samples", "n", 500, "Number of samples to render")
	cmd.Flags().IntVar(&opts.burstLen, "burst-length", 50, "Half-sine burst length in samples")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "csv", "Output format: csv or wav")
	cmd.Flags().IntVar(&opts.bitDepth, "bit-depth", 24, "WAV bit depth: 16 or 24")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default: stdout for csv)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 1, "Noise seed")
	return cmd
}

func runRender(stdout io.Writer, opts *renderOptions) error {
	input, err := makeSignal(opts.signal, opts.samples, opts.burstLen, opts.seed)
	if err != nil {
		return err
	}

	proc, err := opts.plate.processor()
	if err != nil {
		return err
	}

	left := append([]float64(nil), input...)
	right := append([]float64(nil), input...)
	if err := proc.ProcessStereo(left, right); err != nil {
		return err
	}
	logger.Info("rendered", slog.String("signal", opts.signal), slog.Int("samples", len(input)))

	switch opts.format {
	case "csv":
		if opts.out == "" {
			return writeCSV(stdout, input, left, right)
		}
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		if err := writeCSV(f, input, left, right); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case "wav":
		if opts.out == "" {
			return errors.New("wav output needs --out")
		}
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		if err := writeWAV(f, int(opts.plate.sampleRate), opts.bitDepth, left, right); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unknown format %q (want csv or wav)", opts.format)
	}
}

func makeSignal(kind string, samples, burstLen int, seed int64) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("samples must be > 0: %d", samples)
	}

	switch kind {
	case "impulse":
		return testutil.Impulse(samples, 0), nil
	case "burst":
		if burstLen <= 0 {
			return nil, fmt.Errorf("burst length must be > 0: %d", burstLen)
		}
		return testutil.HalfSineBurst(burstLen, samples), nil
	case "noise":
		return testutil.DeterministicNoise(seed, 1, samples), nil
	default:
		return nil, fmt.Errorf("unknown signal %q (want burst, impulse or noise)", kind)
	}
}

func writeCSV(w io.Writer, input, left, right []float64) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("t,input,left,right\n"); err != nil {
		return err
	}

	line := make([]byte, 0, 96)
	for i := range input {
		line = line[:0]
		line = strconv.AppendInt(line, int64(i), 10)
		for _, v := range [3]float64{input[i], left[i], right[i]} {
			line = append(line, ',')
			line = strconv.AppendFloat(line, v, 'g', -1, 64)
		}
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeWAV(w io.WriteSeeker, sampleRate, bitDepth int, left, right []float64) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("bit depth must be 16 or 24: %d", bitDepth)
	}

	scale := float64(int(1)<<(bitDepth-1) - 1)
	data := make([]int, 2*len(left))
	clipped := 0
	for i := range left {
		for ch, v := range [2]float64{left[i], right[i]} {
			if v > 1 || v < -1 {
				clipped++
				v = math.Max(-1, math.Min(1, v))
			}
			data[2*i+ch] = int(math.Round(v * scale))
		}
	}
	if clipped > 0 {
		logger.Warn("clipped samples in wav output", slog.Int("count", clipped))
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return enc.Close()
}
