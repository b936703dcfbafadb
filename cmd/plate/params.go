package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/dsp/effects/reverb"
)

// plateFlags holds the plate parameters shared by every subcommand.
type plateFlags struct {
	sampleRate      float64
	predelay        int
	bandwidth       float64
	inputDiffusion1 float64
	inputDiffusion2 float64
	decayDiffusion1 float64
	decayDiffusion2 float64
	damping         float64
	decay           float64
	modulation      int
	wet             float64
}

func (f *plateFlags) register(fs *pflag.FlagSet) {
	d := reverb.DefaultPlateParams[float64]()
	fs.Float64Var(&f.sampleRate, "sample-rate", 48000, "Sample rate in Hz")
	fs.IntVar(&f.predelay, "predelay", d.Predelay, "Predelay in samples (1 = none)")
	fs.Float64Var(&f.bandwidth, "bandwidth", d.Bandwidth, "Input low-pass coefficient")
	fs.Float64Var(&f.inputDiffusion1, "input-diffusion1", d.InputDiffusion1, "First input diffusion coefficient")
	fs.Float64Var(&f.inputDiffusion2, "input-diffusion2", d.InputDiffusion2, "Second input diffusion coefficient")
	fs.Float64Var(&f.decayDiffusion1, "decay-diffusion1", d.DecayDiffusion1, "Modulated tank diffusion coefficient")
	fs.Float64Var(&f.decayDiffusion2, "decay-diffusion2", d.DecayDiffusion2, "Fixed tank diffusion coefficient")
	fs.Float64Var(&f.damping, "damping", d.Damping, "Tank damping coefficient")
	fs.Float64Var(&f.decay, "decay", d.Decay, "Tank decay gain")
	fs.IntVar(&f.modulation, "modulation", d.DecayModulation, "Tank all-pass excursion in samples")
	fs.Float64Var(&f.wet, "wet", 1, "Wet mix in [0, 1]")
}

// processor builds an unsmoothed processor configured from the flags.
func (f *plateFlags) processor() (*reverb.PlateProcessor, error) {
	proc, err := reverb.NewPlateProcessor(
		core.WithSampleRate(f.sampleRate),
		core.WithSmoothingTime(0),
		core.WithMaxPredelay(max(f.predelay, core.DefaultProcessorConfig().MaxPredelay)),
	)
	if err != nil {
		return nil, err
	}

	setters := []struct {
		name string
		set  func() error
	}{
		{"predelay", func() error { return proc.SetPredelay(f.predelay) }},
		{"bandwidth", func() error { return proc.SetBandwidth(f.bandwidth) }},
		{"input-diffusion1", func() error { return proc.SetInputDiffusion1(f.inputDiffusion1) }},
		{"input-diffusion2", func() error { return proc.SetInputDiffusion2(f.inputDiffusion2) }},
		{"decay-diffusion1", func() error { return proc.SetDecayDiffusion1(f.decayDiffusion1) }},
		{"decay-diffusion2", func() error { return proc.SetDecayDiffusion2(f.decayDiffusion2) }},
		{"damping", func() error { return proc.SetDamping(f.damping) }},
		{"decay", func() error { return proc.SetDecay(f.decay) }},
		{"modulation", func() error { return proc.SetDecayModulation(f.modulation) }},
		{"wet", func() error { return proc.SetWet(f.wet) }},
	}
	for _, s := range setters {
		if err := s.set(); err != nil {
			return nil, fmt.Errorf("--%s: %w", s.name, err)
		}
	}

	logger.Debug("plate configured",
		slog.Float64("sample_rate", f.sampleRate),
		slog.Int("predelay", f.predelay),
		slog.Float64("decay", f.decay),
		slog.Float64("damping", f.damping),
		slog.Int("modulation", f.modulation),
		slog.Float64("wet", f.wet),
	)
	return proc, nil
}
