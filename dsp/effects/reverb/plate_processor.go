package reverb

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-plate/dsp/buffer"
	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/dsp/smooth"
	"github.com/cwbudde/algo-vecmath"
)

const defaultPlateWet = 0.5

// Smoothed plate coefficients.
const (
	coeffBandwidth = iota
	coeffInputDiffusion1
	coeffInputDiffusion2
	coeffDecayDiffusion1
	coeffDecayDiffusion2
	coeffDamping
	coeffDecay
	numCoeffs
)

// PlateProcessor drives a float64 Plate from host parameters. Coefficient
// changes are smoothed logarithmically, modulation and wet mix linearly.
// Predelay changes apply at the next sample.
type PlateProcessor struct {
	cfg   core.ProcessorConfig
	plate *Plate[float64]

	target PlateParams[float64]
	coeffs [numCoeffs]*smooth.Logarithmic
	mod    *smooth.Linear
	wet    *smooth.Linear
	dirty  bool

	frame   [2]float64
	wetL    []float64
	wetR    []float64
	wetGain []float64
	dryGain []float64
}

// NewPlateProcessor creates a processor with default plate parameters and a
// 50% wet mix.
func NewPlateProcessor(opts ...core.ProcessorOption) (*PlateProcessor, error) {
	cfg := core.ApplyProcessorOptions(opts...)

	bufs, err := NewPlateBuffers[float64](cfg.MaxPredelay)
	if err != nil {
		return nil, err
	}

	params := DefaultPlateParams[float64]()
	plate, err := NewPlate(bufs, params)
	if err != nil {
		return nil, err
	}

	p := &PlateProcessor{
		cfg:    cfg,
		plate:  plate,
		target: params,
	}

	initial := p.coeffValues(params)
	for i := range p.coeffs {
		if p.coeffs[i], err = smooth.NewLogarithmic(cfg.SampleRate, cfg.SmoothingTime, initial[i]); err != nil {
			return nil, fmt.Errorf("reverb: %w", err)
		}
	}
	if p.mod, err = smooth.NewLinear(cfg.SampleRate, cfg.SmoothingTime, 0); err != nil {
		return nil, fmt.Errorf("reverb: %w", err)
	}
	if p.wet, err = smooth.NewLinear(cfg.SampleRate, cfg.SmoothingTime, defaultPlateWet); err != nil {
		return nil, fmt.Errorf("reverb: %w", err)
	}

	scratch, err := buffer.NewArena[float64](4 * cfg.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("reverb: %w", err)
	}
	for _, dst := range []*[]float64{&p.wetL, &p.wetR, &p.wetGain, &p.dryGain} {
		if *dst, err = scratch.Alloc(cfg.BlockSize); err != nil {
			return nil, fmt.Errorf("reverb: %w", err)
		}
	}

	return p, nil
}

func (p *PlateProcessor) coeffValues(params PlateParams[float64]) [numCoeffs]float64 {
	return [numCoeffs]float64{
		coeffBandwidth:       params.Bandwidth,
		coeffInputDiffusion1: params.InputDiffusion1,
		coeffInputDiffusion2: params.InputDiffusion2,
		coeffDecayDiffusion1: params.DecayDiffusion1,
		coeffDecayDiffusion2: params.DecayDiffusion2,
		coeffDamping:         params.Damping,
		coeffDecay:           params.Decay,
	}
}

// Config returns the processor configuration.
func (p *PlateProcessor) Config() core.ProcessorConfig { return p.cfg }

// Params returns the target plate parameters.
func (p *PlateProcessor) Params() PlateParams[float64] { return p.target }

// Wet returns the target wet mix.
func (p *PlateProcessor) Wet() float64 { return p.wet.Target() }

// SetPredelay sets the predelay in samples, in [1, MaxPredelay].
func (p *PlateProcessor) SetPredelay(samples int) error {
	if samples < 1 || samples > p.cfg.MaxPredelay {
		return fmt.Errorf("reverb: predelay must be in [1, %d]: %d", p.cfg.MaxPredelay, samples)
	}
	p.target.Predelay = samples
	p.dirty = true
	return nil
}

// SetBandwidth sets the input low-pass coefficient.
func (p *PlateProcessor) SetBandwidth(v float64) error {
	return p.setCoeff(coeffBandwidth, "bandwidth", v, &p.target.Bandwidth)
}

// SetInputDiffusion1 sets the coefficient of the first two input all-passes.
func (p *PlateProcessor) SetInputDiffusion1(v float64) error {
	return p.setCoeff(coeffInputDiffusion1, "input diffusion 1", v, &p.target.InputDiffusion1)
}

// SetInputDiffusion2 sets the coefficient of the last two input all-passes.
func (p *PlateProcessor) SetInputDiffusion2(v float64) error {
	return p.setCoeff(coeffInputDiffusion2, "input diffusion 2", v, &p.target.InputDiffusion2)
}

// SetDecayDiffusion1 sets the coefficient of the modulated tank all-passes.
func (p *PlateProcessor) SetDecayDiffusion1(v float64) error {
	return p.setCoeff(coeffDecayDiffusion1, "decay diffusion 1", v, &p.target.DecayDiffusion1)
}

// SetDecayDiffusion2 sets the coefficient of the fixed tank all-passes.
func (p *PlateProcessor) SetDecayDiffusion2(v float64) error {
	return p.setCoeff(coeffDecayDiffusion2, "decay diffusion 2", v, &p.target.DecayDiffusion2)
}

// SetDamping sets the in-tank low-pass coefficient.
func (p *PlateProcessor) SetDamping(v float64) error {
	return p.setCoeff(coeffDamping, "damping", v, &p.target.Damping)
}

// SetDecay sets the tank gain.
func (p *PlateProcessor) SetDecay(v float64) error {
	return p.setCoeff(coeffDecay, "decay", v, &p.target.Decay)
}

func (p *PlateProcessor) setCoeff(idx int, name string, v float64, dst *float64) error {
	if math.IsNaN(v) || v < MinCoefficient || v > MaxCoefficient {
		return fmt.Errorf("reverb: %s must be in [%g, %g]: %f", name, MinCoefficient, MaxCoefficient, v)
	}
	*dst = v
	p.coeffs[idx].SetTarget(v)
	p.dirty = true
	return nil
}

// SetDecayModulation sets the tank all-pass excursion in samples, in
// [-MaxModulation, MaxModulation].
func (p *PlateProcessor) SetDecayModulation(samples int) error {
	if samples < -MaxModulation || samples > MaxModulation {
		return fmt.Errorf("reverb: decay modulation must be in [%d, %d]: %d", -MaxModulation, MaxModulation, samples)
	}
	p.target.DecayModulation = samples
	p.mod.SetTarget(float64(samples))
	p.dirty = true
	return nil
}

// SetWet sets the wet mix in [0, 1].
func (p *PlateProcessor) SetWet(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("reverb: wet must be in [0, 1]: %f", v)
	}
	p.wet.SetTarget(v)
	return nil
}

func (p *PlateProcessor) smoothing() bool {
	if p.mod.IsSmoothing() {
		return true
	}
	for _, s := range p.coeffs {
		if s.IsSmoothing() {
			return true
		}
	}
	return false
}

// advance steps every smoother by one sample and pushes the result into
// the plate when anything moved.
func (p *PlateProcessor) advance() {
	if !p.dirty && !p.smoothing() {
		return
	}

	cur := p.target
	cur.Bandwidth = p.coeffs[coeffBandwidth].Next()
	cur.InputDiffusion1 = p.coeffs[coeffInputDiffusion1].Next()
	cur.InputDiffusion2 = p.coeffs[coeffInputDiffusion2].Next()
	cur.DecayDiffusion1 = p.coeffs[coeffDecayDiffusion1].Next()
	cur.DecayDiffusion2 = p.coeffs[coeffDecayDiffusion2].Next()
	cur.Damping = p.coeffs[coeffDamping].Next()
	cur.Decay = p.coeffs[coeffDecay].Next()
	cur.DecayModulation = int(math.Round(p.mod.Next()))

	p.plate.SetParams(cur)
	p.dirty = false
}

// ProcessStereo replaces left and right with the mixed plate output.
func (p *PlateProcessor) ProcessStereo(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("reverb: channel length mismatch: %d != %d", len(left), len(right))
	}

	for start := 0; start < len(left); start += p.cfg.BlockSize {
		end := min(start+p.cfg.BlockSize, len(left))
		p.processStereoBlock(left[start:end], right[start:end])
	}
	return nil
}

func (p *PlateProcessor) processStereoBlock(left, right []float64) {
	n := len(left)
	wetL, wetR := p.wetL[:n], p.wetR[:n]

	for i := range left {
		p.advance()
		p.frame[0], p.frame[1] = left[i], right[i]
		out := p.plate.ProcessStereo(p.frame[:])
		wetL[i], wetR[i] = out[0], out[1]
	}

	p.fillGains(n)
	p.mix(left, wetL)
	p.mix(right, wetR)
}

// ProcessMono replaces buf with the mixed left plate output.
func (p *PlateProcessor) ProcessMono(buf []float64) error {
	for start := 0; start < len(buf); start += p.cfg.BlockSize {
		end := min(start+p.cfg.BlockSize, len(buf))
		block := buf[start:end]
		wet := p.wetL[:len(block)]
		for i, x := range block {
			p.advance()
			wet[i] = p.plate.ProcessSample(x)[0]
		}
		p.fillGains(len(block))
		p.mix(block, wet)
	}
	return nil
}

// fillGains advances the wet smoother by n samples.
func (p *PlateProcessor) fillGains(n int) {
	for i := range n {
		w := p.wet.Next()
		p.wetGain[i] = w
		p.dryGain[i] = 1 - w
	}
}

// mix computes dry = (1-w)*dry + w*wet with the gains from fillGains.
func (p *PlateProcessor) mix(dry, wet []float64) {
	n := len(dry)
	vecmath.MulBlockInPlace(wet, p.wetGain[:n])
	vecmath.MulBlockInPlace(dry, p.dryGain[:n])
	for i, w := range wet {
		dry[i] += w
	}
}

// Reset clears the plate history and settles every smoother on its target.
func (p *PlateProcessor) Reset() {
	p.plate.Reset()

	targets := p.coeffValues(p.target)
	for i, s := range p.coeffs {
		s.Reset(targets[i])
	}
	p.mod.Reset(float64(p.target.DecayModulation))
	p.wet.Reset(p.wet.Target())
	p.dirty = true
}
