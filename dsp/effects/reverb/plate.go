package reverb

import (
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/dsp/delay"
	"github.com/cwbudde/algo-plate/dsp/filter/allpass"
	"github.com/cwbudde/algo-plate/dsp/filter/iir"
)

// plateTank is one half of the figure-eight:
//
//	in -> modulated all-pass -> delayA -> damping -> *decay
//	   -> all-pass -> delayB -> *decay
type plateTank[T core.Float] struct {
	modulated *allpass.Diffuser[T]
	delayA    *delay.Ring[T]
	damping   *iir.Recursive[T]
	diffuser  *allpass.Diffuser[T]
	delayB    *delay.Ring[T]

	nominal int
	lenA    int
	lenB    int
}

func (k *plateTank[T]) tick(x, decay T) T {
	x = k.modulated.Tick(x)
	k.delayA.Write(x)
	x = k.delayA.Read(k.lenA)
	x = k.damping.Tick(x) * decay
	x = k.diffuser.Tick(x)
	k.delayB.Write(x)
	return k.delayB.Read(k.lenB) * decay
}

func (k *plateTank[T]) clear() {
	k.modulated.Clear()
	k.delayA.Clear()
	k.damping.Clear()
	k.diffuser.Clear()
	k.delayB.Clear()
}

// Plate is a figure-eight plate reverb network. It reads a mono mix of
// each frame and produces a stereo pair from fixed output taps.
//
// Plate never allocates after construction. It is not safe for concurrent
// use.
type Plate[T core.Float] struct {
	params PlateParams[T]

	predelay    *delay.Ring[T]
	predelayLen int
	bandwidth   *iir.Recursive[T]
	input       [4]*allpass.Diffuser[T]
	tanks       [2]plateTank[T]
	carry       [2]T
	decay       T
}

// NewPlate builds a plate over bufs and applies p. Every buffer must meet
// the capacities of NewPlateBuffers for a max predelay of p.Predelay.
func NewPlate[T core.Float](bufs *PlateBuffers[T], p PlateParams[T]) (*Plate[T], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := bufs.check(p.Predelay); err != nil {
		return nil, err
	}

	pl := &Plate[T]{}
	var err error

	if pl.predelay, err = delay.New(bufs.Predelay); err != nil {
		return nil, fmt.Errorf("reverb: predelay: %w", err)
	}
	if pl.bandwidth, err = iir.New(bufs.Bandwidth); err != nil {
		return nil, fmt.Errorf("reverb: bandwidth: %w", err)
	}

	inputs := [4]struct {
		buf []T
		n   int
	}{
		{bufs.InputDiffusion11, InputDiffusion11},
		{bufs.InputDiffusion12, InputDiffusion12},
		{bufs.InputDiffusion21, InputDiffusion21},
		{bufs.InputDiffusion22, InputDiffusion22},
	}
	for i, in := range inputs {
		if pl.input[i], err = allpass.NewWithParams(in.buf, in.n, 0, 0); err != nil {
			return nil, fmt.Errorf("reverb: input diffusion %d: %w", i+1, err)
		}
	}

	tanks := [2]struct {
		modulated, delayA, damping, diffuser, delayB []T
		nominal, diffuserLen, lenA, lenB             int
	}{
		{
			bufs.DecayDiffusion11, bufs.Delay1, bufs.Damping1, bufs.DecayDiffusion21, bufs.Delay2,
			DecayDiffusion11, DecayDiffusion21, TankDelay1, TankDelay2,
		},
		{
			bufs.DecayDiffusion12, bufs.Delay3, bufs.Damping2, bufs.DecayDiffusion22, bufs.Delay4,
			DecayDiffusion12, DecayDiffusion22, TankDelay3, TankDelay4,
		},
	}
	for i, t := range tanks {
		k := &pl.tanks[i]
		k.nominal, k.lenA, k.lenB = t.nominal, t.lenA, t.lenB
		if k.modulated, err = allpass.NewWithParams(t.modulated, t.nominal, 0, 0); err != nil {
			return nil, fmt.Errorf("reverb: tank %d modulated all-pass: %w", i+1, err)
		}
		if k.delayA, err = delay.New(t.delayA); err != nil {
			return nil, fmt.Errorf("reverb: tank %d first delay: %w", i+1, err)
		}
		if k.damping, err = iir.New(t.damping); err != nil {
			return nil, fmt.Errorf("reverb: tank %d damping: %w", i+1, err)
		}
		if k.diffuser, err = allpass.NewWithParams(t.diffuser, t.diffuserLen, 0, 0); err != nil {
			return nil, fmt.Errorf("reverb: tank %d all-pass: %w", i+1, err)
		}
		if k.delayB, err = delay.New(t.delayB); err != nil {
			return nil, fmt.Errorf("reverb: tank %d second delay: %w", i+1, err)
		}
	}

	pl.SetParams(p)
	return pl, nil
}

// SetParams applies p to every element. Predelay is clamped to the
// predelay line and modulation to ±MaxModulation. Sample history is kept.
func (pl *Plate[T]) SetParams(p PlateParams[T]) {
	p.Predelay = core.Clamp(p.Predelay, 1, max(1, pl.predelay.Len()-1))
	p.DecayModulation = core.Clamp(p.DecayModulation, -MaxModulation, MaxModulation)
	pl.params = p

	pl.predelayLen = p.Predelay
	pl.bandwidth.SetOnePole(1-p.Bandwidth, p.Bandwidth)

	pl.input[0].SetParams(p.InputDiffusion1, p.InputDiffusion1, InputDiffusion11)
	pl.input[1].SetParams(p.InputDiffusion1, p.InputDiffusion1, InputDiffusion12)
	pl.input[2].SetParams(p.InputDiffusion2, p.InputDiffusion2, InputDiffusion21)
	pl.input[3].SetParams(p.InputDiffusion2, p.InputDiffusion2, InputDiffusion22)

	for i := range pl.tanks {
		k := &pl.tanks[i]
		k.modulated.SetParams(-p.DecayDiffusion1, -p.DecayDiffusion1, k.nominal+p.DecayModulation)
		k.diffuser.SetParams(p.DecayDiffusion2, p.DecayDiffusion2, k.diffuser.Delay())
		k.damping.SetOnePole(p.Damping, 1-p.Damping)
	}

	pl.decay = p.Decay
}

// Params returns the parameters in effect after clamping.
func (pl *Plate[T]) Params() PlateParams[T] {
	return pl.params
}

// Process feeds the mean of frame through the network. An empty frame is
// processed as silence.
func (pl *Plate[T]) Process(frame []T) {
	pl.process(core.Mean(frame))
}

func (pl *Plate[T]) process(mono T) {
	pl.predelay.Write(mono)
	x := pl.predelay.Read(pl.predelayLen)

	x = pl.bandwidth.Tick(x)
	for _, d := range pl.input {
		x = d.Tick(x)
	}

	out1 := pl.tanks[0].tick(x+pl.carry[0], pl.decay)
	out2 := pl.tanks[1].tick(x+pl.carry[1], pl.decay)

	pl.carry[0] = core.FlushDenormals(out2)
	pl.carry[1] = core.FlushDenormals(out1)
}

// ProcessStereo processes frame and returns the left and right outputs.
func (pl *Plate[T]) ProcessStereo(frame []T) [2]T {
	pl.Process(frame)
	return pl.taps()
}

// ProcessSample processes one mono sample and returns the stereo outputs.
func (pl *Plate[T]) ProcessSample(x T) [2]T {
	pl.process(x)
	return pl.taps()
}

func (pl *Plate[T]) taps() [2]T {
	t1, t2 := &pl.tanks[0], &pl.tanks[1]

	left := t2.delayA.Read(266)
	left += t2.delayA.Read(2974)
	left -= t2.diffuser.Tap(1913)
	left += t2.delayB.Read(1996)
	left -= t1.delayA.Read(1990)
	left -= t1.diffuser.Tap(187)
	left -= t1.delayB.Read(1066)

	right := t1.delayA.Read(353)
	right += t1.delayA.Read(3627)
	right -= t1.diffuser.Tap(1228)
	right += t1.delayB.Read(2673)
	right -= t2.delayA.Read(2111)
	right -= t2.diffuser.Tap(335)
	right -= t2.delayB.Read(121)

	return [2]T{left, right}
}

// Reset clears every line, filter state and tank carry. Parameters are
// kept.
func (pl *Plate[T]) Reset() {
	pl.predelay.Clear()
	pl.bandwidth.Clear()
	for _, d := range pl.input {
		d.Clear()
	}
	for i := range pl.tanks {
		pl.tanks[i].clear()
	}
	pl.carry = [2]T{}
}

// ResizePredelay moves the predelay line onto buf, keeping the most recent
// samples, and returns the previous buffer. The predelay is clamped to the
// new capacity.
func (pl *Plate[T]) ResizePredelay(buf []T) ([]T, error) {
	old, err := pl.predelay.Resize(buf)
	if err != nil {
		return nil, fmt.Errorf("reverb: predelay: %w", err)
	}
	pl.predelayLen = core.Clamp(pl.predelayLen, 1, max(1, pl.predelay.Len()-1))
	pl.params.Predelay = pl.predelayLen
	return old, nil
}
