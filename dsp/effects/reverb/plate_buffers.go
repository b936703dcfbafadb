package reverb

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/buffer"
	"github.com/cwbudde/algo-plate/dsp/core"
)

// ErrBufferTooSmall is returned when a plate buffer cannot hold its line.
var ErrBufferTooSmall = errors.New("reverb: buffer too small")

// Line lengths of the plate in samples.
const (
	InputDiffusion11 = 142
	InputDiffusion12 = 107
	InputDiffusion21 = 379
	InputDiffusion22 = 277

	// First all-pass of tank 1 and tank 2. Modulated.
	DecayDiffusion11 = 672
	DecayDiffusion12 = 908

	// Second all-pass of tank 1 and tank 2.
	DecayDiffusion21 = 1800
	DecayDiffusion22 = 2656

	TankDelay1 = 4453
	TankDelay2 = 3720
	TankDelay3 = 4217
	TankDelay4 = 3163

	// Excursion is the headroom of the modulated all-passes.
	Excursion = 16

	// DefaultPredelayCapacity holds predelays up to 4095 samples.
	DefaultPredelayCapacity = 4096
)

// PlateBuffers holds every line and filter state of a plate. The network
// borrows these slices; it never allocates.
type PlateBuffers[T core.Float] struct {
	Predelay []T

	// One-pole filter states.
	Bandwidth []T
	Damping1  []T
	Damping2  []T

	InputDiffusion11 []T
	InputDiffusion12 []T
	InputDiffusion21 []T
	InputDiffusion22 []T

	DecayDiffusion11 []T
	DecayDiffusion12 []T
	DecayDiffusion21 []T
	DecayDiffusion22 []T

	Delay1 []T
	Delay2 []T
	Delay3 []T
	Delay4 []T
}

type bufferLayout[T core.Float] struct {
	name string
	dst  *[]T
	size int
}

func (b *PlateBuffers[T]) layout(predelayCapacity int) []bufferLayout[T] {
	return []bufferLayout[T]{
		{"predelay", &b.Predelay, predelayCapacity},
		{"bandwidth", &b.Bandwidth, 1},
		{"damping 1", &b.Damping1, 1},
		{"damping 2", &b.Damping2, 1},
		{"input diffusion 1.1", &b.InputDiffusion11, InputDiffusion11 + 1},
		{"input diffusion 1.2", &b.InputDiffusion12, InputDiffusion12 + 1},
		{"input diffusion 2.1", &b.InputDiffusion21, InputDiffusion21 + 1},
		{"input diffusion 2.2", &b.InputDiffusion22, InputDiffusion22 + 1},
		{"decay diffusion 1.1", &b.DecayDiffusion11, DecayDiffusion11 + Excursion + 1},
		{"decay diffusion 1.2", &b.DecayDiffusion12, DecayDiffusion12 + Excursion + 1},
		{"decay diffusion 2.1", &b.DecayDiffusion21, DecayDiffusion21 + 1},
		{"decay diffusion 2.2", &b.DecayDiffusion22, DecayDiffusion22 + 1},
		{"delay 1", &b.Delay1, TankDelay1 + 1},
		{"delay 2", &b.Delay2, TankDelay2 + 1},
		{"delay 3", &b.Delay3, TankDelay3 + 1},
		{"delay 4", &b.Delay4, TankDelay4 + 1},
	}
}

// PlateBufferSize returns the number of samples NewPlateBuffers needs for
// predelays up to maxPredelay.
func PlateBufferSize(maxPredelay int) int {
	var b PlateBuffers[float64]
	total := 0
	for _, s := range b.layout(max(1, maxPredelay) + 1) {
		total += s.size
	}
	return total
}

// NewPlateBuffers carves a full buffer set for predelays up to maxPredelay
// out of one contiguous allocation.
func NewPlateBuffers[T core.Float](maxPredelay int) (*PlateBuffers[T], error) {
	if maxPredelay < 1 {
		return nil, fmt.Errorf("reverb: max predelay must be >= 1: %d", maxPredelay)
	}

	arena, err := buffer.NewArena[T](PlateBufferSize(maxPredelay))
	if err != nil {
		return nil, fmt.Errorf("reverb: %w", err)
	}

	b := &PlateBuffers[T]{}
	for _, s := range b.layout(maxPredelay + 1) {
		buf, err := arena.Alloc(s.size)
		if err != nil {
			return nil, fmt.Errorf("reverb: %s: %w", s.name, err)
		}
		*s.dst = buf
	}

	return b, nil
}

// check asserts every capacity the network relies on. The predelay line
// must hold predelay+1 samples.
func (b *PlateBuffers[T]) check(predelay int) error {
	if b == nil {
		return fmt.Errorf("%w: nil buffers", ErrBufferTooSmall)
	}
	for _, s := range b.layout(predelay + 1) {
		if n := len(*s.dst); n < s.size {
			return fmt.Errorf("%w: %s has %d samples, need %d", ErrBufferTooSmall, s.name, n, s.size)
		}
	}
	return nil
}
