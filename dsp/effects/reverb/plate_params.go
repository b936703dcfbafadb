package reverb

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-plate/dsp/core"
)

// ErrInvalidParams is returned when plate parameters are out of range.
var ErrInvalidParams = errors.New("reverb: invalid plate params")

// Host parameter ranges.
const (
	MinCoefficient = 0.0001
	MaxCoefficient = 0.9999
	MaxModulation  = Excursion - 1
)

// PlateParams is the full parameter set of a plate network.
type PlateParams[T core.Float] struct {
	// Predelay in samples. 1 reads the current input.
	Predelay int

	// Bandwidth is the input low-pass coefficient. 1 passes everything.
	Bandwidth T

	InputDiffusion1 T
	InputDiffusion2 T
	DecayDiffusion1 T
	DecayDiffusion2 T

	// Damping is the in-tank low-pass coefficient. 0 leaves the tank bright.
	Damping T

	// Decay is the per-stage tank gain.
	Decay T

	// DecayModulation shifts the first all-pass of each tank by this many
	// samples.
	DecayModulation int
}

// DefaultPlateParams returns the canonical plate settings.
func DefaultPlateParams[T core.Float]() PlateParams[T] {
	return PlateParams[T]{
		Predelay:        1,
		Bandwidth:       0.9995,
		InputDiffusion1: 0.750,
		InputDiffusion2: 0.625,
		DecayDiffusion1: 0.70,
		DecayDiffusion2: 0.50,
		Damping:         0.0005,
		Decay:           0.50,
		DecayModulation: 0,
	}
}

// Validate reports whether p describes a stable network.
func (p PlateParams[T]) Validate() error {
	if p.Predelay < 1 {
		return fmt.Errorf("%w: predelay must be >= 1: %d", ErrInvalidParams, p.Predelay)
	}

	coefficients := [...]struct {
		name  string
		value T
	}{
		{"bandwidth", p.Bandwidth},
		{"input diffusion 1", p.InputDiffusion1},
		{"input diffusion 2", p.InputDiffusion2},
		{"decay diffusion 1", p.DecayDiffusion1},
		{"decay diffusion 2", p.DecayDiffusion2},
		{"damping", p.Damping},
		{"decay", p.Decay},
	}
	for _, c := range coefficients {
		if !core.IsFinite(c.value) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidParams, c.name)
		}
	}

	if p.Decay < 0 || p.Decay >= 1 {
		return fmt.Errorf("%w: decay must be in [0, 1): %v", ErrInvalidParams, p.Decay)
	}

	if p.DecayModulation < -MaxModulation || p.DecayModulation > MaxModulation {
		return fmt.Errorf("%w: decay modulation must be in [%d, %d]: %d",
			ErrInvalidParams, -MaxModulation, MaxModulation, p.DecayModulation)
	}

	return nil
}

// Clamp limits p to the host ranges: predelay [1, maxPredelay],
// coefficients [MinCoefficient, MaxCoefficient] and modulation
// [-MaxModulation, MaxModulation].
func (p PlateParams[T]) Clamp(maxPredelay int) PlateParams[T] {
	p.Predelay = core.Clamp(p.Predelay, 1, max(1, maxPredelay))
	p.Bandwidth = clampCoefficient(p.Bandwidth)
	p.InputDiffusion1 = clampCoefficient(p.InputDiffusion1)
	p.InputDiffusion2 = clampCoefficient(p.InputDiffusion2)
	p.DecayDiffusion1 = clampCoefficient(p.DecayDiffusion1)
	p.DecayDiffusion2 = clampCoefficient(p.DecayDiffusion2)
	p.Damping = clampCoefficient(p.Damping)
	p.Decay = clampCoefficient(p.Decay)
	p.DecayModulation = core.Clamp(p.DecayModulation, -MaxModulation, MaxModulation)
	return p
}

func clampCoefficient[T core.Float](v T) T {
	if math.IsNaN(float64(v)) {
		return MinCoefficient
	}
	return core.Clamp(v, MinCoefficient, MaxCoefficient)
}
