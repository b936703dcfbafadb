package smooth

import (
	"fmt"
	"math"
)

// Smoother yields one smoothed parameter value per sample.
type Smoother interface {
	SetTarget(target float64)
	Next() float64
	Current() float64
	Target() float64
	Reset(value float64)
	IsSmoothing() bool
}

var (
	_ Smoother = (*Linear)(nil)
	_ Smoother = (*Logarithmic)(nil)
)

func stepCount(sampleRate, seconds float64) (int, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("smooth: sample rate must be > 0: %f", sampleRate)
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("smooth: time must be >= 0: %f", seconds)
	}
	return int(math.Round(seconds * sampleRate)), nil
}

// Linear reaches the target after a fixed number of equal increments.
type Linear struct {
	steps     int
	remaining int
	current   float64
	target    float64
	step      float64
}

// NewLinear returns a linear smoother that settles in seconds at
// sampleRate, starting at initial.
func NewLinear(sampleRate, seconds, initial float64) (*Linear, error) {
	steps, err := stepCount(sampleRate, seconds)
	if err != nil {
		return nil, err
	}
	return &Linear{steps: steps, current: initial, target: initial}, nil
}

// SetTarget starts a new ramp from the current value.
func (s *Linear) SetTarget(target float64) {
	s.target = target
	if s.steps == 0 || target == s.current {
		s.current = target
		s.remaining = 0
		return
	}
	s.remaining = s.steps
	s.step = (target - s.current) / float64(s.steps)
}

// Next advances one sample and returns the new value.
func (s *Linear) Next() float64 {
	if s.remaining > 0 {
		s.remaining--
		if s.remaining == 0 {
			s.current = s.target
		} else {
			s.current += s.step
		}
	}
	return s.current
}

// Current returns the value without advancing.
func (s *Linear) Current() float64 { return s.current }

// Target returns the value the smoother is moving towards.
func (s *Linear) Target() float64 { return s.target }

// Reset jumps to value immediately.
func (s *Linear) Reset(value float64) {
	s.current = value
	s.target = value
	s.remaining = 0
}

// IsSmoothing reports whether a ramp is in progress.
func (s *Linear) IsSmoothing() bool { return s.remaining > 0 }

// Logarithmic reaches the target after a fixed number of equal ratios.
// Non-positive values cannot be ramped in the log domain and are applied
// immediately.
type Logarithmic struct {
	steps     int
	remaining int
	current   float64
	target    float64
	ratio     float64
}

// NewLogarithmic returns a logarithmic smoother that settles in seconds at
// sampleRate, starting at initial.
func NewLogarithmic(sampleRate, seconds, initial float64) (*Logarithmic, error) {
	steps, err := stepCount(sampleRate, seconds)
	if err != nil {
		return nil, err
	}
	return &Logarithmic{steps: steps, current: initial, target: initial}, nil
}

// SetTarget starts a new ramp from the current value.
func (s *Logarithmic) SetTarget(target float64) {
	s.target = target
	if s.steps == 0 || target == s.current || target <= 0 || s.current <= 0 {
		s.current = target
		s.remaining = 0
		return
	}
	s.remaining = s.steps
	s.ratio = mathExp(mathLog(target/s.current) / float64(s.steps))
}

// Next advances one sample and returns the new value.
func (s *Logarithmic) Next() float64 {
	if s.remaining > 0 {
		s.remaining--
		if s.remaining == 0 {
			s.current = s.target
		} else {
			s.current *= s.ratio
		}
	}
	return s.current
}

// Current returns the value without advancing.
func (s *Logarithmic) Current() float64 { return s.current }

// Target returns the value the smoother is moving towards.
func (s *Logarithmic) Target() float64 { return s.target }

// Reset jumps to value immediately.
func (s *Logarithmic) Reset(value float64) {
	s.current = value
	s.target = value
	s.remaining = 0
}

// IsSmoothing reports whether a ramp is in progress.
func (s *Logarithmic) IsSmoothing() bool { return s.remaining > 0 }
