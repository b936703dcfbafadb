package iir

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/core"
)

var (
	// ErrZeroOrder is returned for a filter without state taps.
	ErrZeroOrder = errors.New("iir: filter order must be >= 1")
	// ErrOrderMismatch is returned when the coefficient count does not
	// match the filter order.
	ErrOrderMismatch = errors.New("iir: coefficient count does not match order")
)

// Recursive computes
//
//	y[n] = sum(feedback[i] * y[n-1-i]) + gain*x[n]
//
// keeping the last N outputs in a caller-owned state slice, newest first.
type Recursive[T core.Sample] struct {
	state    []T
	feedback []T
	gain     T
}

// New returns a filter of order len(state) with zero coefficients.
func New[T core.Sample](state []T) (*Recursive[T], error) {
	if len(state) < 1 {
		return nil, ErrZeroOrder
	}
	return &Recursive[T]{
		state:    state,
		feedback: make([]T, len(state)),
	}, nil
}

// NewWithParams returns a filter of order len(state) with the given
// coefficients. feedback is copied.
func NewWithParams[T core.Sample](state, feedback []T, gain T) (*Recursive[T], error) {
	f, err := New(state)
	if err != nil {
		return nil, err
	}
	if err := f.SetParams(feedback, gain); err != nil {
		return nil, err
	}
	return f, nil
}

// SetParams copies feedback into the filter and sets the input gain.
// len(feedback) must equal Order().
func (f *Recursive[T]) SetParams(feedback []T, gain T) error {
	if len(feedback) != len(f.feedback) {
		return fmt.Errorf("%w: got %d, want %d", ErrOrderMismatch, len(feedback), len(f.feedback))
	}
	copy(f.feedback, feedback)
	f.gain = gain
	return nil
}

// SetOnePole sets the first feedback coefficient and the input gain,
// zeroing any higher-order coefficients.
func (f *Recursive[T]) SetOnePole(feedback, gain T) {
	core.Zero(f.feedback)
	f.feedback[0] = feedback
	f.gain = gain
}

// Order returns the number of state taps.
func (f *Recursive[T]) Order() int {
	return len(f.state)
}

// Tick processes one sample.
func (f *Recursive[T]) Tick(x T) T {
	var acc T
	for i, a := range f.feedback {
		acc += f.state[i] * a
	}
	y := acc + x*f.gain

	copy(f.state[1:], f.state[:len(f.state)-1])
	f.state[0] = y
	return y
}

// Last returns the most recent output without advancing the filter.
func (f *Recursive[T]) Last() T {
	return f.state[0]
}

// Clear zeroes the filter state.
func (f *Recursive[T]) Clear() {
	core.Zero(f.state)
}
