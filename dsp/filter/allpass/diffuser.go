package allpass

import (
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/dsp/delay"
)

// Diffuser is a one-pole one-zero Schroeder all-pass section:
//
//	z  = line[n-D]
//	x' = x - feedback*z
//	y  = feedforward*x' + z
//	line[n] = x'
type Diffuser[T core.Sample] struct {
	line        *delay.Ring[T]
	delay       int
	feedforward T
	feedback    T
}

// New returns a diffuser over buf with zero coefficients and a one-sample
// delay.
func New[T core.Sample](buf []T) (*Diffuser[T], error) {
	return NewWithParams(buf, 1, 0, 0)
}

// NewWithParams returns a diffuser over buf. delayLen must be in
// [1, len(buf)].
func NewWithParams[T core.Sample](buf []T, delayLen int, feedforward, feedback T) (*Diffuser[T], error) {
	line, err := delay.New(buf)
	if err != nil {
		return nil, fmt.Errorf("allpass: %w", err)
	}
	if delayLen < 1 || delayLen > line.Len() {
		return nil, fmt.Errorf("allpass: delay %d out of range [1, %d]", delayLen, line.Len())
	}

	return &Diffuser[T]{
		line:        line,
		delay:       delayLen,
		feedforward: feedforward,
		feedback:    feedback,
	}, nil
}

// SetParams replaces both coefficients and the delay length. The delay is
// clamped to [1, Capacity()]. The stored history is left untouched.
func (d *Diffuser[T]) SetParams(feedforward, feedback T, delayLen int) {
	d.feedforward = feedforward
	d.feedback = feedback
	d.delay = core.Clamp(delayLen, 1, d.line.Len())
}

// Tick processes one sample.
func (d *Diffuser[T]) Tick(x T) T {
	z := d.line.Read(d.delay)
	w := x - d.feedback*z
	y := d.feedforward*w + z
	d.line.Write(w)
	return y
}

// Tap reads the internal delay line at offset without advancing the
// section. Offsets follow delay.Ring.Read.
func (d *Diffuser[T]) Tap(offset int) T {
	return d.line.Read(offset)
}

// Delay returns the configured delay length in samples.
func (d *Diffuser[T]) Delay() int { return d.delay }

// Capacity returns the largest delay length the section supports.
func (d *Diffuser[T]) Capacity() int { return d.line.Len() }

// Feedforward returns the feedforward coefficient.
func (d *Diffuser[T]) Feedforward() T { return d.feedforward }

// Feedback returns the feedback coefficient.
func (d *Diffuser[T]) Feedback() T { return d.feedback }

// Clear zeroes the internal delay line.
func (d *Diffuser[T]) Clear() {
	d.line.Clear()
}
