package delay

import (
	"errors"

	"github.com/cwbudde/algo-plate/dsp/core"
)

// ErrEmptyBuffer is returned when a ring is constructed over, or resized
// onto, a buffer with no samples.
var ErrEmptyBuffer = errors.New("delay: buffer is empty")

// Ring is a circular delay line over a caller-owned buffer.
//
// The buffer is never reallocated. A line of capacity N can return the last
// N written samples; longer delays alias to delay mod N.
type Ring[T core.Sample] struct {
	buffer []T
	head   int
}

// New returns a ring over buf. The contents of buf become the initial
// history, oldest sample at the largest delay.
func New[T core.Sample](buf []T) (*Ring[T], error) {
	if len(buf) == 0 {
		return nil, ErrEmptyBuffer
	}
	return &Ring[T]{buffer: buf}, nil
}

// Len returns the capacity of the line in samples.
func (r *Ring[T]) Len() int {
	return len(r.buffer)
}

// Write stores v as the most recent sample, overwriting the oldest one.
func (r *Ring[T]) Write(v T) {
	r.buffer[r.head] = v
	r.head++
	if r.head >= len(r.buffer) {
		r.head = 0
	}
}

// Read returns the sample written delay steps before the most recent write;
// delay 1 is the most recent sample. Delays below 1 read as 1.
func (r *Ring[T]) Read(delay int) T {
	return r.buffer[r.index(delay)]
}

func (r *Ring[T]) index(delay int) int {
	if delay < 1 {
		delay = 1
	}

	size := len(r.buffer)
	offset := delay % size
	if offset <= r.head {
		return r.head - offset
	}
	return size + r.head - offset
}

// Resize re-homes the line onto buf and returns the released buffer.
//
// The most recent min(Len(), len(buf)) samples survive in order: the newest
// stays at delay 1 and the oldest survivor lands at delay len(buf) when
// shrinking. When growing, the additional older slots keep buf's existing
// contents. buf must not overlap the current buffer.
func (r *Ring[T]) Resize(buf []T) ([]T, error) {
	if len(buf) == 0 {
		return nil, ErrEmptyBuffer
	}

	n := min(len(r.buffer), len(buf))
	for delay := 1; delay <= n; delay++ {
		buf[len(buf)-delay] = r.buffer[r.index(delay)]
	}

	old := r.buffer
	r.buffer = buf
	r.head = 0
	return old, nil
}

// Clear zeroes the stored history. The write position is kept.
func (r *Ring[T]) Clear() {
	core.Zero(r.buffer)
}
