package buffer

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/core"
)

// ErrArenaExhausted is returned when an allocation does not fit the
// remaining arena capacity.
var ErrArenaExhausted = errors.New("buffer: arena exhausted")

// Arena hands out non-overlapping sub-slices of a single backing slice.
// Slices returned by Alloc stay valid for the lifetime of the arena.
type Arena[T core.Sample] struct {
	backing []T
	used    int
}

// NewArena returns an arena with room for size samples.
func NewArena[T core.Sample](size int) (*Arena[T], error) {
	if size <= 0 {
		return nil, fmt.Errorf("buffer: arena size must be > 0: %d", size)
	}
	return &Arena[T]{backing: make([]T, size)}, nil
}

// Alloc returns a zeroed slice of length n with capacity n, so appending to
// it can never write into a neighbouring allocation.
func (a *Arena[T]) Alloc(n int) ([]T, error) {
	if n <= 0 {
		return nil, fmt.Errorf("buffer: allocation size must be > 0: %d", n)
	}
	if a.used+n > len(a.backing) {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrArenaExhausted, n, len(a.backing)-a.used)
	}

	s := a.backing[a.used : a.used+n : a.used+n]
	a.used += n
	core.Zero(s)
	return s, nil
}

// Len returns the total arena capacity in samples.
func (a *Arena[T]) Len() int {
	return len(a.backing)
}

// Used returns the number of samples handed out so far.
func (a *Arena[T]) Used() int {
	return a.used
}

// Remaining returns the number of samples still available.
func (a *Arena[T]) Remaining() int {
	return len(a.backing) - a.used
}

// Zero clears every sample in the arena, including handed-out slices.
func (a *Arena[T]) Zero() {
	core.Zero(a.backing)
}
