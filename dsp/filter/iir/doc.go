// Package iir provides a direct-form recursive filter of arbitrary order
// over caller-owned state.
//
// With order 1, feedback [1-g] and gain g the filter is the one-pole
// low-pass used for bandwidth limiting and in-loop damping in algorithmic
// reverbs.
package iir
