// Package allpass provides the first-order Schroeder all-pass section used
// for diffusion in algorithmic reverbs.
//
// A Diffuser delays its internal signal by an integer number of samples and
// mixes it with the input through a feedforward and a feedback
// coefficient. With equal coefficients the section has unit magnitude
// response at every frequency and smears transients into a dense cluster
// of echoes.
//
// Storage is caller owned and never reallocated, so Tick is safe to call
// from a real-time audio callback.
package allpass
