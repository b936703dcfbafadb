// Package delay provides a fixed-capacity circular delay line over
// caller-owned storage.
package delay
