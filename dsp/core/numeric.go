package core

import "math"

// Sample is the numeric domain of the delay and filter primitives: any
// signed integer or floating-point type. It provides addition,
// subtraction, multiplication, negation and the zero value.
type Sample interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// Float is the numeric domain of networks that need real-valued
// coefficients such as 0.9995.
type Float interface {
	~float32 | ~float64
}

// Clamp limits value to the inclusive range [lo, hi].
// Swapped bounds are accepted.
func Clamp[T Sample](value, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}

	if value < lo {
		return lo
	}

	if value > hi {
		return hi
	}

	return value
}

// Mean returns the arithmetic mean of xs. An empty slice yields zero.
// For integer types the division truncates.
func Mean[T Sample](xs []T) T {
	if len(xs) == 0 {
		return 0
	}

	var sum T
	for _, x := range xs {
		sum += x
	}

	if len(xs) == 1 {
		return sum
	}

	return sum / T(len(xs))
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite[T Float](x T) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FlushDenormals converts tiny denormal-like values to exact zero.
// This can reduce denormal-related CPU slowdowns in long feedback loops.
func FlushDenormals[T Float](x T) T {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// LinearPowerToDB converts linear power to dB (10*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearPowerToDB(power float64) float64 {
	if power < 0 {
		return math.NaN()
	}

	if power == 0 {
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}
