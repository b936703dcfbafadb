package testutil

import (
	"math"
	"math/rand"
)

// HalfSineBurst returns a half-sine of burstLen samples followed by silence
// up to total samples.
func HalfSineBurst(burstLen, total int) []float64 {
	out := make([]float64, total)
	for i := 0; i < burstLen && i < total; i++ {
		out[i] = math.Sin(math.Pi * float64(i) / float64(burstLen))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DecayingNoise returns seeded noise under an exponential envelope that
// falls by 60 dB every rt60 seconds.
func DecayingNoise(seed int64, sampleRate, rt60 float64, length int) []float64 {
	out := DeterministicNoise(seed, 1, length)
	k := math.Log(1000) / (rt60 * sampleRate)
	for i := range out {
		out[i] *= math.Exp(-k * float64(i))
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// ToFloat32 converts x element by element.
func ToFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(v)
	}
	return out
}
