// Package tail measures the decay and color of a rendered stereo reverb
// tail.
//
// Decay metrics come from the Schroeder backward integration of the summed
// channel energy:
//
//   - RT60: Reverberation time (T30, falling back to T20)
//   - EDT: Early Decay Time (extrapolated from 0 to -10 dB)
//   - T20, T30: Decay from -5 to -25 dB and -5 to -35 dB
//
// Spectral metrics use a Hann-windowed FFT of the mid signal: the spectral
// centroid and the energy ratio above and below a crossover frequency.
//
// # Usage
//
//	analyzer := tail.NewAnalyzer(48000)
//	metrics, err := analyzer.Analyze(left, right)
//	fmt.Printf("RT60 = %.2f s, centroid = %.0f Hz\n", metrics.RT60, metrics.SpectralCentroid)
package tail
