package tail

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-plate/dsp/core"
)

// Errors returned by tail analysis functions.
var (
	ErrEmptyIR           = errors.New("tail: impulse response is empty")
	ErrInvalidSampleRate = errors.New("tail: sample rate must be positive")
	ErrLengthMismatch    = errors.New("tail: channel lengths differ")
	ErrNoDecay           = errors.New("tail: insufficient decay for RT calculation")
)

// DefaultCrossoverHz splits the spectrum for BrightnessRatio.
const DefaultCrossoverHz = 2000.0

// Metrics holds stereo tail analysis results.
type Metrics struct {
	RT60 float64 // reverberation time in seconds (T30, or T20 when T30 is unavailable)
	EDT  float64 // early decay time in seconds (0 to -10 dB)
	T20  float64 // RT from -5 to -25 dB slope
	T30  float64 // RT from -5 to -35 dB slope

	PeakIndex int     // sample index of the largest absolute value in either channel
	PeakLevel float64 // absolute value at PeakIndex
	Energy    float64 // sum of squares over both channels

	// Correlation is the normalized inter-channel correlation at lag 0,
	// in [-1, 1]. Zero when either channel is silent.
	Correlation float64

	SpectralCentroid float64 // Hz
	BrightnessRatio  float64 // energy above the crossover over energy below
}

// Analyzer computes tail metrics from rendered channels.
type Analyzer struct {
	SampleRate float64

	// CrossoverHz splits the spectrum for BrightnessRatio.
	// Zero selects DefaultCrossoverHz.
	CrossoverHz float64
}

// NewAnalyzer creates a tail analyzer with the given sample rate.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate, CrossoverHz: DefaultCrossoverHz}
}

func (a *Analyzer) check(n int) error {
	if n == 0 {
		return ErrEmptyIR
	}
	if a.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	return nil
}

// Analyze computes every metric for a stereo tail. The decay is measured
// from the peak onwards.
func (a *Analyzer) Analyze(left, right []float64) (Metrics, error) {
	if len(left) != len(right) {
		return Metrics{}, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(left), len(right))
	}
	if err := a.check(len(left)); err != nil {
		return Metrics{}, err
	}

	energy := make([]float64, len(left))
	mid := make([]float64, len(left))
	var sumLL, sumRR, sumLR float64
	for i := range left {
		l, r := left[i], right[i]
		energy[i] = l*l + r*r
		mid[i] = 0.5 * (l + r)
		sumLL += l * l
		sumRR += r * r
		sumLR += l * r
	}

	m := Metrics{
		PeakIndex: findPeak(left, right),
		Energy:    sumLL + sumRR,
	}
	m.PeakLevel = math.Max(math.Abs(left[m.PeakIndex]), math.Abs(right[m.PeakIndex]))
	if sumLL > 0 && sumRR > 0 {
		m.Correlation = sumLR / math.Sqrt(sumLL*sumRR)
	}

	schroeder := schroederIntegral(energy[m.PeakIndex:])
	m.EDT = a.reverbTime(schroeder, 0, -10)
	m.T20 = a.reverbTime(schroeder, -5, -25)
	m.T30 = a.reverbTime(schroeder, -5, -35)
	if m.T30 > 0 {
		m.RT60 = m.T30
	} else {
		m.RT60 = m.T20
	}

	power, err := a.powerSpectrum(mid)
	if err != nil {
		return Metrics{}, err
	}
	m.SpectralCentroid, m.BrightnessRatio = a.spectralShape(power, len(mid))

	return m, nil
}

// SchroederDecay returns the Schroeder backward integration of the squared
// response in dB, normalized to 0 dB at the first sample.
func (a *Analyzer) SchroederDecay(ir []float64) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyIR
	}

	energy := make([]float64, len(ir))
	vecmath.MulBlock(energy, ir, ir)
	return schroederIntegral(energy), nil
}

// RT60 computes the reverberation time of a mono response from its peak.
// Uses T30 extrapolation when possible, falls back to T20.
func (a *Analyzer) RT60(ir []float64) (float64, error) {
	if err := a.check(len(ir)); err != nil {
		return 0, err
	}

	decay, _ := a.SchroederDecay(ir[findPeak(ir, ir):])
	if rt := a.reverbTime(decay, -5, -35); rt > 0 {
		return rt, nil
	}
	if rt := a.reverbTime(decay, -5, -25); rt > 0 {
		return rt, nil
	}
	return 0, ErrNoDecay
}

// schroederIntegral integrates energy backwards and converts to dB.
func schroederIntegral(energy []float64) []float64 {
	result := make([]float64, len(energy))

	var cumSum float64
	for i := len(energy) - 1; i >= 0; i-- {
		cumSum += energy[i]
		result[i] = cumSum
	}

	total := result[0]
	if total <= 0 {
		return result
	}

	for i, v := range result {
		ratio := v / total
		if ratio <= 0 {
			result[i] = -200
		} else {
			result[i] = core.LinearPowerToDB(ratio)
		}
	}

	return result
}

// reverbTime fits a line to the Schroeder curve between startDB and endDB
// and extrapolates it to -60 dB. Zero means no usable decay.
func (a *Analyzer) reverbTime(schroeder []float64, startDB, endDB float64) float64 {
	startIdx, endIdx := -1, -1
	for i, v := range schroeder {
		if startIdx < 0 && v <= startDB {
			startIdx = i
		}
		if startIdx >= 0 && v <= endDB {
			endIdx = i
			break
		}
	}
	if startIdx < 0 || endIdx <= startIdx {
		return 0
	}

	var sumX, sumY, sumXX, sumXY float64
	for i := startIdx; i <= endIdx; i++ {
		x := float64(i - startIdx)
		y := schroeder[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	n := float64(endIdx - startIdx + 1)
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	slope := (n*sumXY - sumX*sumY) / denom
	if slope >= 0 {
		return 0
	}

	return -60 / (slope * a.SampleRate)
}

// findPeak returns the index of the absolute maximum over both channels.
func findPeak(left, right []float64) int {
	peakIdx := 0
	peakVal := 0.0
	for i := range left {
		v := math.Max(math.Abs(left[i]), math.Abs(right[i]))
		if v > peakVal {
			peakVal = v
			peakIdx = i
		}
	}
	return peakIdx
}

// PowerSpectrum returns |X[k]|² for bins 0..N/2 of the Hann-windowed x,
// zero-padded to the next power of two N.
func (a *Analyzer) PowerSpectrum(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyIR
	}
	return a.powerSpectrum(x)
}

func (a *Analyzer) powerSpectrum(x []float64) ([]float64, error) {
	fftSize := nextPowerOfTwo(len(x))

	windowed := make([]float64, len(x))
	vecmath.MulBlock(windowed, x, hann(len(x)))

	in := make([]complex128, fftSize)
	for i, v := range windowed {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("tail: fft plan: %w", err)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("tail: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	power := make([]float64, bins)
	vecmath.Power(power, re, im)
	return power, nil
}

// spectralShape returns the power-weighted mean frequency and the
// above/below crossover energy ratio of a one-sided power spectrum taken
// from n samples zero-padded to 2*(len(power)-1).
func (a *Analyzer) spectralShape(power []float64, n int) (centroid, brightness float64) {
	if len(power) < 2 || n == 0 {
		return 0, 0
	}

	crossover := a.CrossoverHz
	if crossover <= 0 {
		crossover = DefaultCrossoverHz
	}

	binHz := a.SampleRate / float64(2*(len(power)-1))
	var total, weighted, low, high float64
	for k, p := range power {
		f := float64(k) * binHz
		total += p
		weighted += f * p
		if f < crossover {
			low += p
		} else {
			high += p
		}
	}

	if total > 0 {
		centroid = weighted / total
	}
	switch {
	case low > 0:
		brightness = high / low
	case high > 0:
		brightness = math.Inf(1)
	}
	return centroid, brightness
}

func hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return max(size, 2)
}
