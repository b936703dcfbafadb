package tail

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-plate/dsp/core"
	"github.com/cwbudde/algo-plate/dsp/effects/reverb"
	"github.com/cwbudde/algo-plate/internal/testutil"
)

// makeExponentialDecay generates a synthetic IR with known RT60.
func makeExponentialDecay(sampleRate, rt60, durationSec float64) []float64 {
	n := int(sampleRate * durationSec)
	ir := make([]float64, n)
	decayRate := math.Log(1000) / rt60
	for i := range ir {
		ir[i] = math.Exp(-decayRate * float64(i) / sampleRate)
	}
	return ir
}

func sine(freqHz, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freqHz * float64(i) / sampleRate)
	}
	return out
}

func TestAnalyzeExponentialDecay(t *testing.T) {
	const fs = 48000.0
	ir := makeExponentialDecay(fs, 1, 3)

	m, err := NewAnalyzer(fs).Analyze(ir, ir)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.RT60-1) > 0.05 {
		t.Errorf("RT60 = %.3f, want 1.0 (±5%%)", m.RT60)
	}
	if math.Abs(m.EDT-1) > 0.1 {
		t.Errorf("EDT = %.3f, want about 1.0", m.EDT)
	}
	if m.PeakIndex != 0 {
		t.Errorf("PeakIndex = %d, want 0", m.PeakIndex)
	}
	if math.Abs(m.Correlation-1) > 1e-12 {
		t.Errorf("Correlation = %v, want 1", m.Correlation)
	}
	if m.Energy <= 0 {
		t.Errorf("Energy = %v, want > 0", m.Energy)
	}
	if m.PeakLevel != 1 {
		t.Errorf("PeakLevel = %v, want 1", m.PeakLevel)
	}
}

func TestAnalyzeDecayingNoise(t *testing.T) {
	const fs = 16000.0
	left := testutil.DecayingNoise(1, fs, 0.5, int(1.5*fs))
	right := testutil.DecayingNoise(2, fs, 0.5, int(1.5*fs))

	m, err := NewAnalyzer(fs).Analyze(left, right)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.RT60-0.5) > 0.05 {
		t.Errorf("RT60 = %.3f, want 0.5 (±10%%)", m.RT60)
	}
	if math.Abs(m.Correlation) > 0.1 {
		t.Errorf("Correlation = %.3f, want about 0 for independent noise", m.Correlation)
	}
}

func TestAnalyzeAntiCorrelated(t *testing.T) {
	left := makeExponentialDecay(8000, 0.3, 1)
	right := make([]float64, len(left))
	for i, v := range left {
		right[i] = -v
	}

	m, err := NewAnalyzer(8000).Analyze(left, right)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.Correlation+1) > 1e-12 {
		t.Errorf("Correlation = %v, want -1", m.Correlation)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	a := NewAnalyzer(48000)
	if _, err := a.Analyze(nil, nil); !errors.Is(err, ErrEmptyIR) {
		t.Errorf("empty: err = %v, want ErrEmptyIR", err)
	}
	if _, err := a.Analyze(make([]float64, 3), make([]float64, 4)); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("mismatch: err = %v, want ErrLengthMismatch", err)
	}
	bad := &Analyzer{}
	if _, err := bad.Analyze([]float64{1}, []float64{1}); !errors.Is(err, ErrInvalidSampleRate) {
		t.Errorf("sample rate: err = %v, want ErrInvalidSampleRate", err)
	}
}

func TestSchroederDecay(t *testing.T) {
	a := NewAnalyzer(48000)
	decay, err := a.SchroederDecay(makeExponentialDecay(48000, 0.5, 1))
	if err != nil {
		t.Fatal(err)
	}
	if decay[0] != 0 {
		t.Fatalf("decay[0] = %v, want 0 dB", decay[0])
	}
	for i := 1; i < len(decay); i++ {
		if decay[i] > decay[i-1] {
			t.Fatalf("decay rises at %d: %v > %v", i, decay[i], decay[i-1])
		}
	}

	if _, err := a.SchroederDecay(nil); !errors.Is(err, ErrEmptyIR) {
		t.Fatalf("err = %v, want ErrEmptyIR", err)
	}
}

func TestSchroederDecayLevels(t *testing.T) {
	decay, err := NewAnalyzer(8000).SchroederDecay([]float64{1, 1, 0})
	if err != nil {
		t.Fatal(err)
	}

	// Remaining energy is 2, 1 and 0: half power is -3 dB and nothing left
	// floors at -200 dB.
	want := []float64{0, core.LinearPowerToDB(0.5), -200}
	testutil.RequireSliceNearlyEqual(t, decay, want, 0)
	if math.Abs(decay[1]+3.0103) > 1e-4 {
		t.Fatalf("decay[1] = %v, want about -3.0103", decay[1])
	}
}

func TestRT60NoDecay(t *testing.T) {
	a := NewAnalyzer(48000)
	if _, err := a.RT60(testutil.Impulse(100, 0)); !errors.Is(err, ErrNoDecay) {
		t.Fatalf("err = %v, want ErrNoDecay", err)
	}

	rt, err := a.RT60(makeExponentialDecay(48000, 2, 4))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rt-2) > 0.1 {
		t.Fatalf("RT60 = %.3f, want 2.0", rt)
	}
}

func TestSpectralShape(t *testing.T) {
	const fs = 48000.0
	a := NewAnalyzer(fs)

	low := sine(500, fs, 8192)
	m, err := a.Analyze(low, low)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.SpectralCentroid-500) > 50 {
		t.Errorf("centroid = %.1f Hz, want about 500", m.SpectralCentroid)
	}
	if m.BrightnessRatio > 0.01 {
		t.Errorf("brightness = %v, want < 0.01 for 500 Hz", m.BrightnessRatio)
	}

	high := sine(8000, fs, 8192)
	m, err = a.Analyze(high, high)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m.SpectralCentroid-8000) > 100 {
		t.Errorf("centroid = %.1f Hz, want about 8000", m.SpectralCentroid)
	}
	if m.BrightnessRatio < 100 {
		t.Errorf("brightness = %v, want > 100 for 8 kHz", m.BrightnessRatio)
	}
}

func TestPowerSpectrumLength(t *testing.T) {
	power, err := NewAnalyzer(48000).PowerSpectrum(make([]float64, 1000))
	if err != nil {
		t.Fatal(err)
	}
	if len(power) != 513 {
		t.Fatalf("len = %d, want 513", len(power))
	}
	if _, err := NewAnalyzer(48000).PowerSpectrum(nil); !errors.Is(err, ErrEmptyIR) {
		t.Fatalf("err = %v, want ErrEmptyIR", err)
	}
}

func renderPlate(t *testing.T, params reverb.PlateParams[float64], n int) (left, right []float64) {
	t.Helper()
	bufs, err := reverb.NewPlateBuffers[float64](1)
	if err != nil {
		t.Fatal(err)
	}
	pl, err := reverb.NewPlate(bufs, params)
	if err != nil {
		t.Fatal(err)
	}
	left = make([]float64, n)
	right = make([]float64, n)
	for i := range n {
		x := 0.0
		if i == 0 {
			x = 1
		}
		out := pl.ProcessSample(x)
		left[i], right[i] = out[0], out[1]
	}
	return left, right
}

func TestPlateTailDecayGrowsWithDecay(t *testing.T) {
	const fs = 48000.0
	a := NewAnalyzer(fs)

	var rt [2]float64
	for i, decay := range []float64{0.5, 0.7} {
		p := reverb.DefaultPlateParams[float64]()
		p.Decay = decay
		left, right := renderPlate(t, p, 3*int(fs))

		m, err := a.Analyze(left, right)
		if err != nil {
			t.Fatal(err)
		}
		if m.RT60 <= 0 {
			t.Fatalf("decay %v: RT60 = %v, want > 0", decay, m.RT60)
		}
		if m.Correlation > 0.5 {
			t.Errorf("decay %v: correlation = %.3f, want a decorrelated stereo tail", decay, m.Correlation)
		}
		rt[i] = m.RT60
	}
	if rt[1] <= rt[0] {
		t.Fatalf("RT60 %v at decay 0.7 not above %v at decay 0.5", rt[1], rt[0])
	}
}

func TestPlateTailDampingDarkens(t *testing.T) {
	const fs = 48000.0
	a := NewAnalyzer(fs)

	bright := reverb.DefaultPlateParams[float64]()
	dark := bright
	dark.Damping = 0.7

	lb, rb := renderPlate(t, bright, int(fs))
	ld, rd := renderPlate(t, dark, int(fs))

	mb, err := a.Analyze(lb, rb)
	if err != nil {
		t.Fatal(err)
	}
	md, err := a.Analyze(ld, rd)
	if err != nil {
		t.Fatal(err)
	}
	if md.SpectralCentroid >= mb.SpectralCentroid {
		t.Fatalf("damped centroid %.0f Hz not below %.0f Hz", md.SpectralCentroid, mb.SpectralCentroid)
	}
}
