package allpass

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-plate/dsp/delay"
)

func TestIntegerRecurrence(t *testing.T) {
	d, err := NewWithParams(make([]int, 2), 1, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	if got := d.Tick(1); got != 2 {
		t.Fatalf("first Tick = %d, want 2", got)
	}
	if got := d.Tick(1); got != -1 {
		t.Fatalf("second Tick = %d, want -1", got)
	}
}

func TestConstructionErrors(t *testing.T) {
	if _, err := New([]float64{}); !errors.Is(err, delay.ErrEmptyBuffer) {
		t.Fatalf("err = %v, want ErrEmptyBuffer", err)
	}
	if _, err := NewWithParams(make([]float64, 4), 0, 0.5, 0.5); err == nil {
		t.Fatal("expected error for delay=0")
	}
	if _, err := NewWithParams(make([]float64, 4), 5, 0.5, 0.5); err == nil {
		t.Fatal("expected error for delay beyond capacity")
	}
	if _, err := NewWithParams(make([]float64, 4), 4, 0.5, 0.5); err != nil {
		t.Fatalf("delay equal to capacity must be accepted: %v", err)
	}
}

func TestImpulseResponse(t *testing.T) {
	const g = 0.5
	d, err := NewWithParams(make([]float64, 4), 3, g, g)
	if err != nil {
		t.Fatal(err)
	}

	// h[0] = g, h[D] = 1 - g*g, h[2D] = -g*(1 - g*g)
	want := map[int]float64{0: g, 3: 1 - g*g, 6: -g * (1 - g*g)}
	for n := 0; n < 9; n++ {
		x := 0.0
		if n == 0 {
			x = 1
		}
		got := d.Tick(x)
		if math.Abs(got-want[n]) > 1e-12 {
			t.Fatalf("h[%d] = %v, want %v", n, got, want[n])
		}
	}
}

func TestUnitEnergyGain(t *testing.T) {
	d, err := NewWithParams(make([]float64, 8), 7, 0.7, 0.7)
	if err != nil {
		t.Fatal(err)
	}

	energy := 0.0
	for n := 0; n < 20000; n++ {
		x := 0.0
		if n == 0 {
			x = 1
		}
		y := d.Tick(x)
		energy += y * y
	}

	if math.Abs(energy-1) > 1e-9 {
		t.Fatalf("impulse response energy = %v, want 1", energy)
	}
}

func TestSetParamsKeepsHistory(t *testing.T) {
	d, err := NewWithParams(make([]float64, 4), 2, 0.5, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	d.Tick(1)
	d.Tick(0)
	before := d.Tap(2)

	d.SetParams(0.25, 0.75, 3)
	if d.Tap(2) != before {
		t.Fatal("SetParams must not modify stored samples")
	}
	if d.Delay() != 3 || d.Feedforward() != 0.25 || d.Feedback() != 0.75 {
		t.Fatalf("params = (%v, %v, %d)", d.Feedforward(), d.Feedback(), d.Delay())
	}
}

func TestSetParamsClampsDelay(t *testing.T) {
	d, err := New(make([]float32, 5))
	if err != nil {
		t.Fatal(err)
	}

	d.SetParams(0.5, 0.5, 99)
	if d.Delay() != d.Capacity() {
		t.Fatalf("delay = %d, want %d", d.Delay(), d.Capacity())
	}
	d.SetParams(0.5, 0.5, -2)
	if d.Delay() != 1 {
		t.Fatalf("delay = %d, want 1", d.Delay())
	}
}

func TestTapDoesNotAdvance(t *testing.T) {
	a, _ := NewWithParams(make([]float64, 6), 5, 0.6, 0.6)
	b, _ := NewWithParams(make([]float64, 6), 5, 0.6, 0.6)

	for n := 0; n < 32; n++ {
		x := math.Sin(float64(n) * 0.3)
		for off := 1; off <= 6; off++ {
			_ = a.Tap(off)
		}
		if ya, yb := a.Tick(x), b.Tick(x); ya != yb {
			t.Fatalf("sample %d: tapped=%v untapped=%v", n, ya, yb)
		}
	}
}

func TestTapReadsInternalState(t *testing.T) {
	d, _ := NewWithParams(make([]float64, 3), 3, 0.5, 0.5)

	d.Tick(1) // stores x' = 1
	if got := d.Tap(1); got != 1 {
		t.Fatalf("Tap(1) = %v, want 1", got)
	}
}

func TestClear(t *testing.T) {
	d, _ := NewWithParams(make([]float64, 3), 2, 0.5, 0.5)
	d.Tick(1)
	d.Clear()

	for off := 1; off <= 3; off++ {
		if got := d.Tap(off); got != 0 {
			t.Fatalf("Tap(%d) = %v after Clear", off, got)
		}
	}
}

func BenchmarkDiffuserTick(b *testing.B) {
	d, _ := NewWithParams(make([]float64, 690), 672, -0.7, -0.7)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.Tick(1)
	}
}
