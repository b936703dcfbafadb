package iir_test

import (
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/filter/iir"
)

func ExampleRecursive() {
	// One-pole low-pass with g = 0.5.
	f, err := iir.NewWithParams(make([]float64, 1), []float64{0.5}, 0.5)
	if err != nil {
		panic(err)
	}

	for range 4 {
		fmt.Printf("%.4f ", f.Tick(1))
	}

	// Output:
	// 0.5000 0.7500 0.8750 0.9375
}
