package allpass_test

import (
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/filter/allpass"
)

func ExampleDiffuser() {
	d, err := allpass.NewWithParams(make([]float64, 3), 2, 0.5, 0.5)
	if err != nil {
		panic(err)
	}

	for _, x := range []float64{1, 0, 0, 0, 0} {
		fmt.Printf("%.3f ", d.Tick(x))
	}

	// Output:
	// 0.500 0.000 0.750 0.000 -0.375
}
