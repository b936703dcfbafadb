package delay_test

import (
	"fmt"

	"github.com/cwbudde/algo-plate/dsp/delay"
)

func ExampleRing() {
	line, err := delay.New(make([]float64, 2))
	if err != nil {
		panic(err)
	}

	line.Write(1)
	line.Write(2)
	line.Write(3) // overwrites 1

	fmt.Println(line.Read(1), line.Read(2))

	// Output:
	// 3 2
}
