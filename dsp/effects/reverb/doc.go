// Package reverb provides a fixed-topology plate reverb.
//
// Included processors:
//   - Plate: Generic allocation-free figure-eight plate network over
//     caller-owned buffers.
//   - PlateProcessor: float64 host adapter with parameter smoothing and a
//     wet/dry mix.
package reverb
