// Package buffer provides a reusable float64 buffer type and pool for
// allocation-friendly assembly of overlap-add accumulators and
// resynthesis output channels. All DSP functions accept raw []float64
// slices; Buffer is an optional convenience for managing reuse.
package buffer
