// Package spectrum defines the per-frame spectral data produced by the
// short-time analyzer and FFT-adjacent helpers for working with it.
//
// The package intentionally does not implement FFT itself. It operates on
// complex spectrum bins produced by external FFT backends.
package spectrum
