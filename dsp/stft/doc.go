// Package stft implements an overlap-add spectral engine with
// dual-resolution reassignment analysis.
//
// The real-time path streams samples through circular FIFOs with a
// fixed latency of fftSize - hop and allocates nothing in steady state.
// The offline path analyzes whole buffers into reassigned spectral
// frames and reconstructs audio either by plain inverse-transform
// overlap-add or through the partial tracking and additive resynthesis
// pipeline.
//
// An Engine is single-threaded: the real-time and offline paths share
// scratch transform buffers and must not run concurrently on one
// instance. Callers needing both provide their own exclusion.
package stft
