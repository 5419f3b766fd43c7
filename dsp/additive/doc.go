// Package additive reconstructs audio from partial trajectories by
// summing phase-integrated oscillators, one per partial.
//
// Frequency, amplitude, and envelope are linearly interpolated between
// trajectory points at every output sample; phase accumulates from the
// instantaneous frequency rather than being reused from analysis, which
// keeps the rendered waveform continuous across frames. Track edges get
// short linear fades, detected onsets get a raised-cosine transient
// burst, and each output channel is peak-normalized.
package additive
