package partials

// Peak is a frame-local spectral maximum.
//
// Freq is the reassigned frequency in Hz, Time the reassigned sample
// position, Amp and Phase the bin amplitude and phase from the plain
// long-window transform.
type Peak struct {
	Freq  float64
	Amp   float64
	Phase float64
	Time  float64
}

// Partial is one sinusoidal trajectory spanning several analysis frames.
//
// Times (samples), Freqs (Hz), Amps, Phases, and Envelope always share
// one length, and Times is monotonically non-decreasing. Envelope is a
// post-effect per-point multiplier defaulting to 1. Pan is the spatial
// position, 0 = left .. 1 = right, defaulting to center.
//
// Partials carry no identity beyond their own arrays: they are created by
// Extract, mutated in place by effects, and consumed by a resynthesizer.
type Partial struct {
	Times    []float64
	Freqs    []float64
	Amps     []float64
	Phases   []float64
	Envelope []float64
	Pan      float64
}

// Len returns the number of trajectory points.
func (p *Partial) Len() int {
	return len(p.Times)
}
