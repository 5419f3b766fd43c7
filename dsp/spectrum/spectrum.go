package spectrum

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
)

// Frame is one analysis instant of the short-time spectral analyzer.
//
// Amplitude and Phase come from the long-window plain transform; Phase is
// in radians in (-pi, pi]. TimeReassign holds the corrected time centroid
// per bin in samples, FreqReassign the corrected frequency per bin in Hz.
// All four slices have the same length bins = paddedSize/2 + 1.
//
// A Frame is immutable once produced, except when an external transform
// callback mutates Amplitude/Phase in place before resynthesis.
type Frame struct {
	Amplitude    []float64
	Phase        []float64
	TimeReassign []float64
	FreqReassign []float64
}

// NewFrame returns a zeroed Frame with the given bin count.
func NewFrame(bins int) Frame {
	if bins < 0 {
		bins = 0
	}
	return Frame{
		Amplitude:    make([]float64, bins),
		Phase:        make([]float64, bins),
		TimeReassign: make([]float64, bins),
		FreqReassign: make([]float64, bins),
	}
}

// Bins returns the number of frequency bins in the frame.
func (f Frame) Bins() int {
	return len(f.Amplitude)
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re := make([]float64, len(in))
	im := make([]float64, len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)

	return out
}

// Phase returns arg(X[k]) for each complex spectrum bin in radians.
func Phase(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = cmplx.Phase(c)
	}

	return out
}

// UnwrapPhase returns a new phase slice with +/-2*pi discontinuities removed.
func UnwrapPhase(phase []float64) []float64 {
	if len(phase) == 0 {
		return nil
	}

	out := make([]float64, len(phase))
	copy(out, phase)
	UnwrapPhaseInPlace(out)

	return out
}

// UnwrapPhaseInPlace removes +/-2*pi discontinuities from a phase
// trajectory in place. Sequential differences exceeding +/-pi are
// corrected by adding or subtracting 2*pi until within range, producing a
// continuous ramp suitable for differentiation into instantaneous
// frequency. Re-unwrapping an already-unwrapped sequence is a no-op.
func UnwrapPhaseInPlace(phase []float64) {
	for i := 1; i < len(phase); i++ {
		d := phase[i] - phase[i-1]
		for d > math.Pi {
			phase[i] -= 2 * math.Pi
			d = phase[i] - phase[i-1]
		}
		for d < -math.Pi {
			phase[i] += 2 * math.Pi
			d = phase[i] - phase[i-1]
		}
	}
}
