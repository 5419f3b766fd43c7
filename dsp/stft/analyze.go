package stft

import (
	"math"

	"github.com/Griffinboy24/Griffin-FFT/dsp/buffer"
	"github.com/Griffinboy24/Griffin-FFT/dsp/spectrum"
)

// AnalyzeBuffer runs the dual-resolution reassignment analysis over a
// full buffer and returns one Frame per hop-aligned analysis position.
// Frames past the end of the input read zeros.
func (e *Engine) AnalyzeBuffer(in []float64, n int) []spectrum.Frame {
	if n <= 0 {
		return nil
	}

	frameCount := 1 + (n-1)/e.hopSize
	frames := make([]spectrum.Frame, frameCount)

	longPlain := make([]complex128, e.paddedSize)
	longTime := make([]complex128, e.paddedSize)
	longDeriv := make([]complex128, e.paddedSize)
	shortPlain := make([]complex128, e.paddedSize)
	shortTime := make([]complex128, e.paddedSize)
	shortDeriv := make([]complex128, e.paddedSize)

	binHz := e.sampleRate / float64(e.paddedSize)
	radToHz := e.sampleRate / (2 * math.Pi)

	for frame := 0; frame < frameCount; frame++ {
		pos := frame * e.hopSize

		for j := 0; j < e.fftSize; j++ {
			x := 0.0
			if idx := pos + j; idx < n {
				x = in[idx]
			}
			longPlain[j] = complex(x*e.bank.Long[j], 0)
			longTime[j] = complex(x*e.bank.LongTime[j], 0)
			longDeriv[j] = complex(x*e.bank.LongDeriv[j], 0)
			shortPlain[j] = complex(x*e.bank.Short[j], 0)
			shortTime[j] = complex(x*e.bank.ShortTime[j], 0)
			shortDeriv[j] = complex(x*e.bank.ShortDeriv[j], 0)
		}
		for j := e.fftSize; j < e.paddedSize; j++ {
			longPlain[j] = 0
			longTime[j] = 0
			longDeriv[j] = 0
			shortPlain[j] = 0
			shortTime[j] = 0
			shortDeriv[j] = 0
		}

		_ = e.plan.Forward(longPlain, longPlain)
		_ = e.plan.Forward(longTime, longTime)
		_ = e.plan.Forward(longDeriv, longDeriv)
		_ = e.plan.Forward(shortPlain, shortPlain)
		_ = e.plan.Forward(shortTime, shortTime)
		_ = e.plan.Forward(shortDeriv, shortDeriv)

		f := spectrum.NewFrame(e.bins)
		frameCenter := float64(frame*e.hopSize + e.fftSize/2)

		for b := 0; b < e.bins; b++ {
			x := longPlain[b]
			re := real(x)
			im := imag(x)
			mag := math.Hypot(re, im)

			f.Amplitude[b] = mag
			f.Phase[b] = math.Atan2(im, re)

			if mag < magnitudeFloor {
				f.TimeReassign[b] = frameCenter
				f.FreqReassign[b] = float64(b) * binHz
				continue
			}

			// Magnitude and phase come from the long window; the
			// reassignment corrections use the short window's
			// time-weighted and derivative transforms for sharper
			// localization.
			power := mag * mag
			xt := shortTime[b]
			xd := shortDeriv[b]

			dt := (real(xt)*re + imag(xt)*im) / power
			dw := (imag(xd)*re - real(xd)*im) / power

			f.TimeReassign[b] = frameCenter - dt
			f.FreqReassign[b] = float64(b)*binHz - dw*radToHz
		}

		frames[frame] = f
	}

	return frames
}

// SynthesizeBuffer reconstructs audio from stored per-bin amplitude and
// phase by inverse-transforming each frame and overlap-adding at hop
// offsets, with per-sample window-energy normalization. The result is
// trimmed to length samples.
func (e *Engine) SynthesizeBuffer(frames []spectrum.Frame, length int) []float64 {
	if length < 0 {
		length = 0
	}
	out := make([]float64, length)
	if len(frames) == 0 || length == 0 {
		return out
	}

	span := (len(frames)-1)*e.hopSize + e.fftSize
	wet := buffer.New(span)
	norm := buffer.New(span)
	wetS := wet.Samples()
	normS := norm.Samples()

	corr := e.bank.Correction

	for frame := range frames {
		f := frames[frame]
		bins := f.Bins()
		if bins > e.bins {
			bins = e.bins
		}

		for b := 0; b < bins; b++ {
			amp := f.Amplitude[b]
			phase := f.Phase[b]
			e.synthesisSpectrum[b] = complex(amp*math.Cos(phase), amp*math.Sin(phase))
		}
		for b := bins; b <= e.paddedSize/2; b++ {
			e.synthesisSpectrum[b] = 0
		}

		symmetrize(e.synthesisSpectrum)
		_ = e.plan.Inverse(e.timeFrame, e.synthesisSpectrum)

		pos := frame * e.hopSize
		for j := 0; j < e.fftSize; j++ {
			wetS[pos+j] += real(e.timeFrame[j]) * e.bank.Long[j] * corr
			normS[pos+j] += e.bank.LongSq[j] * corr
		}
	}

	for i := 0; i < length && i < span; i++ {
		sample := wetS[i]
		if normS[i] > normFloor {
			sample /= normS[i]
		}
		out[i] = sample
	}

	return out
}
