package stft

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Griffinboy24/Griffin-FFT/dsp/additive"
	"github.com/Griffinboy24/Griffin-FFT/dsp/core"
	"github.com/Griffinboy24/Griffin-FFT/dsp/partialfx"
	"github.com/Griffinboy24/Griffin-FFT/dsp/partials"
	"github.com/Griffinboy24/Griffin-FFT/dsp/spectrum"
)

// pipelineTargetRMS is the loudness the offline render is rescaled to.
const pipelineTargetRMS = 0.1

// ExtractPartials tracks sinusoidal trajectories through an analyzed
// frame sequence. maxPartials is clamped to [3, 300].
func (e *Engine) ExtractPartials(frames []spectrum.Frame, startThresh, continueThresh float64, maxGap, maxPartials int) []partials.Partial {
	maxPartials = core.ClampInt(maxPartials, minPartialCount, maxPartialCount)

	return partials.Extract(frames, e.hopSize, e.fftSize, startThresh, continueThresh, maxGap, maxPartials)
}

// SynthesizePartials renders a partial set to a peak-normalized mono
// buffer of the given length.
func (e *Engine) SynthesizePartials(ps []partials.Partial, length int) []float64 {
	return additive.Synthesize(ps, length, e.sampleRate)
}

// SynthesizePartialsStereo renders a partial set to a constant-power
// panned stereo pair, each channel peak-normalized.
func (e *Engine) SynthesizePartialsStereo(ps []partials.Partial, length int) (left, right []float64) {
	return additive.SynthesizeStereo(ps, length, e.sampleRate)
}

// ProcessOfflineBufferWithSpectralFx runs the full offline render:
// analyze, apply the installed transform callback (or the default
// bypass/lowpass behavior), extract partials, run the effects chain,
// resynthesize to stereo, and rescale both channels jointly to a fixed
// RMS loudness.
func (e *Engine) ProcessOfflineBufferWithSpectralFx(in []float64, n int, bypassed bool, settings partialfx.Settings) (left, right []float64) {
	if n <= 0 {
		return nil, nil
	}

	frames := e.AnalyzeBuffer(in, n)

	switch {
	case e.transform != nil:
		e.transform(frames)
	case !bypassed:
		lowpassFrames(frames)
	}

	ps := e.ExtractPartials(frames, e.startThreshold, e.startThreshold, len(frames), e.maxPartials)

	chain := partialfx.NewChain(settings)
	chain.Apply(ps, e.sampleRate)

	left, right = additive.SynthesizeStereo(ps, n, e.sampleRate)
	rescaleRMS(left, right, pipelineTargetRMS)

	return left, right
}

// lowpassFrames is the frame-domain analogue of the real-time default
// transform: it silences the upper half of every frame's spectrum.
func lowpassFrames(frames []spectrum.Frame) {
	for i := range frames {
		amp := frames[i].Amplitude
		for b := len(amp) / 2; b < len(amp); b++ {
			amp[b] = 0
		}
	}
}

// rescaleRMS scales both channels by one factor so their joint RMS hits
// the target. All-zero renders are left untouched.
func rescaleRMS(left, right []float64, target float64) {
	total := len(left) + len(right)
	if total == 0 {
		return
	}

	sum := floats.Dot(left, left) + floats.Dot(right, right)
	if sum == 0 {
		return
	}

	scale := target / math.Sqrt(sum/float64(total))
	floats.Scale(scale, left)
	floats.Scale(scale, right)
}
