package additive

import (
	"math"

	"github.com/Griffinboy24/Griffin-FFT/dsp/partials"
)

const (
	// onsetRatio decides whether a trajectory starts with an attack
	// transient worth restoring.
	onsetRatio = 0.9
	// transientLen is the raised-cosine pulse length in samples.
	transientLen = 6
	// transientGain scales the injected pulse relative to the first
	// trajectory amplitude.
	transientGain = 0.6
	// maxFadeLen bounds the linear fade at each track edge.
	maxFadeLen = 8
)

// Synthesize renders the partial set to a mono buffer of the given
// length, peak-normalized. An empty partial set or all-zero amplitudes
// produce an all-zero buffer.
func Synthesize(ps []partials.Partial, length int, sampleRate float64) []float64 {
	out, _ := render(ps, length, sampleRate, false)
	return out
}

// SynthesizeStereo renders the partial set to a stereo pair using
// constant-power panning from each partial's spatial position. Each
// channel is peak-normalized independently.
func SynthesizeStereo(ps []partials.Partial, length int, sampleRate float64) (left, right []float64) {
	return render(ps, length, sampleRate, true)
}

func render(ps []partials.Partial, length int, sampleRate float64, stereo bool) (left, right []float64) {
	if length < 0 {
		length = 0
	}
	left = make([]float64, length)
	if stereo {
		right = make([]float64, length)
	}
	if length == 0 || sampleRate <= 0 {
		return left, right
	}

	for i := range ps {
		renderPartial(&ps[i], left, right, sampleRate, stereo)
	}

	normalizePeak(left)
	if stereo {
		normalizePeak(right)
	}
	return left, right
}

func renderPartial(p *partials.Partial, left, right []float64, sampleRate float64, stereo bool) {
	n := p.Len()
	if n < 2 {
		return
	}

	gainL, gainR := 1.0, 0.0
	if stereo {
		pan := p.Pan
		if pan < 0 {
			pan = 0
		} else if pan > 1 {
			pan = 1
		}
		gainL = math.Sqrt(1 - pan)
		gainR = math.Sqrt(pan)
	}

	start := int(math.Floor(p.Times[0]))
	end := int(math.Ceil(p.Times[n-1]))
	if end <= start {
		return
	}
	trackLen := end - start + 1

	if p.Amps[0] > p.Amps[1]*onsetRatio {
		injectTransient(p, start, left, right, gainL, gainR, sampleRate, stereo)
	}

	fadeLen := trackLen / 20
	if fadeLen > maxFadeLen {
		fadeLen = maxFadeLen
	}

	phase := p.Phases[0]
	seg := 0
	for s := start; s <= end; s++ {
		t := float64(s)
		for seg+1 < n-1 && p.Times[seg+1] < t {
			seg++
		}
		dt := p.Times[seg+1] - p.Times[seg]
		frac := 0.0
		if dt > 0 {
			frac = (t - p.Times[seg]) / dt
		}
		if frac < 0 {
			frac = 0
		} else if frac > 1 {
			frac = 1
		}

		freq := p.Freqs[seg] + frac*(p.Freqs[seg+1]-p.Freqs[seg])
		amp := p.Amps[seg] + frac*(p.Amps[seg+1]-p.Amps[seg])
		env := 1.0
		if len(p.Envelope) == n {
			env = p.Envelope[seg] + frac*(p.Envelope[seg+1]-p.Envelope[seg])
		}

		phase += 2 * math.Pi * freq / sampleRate

		fade := 1.0
		if fadeLen > 0 {
			if d := s - start; d < fadeLen {
				fade = float64(d) / float64(fadeLen)
			}
			if d := end - s; d < fadeLen && float64(d)/float64(fadeLen) < fade {
				fade = float64(d) / float64(fadeLen)
			}
		}

		if s < 0 || s >= len(left) {
			continue
		}
		v := amp * fade * env * math.Cos(phase)
		left[s] += gainL * v
		if stereo {
			right[s] += gainR * v
		}
	}
}

// injectTransient restores attack energy lost to windowed analysis by
// adding a short raised-cosine burst at the trajectory onset.
func injectTransient(p *partials.Partial, start int, left, right []float64, gainL, gainR, sampleRate float64, stereo bool) {
	amp := transientGain * p.Amps[0]
	phase := p.Phases[0]
	step := 2 * math.Pi * p.Freqs[0] / sampleRate
	for j := 0; j < transientLen; j++ {
		s := start + j
		if s < 0 || s >= len(left) {
			continue
		}
		win := 0.5 * (1 - math.Cos(2*math.Pi*float64(j+1)/float64(transientLen+1)))
		v := amp * win * math.Cos(phase+float64(j)*step)
		left[s] += gainL * v
		if stereo {
			right[s] += gainR * v
		}
	}
}

func normalizePeak(data []float64) {
	peak := 0.0
	for _, v := range data {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	inv := 1 / peak
	for i := range data {
		data[i] *= inv
	}
}
