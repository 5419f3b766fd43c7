package partials

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/Griffinboy24/Griffin-FFT/dsp/core"
	"github.com/Griffinboy24/Griffin-FFT/dsp/spectrum"
)

const (
	// thresholdScale turns the user-facing detection threshold into the
	// relative amplitude floor applied against the frame maximum.
	thresholdScale = 0.1

	// freqTolerance is the maximum frequency distance in Hz for greedy
	// frame-to-frame continuation.
	freqTolerance = 20.0

	// minTrackPoints is the minimum-duration floor in frames.
	minTrackPoints = 3

	// Band edges and per-band peak caps. Low frequencies get fewer,
	// stronger peaks where perceptual sensitivity is highest.
	lowBandHz  = 250.0
	midBandHz  = 2000.0
	lowBandMax = 4
	midBandMax = 8
	maxPerBand = 16

	minPartialCount = 3
	maxPartialCount = 300
)

// Extract converts a sequence of analyzed frames into continuous partial
// trajectories: per-frame peak picking, frequency-band balancing, greedy
// continuation, phase unwrapping, and energy-based pruning.
//
// hopSize and fftSize describe the analysis stride that produced the
// frames. startThresh gates peak candidates relative to each frame's
// maximum amplitude; continueThresh gates which peaks may extend an
// existing trajectory. maxGap is accepted for call-site compatibility but
// not enforced: a trajectory that loses its peak coasts at zero amplitude
// on its last-known frequency until the frame sequence ends. maxPartials
// bounds the number of returned trajectories and is clamped to [3, 300].
func Extract(frames []spectrum.Frame, hopSize, fftSize int, startThresh, continueThresh float64, maxGap, maxPartials int) []Partial {
	_ = maxGap

	if len(frames) == 0 || hopSize <= 0 || fftSize <= 0 {
		return nil
	}

	maxPartials = core.ClampInt(maxPartials, minPartialCount, maxPartialCount)

	peaks := make([][]Peak, len(frames))
	frameMax := make([]float64, len(frames))
	for f := range frames {
		peaks[f], frameMax[f] = framePeaks(frames[f], startThresh)
	}

	trajectories := trackPeaks(peaks, frameMax, hopSize, fftSize, continueThresh)

	kept := trajectories[:0]
	for i := range trajectories {
		if trajectories[i].Len() >= minTrackPoints {
			kept = append(kept, trajectories[i])
		}
	}

	for i := range kept {
		spectrum.UnwrapPhaseInPlace(kept[i].Phases)
	}

	sort.Slice(kept, func(i, j int) bool {
		return floats.Sum(kept[i].Amps) > floats.Sum(kept[j].Amps)
	})
	if len(kept) > maxPartials {
		kept = kept[:maxPartials]
	}

	for i := range kept {
		env := make([]float64, kept[i].Len())
		for k := range env {
			env[k] = 1
		}
		kept[i].Envelope = env
		kept[i].Pan = 0.5
	}

	return kept
}

// framePeaks returns the band-balanced peak set of one frame, sorted by
// ascending frequency, along with the frame's maximum amplitude.
func framePeaks(frame spectrum.Frame, startThresh float64) ([]Peak, float64) {
	amp := frame.Amplitude
	if len(amp) < 3 {
		return nil, 0
	}

	frameMax := floats.Max(amp)
	floor := startThresh * frameMax * thresholdScale

	var low, mid, high []Peak
	for b := 1; b < len(amp)-1; b++ {
		if amp[b] <= floor {
			continue
		}
		if amp[b] <= amp[b-1] || amp[b] <= amp[b+1] {
			continue
		}

		pk := Peak{
			Freq:  frame.FreqReassign[b],
			Amp:   amp[b],
			Phase: frame.Phase[b],
			Time:  frame.TimeReassign[b],
		}
		switch {
		case pk.Freq < lowBandHz:
			low = append(low, pk)
		case pk.Freq < midBandHz:
			mid = append(mid, pk)
		default:
			high = append(high, pk)
		}
	}

	out := make([]Peak, 0, len(low)+len(mid)+len(high))
	out = append(out, capBand(low, lowBandMax)...)
	out = append(out, capBand(mid, midBandMax)...)
	out = append(out, capBand(high, maxPerBand)...)

	sort.Slice(out, func(i, j int) bool { return out[i].Freq < out[j].Freq })

	return out, frameMax
}

// capBand keeps the n highest-amplitude peaks of a band.
func capBand(band []Peak, n int) []Peak {
	if len(band) <= n {
		return band
	}
	sort.Slice(band, func(i, j int) bool { return band[i].Amp > band[j].Amp })
	return band[:n]
}

// trackPeaks runs the greedy frame-to-frame continuation. A trajectory
// begins at any unused peak; each later frame contributes its nearest
// unused peak within freqTolerance, closest frequency first, or a
// zero-amplitude point at the last-known frequency when nothing matches.
func trackPeaks(peaks [][]Peak, frameMax []float64, hopSize, fftSize int, continueThresh float64) []Partial {
	used := make([][]bool, len(peaks))
	for f := range peaks {
		used[f] = make([]bool, len(peaks[f]))
	}

	var out []Partial
	for f := range peaks {
		for i := range peaks[f] {
			if used[f][i] {
				continue
			}
			used[f][i] = true
			out = append(out, followTrajectory(peaks, used, frameMax, f, i, hopSize, fftSize, continueThresh))
		}
	}

	return out
}

func followTrajectory(peaks [][]Peak, used [][]bool, frameMax []float64, startFrame, startIdx, hopSize, fftSize int, continueThresh float64) Partial {
	n := len(peaks) - startFrame
	p := Partial{
		Times:  make([]float64, 0, n),
		Freqs:  make([]float64, 0, n),
		Amps:   make([]float64, 0, n),
		Phases: make([]float64, 0, n),
		Pan:    0.5,
	}

	start := peaks[startFrame][startIdx]
	p.Times = append(p.Times, start.Time)
	p.Freqs = append(p.Freqs, start.Freq)
	p.Amps = append(p.Amps, start.Amp)
	p.Phases = append(p.Phases, start.Phase)

	lastFreq := start.Freq
	lastPhase := start.Phase
	lastTime := start.Time

	for g := startFrame + 1; g < len(peaks); g++ {
		best := -1
		bestDiff := freqTolerance
		matchFloor := continueThresh * frameMax[g] * thresholdScale
		for j := range peaks[g] {
			if used[g][j] {
				continue
			}
			if peaks[g][j].Amp < matchFloor {
				continue
			}
			d := math.Abs(peaks[g][j].Freq - lastFreq)
			if d <= bestDiff {
				best = j
				bestDiff = d
			}
		}

		var pt Peak
		if best >= 0 {
			used[g][best] = true
			pt = peaks[g][best]
		} else {
			pt = Peak{
				Freq:  lastFreq,
				Amp:   0,
				Phase: lastPhase,
				Time:  float64(g*hopSize + fftSize/2),
			}
		}

		// Reassigned times jitter within a frame; keep the trajectory
		// monotonic.
		if pt.Time < lastTime {
			pt.Time = lastTime
		}

		p.Times = append(p.Times, pt.Time)
		p.Freqs = append(p.Freqs, pt.Freq)
		p.Amps = append(p.Amps, pt.Amp)
		p.Phases = append(p.Phases, pt.Phase)

		lastFreq = pt.Freq
		lastPhase = pt.Phase
		lastTime = pt.Time
	}

	return p
}
