package stft

// ProcessBlock consumes n input samples and produces n output samples
// delayed by Latency(). Work is sliced into chunks bounded by the FIFO
// wraparound, the next hop boundary, and the caller's remainder, so no
// chunk ever straddles either boundary. n == 0 is a no-op.
func (e *Engine) ProcessBlock(in, out []float64, n int, bypassed bool) {
	done := 0
	for done < n {
		idx := e.pos & e.mask

		chunk := e.fftSize - idx
		if r := e.hopSize - e.hopCounter; r < chunk {
			chunk = r
		}
		if r := n - done; r < chunk {
			chunk = r
		}

		for i := 0; i < chunk; i++ {
			slot := idx + i

			sample := e.outFIFO[slot]
			if e.normFIFO[slot] > normFloor {
				sample /= e.normFIFO[slot]
			}
			out[done+i] = sample

			e.outFIFO[slot] = 0
			e.normFIFO[slot] = 0
			e.inFIFO[slot] = in[done+i]
		}

		e.pos += chunk
		e.hopCounter += chunk
		done += chunk

		if e.hopCounter == e.hopSize {
			e.processFrame(bypassed)
			e.hopCounter = 0
		}
	}
}

// ProcessSample pushes one sample through the engine and returns one
// delayed output sample. It behaves identically to a 1-sample
// ProcessBlock.
func (e *Engine) ProcessSample(sample float64, bypassed bool) float64 {
	var in, out [1]float64
	in[0] = sample
	e.ProcessBlock(in[:], out[:], 1, bypassed)

	return out[0]
}

// FlushRemaining feeds fftSize zero samples to drain the pipeline and
// returns the drained output.
func (e *Engine) FlushRemaining(bypassed bool) []float64 {
	in := make([]float64, e.fftSize)
	out := make([]float64, e.fftSize)
	e.ProcessBlock(in, out, e.fftSize, bypassed)

	return out
}

// ProcessEntireBuffer runs the real-time path over a full buffer in one
// shot: reset, process, flush, and trim the leading latency so the
// output length equals n. Bypassed operation reproduces the input up to
// overlap-add floating-point error.
func (e *Engine) ProcessEntireBuffer(in []float64, n int, bypassed bool) []float64 {
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	e.Reset()
	e.ProcessBlock(in, out, n, bypassed)
	drained := e.FlushRemaining(bypassed)

	// The delayed stream is out followed by drained; keep the n samples
	// starting at the latency offset.
	latency := e.Latency()
	keep := n - latency
	if keep < 0 {
		keep = 0
	}
	copy(out, out[latency:latency+keep])
	copy(out[keep:], drained[latency-(n-keep):latency])

	return out
}

// processFrame runs one analysis/synthesis cycle over the most recent
// fftSize input samples. Called exactly at hop boundaries, after pos
// has advanced past the boundary.
func (e *Engine) processFrame(bypassed bool) {
	for j := 0; j < e.fftSize; j++ {
		x := e.inFIFO[(e.pos+j)&e.mask]
		e.analysisSpectrum[j] = complex(x*e.bank.Long[j], 0)
	}
	for j := e.fftSize; j < e.paddedSize; j++ {
		e.analysisSpectrum[j] = 0
	}

	// Plan length is fixed at construction, so the transforms cannot
	// fail on these buffers.
	_ = e.plan.Forward(e.analysisSpectrum, e.analysisSpectrum)

	copy(e.synthesisSpectrum, e.analysisSpectrum)
	if !bypassed {
		lowpassSpectrum(e.synthesisSpectrum[:e.bins])
	}

	symmetrize(e.synthesisSpectrum)
	_ = e.plan.Inverse(e.timeFrame, e.synthesisSpectrum)

	// The first hop of the frame lies before the next output sample, so
	// only the tail overlap-adds; this pins the pipeline latency to
	// fftSize - hop.
	for j := e.hopSize; j < e.fftSize; j++ {
		slot := (e.pos + j - e.hopSize) & e.mask
		e.outFIFO[slot] += real(e.timeFrame[j]) * e.bank.Long[j]
		e.normFIFO[slot] += e.bank.LongSq[j]
	}
}

// lowpassSpectrum is the default non-bypassed frame transform: it
// silences the upper half of the positive spectrum.
func lowpassSpectrum(spec []complex128) {
	for k := len(spec) / 2; k < len(spec); k++ {
		spec[k] = 0
	}
}

// symmetrize enforces Hermitian symmetry so the inverse transform of
// spec is real-valued.
func symmetrize(spec []complex128) {
	n := len(spec)
	half := n / 2

	spec[0] = complex(real(spec[0]), 0)
	spec[half] = complex(real(spec[half]), 0)
	for k := 1; k < half; k++ {
		v := spec[k]
		spec[n-k] = complex(real(v), -imag(v))
	}
}
