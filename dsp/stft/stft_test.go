package stft

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/Griffinboy24/Griffin-FFT/dsp/partialfx"
	"github.com/Griffinboy24/Griffin-FFT/dsp/signal"
	"github.com/Griffinboy24/Griffin-FFT/dsp/spectrum"
)

const testRate = 44100.0

func newTestEngine(t *testing.T, fftSize int) *Engine {
	t.Helper()

	e, err := New(fftSize, WithSampleRate(testRate))
	if err != nil {
		t.Fatalf("New(%d) failed: %v", fftSize, err)
	}

	return e
}

func testSine(t *testing.T, freq float64, samples int) []float64 {
	t.Helper()

	gen := signal.NewGenerator()
	data, err := gen.Sine(freq, 0.5, samples)
	if err != nil {
		t.Fatalf("sine generation failed: %v", err)
	}

	return data
}

func rms(data []float64) float64 {
	sum := 0.0
	for _, v := range data {
		sum += v * v
	}
	if len(data) == 0 {
		return 0
	}

	return math.Sqrt(sum / float64(len(data)))
}

func TestNewValidation(t *testing.T) {
	cases := []struct {
		name    string
		fftSize int
		opts    []Option
		wantErr bool
	}{
		{"valid", 1024, nil, false},
		{"not power of two", 1000, nil, true},
		{"too small", 32, nil, true},
		{"bad sigma", 1024, []Option{WithSigma(-1)}, true},
		{"short wider than long", 1024, []Option{WithSigma(0.1), WithShortSigma(0.3)}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.fftSize, tc.opts...)
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestEngineGeometry(t *testing.T) {
	e := newTestEngine(t, 1024)

	if e.FFTSize() != 1024 {
		t.Fatalf("fft size: got %d", e.FFTSize())
	}
	if e.HopSize() != 256 {
		t.Fatalf("hop size: got %d want 256", e.HopSize())
	}
	if e.PaddedSize() != 4096 {
		t.Fatalf("padded size: got %d want 4096", e.PaddedSize())
	}
	if e.Bins() != 2049 {
		t.Fatalf("bins: got %d want 2049", e.Bins())
	}
	if e.Latency() != 768 {
		t.Fatalf("latency: got %d want 768", e.Latency())
	}
}

func TestSetters(t *testing.T) {
	e := newTestEngine(t, 1024)

	if err := e.SetSampleRate(48000); err != nil {
		t.Fatalf("SetSampleRate(48000): %v", err)
	}
	if e.SampleRate() != 48000 {
		t.Fatalf("sample rate not applied: %v", e.SampleRate())
	}
	if err := e.SetSampleRate(-1); err == nil {
		t.Fatal("expected error for negative sample rate")
	}
	if err := e.SetSampleRate(math.NaN()); err == nil {
		t.Fatal("expected error for NaN sample rate")
	}

	e.SetStartThreshold(0.2)
	if e.StartThreshold() != 0.2 {
		t.Fatalf("start threshold not applied: %v", e.StartThreshold())
	}
	e.SetStartThreshold(-0.5)
	if e.StartThreshold() != 0 {
		t.Fatalf("negative threshold should clamp to 0, got %v", e.StartThreshold())
	}

	e.SetMaxPartials(1000)
	if e.MaxPartials() != 300 {
		t.Fatalf("max partials should clamp to 300, got %d", e.MaxPartials())
	}
	e.SetMaxPartials(0)
	if e.MaxPartials() != 3 {
		t.Fatalf("max partials should clamp to 3, got %d", e.MaxPartials())
	}
}

func TestProcessBlockZeroSamplesNoOp(t *testing.T) {
	in := testSine(t, 440, 4096)

	a := newTestEngine(t, 1024)
	b := newTestEngine(t, 1024)

	outA := make([]float64, len(in))
	outB := make([]float64, len(in))

	a.ProcessBlock(in, outA, len(in), true)

	b.ProcessBlock(nil, nil, 0, true)
	b.ProcessBlock(in[:100], outB[:100], 100, true)
	b.ProcessBlock(nil, nil, 0, true)
	b.ProcessBlock(in[100:], outB[100:], len(in)-100, true)

	for i := range outA {
		if outA[i] != outB[i] {
			t.Fatalf("sample %d: zero-length calls changed behavior: %v vs %v", i, outA[i], outB[i])
		}
	}
}

func TestProcessSampleMatchesProcessBlock(t *testing.T) {
	in := testSine(t, 330, 2048)

	blockEngine := newTestEngine(t, 256)
	sampleEngine := newTestEngine(t, 256)

	blockOut := make([]float64, len(in))
	blockEngine.ProcessBlock(in, blockOut, len(in), false)

	for i, x := range in {
		got := sampleEngine.ProcessSample(x, false)
		if got != blockOut[i] {
			t.Fatalf("sample %d: ProcessSample diverged from ProcessBlock: %v vs %v", i, got, blockOut[i])
		}
	}
}

func TestProcessEntireBufferBypassIdentity(t *testing.T) {
	const n = 8192
	in := testSine(t, 440, n)

	e := newTestEngine(t, 1024)
	out := e.ProcessEntireBuffer(in, n, true)

	if len(out) != n {
		t.Fatalf("output length: got %d want %d", len(out), n)
	}
	for i := range out {
		if diff := math.Abs(out[i] - in[i]); diff > 1e-6 {
			t.Fatalf("sample %d: bypass not identity: got %v want %v (diff %v)", i, out[i], in[i], diff)
		}
	}
}

func TestProcessEntireBufferShorterThanLatency(t *testing.T) {
	const n = 100
	in := testSine(t, 440, n)

	e := newTestEngine(t, 1024)
	out := e.ProcessEntireBuffer(in, n, true)

	if len(out) != n {
		t.Fatalf("output length: got %d want %d", len(out), n)
	}
	for i := range out {
		if diff := math.Abs(out[i] - in[i]); diff > 1e-6 {
			t.Fatalf("sample %d: short-buffer bypass not identity: diff %v", i, diff)
		}
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	in := testSine(t, 440, 3000)

	e := newTestEngine(t, 512)

	first := make([]float64, len(in))
	e.ProcessBlock(in, first, len(in), true)

	e.Reset()

	second := make([]float64, len(in))
	e.ProcessBlock(in, second, len(in), true)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs after reset: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestDefaultLowpassPreservesLowAndKillsHigh(t *testing.T) {
	const n = 8192
	e := newTestEngine(t, 1024)

	low := testSine(t, 440, n)
	outLow := e.ProcessEntireBuffer(low, n, false)
	if got, want := rms(outLow), rms(low); got < 0.9*want {
		t.Fatalf("440 Hz tone attenuated by lowpass: rms %v vs %v", got, want)
	}

	high := testSine(t, 15000, n)
	outHigh := e.ProcessEntireBuffer(high, n, false)
	if got, limit := rms(outHigh), 0.01*rms(high); got > limit {
		t.Fatalf("15 kHz tone survived lowpass: rms %v > %v", got, limit)
	}
}

func TestAnalyzeBufferReassignmentContinuity(t *testing.T) {
	const freq = 440.0
	const n = 16384

	e := newTestEngine(t, 1024)
	frames := e.AnalyzeBuffer(testSine(t, freq, n), n)

	if len(frames) != 1+(n-1)/e.HopSize() {
		t.Fatalf("frame count: got %d want %d", len(frames), 1+(n-1)/e.HopSize())
	}

	// Interior frames see a fully stationary sinusoid.
	for _, frame := range []int{8, 16, 24} {
		f := frames[frame]

		peakBin := 1
		for b := 1; b < f.Bins()-1; b++ {
			if f.Amplitude[b] > f.Amplitude[peakBin] {
				peakBin = b
			}
		}

		if got := f.FreqReassign[peakBin]; math.Abs(got-freq) > 1.0 {
			t.Fatalf("frame %d: reassigned frequency %v Hz, want within 1 Hz of %v", frame, got, freq)
		}

		frameStart := float64(frame * e.HopSize())
		frameEnd := frameStart + float64(e.FFTSize())
		if got := f.TimeReassign[peakBin]; got < frameStart || got > frameEnd {
			t.Fatalf("frame %d: reassigned time %v outside frame span [%v, %v]", frame, got, frameStart, frameEnd)
		}
	}
}

func TestAnalyzeBufferLowMagnitudeFallback(t *testing.T) {
	const n = 4096
	in := make([]float64, n)

	e := newTestEngine(t, 1024)
	frames := e.AnalyzeBuffer(in, n)

	f := frames[0]
	binHz := testRate / float64(e.PaddedSize())
	frameCenter := float64(e.FFTSize() / 2)

	for b := 0; b < f.Bins(); b++ {
		if f.TimeReassign[b] != frameCenter {
			t.Fatalf("bin %d: silent frame should fall back to frame center, got %v", b, f.TimeReassign[b])
		}
		if want := float64(b) * binHz; f.FreqReassign[b] != want {
			t.Fatalf("bin %d: silent frame should fall back to nominal frequency, got %v want %v", b, f.FreqReassign[b], want)
		}
	}
}

func TestSynthesizeBufferRoundTrip(t *testing.T) {
	const n = 8192
	in := testSine(t, 440, n)

	e := newTestEngine(t, 1024)
	frames := e.AnalyzeBuffer(in, n)
	out := e.SynthesizeBuffer(frames, n)

	if len(out) != n {
		t.Fatalf("output length: got %d want %d", len(out), n)
	}
	for i := range out {
		if diff := math.Abs(out[i] - in[i]); diff > 1e-4 {
			t.Fatalf("sample %d: round trip error %v", i, diff)
		}
	}
	for i := 1024; i < n-1024; i++ {
		if diff := math.Abs(out[i] - in[i]); diff > 1e-6 {
			t.Fatalf("interior sample %d: round trip error %v", i, diff)
		}
	}
}

func TestSynthesizeBufferEmptyFrames(t *testing.T) {
	e := newTestEngine(t, 1024)

	out := e.SynthesizeBuffer(nil, 512)
	if len(out) != 512 {
		t.Fatalf("length: got %d want 512", len(out))
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d nonzero for empty frame set: %v", i, v)
		}
	}
}

func TestEndToEndPartialScenario(t *testing.T) {
	const freq = 440.0
	n := int(2 * testRate)
	in := testSine(t, freq, n)

	e := newTestEngine(t, 1024)
	frames := e.AnalyzeBuffer(in, n)
	ps := e.ExtractPartials(frames, 0.05, 0.05, 4, 64)

	if len(ps) == 0 {
		t.Fatal("expected at least one partial")
	}

	// Dominant partial sits at the tone frequency.
	var freqs []float64
	for i, amp := range ps[0].Amps {
		if amp > 0 {
			freqs = append(freqs, ps[0].Freqs[i])
		}
	}
	if len(freqs) < 10 {
		t.Fatalf("dominant partial too short: %d sounding points", len(freqs))
	}
	if got := stat.Mean(freqs, nil); math.Abs(got-freq) > 1.0 {
		t.Fatalf("dominant partial mean frequency %v Hz, want within 1 Hz of %v", got, freq)
	}

	out := e.SynthesizePartials(ps, n)
	if len(out) != n {
		t.Fatalf("render length: got %d want %d", len(out), n)
	}

	lo, hi := 5000, n-5000
	crossings := 0
	for i := lo + 1; i < hi; i++ {
		if out[i-1] < 0 && out[i] >= 0 {
			crossings++
		}
	}
	got := float64(crossings) * testRate / float64(hi-lo)
	if math.Abs(got-freq)/freq > 0.005 {
		t.Fatalf("reconstructed fundamental %v Hz, want within 0.5%% of %v", got, freq)
	}
}

func TestOfflinePipelineRMSTarget(t *testing.T) {
	n := int(testRate / 2)
	in := testSine(t, 440, n)

	e := newTestEngine(t, 1024)
	left, right := e.ProcessOfflineBufferWithSpectralFx(in, n, true, partialfx.DefaultSettings())

	if len(left) != n || len(right) != n {
		t.Fatalf("channel lengths: got %d/%d want %d", len(left), len(right), n)
	}

	joint := 0.0
	for i := range left {
		joint += left[i]*left[i] + right[i]*right[i]
	}
	joint = math.Sqrt(joint / float64(2*n))
	if math.Abs(joint-0.1) > 1e-9 {
		t.Fatalf("joint RMS %v, want 0.1", joint)
	}
}

func TestOfflinePipelineEmptyInput(t *testing.T) {
	e := newTestEngine(t, 1024)

	left, right := e.ProcessOfflineBufferWithSpectralFx(nil, 0, true, partialfx.DefaultSettings())
	if len(left) != 0 || len(right) != 0 {
		t.Fatalf("expected empty channels, got %d/%d", len(left), len(right))
	}
}

func TestTransformCallbackReplacesDefault(t *testing.T) {
	n := int(testRate / 2)
	in := testSine(t, 440, n)

	e := newTestEngine(t, 1024)

	called := false
	e.SetTransform(func(frames []spectrum.Frame) {
		called = true
		for i := range frames {
			for b := range frames[i].Amplitude {
				frames[i].Amplitude[b] = 0
			}
		}
	})

	left, right := e.ProcessOfflineBufferWithSpectralFx(in, n, false, partialfx.DefaultSettings())
	if !called {
		t.Fatal("transform callback was not invoked")
	}
	for i := range left {
		if left[i] != 0 || right[i] != 0 {
			t.Fatalf("sample %d nonzero after amplitude-zeroing callback: %v/%v", i, left[i], right[i])
		}
	}
}
