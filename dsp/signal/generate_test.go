package signal

import (
	"math"
	"testing"

	"github.com/Griffinboy24/Griffin-FFT/dsp/core"
)

func TestSine(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(44100))

	out, err := g.Sine(441, 0.5, 100)
	if err != nil {
		t.Fatalf("Sine error: %v", err)
	}
	if len(out) != 100 {
		t.Fatalf("Sine length mismatch: %d", len(out))
	}
	if out[0] != 0 {
		t.Fatalf("Sine must start at zero phase: %f", out[0])
	}
	// 441 Hz at 44100 Hz repeats every 100 samples; the quarter period
	// lands on sample 25 at full amplitude.
	if math.Abs(out[25]-0.5) > 1e-9 {
		t.Fatalf("Sine quarter-period mismatch: %f", out[25])
	}

	if _, err := g.Sine(441, 0.5, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
}

func TestSineWithPhase(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(44100))

	out, err := g.SineWithPhase(441, 1, math.Pi/2, 10)
	if err != nil {
		t.Fatalf("SineWithPhase error: %v", err)
	}
	if math.Abs(out[0]-1) > 1e-12 {
		t.Fatalf("cosine start expected: %f", out[0])
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	g1 := NewGeneratorWithOptions(nil, WithSeed(42))
	g2 := NewGeneratorWithOptions(nil, WithSeed(42))

	a, err := g1.WhiteNoise(0.8, 64)
	if err != nil {
		t.Fatalf("WhiteNoise error: %v", err)
	}
	b, _ := g2.WhiteNoise(0.8, 64)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed must produce same noise at %d", i)
		}
		if math.Abs(a[i]) > 0.8 {
			t.Fatalf("noise sample out of range: %f", a[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{0.1, -0.5, 0.25}, 1.0)
	if err != nil {
		t.Fatalf("Normalize error: %v", err)
	}
	if math.Abs(out[1]+1.0) > 1e-12 {
		t.Fatalf("peak sample must hit target: %f", out[1])
	}

	zeros, err := Normalize([]float64{0, 0}, 1.0)
	if err != nil {
		t.Fatalf("Normalize zeros error: %v", err)
	}
	if zeros[0] != 0 || zeros[1] != 0 {
		t.Fatal("silence must stay silence")
	}
}

func TestRMS(t *testing.T) {
	if RMS(nil) != 0 {
		t.Fatal("RMS of empty input must be 0")
	}

	if math.Abs(RMS([]float64{1, -1, 1, -1})-1) > 1e-12 {
		t.Fatal("RMS of unit square wave must be 1")
	}

	g := NewGenerator(core.WithSampleRate(44100))
	sine, _ := g.Sine(441, 1, 4410)
	if math.Abs(RMS(sine)-1/math.Sqrt2) > 1e-3 {
		t.Fatalf("sine RMS mismatch: %f", RMS(sine))
	}
}
