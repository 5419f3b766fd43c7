package spectrum

import (
	"math"
	"testing"
)

func TestNewFrame(t *testing.T) {
	f := NewFrame(9)
	if f.Bins() != 9 {
		t.Fatalf("Bins mismatch: got=%d want=9", f.Bins())
	}

	if len(f.Amplitude) != 9 || len(f.Phase) != 9 || len(f.TimeReassign) != 9 || len(f.FreqReassign) != 9 {
		t.Fatalf("frame arrays must share length 9")
	}

	if NewFrame(-1).Bins() != 0 {
		t.Fatal("negative bin count must yield empty frame")
	}
}

func TestMagnitudePhase(t *testing.T) {
	bins := []complex128{3 + 4i, -1 - 1i, 0}

	mag := Magnitude(bins)
	if len(mag) != len(bins) {
		t.Fatalf("Magnitude length mismatch: got=%d want=%d", len(mag), len(bins))
	}

	if math.Abs(mag[0]-5) > 1e-12 {
		t.Fatalf("Magnitude[0]=%f want=5", mag[0])
	}

	phase := Phase(bins)
	if math.Abs(phase[0]-math.Atan2(4, 3)) > 1e-12 {
		t.Fatalf("Phase[0]=%f mismatch", phase[0])
	}
}

func TestUnwrapPhase(t *testing.T) {
	in := []float64{2.8, -2.7, -2.6}

	out := UnwrapPhase(in)
	if len(out) != len(in) {
		t.Fatalf("unwrap length mismatch")
	}

	if out[1] <= out[0] {
		t.Fatalf("expected increasing unwrapped phase: %v", out)
	}

	if math.Abs((out[1]-out[0])-(2*math.Pi-5.5)) > 1e-12 {
		t.Fatalf("unexpected unwrap delta: %f", out[1]-out[0])
	}
}

func TestUnwrapPhaseInPlaceMultipleWraps(t *testing.T) {
	// A jump of more than 2*pi requires repeated correction.
	in := []float64{0, 3*math.Pi - 0.1 - 4*math.Pi}

	UnwrapPhaseInPlace(in)
	if math.Abs(in[1]-(math.Pi-0.1)) > 1e-12 {
		t.Fatalf("expected repeated 2*pi correction: %f", in[1])
	}
}

func TestUnwrapPhaseIdempotent(t *testing.T) {
	in := []float64{2.8, -2.7, -2.6, 3.0, -3.0}

	once := UnwrapPhase(in)
	twice := UnwrapPhase(once)
	for i := range once {
		if math.Abs(once[i]-twice[i]) > 1e-12 {
			t.Fatalf("re-unwrap changed sample %d: %f -> %f", i, once[i], twice[i])
		}
	}
}
