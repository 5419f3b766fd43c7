package window

const minBankSize = 64

// Bank holds the precomputed analysis windows of a dual-resolution
// spectral analyzer: a long window for frequency resolution and a short
// (narrower sigma) window for time localization, each with its squared,
// time-weighted, and centered-difference derivative variants.
//
// All eight arrays share one length. A Bank is immutable after
// construction.
type Bank struct {
	Size int

	Long      []float64
	LongSq    []float64
	LongTime  []float64
	LongDeriv []float64

	Short      []float64
	ShortSq    []float64
	ShortTime  []float64
	ShortDeriv []float64

	// Correction is the overlap-add gain correction hop/sum(Long^2) for
	// the canonical hop of Size/4. Multiplying each synthesized frame by
	// Long*Correction yields unity gain after window-energy
	// normalization.
	Correction float64
}

// NewBank builds the window set for an analysis frame of fftSize samples.
// fftSize must be a power of two and at least 64. When gaussian is false,
// both resolutions use Hann windows scaled to their sigma-equivalent
// support.
func NewBank(fftSize int, sigma, shortSigma float64, gaussian bool) (*Bank, error) {
	if err := validateBank(fftSize, sigma, shortSigma); err != nil {
		return nil, err
	}

	long := bankWindow(fftSize, sigma, gaussian)
	short := bankWindow(fftSize, shortSigma, gaussian)

	b := &Bank{
		Size:       fftSize,
		Long:       long,
		LongSq:     Squared(long),
		LongTime:   TimeWeighted(long),
		LongDeriv:  Derivative(long),
		Short:      short,
		ShortSq:    Squared(short),
		ShortTime:  TimeWeighted(short),
		ShortDeriv: Derivative(short),
	}

	hop := float64(fftSize / 4)
	sum := 0.0
	for _, v := range b.LongSq {
		sum += v
	}
	if sum > 0 {
		b.Correction = hop / sum
	}

	return b, nil
}

func bankWindow(size int, sigma float64, gaussian bool) []float64 {
	if gaussian {
		return Generate(TypeGauss, size, WithAlpha(sigma), WithPeriodic())
	}

	// Hann fallback: shrink the effective support so the short window
	// stays narrower than the long one, mirroring the Gaussian sigmas.
	span := int(float64(size) * sigma * 2)
	if span > size {
		span = size
	}
	if span < 2 {
		span = 2
	}

	out := make([]float64, size)
	inner := Generate(TypeHann, span, WithPeriodic())
	offset := (size - span) / 2
	copy(out[offset:], inner)

	return out
}
