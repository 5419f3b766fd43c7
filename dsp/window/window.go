package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeGauss
)

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
}

func defaultConfig() config {
	return config{alpha: 1}
}

// WithAlpha configures the alpha parameter for parametric windows.
// For TypeGauss, alpha is the normalized standard deviation sigma
// (fraction of the half-window length).
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v > 0 {
			c.alpha = v
		}
	}
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		x := samplePosition(i, length, cfg.periodic)
		out[i] = evalWindow(t, x, cfg)
	}

	return out
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// Gaussian returns Gaussian window coefficients with the given normalized
// standard deviation sigma (fraction of the half-window length).
func Gaussian(size int, sigma float64, opts ...Option) ([]float64, error) {
	if size <= 0 || sigma <= 0 {
		return nil, validateGauss(size, sigma)
	}

	return Generate(TypeGauss, size, append(opts, WithAlpha(sigma))...), nil
}

// Derivative returns the centered-difference derivative of a window.
// Interior samples use (w[n+1] - w[n-1]) / 2; the edges use one-sided
// differences.
func Derivative(w []float64) []float64 {
	if len(w) == 0 {
		return nil
	}

	out := make([]float64, len(w))
	if len(w) == 1 {
		return out
	}

	out[0] = w[1] - w[0]
	out[len(w)-1] = w[len(w)-1] - w[len(w)-2]
	for i := 1; i < len(w)-1; i++ {
		out[i] = (w[i+1] - w[i-1]) / 2
	}

	return out
}

// TimeWeighted returns the window multiplied by the sample offset from the
// frame center: out[n] = w[n] * (n - len/2).
func TimeWeighted(w []float64) []float64 {
	if len(w) == 0 {
		return nil
	}

	out := make([]float64, len(w))
	center := float64(len(w) / 2)
	for i, v := range w {
		out[i] = v * (float64(i) - center)
	}

	return out
}

// Squared returns the element-wise square of a window.
func Squared(w []float64) []float64 {
	if len(w) == 0 {
		return nil
	}

	out := make([]float64, len(w))
	vecmath.MulBlock(out, w, w)

	return out
}

// ApplyCoefficients multiplies samples with coefficients and returns a new slice.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, errMismatchedLength
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

func evalWindow(t Type, x float64, cfg config) float64 {
	if x < 0 {
		x = 0
	}

	if x > 1 {
		x = 1
	}

	switch t {
	case TypeRectangular:
		return 1
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeGauss:
		v := (2*x - 1) / cfg.alpha
		return math.Exp(-0.5 * v * v)
	default:
		return 1
	}
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}
