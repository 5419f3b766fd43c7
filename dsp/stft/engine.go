package stft

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/Griffinboy24/Griffin-FFT/dsp/core"
	"github.com/Griffinboy24/Griffin-FFT/dsp/spectrum"
	"github.com/Griffinboy24/Griffin-FFT/dsp/window"
)

const (
	defaultSampleRate = 44100.0
	defaultSigma      = 0.3
	defaultShortSigma = 0.1

	// defaultStartThreshold is the relative peak-detection floor used by
	// the offline partial pipeline.
	defaultStartThreshold = 0.05
	defaultMaxPartials    = 64

	minPartialCount = 3
	maxPartialCount = 300

	// normFloor guards the per-sample window-energy division.
	normFloor = 1e-12
	// magnitudeFloor is the spectral magnitude below which reassignment
	// falls back to the bin's nominal center.
	magnitudeFloor = 1e-6
)

// Engine is a dual-resolution spectral processor built on overlap-add
// STFT analysis and synthesis.
//
// The real-time path (ProcessBlock, ProcessSample, FlushRemaining)
// performs no allocation in steady state: all FIFOs and transform
// scratch are sized at construction. The offline path (AnalyzeBuffer,
// SynthesizeBuffer, ProcessOfflineBufferWithSpectralFx) is
// allocation-heavy and shares the engine's scratch buffers with the
// real-time path, so the two must not run concurrently on one Engine.
type Engine struct {
	fftSize    int
	hopSize    int
	paddedSize int
	bins       int
	mask       int

	sampleRate     float64
	startThreshold float64
	maxPartials    int

	bank *window.Bank
	plan *algofft.Plan[complex128]

	inFIFO   []float64
	outFIFO  []float64
	normFIFO []float64

	pos        int
	hopCounter int

	analysisSpectrum  []complex128
	synthesisSpectrum []complex128
	timeFrame         []complex128

	transform func(frames []spectrum.Frame)
}

// Option configures an Engine at construction.
type Option func(*engineConfig)

type engineConfig struct {
	sampleRate float64
	sigma      float64
	shortSigma float64
	gaussian   bool
}

// WithSampleRate sets the engine sample rate in Hz. It affects only the
// Hz conversion of analysis results, never the transform geometry.
func WithSampleRate(sampleRate float64) Option {
	return func(c *engineConfig) {
		if sampleRate > 0 {
			c.sampleRate = sampleRate
		}
	}
}

// WithSigma sets the long analysis window sigma.
func WithSigma(sigma float64) Option {
	return func(c *engineConfig) {
		c.sigma = sigma
	}
}

// WithShortSigma sets the short (time-localizing) window sigma.
func WithShortSigma(sigma float64) Option {
	return func(c *engineConfig) {
		c.shortSigma = sigma
	}
}

// WithGaussianWindow selects Gaussian analysis windows when enabled,
// sigma-scaled Hann windows otherwise.
func WithGaussianWindow(enabled bool) Option {
	return func(c *engineConfig) {
		c.gaussian = enabled
	}
}

// New creates an engine for analysis frames of fftSize samples.
// fftSize must be a power of two and at least 64. The hop is fftSize/4
// and frames are zero-padded to 4x fftSize before transforming.
func New(fftSize int, opts ...Option) (*Engine, error) {
	cfg := engineConfig{
		sampleRate: defaultSampleRate,
		sigma:      defaultSigma,
		shortSigma: defaultShortSigma,
		gaussian:   true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	bank, err := window.NewBank(fftSize, cfg.sigma, cfg.shortSigma, cfg.gaussian)
	if err != nil {
		return nil, fmt.Errorf("stft engine: %w", err)
	}

	paddedSize := 4 * fftSize

	plan, err := algofft.NewPlan64(paddedSize)
	if err != nil {
		return nil, fmt.Errorf("stft engine: transform plan: %w", err)
	}

	e := &Engine{
		fftSize:    fftSize,
		hopSize:    fftSize / 4,
		paddedSize: paddedSize,
		bins:       paddedSize/2 + 1,
		mask:       fftSize - 1,

		sampleRate:     cfg.sampleRate,
		startThreshold: defaultStartThreshold,
		maxPartials:    defaultMaxPartials,

		bank: bank,
		plan: plan,

		inFIFO:   make([]float64, fftSize),
		outFIFO:  make([]float64, fftSize),
		normFIFO: make([]float64, fftSize),

		analysisSpectrum:  make([]complex128, paddedSize),
		synthesisSpectrum: make([]complex128, paddedSize),
		timeFrame:         make([]complex128, paddedSize),
	}

	return e, nil
}

// FFTSize returns the analysis frame length in samples.
func (e *Engine) FFTSize() int { return e.fftSize }

// HopSize returns the advance between frames in samples.
func (e *Engine) HopSize() int { return e.hopSize }

// PaddedSize returns the zero-padded transform length.
func (e *Engine) PaddedSize() int { return e.paddedSize }

// Bins returns the number of non-redundant spectrum bins.
func (e *Engine) Bins() int { return e.bins }

// SampleRate returns the sample rate in Hz.
func (e *Engine) SampleRate() float64 { return e.sampleRate }

// Latency returns the real-time path delay in samples.
func (e *Engine) Latency() int { return e.fftSize - e.hopSize }

// StartThreshold returns the relative peak-detection threshold.
func (e *Engine) StartThreshold() float64 { return e.startThreshold }

// MaxPartials returns the partial-count cap of the offline pipeline.
func (e *Engine) MaxPartials() int { return e.maxPartials }

// SetSampleRate updates the sample rate in Hz.
func (e *Engine) SetSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("stft engine sample rate must be > 0: %f", sampleRate)
	}

	e.sampleRate = sampleRate

	return nil
}

// SetStartThreshold updates the relative peak-detection threshold.
// Negative values clamp to zero.
func (e *Engine) SetStartThreshold(threshold float64) {
	if threshold < 0 || math.IsNaN(threshold) {
		threshold = 0
	}

	e.startThreshold = threshold
}

// SetMaxPartials updates the partial-count cap, clamped to [3, 300].
func (e *Engine) SetMaxPartials(n int) {
	e.maxPartials = core.ClampInt(n, minPartialCount, maxPartialCount)
}

// SetTransform installs a callback that receives the full frame
// sequence of the offline path and mutates it in place before
// resynthesis and partial extraction. A non-nil callback replaces the
// default bypass/lowpass behavior; nil restores it.
func (e *Engine) SetTransform(fn func(frames []spectrum.Frame)) {
	e.transform = fn
}

// Reset clears the FIFOs and position/hop counters.
func (e *Engine) Reset() {
	core.Zero(e.inFIFO)
	core.Zero(e.outFIFO)
	core.Zero(e.normFIFO)
	e.pos = 0
	e.hopCounter = 0
}
