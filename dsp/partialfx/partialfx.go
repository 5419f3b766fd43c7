package partialfx

import (
	"math"
	"math/rand"

	"github.com/Griffinboy24/Griffin-FFT/dsp/partials"
)

// lfoDepth is the fixed modulation depth of the low-frequency amplitude
// envelope.
const lfoDepth = 0.2

// Settings enumerates which partial-domain effects are enabled and their
// parameters. Settings is passed by value into every chain invocation and
// never mutated by effects.
type Settings struct {
	EnableStretch bool
	StretchFactor float64

	EnablePan bool
	// PanSeed seeds the random pan positions; zero selects the default
	// deterministic seed.
	PanSeed int64

	EnableLfo bool
	// LfoRate is the modulation rate in Hz.
	LfoRate float64
}

// DefaultSettings returns a neutral configuration with all effects
// disabled and usable parameter defaults.
func DefaultSettings() Settings {
	return Settings{
		StretchFactor: 1,
		LfoRate:       2,
	}
}

// Kind identifies one member of the closed effect set.
type Kind int

const (
	// KindTimeStretch scales every trajectory time by a constant factor.
	KindTimeStretch Kind = iota
	// KindRandomPan assigns each partial a uniformly random spatial
	// position and resets its envelope to unity.
	KindRandomPan
	// KindLfoMod overwrites each envelope with a low-frequency sine
	// modulation sampled at the trajectory point times.
	KindLfoMod
)

// Effect is one configured member of the closed effect set.
type Effect struct {
	Kind   Kind
	Factor float64
	Rate   float64
	rng    *rand.Rand
}

// Chain is an ordered list of enabled effects. Effects apply in a fixed
// sequence (TimeStretch, RandomPan, LfoMod) so that pan and modulation
// run against the stretched timeline.
type Chain struct {
	effects []Effect
}

// NewChain builds the chain described by settings.
func NewChain(s Settings) *Chain {
	c := &Chain{}

	if s.EnableStretch {
		factor := s.StretchFactor
		if factor <= 0 {
			factor = 1
		}
		c.effects = append(c.effects, Effect{Kind: KindTimeStretch, Factor: factor})
	}

	if s.EnablePan {
		seed := s.PanSeed
		if seed == 0 {
			seed = 1
		}
		c.effects = append(c.effects, Effect{Kind: KindRandomPan, rng: rand.New(rand.NewSource(seed))})
	}

	if s.EnableLfo {
		rate := s.LfoRate
		if rate < 0 {
			rate = 0
		}
		c.effects = append(c.effects, Effect{Kind: KindLfoMod, Rate: rate})
	}

	return c
}

// Len returns the number of enabled effects.
func (c *Chain) Len() int {
	return len(c.effects)
}

// Apply runs every enabled effect over the partial set in place.
// sampleRate converts trajectory times from samples to seconds for
// effects operating in real time.
func (c *Chain) Apply(ps []partials.Partial, sampleRate float64) {
	if len(ps) == 0 || sampleRate <= 0 {
		return
	}
	for i := range c.effects {
		c.effects[i].apply(ps, sampleRate)
	}
}

func (e *Effect) apply(ps []partials.Partial, sampleRate float64) {
	switch e.Kind {
	case KindTimeStretch:
		for i := range ps {
			for k := range ps[i].Times {
				ps[i].Times[k] *= e.Factor
			}
		}
	case KindRandomPan:
		for i := range ps {
			ps[i].Pan = e.rng.Float64()
			resetEnvelope(&ps[i])
		}
	case KindLfoMod:
		for i := range ps {
			p := &ps[i]
			if len(p.Envelope) != len(p.Times) {
				p.Envelope = make([]float64, len(p.Times))
			}
			for k, ts := range p.Times {
				t := ts / sampleRate
				p.Envelope[k] = 1 + lfoDepth*math.Sin(2*math.Pi*e.Rate*t)
			}
		}
	}
}

func resetEnvelope(p *partials.Partial) {
	if len(p.Envelope) != len(p.Times) {
		p.Envelope = make([]float64, len(p.Times))
	}
	for k := range p.Envelope {
		p.Envelope[k] = 1
	}
}
