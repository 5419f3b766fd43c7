// Package partials turns sequences of short-time spectra into continuous
// sinusoidal trajectories via peak picking, frequency-band balancing,
// greedy frame-to-frame continuation, phase unwrapping, and energy-based
// pruning. Extraction is a pure function from frames and thresholds to
// trajectories; the package holds no state across calls.
package partials
