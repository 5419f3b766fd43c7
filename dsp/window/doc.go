// Package window generates analysis windows for short-time spectral
// processing, including the derivative and time-weighted variants used
// for spectral reassignment, and bundles them into the dual-resolution
// Bank consumed by the spectral engine.
package window
