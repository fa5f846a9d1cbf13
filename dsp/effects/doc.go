// Package effects provides reusable non-I/O DSP effect kernels.
//
// Subpackages:
//   - github.com/cwbudde/algo-fxlab/dsp/effects/dynamics
//   - github.com/cwbudde/algo-fxlab/dsp/effects/modulation
//   - github.com/cwbudde/algo-fxlab/dsp/effects/reverb
//
// Effects remaining in this package:
//   - Sigmoid: logistic waveshaping distortion with automatable gains.
//
// All effects are designed for real-time processing with zero-allocation
// hot paths.
package effects
