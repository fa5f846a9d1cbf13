// Package biquad provides the parametric equalizer kernel: second-order
// IIR sections designed from a cutoff, a linear gain and a quality factor.
//
// [Design] derives unnormalized coefficients (a0 is kept) from the
// bilinear-transform variable k = tan(omegaC/2) for five filter families.
// Shelving and peaking designs branch on gain >= 1 versus gain < 1 and
// swap numerator and denominator, so boost and cut by the same amount
// have exactly reciprocal magnitude responses.
//
// [Filter] runs the Direct Form II recursion per channel.
package biquad
