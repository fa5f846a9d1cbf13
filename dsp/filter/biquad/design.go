package biquad

import "math"

// Coefficients holds the transfer function
//
//	H(z) = (B0 + B1 z^-1 + B2 z^-2) / (A0 + A1 z^-1 + A2 z^-2)
//
// A0 is not normalized to 1.
type Coefficients struct {
	B0, B1, B2 float64
	A0, A1, A2 float64
}

// Identity is the pass-through section.
var Identity = Coefficients{B0: 1, A0: 1}

// Normalized returns c scaled so that A0 == 1.
func (c Coefficients) Normalized() Coefficients {
	inv := 1 / c.A0
	return Coefficients{
		B0: c.B0 * inv, B1: c.B1 * inv, B2: c.B2 * inv,
		A0: 1, A1: c.A1 * inv, A2: c.A2 * inv,
	}
}

// K returns the bilinear-transform variable tan(omegaC/2) for a cutoff
// given in radians per sample.
func K(omegaC float64) float64 {
	return math.Tan(omegaC / 2)
}

// OmegaC converts a cutoff in Hz to radians per sample.
func OmegaC(freqHz, sampleRate float64) float64 {
	return 2 * math.Pi * freqHz / sampleRate
}

// Design computes the coefficients of type t for bilinear variable k,
// linear gain and quality factor q. Lowpass and highpass ignore gain and
// q, the shelves ignore q. An invalid type yields [Identity].
func Design(t Type, k, gain, q float64) Coefficients {
	switch t {
	case Lowpass:
		return lowpass(k)
	case Highpass:
		return highpass(k)
	case LowShelf:
		return lowShelf(k, gain)
	case HighShelf:
		return highShelf(k, gain)
	case Peak:
		return peak(k, gain, q)
	default:
		return Identity
	}
}

// butterworth is the shared second-order Butterworth denominator.
func butterworth(k, k2 float64) (a0, a1, a2 float64) {
	return 1 + math.Sqrt2*k + k2, 2 * (k2 - 1), 1 - math.Sqrt2*k + k2
}

func lowpass(k float64) Coefficients {
	k2 := k * k
	a0, a1, a2 := butterworth(k, k2)
	return Coefficients{B0: k2, B1: 2 * k2, B2: k2, A0: a0, A1: a1, A2: a2}
}

func highpass(k float64) Coefficients {
	k2 := k * k
	a0, a1, a2 := butterworth(k, k2)
	return Coefficients{B0: 1, B1: -2, B2: 1, A0: a0, A1: a1, A2: a2}
}

func lowShelf(k, gain float64) Coefficients {
	k2 := k * k
	a0, a1, a2 := butterworth(k, k2)
	if gain >= 1 {
		b0, b1, b2 := lowShelfPoly(k, k2, gain)
		return Coefficients{B0: b0, B1: b1, B2: b2, A0: a0, A1: a1, A2: a2}
	}
	b0, b1, b2 := lowShelfPoly(k, k2, 1/gain)
	return Coefficients{B0: a0, B1: a1, B2: a2, A0: b0, A1: b1, A2: b2}
}

func lowShelfPoly(k, k2, v float64) (p0, p1, p2 float64) {
	s := math.Sqrt(2*v) * k
	return 1 + s + v*k2, 2 * (-1 + v*k2), 1 - s + v*k2
}

func highShelf(k, gain float64) Coefficients {
	k2 := k * k
	a0, a1, a2 := butterworth(k, k2)
	if gain >= 1 {
		b0, b1, b2 := highShelfPoly(k, k2, gain)
		return Coefficients{B0: b0, B1: b1, B2: b2, A0: a0, A1: a1, A2: a2}
	}
	b0, b1, b2 := highShelfPoly(k, k2, 1/gain)
	return Coefficients{B0: a0, B1: a1, B2: a2, A0: b0, A1: b1, A2: b2}
}

func highShelfPoly(k, k2, v float64) (p0, p1, p2 float64) {
	s := math.Sqrt(2*v) * k
	return v + s + k2, 2 * (-v + k2), v - s + k2
}

func peak(k, gain, q float64) Coefficients {
	k2 := k * k
	if gain >= 1 {
		b0, b1, b2 := peakPoly(k, k2, gain/q)
		a0, a1, a2 := peakPoly(k, k2, 1/q)
		return Coefficients{B0: b0, B1: b1, B2: b2, A0: a0, A1: a1, A2: a2}
	}
	b0, b1, b2 := peakPoly(k, k2, 1/q)
	a0, a1, a2 := peakPoly(k, k2, (1/gain)/q)
	return Coefficients{B0: b0, B1: b1, B2: b2, A0: a0, A1: a1, A2: a2}
}

func peakPoly(k, k2, w float64) (p0, p1, p2 float64) {
	return 1 + w*k + k2, 2 * (-1 + k2), 1 - w*k + k2
}
