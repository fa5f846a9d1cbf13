package biquad

import (
	"math"
	"math/cmplx"
)

// Response computes the complex frequency response H(e^jw) at the given
// frequency (Hz) and sample rate (Hz).
func (c *Coefficients) Response(freqHz, sampleRate float64) complex128 {
	return c.ResponseAt(2 * math.Pi * freqHz / sampleRate)
}

// ResponseAt computes H(e^jw) for w in radians per sample.
func (c *Coefficients) ResponseAt(w float64) complex128 {
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := cmplx.Exp(complex(0, -2*w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(c.A0, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w
	return num / den
}

// MagnitudeSquared returns |H(f)|^2 using a closed-form expression.
func (c *Coefficients) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	return c.MagnitudeSquaredAt(2 * math.Pi * freqHz / sampleRate)
}

// MagnitudeSquaredAt returns |H(e^jw)|^2 for w in radians per sample.
//
// With cw = 2cos(w), |p0 + p1 z^-1 + p2 z^-2|^2 on the unit circle is
// (p0-p2)^2 + p1^2 + (p1(p0+p2) + p0 p2 cw) cw.
func (c *Coefficients) MagnitudeSquaredAt(w float64) float64 {
	cw := 2 * math.Cos(w)
	return polyMagSq(c.B0, c.B1, c.B2, cw) / polyMagSq(c.A0, c.A1, c.A2, cw)
}

func polyMagSq(p0, p1, p2, cw float64) float64 {
	return (p0-p2)*(p0-p2) + p1*p1 + (p1*(p0+p2)+p0*p2*cw)*cw
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c *Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freqHz, sampleRate))
}

// Phase returns the phase response in radians at the given frequency.
func (c *Coefficients) Phase(freqHz, sampleRate float64) float64 {
	return cmplx.Phase(c.Response(freqHz, sampleRate))
}
