// Package noise measures how quantization noise is distributed over the
// spectrum. It is used to verify and report the effect of noise shaping.
package noise

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrShortSignal is returned for signals too short to split into bands.
var ErrShortSignal = errors.New("noise: signal too short")

// Bands holds the spectral energy below and above a split frequency.
// DC is excluded from both.
type Bands struct {
	SplitHz float64
	Low     float64
	High    float64
}

// Ratio returns Low/High. It is +Inf when High is zero.
func (b Bands) Ratio() float64 {
	if b.High == 0 {
		return math.Inf(1)
	}
	return b.Low / b.High
}

// RatioDB returns the band ratio in dB.
func (b Bands) RatioDB() float64 {
	return 10 * math.Log10(b.Ratio())
}

// BandEnergy computes the energy of x below and above splitHz.
func BandEnergy(x []float64, sampleRate, splitHz float64) (Bands, error) {
	if len(x) < 4 {
		return Bands{}, fmt.Errorf("%w: %d samples", ErrShortSignal, len(x))
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Bands{}, fmt.Errorf("noise: sample rate must be > 0 and finite: %f", sampleRate)
	}
	if splitHz <= 0 || splitHz >= sampleRate/2 {
		return Bands{}, fmt.Errorf("noise: split frequency must be in (0, %f): %f", sampleRate/2, splitHz)
	}

	fft := fourier.NewFFT(len(x))
	coeffs := fft.Coefficients(nil, x)

	split := int(math.Round(splitHz / sampleRate * float64(len(x))))
	b := Bands{SplitHz: splitHz}

	for k := 1; k < len(coeffs); k++ {
		e := cmplx.Abs(coeffs[k])
		e *= e
		if k < split {
			b.Low += e
		} else {
			b.High += e
		}
	}

	return b, nil
}

// Error returns out - in, the total error a processor added to in.
func Error(in, out []float64) ([]float64, error) {
	if len(in) != len(out) {
		return nil, fmt.Errorf("noise: length mismatch: %d vs %d", len(in), len(out))
	}

	e := make([]float64, len(in))
	for i := range in {
		e[i] = out[i] - in[i]
	}

	return e, nil
}
