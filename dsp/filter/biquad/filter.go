//nolint:funcorder
package biquad

import (
	"fmt"

	"github.com/cwbudde/algo-fxlab/dsp/param"
)

// Parameter names and defaults of the equalizer kernel.
const (
	ParamOmegaC = "omegaC"
	ParamGain   = "gain"
	ParamQ      = "Q"
)

// Descriptors lists the automatable parameters of [Filter].
func Descriptors() []param.Descriptor {
	return []param.Descriptor{
		{Name: ParamOmegaC, Default: 1, Min: 0, Max: 3.1},
		{Name: ParamGain, Default: 1, Min: 1e-3, Max: 1e3},
		{Name: ParamQ, Default: 1, Min: 0.1, Max: 100},
	}
}

// Filter is a multi-channel biquad running Direct Form II:
//
//	tmp  = (x - a1*s0 - a2*s1) / a0
//	y    = b0*tmp + b1*s0 + b2*s1
//	s1, s0 = s0, tmp
//
// While bypassed, y = x but the state keeps tracking the filtered path so
// that leaving bypass is glitch-free.
type Filter struct {
	typ    Type
	bypass bool
	coeffs Coefficients
	state  [][2]float64
}

// NewFilter creates a filter of type t. It passes audio through unchanged
// until the first block computes coefficients.
func NewFilter(t Type) (*Filter, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return &Filter{typ: t, coeffs: Identity}, nil
}

// Type returns the filter type.
func (f *Filter) Type() Type { return f.typ }

// SetType changes the filter type. Coefficients follow on the next block.
func (f *Filter) SetType(t Type) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	f.typ = t
	return nil
}

// SetTypeName parses and sets the filter type. Unknown names leave the
// current type in place and return [ErrUnknownType].
func (f *Filter) SetTypeName(name string) error {
	t, err := ParseType(name)
	if err != nil {
		return err
	}
	f.typ = t
	return nil
}

// Bypass reports whether the filter is bypassed.
func (f *Filter) Bypass() bool { return f.bypass }

// SetBypass enables or disables bypass.
func (f *Filter) SetBypass(b bool) { f.bypass = b }

// Coefficients returns the coefficients used for the last processed sample.
func (f *Filter) Coefficients() Coefficients { return f.coeffs }

// Resize lays out state for channels, resetting it when the count changes.
func (f *Filter) Resize(channels int) {
	if channels == len(f.state) {
		return
	}
	f.state = make([][2]float64, channels)
}

// Reset clears the recursion state.
func (f *Filter) Reset() {
	for i := range f.state {
		f.state[i] = [2]float64{}
	}
}

// Process filters in into out. omegaC, gain and q are length 1 or
// len(in[0]). When all three are constant the coefficients are computed
// once for the block; otherwise they are recomputed for every sample.
func (f *Filter) Process(in, out [][]float64, omegaC, gain, q param.Values) {
	f.Resize(len(in))
	if len(in) == 0 {
		return
	}

	if omegaC.Constant() && gain.Constant() && q.Constant() {
		f.coeffs = Design(f.typ, K(omegaC[0]), gain[0], q[0])
		for ch := range in {
			f.processChannel(ch, in[ch], out[ch])
		}
		return
	}

	for i := range in[0] {
		f.coeffs = Design(f.typ, K(omegaC.At(i)), gain.At(i), q.At(i))
		for ch := range in {
			out[ch][i] = f.tick(ch, in[ch][i])
		}
	}
}

func (f *Filter) processChannel(ch int, src, dst []float64) {
	c := f.coeffs
	s0, s1 := f.state[ch][0], f.state[ch][1]
	for i, x := range src {
		tmp := (x - c.A1*s0 - c.A2*s1) / c.A0
		if f.bypass {
			dst[i] = x
		} else {
			dst[i] = c.B0*tmp + c.B1*s0 + c.B2*s1
		}
		s1 = s0
		s0 = tmp
	}
	f.state[ch] = [2]float64{s0, s1}
}

func (f *Filter) tick(ch int, x float64) float64 {
	c := &f.coeffs
	st := &f.state[ch]
	tmp := (x - c.A1*st[0] - c.A2*st[1]) / c.A0
	y := x
	if !f.bypass {
		y = c.B0*tmp + c.B1*st[0] + c.B2*st[1]
	}
	st[1] = st[0]
	st[0] = tmp
	return y
}

// ProcessSample filters one sample of channel ch with the current
// coefficients.
func (f *Filter) ProcessSample(ch int, x float64) float64 {
	return f.tick(ch, x)
}
