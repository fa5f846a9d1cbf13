package kernel

import (
	"github.com/cwbudde/algo-fxlab/dsp/effects"
	"github.com/cwbudde/algo-fxlab/dsp/effects/dynamics"
	"github.com/cwbudde/algo-fxlab/dsp/filter/biquad"
	"github.com/cwbudde/algo-fxlab/dsp/param"
)

// Shared property names.
const (
	PropType   = "type"
	PropBypass = "bypass"
)

// Property names of the DRC kernel.
const (
	PropNewYorkStyle        = "newYorkStyle"
	PropEnvelopeSubsampling = "envelopeSubsampling"
)

var eqDescription = Description{
	Name:       "eq",
	Parameters: biquad.Descriptors(),
	Properties: []string{PropType, PropBypass},
}

type eqKernel struct {
	f *biquad.Filter
}

func newEQ(_ Context) (Kernel, error) {
	f, err := biquad.NewFilter(biquad.Lowpass)
	if err != nil {
		return nil, err
	}
	return &eqKernel{f: f}, nil
}

func (k *eqKernel) Describe() Description { return eqDescription }

func (k *eqKernel) SetProperty(name string, v param.Value) error {
	switch name {
	case PropType:
		if v.Kind == param.KindNumber {
			n, err := intValue(v)
			if err != nil {
				return err
			}
			return k.f.SetType(biquad.Type(n))
		}
		return k.f.SetTypeName(v.AsString())
	case PropBypass:
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		k.f.SetBypass(b)
		return nil
	default:
		return unknownProperty(eqDescription.Name, name)
	}
}

func (k *eqKernel) Process(in, out [][]float64, p param.Block) bool {
	k.f.Process(in, out, p[biquad.ParamOmegaC], p[biquad.ParamGain], p[biquad.ParamQ])
	return true
}

var drcDescription = Description{
	Name:       "drc",
	Parameters: dynamics.Descriptors(),
	Properties: []string{PropBypass, PropNewYorkStyle, PropEnvelopeSubsampling},
}

type drcKernel struct {
	d *dynamics.DRC
}

func newDRC(ctx Context) (Kernel, error) {
	var opts []dynamics.Option
	if ctx.Envelopes != nil {
		opts = append(opts, dynamics.WithEnvelopeChannel(ctx.Envelopes))
	}

	d, err := dynamics.NewDRC(opts...)
	if err != nil {
		return nil, err
	}

	return &drcKernel{d: d}, nil
}

func (k *drcKernel) Describe() Description { return drcDescription }

func (k *drcKernel) SetProperty(name string, v param.Value) error {
	switch name {
	case PropBypass:
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		k.d.SetBypass(b)
	case PropNewYorkStyle:
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		k.d.SetNewYorkStyle(b)
	case PropEnvelopeSubsampling:
		n, err := intValue(v)
		if err != nil {
			return err
		}
		return k.d.SetEnvelopeSubsampling(n)
	default:
		return unknownProperty(drcDescription.Name, name)
	}
	return nil
}

func (k *drcKernel) Process(in, out [][]float64, p param.Block) bool {
	k.d.Process(in, out,
		p[dynamics.ParamLimiterThreshold],
		p[dynamics.ParamLimiterLevel],
		p[dynamics.ParamNoiseThreshold],
		p[dynamics.ParamCompressionRatio],
	)
	return true
}

var distortionDescription = Description{
	Name:       "distortion",
	Parameters: effects.SigmoidDescriptors(),
}

type distortionKernel struct {
	s *effects.Sigmoid
}

func newDistortion(_ Context) (Kernel, error) {
	return &distortionKernel{s: effects.NewSigmoid()}, nil
}

func (k *distortionKernel) Describe() Description { return distortionDescription }

func (k *distortionKernel) SetProperty(name string, _ param.Value) error {
	return unknownProperty(distortionDescription.Name, name)
}

func (k *distortionKernel) Process(in, out [][]float64, p param.Block) bool {
	k.s.Process(in, out, p[effects.ParamInputGain], p[effects.ParamOutputGain])
	return true
}
