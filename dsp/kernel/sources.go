package kernel

import (
	"github.com/cwbudde/algo-fxlab/dsp/effects/modulation"
	"github.com/cwbudde/algo-fxlab/dsp/effects/reverb"
	"github.com/cwbudde/algo-fxlab/dsp/param"
	"github.com/cwbudde/algo-fxlab/dsp/signal"
)

var delaysDescription = Description{
	Name:       "delays",
	Parameters: modulation.Descriptors(),
	Properties: []string{PropType, PropBypass},
}

type delaysKernel struct {
	m *modulation.ModDelay
}

func newDelays(ctx Context) (Kernel, error) {
	m, err := modulation.NewModDelay(ctx.SampleRate, ctx.Channels, modulation.WithRNG(ctx.RNG(0)))
	if err != nil {
		return nil, err
	}
	return &delaysKernel{m: m}, nil
}

func (k *delaysKernel) Describe() Description { return delaysDescription }

func (k *delaysKernel) SetProperty(name string, v param.Value) error {
	switch name {
	case PropType:
		if v.Kind == param.KindNumber {
			n, err := intValue(v)
			if err != nil {
				return err
			}
			return k.m.SetTopology(modulation.Topology(n))
		}
		t, err := modulation.ParseTopology(v.AsString())
		if err != nil {
			return err
		}
		return k.m.SetTopology(t)
	case PropBypass:
		b, err := v.AsBool()
		if err != nil {
			return err
		}
		k.m.SetBypass(b)
		return nil
	default:
		return unknownProperty(delaysDescription.Name, name)
	}
}

func (k *delaysKernel) Process(in, out [][]float64, p param.Block) bool {
	k.m.Process(in, out, p[modulation.ParamDepth], p[modulation.ParamModulationFrequency])
	return true
}

var noiseDescription = Description{
	Name:   "noise",
	Source: true,
}

type noiseKernel struct {
	w *signal.White
}

func newNoise(ctx Context) (Kernel, error) {
	return &noiseKernel{w: signal.NewWhite(signal.WithRNG(ctx.RNG(0)))}, nil
}

func (k *noiseKernel) Describe() Description { return noiseDescription }

func (k *noiseKernel) SetProperty(name string, _ param.Value) error {
	return unknownProperty(noiseDescription.Name, name)
}

func (k *noiseKernel) Process(_, out [][]float64, _ param.Block) bool {
	k.w.Process(out)
	return true
}

var fadeNoiseDescription = Description{
	Name:       "fadenoise",
	Parameters: signal.FadeHoldDescriptors(),
	Source:     true,
}

type fadeNoiseKernel struct {
	f *signal.FadeHold
}

func newFadeNoise(ctx Context) (Kernel, error) {
	f, err := signal.NewFadeHold(ctx.SampleRate, ctx.Channels, signal.WithRNG(ctx.RNG(0)))
	if err != nil {
		return nil, err
	}
	return &fadeNoiseKernel{f: f}, nil
}

func (k *fadeNoiseKernel) Describe() Description { return fadeNoiseDescription }

func (k *fadeNoiseKernel) SetProperty(name string, _ param.Value) error {
	return unknownProperty(fadeNoiseDescription.Name, name)
}

func (k *fadeNoiseKernel) Process(_, out [][]float64, p param.Block) bool {
	k.f.Process(out, p[signal.ParamFadePeriod])
	return true
}

var fastconvDescription = Description{
	Name:       "fastconv",
	Properties: []string{PropBypass},
}

// fastconvKernel is the convolution reverb with a synthetic stereo
// impulse response.
type fastconvKernel struct {
	c *reverb.Convolution
}

func newFastconv(ctx Context) (Kernel, error) {
	ir, err := reverb.SyntheticIRWithEnvelope(ctx.SampleRate, reverb.DefaultIRLength, 2,
		reverb.DefaultEnvelope(reverb.DefaultIRLength), ctx.RNG(0))
	if err != nil {
		return nil, err
	}

	c, err := reverb.NewConvolution(ir, ctx.BlockSize)
	if err != nil {
		return nil, err
	}

	if err := c.Resize(ctx.Channels); err != nil {
		return nil, err
	}

	return &fastconvKernel{c: c}, nil
}

func (k *fastconvKernel) Describe() Description { return fastconvDescription }

func (k *fastconvKernel) SetProperty(name string, v param.Value) error {
	if name != PropBypass {
		return unknownProperty(fastconvDescription.Name, name)
	}

	b, err := v.AsBool()
	if err != nil {
		return err
	}

	k.c.SetBypass(b)

	return nil
}

// Process silences the block if the engine rejects it.
func (k *fastconvKernel) Process(in, out [][]float64, _ param.Block) bool {
	if err := k.c.Process(in, out); err != nil {
		for _, ch := range out {
			clear(ch)
		}
	}
	return true
}
