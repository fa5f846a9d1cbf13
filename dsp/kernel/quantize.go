package kernel

import (
	"github.com/cwbudde/algo-fxlab/dsp/dither"
	"github.com/cwbudde/algo-fxlab/dsp/oversample"
	"github.com/cwbudde/algo-fxlab/dsp/param"
)

// Property names of the quantizer kernels.
const (
	PropWordLength         = "w"
	PropDither             = "dither"
	PropDitherType         = "dithertype"
	PropNoiseShaping       = "noiseshaping"
	PropNoiseShapingFilter = "noiseshapingfilter"
	PropOversampling       = "oversamplingfactor"
)

var qdsDescription = Description{
	Name:       "qds",
	Properties: []string{PropWordLength, PropDither, PropDitherType, PropNoiseShaping, PropNoiseShapingFilter},
}

// qdsKernel quantizes at the stream rate. Dither and noise shaping each
// have an on/off switch separate from their type so toggling them keeps
// the selection. The shaping error history runs while shaping is off.
type qdsKernel struct {
	q *dither.Quantizer

	ditherOn   bool
	ditherType dither.DitherType
	shapingOn  bool
	order      int
}

func newQDS(ctx Context) (Kernel, error) {
	q, err := dither.NewQuantizer(
		dither.WithChannels(ctx.Channels),
		dither.WithShapingOrder(1),
		dither.WithRNG(ctx.RNG(0)),
	)
	if err != nil {
		return nil, err
	}

	return &qdsKernel{
		q:          q,
		ditherType: dither.DitherRectangular,
		shapingOn:  true,
		order:      1,
	}, nil
}

func (k *qdsKernel) Describe() Description { return qdsDescription }

func (k *qdsKernel) SetProperty(name string, v param.Value) error {
	switch name {
	case PropWordLength:
		w, err := intValue(v)
		if err != nil {
			return err
		}
		return k.q.SetWordLength(w)
	case PropDither:
		on, err := v.AsBool()
		if err != nil {
			return err
		}
		k.ditherOn = on
		return k.applyDither()
	case PropDitherType:
		dt, err := ditherValue(v)
		if err != nil {
			return err
		}
		k.ditherType = dt
		return k.applyDither()
	case PropNoiseShaping:
		on, err := v.AsBool()
		if err != nil {
			return err
		}
		k.shapingOn = on
		return k.applyShaping()
	case PropNoiseShapingFilter:
		order, err := intValue(v)
		if err != nil {
			return err
		}
		if _, err := dither.ShapingCoefficients(order); err != nil {
			return err
		}
		k.order = order
		return k.applyShaping()
	default:
		return unknownProperty(qdsDescription.Name, name)
	}
}

func (k *qdsKernel) applyDither() error {
	if !k.ditherOn {
		return k.q.SetDitherType(dither.DitherNone)
	}
	return k.q.SetDitherType(k.ditherType)
}

func (k *qdsKernel) applyShaping() error {
	if err := k.q.SetShapingOrder(k.order); err != nil {
		return err
	}
	k.q.SetShapingEnabled(k.shapingOn)
	return nil
}

func (k *qdsKernel) Process(in, out [][]float64, _ param.Block) bool {
	k.q.ProcessBlock(in, out)
	return true
}

var ovsDescription = Description{
	Name:       "ovs",
	Properties: []string{PropWordLength, PropDitherType, PropNoiseShapingFilter, PropOversampling},
}

type ovsKernel struct {
	k *oversample.Kernel
}

func newOVS(ctx Context) (Kernel, error) {
	k, err := oversample.New(oversample.WithRNG(ctx.RNG(0)))
	if err != nil {
		return nil, err
	}

	k.Resize(ctx.Channels)
	k.Workbuffer(ctx.BlockSize)

	return &ovsKernel{k: k}, nil
}

func (o *ovsKernel) Describe() Description { return ovsDescription }

func (o *ovsKernel) SetProperty(name string, v param.Value) error {
	switch name {
	case PropWordLength:
		w, err := intValue(v)
		if err != nil {
			return err
		}
		return o.k.SetWordLength(w)
	case PropDitherType:
		dt, err := ditherValue(v)
		if err != nil {
			return err
		}
		return o.k.SetDither(dt)
	case PropNoiseShapingFilter:
		order, err := intValue(v)
		if err != nil {
			return err
		}
		return o.k.SetNsN(order)
	case PropOversampling:
		l, err := intValue(v)
		if err != nil {
			return err
		}
		return o.k.SetL(l)
	default:
		return unknownProperty(ovsDescription.Name, name)
	}
}

// Process silences a channel the oversampler rejects.
func (o *ovsKernel) Process(in, out [][]float64, _ param.Block) bool {
	o.k.Resize(len(in))

	for ch, src := range in {
		work := o.k.Workbuffer(len(src))
		copy(work, src)
		if err := o.k.ProcessBlock(ch, len(src)); err != nil {
			clear(out[ch])
			continue
		}
		copy(out[ch], work)
	}

	return true
}
