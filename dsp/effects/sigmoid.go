package effects

import (
	"math"

	"github.com/cwbudde/algo-fxlab/dsp/core"
	"github.com/cwbudde/algo-fxlab/dsp/param"
)

// Parameter names of the sigmoid kernel.
const (
	ParamInputGain  = "inputGain"
	ParamOutputGain = "outputGain"
)

const (
	maxSigmoidInputGain  = 1000.0
	maxSigmoidOutputGain = 2.0
)

// MinSigmoidInputGain is the smallest input gain reachable from the
// transfer-curve marker: ln 3, placing the marker at x = 1.
var MinSigmoidInputGain = math.Log(3)

// SigmoidDescriptors lists the automatable parameters of [Sigmoid].
func SigmoidDescriptors() []param.Descriptor {
	return []param.Descriptor{
		{Name: ParamInputGain, Default: 1, Min: 0, Max: maxSigmoidInputGain},
		{Name: ParamOutputGain, Default: 1, Min: 0, Max: maxSigmoidOutputGain},
	}
}

// SigmoidTransfer evaluates the logistic waveshaper
//
//	y = outGain * (2 / (1 + exp(-x*inGain)) - 1)
//
// which is odd in x and bounded by |outGain|.
func SigmoidTransfer(x, inGain, outGain float64) float64 {
	return outGain * (2/(1+math.Exp(-x*inGain)) - 1)
}

// ClampSigmoidGains bounds a gain pair to the editable range: inGain in
// [ln 3, 1000] and outGain in [0, 2]. A negative or non-finite inGain maps
// to the maximum.
func ClampSigmoidGains(inGain, outGain float64) (float64, float64) {
	switch {
	case math.IsNaN(inGain) || inGain < 0 || inGain > maxSigmoidInputGain:
		inGain = maxSigmoidInputGain
	case inGain < MinSigmoidInputGain:
		inGain = MinSigmoidInputGain
	}
	if math.IsNaN(outGain) {
		outGain = 0
	}
	return inGain, core.Clamp(outGain, 0, maxSigmoidOutputGain)
}

// SigmoidMarker returns the point of the transfer curve where the output
// reaches half of outGain. It is the handle used to edit the curve.
func SigmoidMarker(inGain, outGain float64) (x, y float64) {
	return MinSigmoidInputGain / inGain, 0.5 * outGain
}

// SigmoidGainsFromMarker inverts [SigmoidMarker] and clamps the result.
func SigmoidGainsFromMarker(x, y float64) (inGain, outGain float64) {
	return ClampSigmoidGains(MinSigmoidInputGain/x, 2*y)
}

// Sigmoid is a stateless logistic distortion kernel.
type Sigmoid struct{}

// NewSigmoid returns a sigmoid kernel.
func NewSigmoid() *Sigmoid { return &Sigmoid{} }

// Process shapes every channel of in into out with per-sample gains.
func (s *Sigmoid) Process(in, out [][]float64, inGain, outGain param.Values) {
	for ch := range in {
		src, dst := in[ch], out[ch]
		if inGain.Constant() && outGain.Constant() {
			gIn, gOut := inGain[0], outGain[0]
			for i, x := range src {
				dst[i] = SigmoidTransfer(x, gIn, gOut)
			}
			continue
		}
		for i, x := range src {
			dst[i] = SigmoidTransfer(x, inGain.At(i), outGain.At(i))
		}
	}
}

// Reset is a no-op; the kernel has no state.
func (s *Sigmoid) Reset() {}
