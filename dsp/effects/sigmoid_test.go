package effects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxlab/dsp/param"
	"github.com/cwbudde/algo-fxlab/internal/testutil"
)

func TestSigmoidTransfer(t *testing.T) {
	assert.Equal(t, 0.0, SigmoidTransfer(0, 5, 1.5))

	// Odd symmetry.
	for _, x := range []float64{0.01, 0.3, 1, 7} {
		assert.InDelta(t, -SigmoidTransfer(x, 2, 1), SigmoidTransfer(-x, 2, 1), 1e-15)
	}

	// Marker point: half of outGain at x = ln3/inGain.
	x, y := SigmoidMarker(4, 1.2)
	assert.InDelta(t, y, SigmoidTransfer(x, 4, 1.2), 1e-12)
	assert.InDelta(t, 0.6, y, 1e-15)
}

func TestSigmoidBounded(t *testing.T) {
	s := NewSigmoid()
	x := testutil.DeterministicNoise(11, 50, 4096)
	out := testutil.Planar(1, len(x))
	s.Process([][]float64{x}, out, param.Values{1000}, param.Values{0.8})
	testutil.RequireBounded(t, out[0], 0.8)
	assert.InDelta(t, 0.8, testutil.Peak(out[0]), 1e-6)
}

func TestSigmoidAutomatedGains(t *testing.T) {
	s := NewSigmoid()
	const n = 64
	x := testutil.DC(0.5, n)
	inGain := make(param.Values, n)
	for i := range inGain {
		inGain[i] = 1 + float64(i)
	}
	out := testutil.Planar(2, n)
	s.Process([][]float64{x, x}, out, inGain, param.Values{1})

	for i := 1; i < n; i++ {
		require.Greater(t, out[0][i], out[0][i-1])
	}
	assert.Equal(t, out[0], out[1])
	assert.InDelta(t, SigmoidTransfer(0.5, 1, 1), out[0][0], 1e-15)
}

func TestClampSigmoidGains(t *testing.T) {
	tests := []struct {
		name            string
		in, out         float64
		wantIn, wantOut float64
	}{
		{name: "inside", in: 3, out: 1, wantIn: 3, wantOut: 1},
		{name: "small input gain", in: 0.5, out: 1, wantIn: math.Log(3), wantOut: 1},
		{name: "large input gain", in: 5000, out: 1, wantIn: 1000, wantOut: 1},
		{name: "negative input gain", in: -2, out: 1, wantIn: 1000, wantOut: 1},
		{name: "infinite input gain", in: math.Inf(1), out: 1, wantIn: 1000, wantOut: 1},
		{name: "output above", in: 3, out: 5, wantIn: 3, wantOut: 2},
		{name: "output below", in: 3, out: -1, wantIn: 3, wantOut: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotIn, gotOut := ClampSigmoidGains(tt.in, tt.out)
			assert.InDelta(t, tt.wantIn, gotIn, 1e-15)
			assert.InDelta(t, tt.wantOut, gotOut, 1e-15)
		})
	}
}

func TestSigmoidGainsFromMarker(t *testing.T) {
	in, out := SigmoidGainsFromMarker(0.5, 0.4)
	assert.InDelta(t, 2*math.Log(3), in, 1e-12)
	assert.InDelta(t, 0.8, out, 1e-15)

	x, y := SigmoidMarker(in, out)
	assert.InDelta(t, 0.5, x, 1e-12)
	assert.InDelta(t, 0.4, y, 1e-15)

	in, _ = SigmoidGainsFromMarker(0, 0.4)
	assert.Equal(t, 1000.0, in)
}

func BenchmarkSigmoidProcess(b *testing.B) {
	s := NewSigmoid()
	x := testutil.DeterministicNoise(1, 1, 512)
	out := testutil.Planar(1, 512)
	in := [][]float64{x}
	g := param.Values{4}
	for b.Loop() {
		s.Process(in, out, g, g)
	}
}
