package dither

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxlab/internal/testutil"
	"github.com/cwbudde/algo-fxlab/measure/noise"
)

func TestNewQuantizerValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"zero word length", []Option{WithWordLength(0)}},
		{"negative word length", []Option{WithWordLength(-4)}},
		{"bad dither type", []Option{WithDitherType(DitherType(99))}},
		{"bad order", []Option{WithShapingOrder(4)}},
		{"bad channels", []Option{WithChannels(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuantizer(tt.opts...)
			require.Error(t, err)
		})
	}

	_, err := NewQuantizer(WithWordLength(0))
	require.ErrorIs(t, err, ErrInvalidWordLength)

	_, err = NewQuantizer(WithShapingOrder(7))
	require.ErrorIs(t, err, ErrInvalidOrder)
}

func TestNewQuantizerDefaults(t *testing.T) {
	quant, err := NewQuantizer(nil)
	require.NoError(t, err)

	assert.Equal(t, 16, quant.WordLength())
	assert.Equal(t, math.Exp2(-15), quant.Step())
	assert.Equal(t, DitherNone, quant.DitherType())
	assert.Equal(t, 0, quant.ShapingOrder())
	assert.Equal(t, 1, quant.Channels())
}

func TestStep(t *testing.T) {
	assert.Equal(t, 0.0078125, Step(8))
	assert.Equal(t, 1.0, Step(1))
	assert.Equal(t, 2.0, Step(0))
}

func TestQuantizerSilence(t *testing.T) {
	quant, err := NewQuantizer(WithWordLength(16), WithChannels(2))
	require.NoError(t, err)

	in := [][]float64{make([]float64, 256), make([]float64, 256)}
	out := [][]float64{testutil.Ones(256), testutil.Ones(256)}
	quant.ProcessBlock(in, out)

	for ch := range out {
		for i, v := range out[ch] {
			require.Zerof(t, v, "ch %d sample %d", ch, i)
		}
	}
}

func TestQuantizerConstantInput(t *testing.T) {
	quant, err := NewQuantizer(WithWordLength(8))
	require.NoError(t, err)

	const qt = 0.0078125
	want := math.Round(0.37/qt) * qt

	buf := testutil.DC(0.37, 64)
	quant.ProcessInPlace(buf)

	for i, v := range buf {
		require.Equalf(t, want, v, "sample %d", i)
	}
}

func TestQuantizerIdempotent(t *testing.T) {
	quant, err := NewQuantizer(WithWordLength(10))
	require.NoError(t, err)

	step := quant.Step()
	rng := rand.New(rand.NewPCG(3, 4))
	buf := make([]float64, 512)
	for i := range buf {
		buf[i] = float64(rng.IntN(1024)-512) * step
	}
	want := append([]float64(nil), buf...)

	quant.ProcessInPlace(buf)
	assert.Equal(t, want, buf)
}

func TestQuantizerDeterministic(t *testing.T) {
	for _, dt := range []DitherType{DitherRectangular, DitherTriangular, DitherHighPass} {
		t.Run(dt.String(), func(t *testing.T) {
			run := func() []float64 {
				quant, err := NewQuantizer(
					WithWordLength(8),
					WithDitherType(dt),
					WithShapingOrder(5),
					WithRNG(rand.New(rand.NewPCG(42, 0))),
				)
				require.NoError(t, err)

				buf := testutil.DeterministicSine(1000, 44100, 0.5, 1024)
				quant.ProcessInPlace(buf)
				return buf
			}

			assert.Equal(t, run(), run())
		})
	}
}

func TestQuantizerOutputOnGrid(t *testing.T) {
	quant, err := NewQuantizer(
		WithWordLength(6),
		WithDitherType(DitherTriangular),
		WithShapingOrder(9),
		WithRNG(rand.New(rand.NewPCG(1, 2))),
	)
	require.NoError(t, err)

	buf := testutil.DeterministicNoise(7, 0.8, 2048)
	quant.ProcessInPlace(buf)

	for i, v := range buf {
		k := v / quant.Step()
		require.InDeltaf(t, math.Round(k), k, 1e-9, "sample %d", i)
	}
}

func TestNoiseShapingMovesErrorUpward(t *testing.T) {
	const fs = 44100
	in := testutil.DeterministicSine(1000, fs, 0.5, 8192)

	ratio := func(order int) float64 {
		quant, err := NewQuantizer(
			WithWordLength(8),
			WithDitherType(DitherRectangular),
			WithShapingOrder(order),
			WithRNG(rand.New(rand.NewPCG(9, 9))),
		)
		require.NoError(t, err)

		out := append([]float64(nil), in...)
		quant.ProcessInPlace(out)

		e, err := noise.Error(in, out)
		require.NoError(t, err)

		b, err := noise.BandEnergy(e, fs, fs/4)
		require.NoError(t, err)

		return b.Ratio()
	}

	r1 := ratio(1)
	r3 := ratio(3)
	r5 := ratio(5)
	r9 := ratio(9)

	assert.Less(t, r3, r1/2)
	assert.Less(t, r5, r1/5)
	assert.Less(t, r9, r1/20)
}

func TestShapingOrderChangeResetsHistory(t *testing.T) {
	quant, err := NewQuantizer(WithWordLength(4), WithShapingOrder(2))
	require.NoError(t, err)

	quant.ProcessInPlace(testutil.DC(0.3, 16))
	assert.NotZero(t, quant.shaper.History(0)[0])

	require.NoError(t, quant.SetShapingOrder(3))
	assert.Equal(t, []float64{0, 0, 0}, quant.shaper.History(0))

	require.NoError(t, quant.SetShapingOrder(0))
	assert.Equal(t, 0, quant.ShapingOrder())
	require.ErrorIs(t, quant.SetShapingOrder(6), ErrInvalidOrder)
}

func TestChannelCountChangeResetsHistory(t *testing.T) {
	quant, err := NewQuantizer(WithWordLength(4), WithShapingOrder(1), WithChannels(2))
	require.NoError(t, err)

	in := [][]float64{testutil.DC(0.3, 8), testutil.DC(0.3, 8)}
	out := [][]float64{make([]float64, 8), make([]float64, 8)}
	quant.ProcessBlock(in, out)
	assert.NotZero(t, quant.shaper.History(1)[0])

	// Channel-count change: fresh state must produce the same first block.
	mono := [][]float64{testutil.DC(0.3, 8)}
	monoOut := [][]float64{make([]float64, 8)}
	quant.ProcessBlock(mono, monoOut)
	assert.Equal(t, 1, quant.Channels())
	assert.Equal(t, out[0], monoOut[0])
}

func TestSetWordLength(t *testing.T) {
	quant, err := NewQuantizer()
	require.NoError(t, err)

	require.ErrorIs(t, quant.SetWordLength(0), ErrInvalidWordLength)
	require.NoError(t, quant.SetWordLength(8))
	assert.Equal(t, 0.0078125, quant.Step())
}

func TestQuantize(t *testing.T) {
	assert.Equal(t, 0.5, Quantize(0.3, 0.5))
	assert.Equal(t, 0.0, Quantize(0.2, 0.5))
	assert.Equal(t, 0.5, Quantize(0.25, 0.5))
	assert.Equal(t, 0.0, Quantize(-0.25, 0.5))
}
