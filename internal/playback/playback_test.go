package playback

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxlab/dsp/core"
	"github.com/cwbudde/algo-fxlab/dsp/effects"
	"github.com/cwbudde/algo-fxlab/dsp/kernel"
	"github.com/cwbudde/algo-fxlab/dsp/param"
	"github.com/cwbudde/algo-fxlab/dsp/signal"
	"github.com/cwbudde/algo-fxlab/dsp/spectrum"
)

const testBlock = 64

func openHost(t *testing.T, name string) *kernel.Host {
	t.Helper()
	ctx := kernel.NewContext(core.WithBlockSize(testBlock), core.WithChannels(2), core.WithSeed(1))
	h, err := kernel.Open(kernel.DefaultRegistry(), name, ctx)
	require.NoError(t, err)
	return h
}

// readSamples decodes n interleaved samples, reading in awkward chunk sizes.
func readSamples(t *testing.T, r io.Reader, n int) []float32 {
	t.Helper()
	buf := make([]byte, 0, n*4)
	chunk := make([]byte, 6)
	for len(buf) < n*4 {
		want := min(len(chunk), n*4-len(buf))
		if want < 4 {
			want = 4
		}
		got, err := r.Read(chunk[:want])
		require.NoError(t, err)
		require.Zero(t, got%4)
		buf = append(buf, chunk[:got]...)
	}
	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return out
}

func TestSilence(t *testing.T) {
	out := [][]float64{{1, 2}, {3, 4}}
	Silence{}.Render(out)
	assert.Equal(t, [][]float64{{0, 0}, {0, 0}}, out)
}

func TestToneIsSine(t *testing.T) {
	tone, err := NewTone(48000, 1000, 0.5)
	require.NoError(t, err)

	out := [][]float64{make([]float64, 48), make([]float64, 48)}
	tone.Render(out)

	peak := 0.0
	for i := range out[0] {
		assert.Equal(t, out[0][i], out[1][i])
		peak = max(peak, math.Abs(out[0][i]))
	}
	assert.InDelta(t, 0.5, peak, 1e-3)

	_, err = NewTone(48000, -1, 1)
	require.Error(t, err)
}

func TestNoiseAmplitude(t *testing.T) {
	n := NewNoise(0.25)
	out := [][]float64{make([]float64, 512)}
	n.Render(out)

	nonzero := false
	for _, v := range out[0] {
		assert.LessOrEqual(t, math.Abs(v), 0.25)
		nonzero = nonzero || v != 0
	}
	assert.True(t, nonzero)
}

func TestLoopWraps(t *testing.T) {
	l, err := NewLoop([][]float64{{1, 2, 3}})
	require.NoError(t, err)

	out := [][]float64{make([]float64, 5), make([]float64, 5)}
	l.Render(out)
	assert.Equal(t, []float64{1, 2, 3, 1, 2}, out[0])
	assert.Equal(t, out[0], out[1])

	l.Render(out)
	assert.Equal(t, []float64{3, 1, 2, 3, 1}, out[0])

	_, err = NewLoop(nil)
	require.Error(t, err)
	_, err = NewLoop([][]float64{{1}, {1, 2}})
	require.Error(t, err)
}

func TestRendererPassesBypassedLoop(t *testing.T) {
	h := openHost(t, "eq")
	require.NoError(t, h.Post(kernel.PropBypass, param.Bool(true)))

	data := [][]float64{make([]float64, 100), make([]float64, 100)}
	for i := range data[0] {
		data[0][i] = float64(i%16) / 8
		data[1][i] = -float64(i%16) / 8
	}
	loop, err := NewLoop(data)
	require.NoError(t, err)

	r, err := NewRenderer(h, loop)
	require.NoError(t, err)

	const frames = 3 * testBlock
	got := readSamples(t, r, frames*2)
	for i := range frames {
		want := float32(data[0][i%100])
		require.Equal(t, want, got[2*i], "frame %d", i)
		require.Equal(t, -want, got[2*i+1], "frame %d", i)
	}
}

func TestRendererParameters(t *testing.T) {
	h := openHost(t, "distortion")
	tone, err := NewTone(48000, 440, 0.8)
	require.NoError(t, err)

	r, err := NewRenderer(h, tone, WithRampTime(0))
	require.NoError(t, err)

	v, ok := r.Parameter(effects.ParamOutputGain)
	require.True(t, ok)
	assert.InDelta(t, 1.0, v, 0)

	require.ErrorIs(t, r.SetParameter("drive", 2), ErrUnknownParameter)
	require.Error(t, r.SetParameter(effects.ParamOutputGain, math.NaN()))
	require.ErrorIs(t, r.SetParameters(map[string]float64{
		effects.ParamOutputGain: 0,
		"drive":                 2,
	}), ErrUnknownParameter)
	v, _ = r.Parameter(effects.ParamOutputGain)
	assert.InDelta(t, 1.0, v, 0)

	out := [][]float64{make([]float64, testBlock), make([]float64, testBlock)}
	require.True(t, r.ReadBlock(out))
	assert.NotZero(t, out[0][testBlock/2])

	require.NoError(t, r.SetParameter(effects.ParamOutputGain, 0))
	require.True(t, r.ReadBlock(out))
	for _, ch := range out {
		for _, s := range ch {
			require.Zero(t, s)
		}
	}
}

func TestRendererRampsSmoothly(t *testing.T) {
	h := openHost(t, "distortion")
	r, err := NewRenderer(h, NewNoise(0.5, signal.WithRNG(kernel.NewContext(core.WithSeed(3)).RNG(0))))
	require.NoError(t, err)

	require.NoError(t, r.SetParameter(effects.ParamOutputGain, 0.5))

	// 50 ms at 48 kHz is 2400 samples, so after one block the ramp is
	// still close to its start.
	require.True(t, r.ReadBlock([][]float64{make([]float64, testBlock), make([]float64, testBlock)}))
	assert.InDelta(t, 0.5, r.ramps[1].Target(), 0)
	assert.Greater(t, r.ramps[1].Value(), 0.95)
	assert.False(t, r.ramps[1].Settled())
}

func TestRendererFeedsAnalyser(t *testing.T) {
	h := openHost(t, "eq")
	require.NoError(t, h.Post(kernel.PropBypass, param.Bool(true)))

	a, err := spectrum.NewAnalyser(spectrum.WithFFTSize(256), spectrum.WithSmoothing(0))
	require.NoError(t, err)

	tone, err := NewTone(48000, 48000.0*32/256, 1)
	require.NoError(t, err)

	r, err := NewRenderer(h, tone, WithAnalyser(a))
	require.NoError(t, err)

	out := [][]float64{make([]float64, testBlock), make([]float64, testBlock)}
	for range 4 {
		require.True(t, r.ReadBlock(out))
	}

	db := make([]float64, a.FrequencyBinCount())
	a.FloatFrequencyData(db)
	peak := 0
	for i := range db {
		if db[i] > db[peak] {
			peak = i
		}
	}
	assert.Equal(t, 32, peak)
}

func TestRendererEOFAfterClose(t *testing.T) {
	h := openHost(t, "distortion")
	r, err := NewRenderer(h, Silence{})
	require.NoError(t, err)

	readSamples(t, r, 10)
	require.NoError(t, h.Close())

	buf := make([]byte, 4*testBlock*2)
	n, err := r.Read(buf)
	// The rest of the current block is still delivered.
	require.NoError(t, err)
	assert.Equal(t, (testBlock*2-10)*4, n)

	n, err = r.Read(buf)
	assert.Zero(t, n)
	require.ErrorIs(t, err, io.EOF)
	assert.False(t, r.ReadBlock([][]float64{make([]float64, testBlock)}))
}

func TestNewRendererValidates(t *testing.T) {
	h := openHost(t, "eq")
	_, err := NewRenderer(nil, Silence{})
	require.Error(t, err)
	_, err = NewRenderer(h, nil)
	require.Error(t, err)
	_, err = NewRenderer(h, Silence{}, WithRampTime(-1))
	require.Error(t, err)
}
