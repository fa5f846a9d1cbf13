package dynamics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxlab/dsp/param"
	"github.com/cwbudde/algo-fxlab/internal/testutil"
)

var defaultParams = DefaultKnees.Params()

func processDefaults(d *DRC, in, out [][]float64) {
	d.Process(in, out,
		param.Values{defaultParams.LimiterThreshold},
		param.Values{defaultParams.LimiterLevel},
		param.Values{defaultParams.NoiseThreshold},
		param.Values{defaultParams.CompressionRatio},
	)
}

func TestGainDB(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "limiter", in: -5, want: -5},
		{name: "at 0 dB", in: 0, want: -10},
		{name: "compressor", in: -50, want: 20},
		{name: "limiter knee", in: -10, want: 0},
		{name: "gate", in: -85, want: SilenceDB},
		{name: "noise knee", in: -80, want: SilenceDB},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GainDB(tt.in, defaultParams), 1e-12)
		})
	}
}

func TestStaticCurveMonotonic(t *testing.T) {
	prev := math.Inf(-1)
	for in := -79.9; in <= 0; in += 0.1 {
		out := in + GainDB(in, defaultParams)
		require.GreaterOrEqual(t, out, prev-1e-12, "in=%v", in)
		prev = out
	}
}

func TestStaticCurveKneeContinuity(t *testing.T) {
	const eps = 1e-9

	// Limiter knee: both segments meet at limiterLevel.
	below := defaultParams.LimiterThreshold - eps
	assert.InDelta(t, defaultParams.LimiterLevel, below+GainDB(below, defaultParams), 1e-6)
	above := defaultParams.LimiterThreshold + eps
	assert.InDelta(t, defaultParams.LimiterLevel, above+GainDB(above, defaultParams), 1e-6)

	// The compression segment lands on the noise-gate knee output.
	justAbove := defaultParams.NoiseThreshold + eps
	assert.InDelta(t, DefaultKnees.NoiseOut, justAbove+GainDB(justAbove, defaultParams), 1e-6)
}

func TestSteadyStateLevels(t *testing.T) {
	tests := []struct {
		name  string
		amp   float64
		outDB float64
	}{
		{name: "limited", amp: 0.5, outDB: -10},
		{name: "compressed", amp: 0.1, outDB: -15},
		{name: "quiet", amp: 0.001, outDB: -35},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDRC()
			require.NoError(t, err)

			const n = 30000
			in := [][]float64{testutil.DC(tt.amp, n), testutil.DC(tt.amp, n)}
			out := [][]float64{make([]float64, n), make([]float64, n)}
			processDefaults(d, in, out)

			want := math.Pow(10, tt.outDB/20)
			assert.InDelta(t, want, out[0][n-1], 1e-9)
			assert.InDelta(t, want, out[1][n-1], 1e-9)
		})
	}
}

func TestLevelSweepFollowsStaticCurve(t *testing.T) {
	d, err := NewDRC()
	require.NoError(t, err)

	// The input level sweeps linearly from -90 to 0 dB.
	const n = 200000
	x := make([]float64, n)
	level := func(i int) float64 { return -90 + 90*float64(i)/(n-1) }
	for i := range x {
		x[i] = math.Pow(10, level(i)/20)
	}
	out := make([]float64, n)
	for start := 0; start < n; start += 128 {
		end := min(start+128, n)
		processDefaults(d, [][]float64{x[start:end]}, [][]float64{out[start:end]})
	}

	for _, checkDB := range []float64{-75, -60, -45, -30, -15, -5, -1} {
		i := int(math.Round((checkDB + 90) / 90 * (n - 1)))
		gotDB := 20 * math.Log10(out[i]/x[i])
		assert.InDelta(t, GainDB(level(i), defaultParams), gotDB, 0.25, "level %v dB", checkDB)
	}
}

func TestSilenceIsGated(t *testing.T) {
	d, err := NewDRC()
	require.NoError(t, err)

	const n = 20000
	in := [][]float64{make([]float64, n)}
	out := [][]float64{testutil.Ones(n)}
	processDefaults(d, in, out)

	for i, v := range out[0] {
		require.Zero(t, v, "sample %d", i)
	}
	assert.Less(t, d.Gain(), 1e-40)
}

func TestBypassKeepsTracking(t *testing.T) {
	d, err := NewDRC()
	require.NoError(t, err)
	d.SetBypass(true)
	require.True(t, d.Bypass())

	const n = 4096
	x := testutil.DeterministicNoise(3, 0.2, n)
	out := [][]float64{make([]float64, n)}
	processDefaults(d, [][]float64{x}, out)

	testutil.RequireSliceNearlyEqual(t, out[0], x, 0)
	assert.NotEqual(t, 1.0, d.Gain())
	assert.Less(t, d.Power(), 1.0)
}

func TestNewYorkStyleAddsDry(t *testing.T) {
	plain, err := NewDRC()
	require.NoError(t, err)
	ny, err := NewDRC()
	require.NoError(t, err)
	ny.SetNewYorkStyle(true)
	require.True(t, ny.NewYorkStyle())

	const n = 2048
	x := testutil.DeterministicSine(440, 48000, 0.3, n)
	outPlain := [][]float64{make([]float64, n)}
	outNY := [][]float64{make([]float64, n)}
	processDefaults(plain, [][]float64{x}, outPlain)
	processDefaults(ny, [][]float64{x}, outNY)

	for i := range x {
		require.InDelta(t, outPlain[0][i]+x[i], outNY[0][i], 1e-12, "sample %d", i)
	}
}

func TestAutomatedThreshold(t *testing.T) {
	d, err := NewDRC()
	require.NoError(t, err)

	const n = 256
	in := [][]float64{testutil.DC(0.5, n)}
	out := [][]float64{make([]float64, n)}
	lim := make(param.Values, n)
	for i := range lim {
		lim[i] = -10 + float64(i)/n
	}
	require.NotPanics(t, func() {
		d.Process(in, out, lim, param.Values{-10}, param.Values{-80}, param.Values{2})
	})
	testutil.RequireFinite(t, out[0])
}

func TestEnvelopeEmission(t *testing.T) {
	var calls int
	var last Envelope
	ch := make(chan Envelope, 1)

	d, err := NewDRC(
		WithEnvelopeSubsampling(10),
		WithEnvelopeChannel(ch),
		WithEnvelopeFunc(func(e *Envelope) {
			calls++
			last = *e
		}),
	)
	require.NoError(t, err)
	d.SetBypass(true)

	const n = 35
	x := make([]float64, n)
	x[3] = -0.5
	x[15] = 0.25
	x[27] = -0.125
	processDefaults(d, [][]float64{x}, [][]float64{make([]float64, n)})

	assert.Equal(t, 3, calls)
	assert.Equal(t, uint64(2), d.Dropped())

	first := <-ch
	assert.Equal(t, float32(0.5), first.Input[EnvelopeLength-1])
	assert.Equal(t, float32(0.5), first.Output[EnvelopeLength-1])

	assert.Equal(t, float32(0.5), last.Input[EnvelopeLength-3])
	assert.Equal(t, float32(0.25), last.Input[EnvelopeLength-2])
	assert.Equal(t, float32(0.125), last.Input[EnvelopeLength-1])
	assert.Equal(t, last, d.Envelope())
}

func TestOptionsValidation(t *testing.T) {
	_, err := NewDRC(WithEnvelopeSubsampling(0))
	require.Error(t, err)

	d, err := NewDRC()
	require.NoError(t, err)
	assert.Equal(t, 2000, d.EnvelopeSubsampling())
	require.Error(t, d.SetEnvelopeSubsampling(-1))
	require.NoError(t, d.SetEnvelopeSubsampling(100))
	assert.Equal(t, 100, d.EnvelopeSubsampling())
}

func TestReset(t *testing.T) {
	d, err := NewDRC()
	require.NoError(t, err)
	processDefaults(d, [][]float64{testutil.DC(0.1, 500)}, [][]float64{make([]float64, 500)})
	d.Reset()
	assert.Equal(t, 1.0, d.Gain())
	assert.Equal(t, 1.0, d.Power())
	assert.Equal(t, Envelope{}, d.Envelope())
}

func BenchmarkDRCProcess(b *testing.B) {
	d, err := NewDRC()
	require.NoError(b, err)
	in := [][]float64{testutil.DeterministicNoise(1, 0.3, 512), testutil.DeterministicNoise(2, 0.3, 512)}
	out := [][]float64{make([]float64, 512), make([]float64, 512)}
	for b.Loop() {
		processDefaults(d, in, out)
	}
}
