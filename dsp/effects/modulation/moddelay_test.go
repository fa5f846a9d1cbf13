package modulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxlab/dsp/param"
	"github.com/cwbudde/algo-fxlab/internal/testutil"
)

const fs = 48000.0

func newTestModDelay(t testing.TB, topo Topology, channels int) *ModDelay {
	t.Helper()
	m, err := NewModDelay(fs, channels, WithTopology(topo), WithRNG(testutil.NewRNG(5)))
	require.NoError(t, err)
	return m
}

// render processes x in blocks and returns the mono output.
func render(m *ModDelay, x []float64, block int, depth, freq float64) []float64 {
	out := make([]float64, len(x))
	d, f := param.Values{depth}, param.Values{freq}
	for start := 0; start < len(x); start += block {
		end := min(start+block, len(x))
		m.Process([][]float64{x[start:end]}, [][]float64{out[start:end]}, d, f)
	}
	return out
}

func TestParseTopology(t *testing.T) {
	for _, topo := range Topologies() {
		got, err := ParseTopology(topo.String())
		require.NoError(t, err)
		assert.Equal(t, topo, got)
	}
	got, err := ParseTopology(" Chorus ")
	require.NoError(t, err)
	assert.Equal(t, Chorus, got)

	_, err = ParseTopology("phaser")
	require.ErrorIs(t, err, ErrUnknownTopology)
	assert.Equal(t, "Topology(9)", Topology(9).String())
}

func TestTopologyTables(t *testing.T) {
	assert.Equal(t, 0.5, Tremolo.MaxDepth())
	assert.Equal(t, 0.003, Vibrato.MaxDepth())
	assert.Equal(t, 0.002, Flanger.MaxDepth())
	assert.Equal(t, 0.015, Chorus.MaxDepth())

	assert.Equal(t, 20.0, Tremolo.MaxFrequency())
	assert.Equal(t, 1.0, Flanger.MaxFrequency())

	assert.Equal(t, mix{tremolo: 1}, Tremolo.mix(false))
	assert.Equal(t, mix{delay: 1}, Vibrato.mix(false))
	assert.Equal(t, mix{delay: 1, dry: 1}, Flanger.mix(false))
	assert.Equal(t, mix{delay: 0.3, chorus: 0.3, dry: 1}, Chorus.mix(false))
	assert.Equal(t, mix{dry: 1}, Chorus.mix(true))
}

func TestModDelayValidation(t *testing.T) {
	_, err := NewModDelay(0, 1)
	require.Error(t, err)
	_, err = NewModDelay(fs, 0)
	require.Error(t, err)
	_, err = NewModDelay(fs, 1, WithTopology(Topology(7)))
	require.ErrorIs(t, err, ErrUnknownTopology)

	m := newTestModDelay(t, Tremolo, 1)
	require.ErrorIs(t, m.SetTopology(-1), ErrUnknownTopology)
	require.Error(t, m.Resize(0))
}

func TestVibratoZeroDepthIsIdentity(t *testing.T) {
	m := newTestModDelay(t, Vibrato, 1)
	x := testutil.DeterministicNoise(1, 0.5, 2048)
	got := render(m, x, 256, 0, 3)
	testutil.RequireSliceNearlyEqual(t, got, x, 0)
}

func TestFlangerZeroDepthDoubles(t *testing.T) {
	m := newTestModDelay(t, Flanger, 1)
	x := testutil.DeterministicSine(300, fs, 0.25, 1024)
	got := render(m, x, 128, 0, 1)
	for i := range x {
		require.InDelta(t, 2*x[i], got[i], 1e-15)
	}
}

func TestTremoloGain(t *testing.T) {
	const (
		depth = 0.5
		rate  = 5.0
	)
	m := newTestModDelay(t, Tremolo, 1)
	x := testutil.DeterministicSine(440, fs, 0.5, 4800)
	got := render(m, x, 200, depth, rate)

	for i := range x {
		lfo := math.Sin(2 * math.Pi * rate * float64(i) / fs)
		want := x[i] * ((1 - 0.5*depth) + 0.5*depth*lfo)
		require.InDelta(t, want, got[i], 1e-9, "sample %d", i)
	}
}

func TestVibratoDelaysSignal(t *testing.T) {
	m := newTestModDelay(t, Vibrato, 1)
	x := testutil.Impulse(4096, 0)
	// Frequency 0 holds the LFO at phase 0, so the delay is D·d.
	got := render(m, x, 512, 1, 0)

	delaySamples := Vibrato.MaxDepth() * fs
	assert.InDelta(t, 1, got[int(delaySamples)], 1e-9)
	assert.InDelta(t, 1, testutil.RMS(got)*math.Sqrt(float64(len(got))), 1e-9)
}

func TestBypassFadesToDry(t *testing.T) {
	m := newTestModDelay(t, Chorus, 2)
	m.SetBypass(true)
	require.True(t, m.Bypass())

	const n = 9600
	x := testutil.DeterministicSine(220, fs, 0.5, n)
	in := [][]float64{x, x}
	out := testutil.Planar(2, n)
	for start := 0; start < n; start += 480 {
		end := start + 480
		m.Process(
			[][]float64{in[0][start:end], in[1][start:end]},
			[][]float64{out[0][start:end], out[1][start:end]},
			param.Values{0.5}, param.Values{1},
		)
	}
	for ch := range out {
		testutil.RequireSliceNearlyEqual(t, out[ch][n-480:], x[n-480:], 1e-6)
	}
}

func TestFlangerToTremoloSwitchIsClickFree(t *testing.T) {
	const (
		block    = 480
		switchAt = 30 * block
		n        = 2 * switchAt
	)
	x := testutil.DeterministicSine(220, fs, 0.5, n)
	inputStep := testutil.MaxStep(x)

	m := newTestModDelay(t, Flanger, 1)
	out := make([]float64, n)
	for start := 0; start < n; start += block {
		if start == switchAt {
			require.NoError(t, m.SetTopology(Tremolo))
		}
		end := start + block
		m.Process([][]float64{x[start:end]}, [][]float64{out[start:end]}, param.Values{0.5}, param.Values{1})
	}

	around := testutil.MaxStep(out[switchAt-block : switchAt+20*block])
	assert.Less(t, around, 3*inputStep, "step %v around switch", around)

	// Once the fades have settled the output is pure tremolo.
	ref := newTestModDelay(t, Tremolo, 1)
	want := render(ref, x, block, 0.5, 1)
	testutil.RequireSliceNearlyEqual(t, out[n-10*block:], want[n-10*block:], 1e-6)
}

func TestTapRetuneWaitsForSilence(t *testing.T) {
	m := newTestModDelay(t, Flanger, 1)
	require.NoError(t, m.SetTopology(Vibrato))
	assert.True(t, m.pending)
	assert.Equal(t, Flanger.taps(), m.active)
	assert.Zero(t, m.target.delay)

	x := make([]float64, 9600)
	render(m, x, 480, 0.5, 1)
	assert.False(t, m.pending)
	assert.Equal(t, Vibrato.taps(), m.active)
	assert.Equal(t, Vibrato.mix(false), m.target)

	// Switching from a silent delay path retunes at once.
	tr := newTestModDelay(t, Tremolo, 1)
	require.NoError(t, tr.SetTopology(Chorus))
	assert.False(t, tr.pending)
	assert.Equal(t, Chorus.taps(), tr.active)
}

func TestChorusDeterministicAndBounded(t *testing.T) {
	x := testutil.DeterministicSine(330, fs, 0.5, 24000)
	a := render(newTestModDelay(t, Chorus, 1), x, 512, 1, 5)
	b := render(newTestModDelay(t, Chorus, 1), x, 512, 1, 5)
	assert.Equal(t, a, b)
	testutil.RequireBounded(t, a, 0.5*(1+0.3+0.6))

	diff, err := testutil.MaxAbsDiff(a, x)
	require.NoError(t, err)
	assert.Greater(t, diff, 0.01)
}

func TestAutomatedDepth(t *testing.T) {
	m := newTestModDelay(t, Tremolo, 1)
	const n = 256
	x := testutil.Ones(n)
	depth := make(param.Values, n)
	for i := range depth {
		depth[i] = float64(i) / n
	}
	out := testutil.Planar(1, n)
	m.Process([][]float64{x}, out, depth, param.Values{0})
	for i := range out[0] {
		// LFO frozen at 0: gain is 1 - d/2.
		require.InDelta(t, 1-0.5*depth[i], out[0][i], 1e-12)
	}
}

func TestResizeAndReset(t *testing.T) {
	m := newTestModDelay(t, Flanger, 1)
	out := testutil.Planar(3, 64)
	m.Process([][]float64{testutil.Ones(64), testutil.Ones(64), testutil.Ones(64)}, out, param.Values{0.5}, param.Values{1})
	assert.Equal(t, 3, m.Channels())

	require.NoError(t, m.SetTopology(Chorus))
	m.Reset()
	assert.False(t, m.pending)
	assert.Equal(t, Chorus.mix(false), m.cur)
	assert.Zero(t, m.lfo.Phase())
}

func BenchmarkModDelayChorus(b *testing.B) {
	m := newTestModDelay(b, Chorus, 2)
	x := testutil.DeterministicNoise(1, 0.5, 512)
	in := [][]float64{x, x}
	out := testutil.Planar(2, 512)
	d, f := param.Values{0.5}, param.Values{2}
	for b.Loop() {
		m.Process(in, out, d, f)
	}
}
