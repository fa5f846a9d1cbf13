package spectrum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func binSine(n, bin, size int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*float64(bin)*float64(i)/float64(size))
	}

	return out
}

func TestAnalyserDefaults(t *testing.T) {
	a, err := NewAnalyser()
	require.NoError(t, err)

	assert.Equal(t, 1024, a.FFTSize())
	assert.Equal(t, 512, a.FrequencyBinCount())
	assert.InDelta(t, 0.3, a.Smoothing(), 0)
	assert.InDelta(t, -130.0, a.MinDecibels(), 0)
	assert.InDelta(t, -30.0, a.MaxDecibels(), 0)
}

func TestAnalyserOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
		err  error
	}{
		{"size not power of two", WithFFTSize(1000), ErrInvalidFFTSize},
		{"size too small", WithFFTSize(16), ErrInvalidFFTSize},
		{"smoothing one", WithSmoothing(1), ErrInvalidSmoothing},
		{"smoothing negative", WithSmoothing(-0.1), ErrInvalidSmoothing},
		{"smoothing nan", WithSmoothing(math.NaN()), ErrInvalidSmoothing},
		{"inverted range", WithDecibelRange(-30, -130), ErrInvalidRange},
		{"nan range", WithDecibelRange(math.NaN(), 0), ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAnalyser(tt.opt)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestAnalyserSilenceReportsFloor(t *testing.T) {
	a, err := NewAnalyser()
	require.NoError(t, err)

	a.Write(make([]float64, 3000))

	db := make([]float64, a.FrequencyBinCount())
	require.Equal(t, 512, a.FloatFrequencyData(db))

	for k, v := range db {
		require.InDelta(t, -130.0, v, 0, "bin %d", k)
	}

	bytes := make([]byte, a.FrequencyBinCount())
	a.ByteFrequencyData(bytes)

	for _, b := range bytes {
		require.Zero(t, b)
	}
}

func TestAnalyserSinePeak(t *testing.T) {
	a, err := NewAnalyser(WithSmoothing(0))
	require.NoError(t, err)

	// Wrap the ring so the frame is reassembled from two halves.
	a.Write(binSine(2500, 64, 1024, 1))

	db := make([]float64, a.FrequencyBinCount())
	a.FloatFrequencyData(db)

	peak := 0
	for k := range db {
		if db[k] > db[peak] {
			peak = k
		}
	}

	assert.Equal(t, 64, peak)
	// Blackman coherent gain 0.42, one-sided amplitude 0.5.
	assert.InDelta(t, 20*math.Log10(0.21), db[64], 1e-6)
	assert.Less(t, db[200], -100.0)
	assert.Less(t, db[10], -100.0)

	bytes := make([]byte, a.FrequencyBinCount())
	a.ByteFrequencyData(bytes)
	assert.Equal(t, byte(255), bytes[64])
}

func TestAnalyserSmoothing(t *testing.T) {
	a, err := NewAnalyser()
	require.NoError(t, err)

	a.Write(binSine(1024, 32, 1024, 1))

	db := make([]float64, a.FrequencyBinCount())

	a.FloatFrequencyData(db)
	assert.InDelta(t, 20*math.Log10(0.7*0.21), db[32], 1e-6)

	a.FloatFrequencyData(db)
	assert.InDelta(t, 20*math.Log10(0.3*0.7*0.21+0.7*0.21), db[32], 1e-6)

	for range 50 {
		a.FloatFrequencyData(db)
	}

	assert.InDelta(t, 20*math.Log10(0.21), db[32], 1e-6)
}

func TestAnalyserWriteFramesDownmix(t *testing.T) {
	a, err := NewAnalyser(WithFFTSize(256), WithSmoothing(0))
	require.NoError(t, err)

	s := binSine(256, 8, 256, 1)
	a.WriteFrames([][]float64{s, make([]float64, len(s))})

	db := make([]float64, a.FrequencyBinCount())
	a.FloatFrequencyData(db)

	assert.InDelta(t, 20*math.Log10(0.5*0.21), db[8], 1e-6)
}

func TestAnalyserResetAndNonFinite(t *testing.T) {
	a, err := NewAnalyser()
	require.NoError(t, err)

	a.Write([]float64{math.NaN(), math.Inf(1), 1})
	a.Reset()
	a.Write([]float64{math.NaN(), math.Inf(-1)})

	db := make([]float64, 4)
	require.Equal(t, 4, a.FloatFrequencyData(db))

	for _, v := range db {
		assert.InDelta(t, -130.0, v, 0)
	}
}

func BenchmarkAnalyserFloatFrequencyData(b *testing.B) {
	a, err := NewAnalyser()
	if err != nil {
		b.Fatal(err)
	}

	a.Write(binSine(1024, 100, 1024, 0.5))
	db := make([]float64, a.FrequencyBinCount())

	for b.Loop() {
		a.FloatFrequencyData(db)
	}
}
