package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandEnergySeparatesTones(t *testing.T) {
	const fs = 48000
	n := 4800
	low := make([]float64, n)
	high := make([]float64, n)
	for i := range n {
		low[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / fs)
		high[i] = math.Sin(2 * math.Pi * 18000 * float64(i) / fs)
	}

	b, err := BandEnergy(low, fs, 12000)
	require.NoError(t, err)
	assert.Greater(t, b.Ratio(), 1e6)

	b, err = BandEnergy(high, fs, 12000)
	require.NoError(t, err)
	assert.Less(t, b.Ratio(), 1e-6)
	assert.Less(t, b.RatioDB(), -60.0)
}

func TestBandEnergyValidation(t *testing.T) {
	_, err := BandEnergy([]float64{1, 2}, 48000, 1000)
	require.ErrorIs(t, err, ErrShortSignal)

	_, err = BandEnergy(make([]float64, 64), 0, 1000)
	require.Error(t, err)

	_, err = BandEnergy(make([]float64, 64), 48000, 24000)
	require.Error(t, err)
}

func TestError(t *testing.T) {
	e, err := Error([]float64{1, 2}, []float64{1.5, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -1}, e)

	_, err = Error([]float64{1}, nil)
	require.Error(t, err)
}
