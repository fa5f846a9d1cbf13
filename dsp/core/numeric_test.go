package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		lo, hi float64
		want   float64
	}{
		{name: "inside", value: 0.5, lo: 0, hi: 1, want: 0.5},
		{name: "below", value: -1, lo: 0, hi: 1, want: 0},
		{name: "above", value: 2, lo: 0, hi: 1, want: 1},
		{name: "reversed bounds", value: 2, lo: 1, hi: 0, want: 1},
		{name: "on edge", value: -60, lo: -60, hi: 0, want: -60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.value, tt.lo, tt.hi))
		})
	}
}

func TestFlushDenormals(t *testing.T) {
	assert.Equal(t, 0.0, FlushDenormals(1e-31))
	assert.Equal(t, 0.0, FlushDenormals(-1e-31))
	assert.Equal(t, 0.0, FlushDenormals(math.SmallestNonzeroFloat64))
	assert.Equal(t, 1e-20, FlushDenormals(1e-20))
	assert.Equal(t, -0.25, FlushDenormals(-0.25))
}

func TestDBToLinear(t *testing.T) {
	assert.Equal(t, 1.0, DBToLinear(0))
	assert.InDelta(t, 0.1, DBToLinear(-20), 1e-15)
	assert.InDelta(t, 0.5011872336272722, DBToLinear(-6), 1e-12)
}

func TestLinearPowerToDB(t *testing.T) {
	assert.InDelta(t, 0, LinearPowerToDB(1), 1e-15)
	assert.InDelta(t, -20, LinearPowerToDB(0.01), 1e-12)
	assert.InDelta(t, -6, LinearPowerToDB(DBToLinear(-6)*DBToLinear(-6)), 1e-10)
	assert.True(t, math.IsInf(LinearPowerToDB(0), -1))
	assert.True(t, math.IsNaN(LinearPowerToDB(-1)))
}
