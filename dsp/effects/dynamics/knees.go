package dynamics

import "github.com/cwbudde/algo-fxlab/dsp/core"

const (
	kneeFloorDB = -90.0
	kneeCeilDB  = 0.0
	kneeGapDB   = 0.1
)

// Knees describes the static curve by its two corner points, in dB. Below
// NoiseIn the signal is gated; between the knees the curve is a straight
// line from (NoiseIn, NoiseOut) to (LimiterIn, LimiterOut); above
// LimiterIn the output level is held at LimiterOut.
type Knees struct {
	NoiseIn, NoiseOut     float64
	LimiterIn, LimiterOut float64
}

// DefaultKnees are the knee points matching the kernel's default parameters.
var DefaultKnees = Knees{NoiseIn: -80, NoiseOut: -45, LimiterIn: -10, LimiterOut: -10}

// ClampNoise constrains the noise-gate knee after it was moved: it stays
// left of the limiter knee, below it by at least 0.1 dB, and within
// [-90, 0] dB.
func (k Knees) ClampNoise() Knees {
	k.NoiseIn = max(min(k.NoiseIn, k.LimiterIn), kneeFloorDB)
	k.NoiseOut = max(min(k.NoiseOut, k.LimiterOut-kneeGapDB), kneeFloorDB)
	return k
}

// ClampLimiter constrains the limiter knee after it was moved.
func (k Knees) ClampLimiter() Knees {
	k.LimiterIn = max(min(k.LimiterIn, kneeCeilDB), k.NoiseIn)
	k.LimiterOut = max(min(k.LimiterOut, kneeCeilDB), k.NoiseOut+kneeGapDB)
	return k
}

// Clamp applies both constraints and bounds all points to [-90, 0] dB.
func (k Knees) Clamp() Knees {
	k.NoiseIn = core.Clamp(k.NoiseIn, kneeFloorDB, kneeCeilDB)
	k.NoiseOut = core.Clamp(k.NoiseOut, kneeFloorDB, kneeCeilDB)
	k.LimiterIn = core.Clamp(k.LimiterIn, kneeFloorDB, kneeCeilDB)
	k.LimiterOut = core.Clamp(k.LimiterOut, kneeFloorDB, kneeCeilDB)
	return k.ClampNoise().ClampLimiter()
}

// CompressionRatio returns the input/output slope between the knees.
func (k Knees) CompressionRatio() float64 {
	return (k.LimiterIn - k.NoiseIn) / (k.LimiterOut - k.NoiseOut)
}

// Params converts the knees to the kernel's parameter values.
func (k Knees) Params() Params {
	return Params{
		LimiterThreshold: k.LimiterIn,
		LimiterLevel:     k.LimiterOut,
		NoiseThreshold:   k.NoiseIn,
		CompressionRatio: k.CompressionRatio(),
	}
}
