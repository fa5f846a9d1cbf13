package core

import "math"

// denormalFloor is the magnitude below which recursive state is snapped
// to zero.
const denormalFloor = 1e-30

// Clamp returns value limited to the closed interval spanned by lo and hi.
// The bounds may be given in either order.
func Clamp(value, lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}

	return math.Min(math.Max(value, lo), hi)
}

// FlushDenormals snaps values smaller than 1e-30 in magnitude to zero so
// decaying envelopes and filter states do not linger in the subnormal range.
func FlushDenormals(x float64) float64 {
	if math.Abs(x) < denormalFloor {
		return 0
	}

	return x
}

// DBToLinear converts a gain in decibels to an amplitude factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearPowerToDB converts a mean-square level to decibels.
// Zero maps to -Inf and negative input, which has no power reading, to NaN.
func LinearPowerToDB(power float64) float64 {
	switch {
	case power < 0:
		return math.NaN()
	case power == 0:
		return math.Inf(-1)
	}

	return 10 * math.Log10(power)
}
