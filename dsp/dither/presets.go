package dither

import (
	"errors"
	"fmt"
)

// MaxShapingOrder is the longest supported noise-shaping filter.
const MaxShapingOrder = 9

// ErrInvalidOrder reports a noise-shaping order outside {0, 1, 2, 3, 5, 9}.
var ErrInvalidOrder = errors.New("dither: unsupported noise-shaping order")

// ShapingOrders lists the supported noise-shaping filter orders.
var ShapingOrders = []int{1, 2, 3, 5, 9}

// Error-feedback coefficients. Orders 3 and 9 are F-weighted designs, order 5
// is the improved E-weighted design; 1 and 2 are the plain first and
// second differences.
var shapingCoeffs = map[int][]float64{
	1: {1},
	2: {2, -1},
	3: {1.623, -0.982, 0.109},
	5: {2.033, -2.165, 1.959, -1.590, 0.6149},
	9: {
		2.412, -3.370, 3.937, -4.174, 3.353,
		-2.205, 1.281, -0.569, 0.0847,
	},
}

// ShapingCoefficients returns a copy of the FIR error-feedback filter for
// order. Order 0 returns nil (shaping disabled).
func ShapingCoefficients(order int) ([]float64, error) {
	if order == 0 {
		return nil, nil
	}

	src, ok := shapingCoeffs[order]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}

	out := make([]float64, len(src))
	copy(out, src)

	return out, nil
}
