package kernel

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxlab/dsp/dither"
	"github.com/cwbudde/algo-fxlab/dsp/param"
)

func unknownProperty(kernel, name string) error {
	return fmt.Errorf("kernel: %s: %w: %q", kernel, param.ErrUnknownProperty, name)
}

func intValue(v param.Value) (int, error) {
	f, err := v.AsFloat()
	if err != nil {
		return 0, err
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("kernel: %v is not an integer: %w", f, param.ErrType)
	}

	return int(f), nil
}

// ditherValue accepts either the numeric enum (0..3) or a dither name.
func ditherValue(v param.Value) (dither.DitherType, error) {
	if v.Kind == param.KindString {
		return dither.ParseDitherType(v.Str)
	}

	n, err := intValue(v)
	if err != nil {
		return dither.DitherNone, err
	}

	dt := dither.DitherType(n)
	if !dt.Valid() {
		return dither.DitherNone, fmt.Errorf("kernel: dither type %d out of range: %w", n, param.ErrType)
	}

	return dt, nil
}
