//go:build (amd64 || arm64) && !purego

package oversample

import (
	_ "github.com/cwbudde/algo-fxlab/dsp/oversample/internal/arch/generic" // register generic backend
	_ "github.com/cwbudde/algo-fxlab/dsp/oversample/internal/arch/simd"    // register SIMD backend
)
