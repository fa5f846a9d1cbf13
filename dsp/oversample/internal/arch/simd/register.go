//go:build (amd64 || arm64) && !purego

// Package simd registers the oversampling backend built on
// github.com/tphakala/simd.
package simd

import (
	"runtime"

	"github.com/tphakala/simd/f64"

	"github.com/cwbudde/algo-fxlab/dsp/oversample/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	level := cpu.SIMDSSE2
	if runtime.GOARCH == "arm64" {
		level = cpu.SIMDNEON
	}

	registry.Global.Register(registry.OpEntry{
		Name:      "simd",
		SIMDLevel: level,
		Priority:  10,
		Ops: registry.Ops{
			Dot: f64.DotProductUnsafe,
			Sum: f64.Sum,
		},
	})
}
