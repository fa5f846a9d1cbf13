//go:build (amd64 || arm64) && !purego

package simd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxlab/dsp/oversample/internal/arch/registry"
)

func TestSIMDOpsMatchReference(t *testing.T) {
	var entry *registry.OpEntry
	for _, e := range registry.Global.ListEntries() {
		if e.Name == "simd" {
			entry = &e
			break
		}
	}
	require.NotNil(t, entry)

	a := []float64{2.412, -3.370, 3.937, -4.174, 3.353, -2.205, 1.281, -0.569, 0.0847}
	b := []float64{0.1, -0.2, 0.05, 0.3, -0.01, 0.07, -0.12, 0.4, 0.25}

	var want, wantSum float64
	for i := range a {
		want += a[i] * b[i]
		wantSum += b[i]
	}

	assert.InDelta(t, want, entry.Ops.Dot(a, b), 1e-12)
	assert.InDelta(t, wantSum, entry.Ops.Sum(b), 1e-12)
}
