package registry

import (
	"testing"

	"github.com/cwbudde/algo-vecmath/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupPrefersHigherPriority(t *testing.T) {
	reg := &OpRegistry{}
	reg.Register(OpEntry{Name: "generic", SIMDLevel: cpu.SIMDNone, Priority: 0})
	reg.Register(OpEntry{Name: "simd-sse2", SIMDLevel: cpu.SIMDSSE2, Priority: 10})
	reg.Register(OpEntry{Name: "simd-neon", SIMDLevel: cpu.SIMDNEON, Priority: 10})

	entry := reg.Lookup(cpu.Features{HasSSE2: true, HasAVX2: true})
	require.NotNil(t, entry)
	assert.Equal(t, "simd-sse2", entry.Name)

	entry = reg.Lookup(cpu.Features{HasNEON: true})
	require.NotNil(t, entry)
	assert.Equal(t, "simd-neon", entry.Name)

	entry = reg.Lookup(cpu.Features{HasSSE2: true, ForceGeneric: true})
	require.NotNil(t, entry)
	assert.Equal(t, "generic", entry.Name)

	assert.Len(t, reg.ListEntries(), 3)
}

func TestRegistryLookupEmpty(t *testing.T) {
	reg := &OpRegistry{}
	assert.Nil(t, reg.Lookup(cpu.Features{}))
}
