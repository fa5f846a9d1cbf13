package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fxlab/dsp/param"
)

func TestAssignmentsSet(t *testing.T) {
	var a Assignments
	require.NoError(t, a.Set("w=8"))
	require.NoError(t, a.Set(" dither = true"))
	require.NoError(t, a.Set("type=peak"))
	require.Error(t, a.Set("novalue"))
	require.Error(t, a.Set("=3"))

	require.Len(t, a, 3)
	assert.Equal(t, "w", a[0].Name)
	assert.Equal(t, param.Number(8), a[0].Value)
	assert.Equal(t, param.Bool(true), a[1].Value)
	assert.Equal(t, param.String("peak"), a[2].Value)
	assert.Equal(t, "w=8,dither=true,type=peak", a.String())
}

func TestOverride(t *testing.T) {
	p := New("eq")
	p.Properties = map[string]any{"type": "lowpass", "bypass": true}

	var props, params Assignments
	require.NoError(t, props.Set("type=peak"))
	require.NoError(t, params.Set("gain=4"))

	require.NoError(t, p.Override(props, params))
	assert.Equal(t, map[string]any{"type": "peak", "bypass": true}, p.Properties)
	assert.Equal(t, map[string]float64{"gain": 4}, p.Parameters)

	require.NoError(t, params.Set("Q=wide"))
	require.ErrorIs(t, p.Override(nil, params), param.ErrType)

	empty := New("eq")
	require.NoError(t, empty.Override(nil, nil))
	assert.Nil(t, empty.Properties)
	assert.Nil(t, empty.Parameters)
}
