package amf3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMixedArray_InsertionOrderPreserved(t *testing.T) {
	m := NewMixedArray()
	m.Set("b", 1)
	m.Set("a", 2)
	m.Set("b", 3)

	require.Equal(t, []string{"b", "a"}, m.Keys())

	v, ok := m.Get("b")
	require.True(t, ok)
	require.Equal(t, 3, v)
}

func TestMixedArray_GetMissing(t *testing.T) {
	m := NewMixedArray()

	_, ok := m.Get("nope")
	require.False(t, ok)
	require.Equal(t, 0, m.Len())
}
