package reftable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ==============================================================================
// StringTable
// ==============================================================================

func TestStringTable_EmptyNeverInterned(t *testing.T) {
	st := NewStringTable()

	_, ok := st.ReferenceTo("")
	require.False(t, ok)

	require.Equal(t, 0, st.Len())
}

func TestStringTable_AppendAndReference(t *testing.T) {
	st := NewStringTable()

	idx := st.Append("hello")
	require.Equal(t, 0, idx)

	ref, ok := st.ReferenceTo("hello")
	require.True(t, ok)
	require.Equal(t, 0, ref)

	idx2 := st.Append("world")
	require.Equal(t, 1, idx2)

	s, ok := st.ByIndex(1)
	require.True(t, ok)
	require.Equal(t, "world", s)

	_, ok = st.ByIndex(2)
	require.False(t, ok)
}

func TestStringTable_Clear(t *testing.T) {
	st := NewStringTable()
	st.Append("a")
	st.Append("b")
	require.Equal(t, 2, st.Len())

	st.Clear()
	require.Equal(t, 0, st.Len())

	_, ok := st.ReferenceTo("a")
	require.False(t, ok)
}

// ==============================================================================
// ObjectTable
// ==============================================================================

func TestObjectTable_IdentityNotEquality(t *testing.T) {
	ot := NewObjectTable()

	a := &struct{ X int }{X: 1}
	b := &struct{ X int }{X: 1} // structurally equal, distinct identity

	idxA := ot.Append(a)
	idxB := ot.Append(b)
	require.NotEqual(t, idxA, idxB)

	ref, ok := ot.ReferenceTo(a)
	require.True(t, ok)
	require.Equal(t, idxA, ref)

	ref, ok = ot.ReferenceTo(b)
	require.True(t, ok)
	require.Equal(t, idxB, ref)
}

func TestObjectTable_ByIndexOutOfRange(t *testing.T) {
	ot := NewObjectTable()
	_, ok := ot.ByIndex(0)
	require.False(t, ok)
}

func TestObjectTable_Clear(t *testing.T) {
	ot := NewObjectTable()
	p := &struct{}{}
	ot.Append(p)
	require.Equal(t, 1, ot.Len())

	ot.Clear()
	require.Equal(t, 0, ot.Len())

	_, ok := ot.ReferenceTo(p)
	require.False(t, ok)
}
