package amf3

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContext_StringTableSkipsEmpty(t *testing.T) {
	ctx := NewContext()

	idx := ctx.AddString("")
	require.Equal(t, -1, idx)

	_, ok := ctx.StringReference("")
	require.False(t, ok)
}

func TestContext_StringInterning(t *testing.T) {
	ctx := NewContext()

	idx := ctx.AddString("hello")
	require.Equal(t, 0, idx)

	ref, ok := ctx.StringReference("hello")
	require.True(t, ok)
	require.Equal(t, idx, ref)

	s, ok := ctx.StringByIndex(0)
	require.True(t, ok)
	require.Equal(t, "hello", s)
}

func TestContext_ObjectIdentityNotEquality(t *testing.T) {
	ctx := NewContext()

	a := &MixedArray{}
	b := &MixedArray{}

	ctx.AddObject(a)

	_, ok := ctx.ObjectReference(b)
	require.False(t, ok, "two distinct empty objects must not be conflated")

	idx, ok := ctx.ObjectReference(a)
	require.True(t, ok)

	got, ok := ctx.ObjectByIndex(idx)
	require.True(t, ok)
	require.Same(t, a, got)
}

func TestContext_ClassByIndexAndType(t *testing.T) {
	ctx := NewContext()

	cd := &ClassDefinition{Encoding: EncodingDynamic}
	typ := reflect.TypeOf(TestContextDummy{})

	idx := ctx.AddClass(cd, typ)
	require.Equal(t, 0, idx)
	require.Equal(t, 0, cd.ReferenceIndex)

	got, ok := ctx.GetClassByIndex(idx)
	require.True(t, ok)
	require.Same(t, cd, got)

	got, ok = ctx.GetClassByType(typ)
	require.True(t, ok)
	require.Same(t, cd, got)

	_, ok = ctx.GetClassByIndex(99)
	require.False(t, ok)
}

func TestContext_Clear(t *testing.T) {
	ctx := NewContext()
	ctx.AddString("a")
	ctx.AddObject(&MixedArray{})
	ctx.AddClass(&ClassDefinition{}, reflect.TypeOf(TestContextDummy{}))

	ctx.Clear()

	_, ok := ctx.StringReference("a")
	require.False(t, ok)

	_, ok = ctx.GetClassByIndex(0)
	require.False(t, ok)
}

type TestContextDummy struct{}
