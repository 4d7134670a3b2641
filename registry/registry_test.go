package registry

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y int
}

type pointAlias struct{}

func (pointAlias) Alias() string      { return "com.example.Point" }
func (pointAlias) Klass() reflect.Type { return reflect.TypeOf(point{}) }
func (pointAlias) Compile() error     { return nil }
func (pointAlias) External() bool     { return false }
func (pointAlias) Dynamic() bool      { return false }
func (pointAlias) Anonymous() bool    { return false }
func (pointAlias) StaticAttrs() []string { return []string{"X", "Y"} }
func (pointAlias) EncodableProperties(any) []string { return []string{"X", "Y"} }

func (pointAlias) CreateInstance() (any, error) { return &point{}, nil }

func (pointAlias) ApplyAttributes(obj any, attrs map[string]any) error {
	p := obj.(*point)
	if x, ok := attrs["X"].(int); ok {
		p.X = x
	}
	if y, ok := attrs["Y"].(int); ok {
		p.Y = y
	}
	return nil
}

func (pointAlias) GetEncodableAttributes(obj any) (map[string]any, error) {
	p := obj.(*point)
	return map[string]any{"X": p.X, "Y": p.Y}, nil
}

func TestRegistry_RegisterAndLookupByName(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(pointAlias{}))

	a, ok := r.ByName("com.example.Point")
	require.True(t, ok)
	require.Equal(t, "com.example.Point", a.Alias())
}

func TestRegistry_RegisterAndLookupByType(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(pointAlias{}))

	a, ok := r.ByType(reflect.TypeOf(point{}))
	require.True(t, ok)
	require.Equal(t, "com.example.Point", a.Alias())
}

func TestRegistry_UnknownNameNotFound(t *testing.T) {
	r := New()
	_, ok := r.ByName("nope")
	require.False(t, ok)
}

func TestTypedObjectAlias_RoundTrip(t *testing.T) {
	alias := NewTypedObjectAlias("com.example.Unknown")
	require.Equal(t, "com.example.Unknown", alias.Alias())
	require.True(t, alias.Dynamic())
	require.False(t, alias.External())

	inst, err := alias.CreateInstance()
	require.NoError(t, err)

	require.NoError(t, alias.ApplyAttributes(inst, map[string]any{"foo": "bar"}))

	attrs, err := alias.GetEncodableAttributes(inst)
	require.NoError(t, err)
	require.Equal(t, "bar", attrs["foo"])

	to := inst.(*TypedObject)
	require.Equal(t, "com.example.Unknown", to.ClassName)
}
