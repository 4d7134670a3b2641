package amf3

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeAlias struct {
	external bool
	dynamic  bool
	static   []string
	encode   []string
}

func (f *fakeAlias) Alias() string                               { return "fake" }
func (f *fakeAlias) Klass() reflect.Type                         { return reflect.TypeOf(0) }
func (f *fakeAlias) Compile() error                              { return nil }
func (f *fakeAlias) External() bool                               { return f.external }
func (f *fakeAlias) Dynamic() bool                                { return f.dynamic }
func (f *fakeAlias) Anonymous() bool                              { return false }
func (f *fakeAlias) StaticAttrs() []string                       { return f.static }
func (f *fakeAlias) EncodableProperties(obj any) []string         { return f.encode }
func (f *fakeAlias) CreateInstance() (any, error)                 { return nil, nil }
func (f *fakeAlias) ApplyAttributes(obj any, attrs map[string]any) error { return nil }
func (f *fakeAlias) GetEncodableAttributes(obj any) (map[string]any, error) {
	return nil, nil
}

func TestEncodingFromAlias_External(t *testing.T) {
	a := &fakeAlias{external: true}
	require.Equal(t, EncodingExternal, encodingFromAlias(a, nil))
}

func TestEncodingFromAlias_StaticWhenNotDynamicAndAttrsMatch(t *testing.T) {
	a := &fakeAlias{static: []string{"x", "y"}, encode: []string{"y", "x"}}
	require.Equal(t, EncodingStatic, encodingFromAlias(a, nil))
}

func TestEncodingFromAlias_DynamicWhenAttrsDiffer(t *testing.T) {
	a := &fakeAlias{static: []string{"x"}, encode: []string{"x", "y"}}
	require.Equal(t, EncodingDynamic, encodingFromAlias(a, nil))
}

func TestEncodingFromAlias_DynamicWhenMarkedDynamic(t *testing.T) {
	a := &fakeAlias{dynamic: true, static: []string{"x"}, encode: []string{"x"}}
	require.Equal(t, EncodingDynamic, encodingFromAlias(a, nil))
}

func TestClassDefinition_AttrLen(t *testing.T) {
	cd := &ClassDefinition{StaticProperties: []string{"a", "b", "c"}}
	require.Equal(t, 3, cd.AttrLen())
}
