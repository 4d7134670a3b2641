package registry

import "reflect"

// TypedObject is the generic host value produced when decoding an Object
// whose class name has no registered alias and strict mode is off. It
// carries the wire class name plus whatever dynamic properties were
// decoded, grounded on pyamf.TypedObject/pyamf.TypedObjectClassAlias in
// original_source/pyamf/amf3.py:937.
type TypedObject struct {
	ClassName string
	Attrs     map[string]any
}

var typedObjectType = reflect.TypeOf(TypedObject{})

// typedObjectAlias is the synthetic ClassAlias the decoder fabricates on
// the fly for an unknown class name in non-strict mode. It is never
// registered into a Registry; the decoder constructs one per unresolved
// trait header, and the cached ClassDefinition keeps it as its Alias.
type typedObjectAlias struct {
	name string
}

// NewTypedObjectAlias returns the placeholder alias used for an unknown
// class name named in the wire stream, in non-strict decode mode.
func NewTypedObjectAlias(name string) ClassAlias {
	return &typedObjectAlias{name: name}
}

func (a *typedObjectAlias) Alias() string          { return a.name }
func (a *typedObjectAlias) Klass() reflect.Type     { return typedObjectType }
func (a *typedObjectAlias) Compile() error          { return nil }
func (a *typedObjectAlias) External() bool          { return false }
func (a *typedObjectAlias) Dynamic() bool           { return true }
func (a *typedObjectAlias) Anonymous() bool         { return false }
func (a *typedObjectAlias) StaticAttrs() []string   { return nil }

func (a *typedObjectAlias) EncodableProperties(obj any) []string {
	t, ok := obj.(*TypedObject)
	if !ok {
		return nil
	}

	names := make([]string, 0, len(t.Attrs))
	for k := range t.Attrs {
		names = append(names, k)
	}

	return names
}

func (a *typedObjectAlias) CreateInstance() (any, error) {
	return &TypedObject{ClassName: a.name, Attrs: make(map[string]any)}, nil
}

func (a *typedObjectAlias) ApplyAttributes(obj any, attrs map[string]any) error {
	t, ok := obj.(*TypedObject)
	if !ok {
		return nil
	}

	for k, v := range attrs {
		t.Attrs[k] = v
	}

	return nil
}

func (a *typedObjectAlias) GetEncodableAttributes(obj any) (map[string]any, error) {
	t, ok := obj.(*TypedObject)
	if !ok {
		return nil, nil
	}

	return t.Attrs, nil
}
