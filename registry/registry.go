// Package registry implements the class-alias directory: a lookup from a
// registered alias name to a host class, and back, used by the class-trait
// resolver to decide how an Object element's trait header should be read
// or written.
package registry

import (
	"reflect"
	"sync"

	"github.com/flexwire/amf3/stream"
)

// Externalizable is implemented by host values that manage their own wire
// representation instead of going through the static/dynamic property
// machinery: obj.readExternal(dataInput), obj.writeExternal(dataOutput).
type Externalizable interface {
	ReadExternal(in *stream.Input) error
	WriteExternal(out *stream.Output) error
}

// ClassAlias is the per-class directory entry: the mapping between one host
// Go type and the alias name that appears on the wire, plus the callbacks
// the class-trait resolver and Decoder/Encoder need to build and consume
// instances of it.
type ClassAlias interface {
	// Alias is the wire name for this class (the string that appears in
	// the class-trait header).
	Alias() string

	// Klass is the host type this alias produces and consumes.
	Klass() reflect.Type

	// Compile prepares the alias for use (e.g. resolving static_attrs
	// from struct tags); it is safe to call repeatedly and must be
	// idempotent, matching pyamf's alias.compile() contract.
	Compile() error

	// External, Dynamic, and Anonymous mirror the class-trait encoding
	// selector.
	External() bool
	Dynamic() bool
	Anonymous() bool

	// StaticAttrs is the ordered list of statically-known property names
	// emitted in the trait header.
	StaticAttrs() []string

	// EncodableProperties reports which of an instance's properties this
	// alias will actually encode, distinguishing it from fields the host
	// type happens to carry but the alias chooses to skip.
	EncodableProperties(obj any) []string

	// CreateInstance constructs a new, zero-valued host object this alias
	// can then populate via ApplyAttributes or ReadExternal.
	CreateInstance() (any, error)

	// ApplyAttributes copies decoded static/dynamic properties onto obj.
	ApplyAttributes(obj any, attrs map[string]any) error

	// GetEncodableAttributes extracts obj's properties as a name->value
	// map for the encoder to iterate in StaticAttrs/EncodableProperties
	// order.
	GetEncodableAttributes(obj any) (map[string]any, error)
}

// Registry is a concurrency-safe directory of registered ClassAliases,
// indexed both by wire name and by host Go type — the two lookup
// directions the decoder (`getClassAlias(name)`) and encoder
// (`getClassAlias(klass)`) each need.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]ClassAlias
	byType map[reflect.Type]ClassAlias
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]ClassAlias),
		byType: make(map[reflect.Type]ClassAlias),
	}
}

// Register adds alias to the registry, indexed by both its name and its
// host type. A later Register call for the same name or type replaces the
// earlier one.
func (r *Registry) Register(alias ClassAlias) error {
	if err := alias.Compile(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byName[alias.Alias()] = alias
	r.byType[alias.Klass()] = alias

	return nil
}

// ByName looks up a ClassAlias by its wire name.
func (r *Registry) ByName(name string) (ClassAlias, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byName[name]
	return a, ok
}

// ByType looks up a ClassAlias by host Go type.
func (r *Registry) ByType(t reflect.Type) (ClassAlias, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byType[t]
	return a, ok
}
