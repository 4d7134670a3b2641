package amf3

import "github.com/flexwire/amf3/registry"

// ObjectEncoding is the class-trait encoding kind a ClassDefinition
// carries, matching bits 2-3 of the Object trait header.
type ObjectEncoding byte

const (
	// EncodingStatic means all properties are listed in StaticProperties
	// and no dynamic tail follows.
	EncodingStatic ObjectEncoding = 0
	// EncodingDynamic means StaticProperties is followed by a
	// name/value tail terminated by an empty-string key.
	EncodingDynamic ObjectEncoding = 1
	// EncodingExternal means the class manages its own wire
	// representation via ReadExternal/WriteExternal.
	EncodingExternal ObjectEncoding = 2
	// EncodingProxy is read and written like EncodingExternal. The
	// encoder's own ArrayCollection/ObjectProxy wrappers are written with
	// EncodingExternal, not with this value.
	EncodingProxy ObjectEncoding = 3
)

// ClassDefinition is the in-memory trait descriptor: one per host class per
// Context, computed once and cached under both the host type (encode path)
// and the trait's reference index (decode path).
type ClassDefinition struct {
	Alias registry.ClassAlias

	// ReferenceIndex is this class's position in the context's
	// classes-by-index table, assigned by Context.AddClass the first time
	// the class's traits are emitted or decoded.
	ReferenceIndex int

	Encoding         ObjectEncoding
	StaticProperties []string
}

// AttrLen is the number of statically-known properties, the trait
// header's bits 4.. on the wire.
func (cd *ClassDefinition) AttrLen() int { return len(cd.StaticProperties) }

// encodingFromAlias computes the ObjectEncoding a ClassAlias resolves to:
// Static iff the alias declares non-dynamic and static_attrs ==
// encodable_properties; External iff the alias is marked externalizable;
// else Dynamic.
func encodingFromAlias(alias registry.ClassAlias, obj any) ObjectEncoding {
	if alias.External() {
		return EncodingExternal
	}

	if !alias.Dynamic() && sameAttrs(alias.StaticAttrs(), alias.EncodableProperties(obj)) {
		return EncodingStatic
	}

	return EncodingDynamic
}

func sameAttrs(static, encodable []string) bool {
	if len(static) != len(encodable) {
		return false
	}

	seen := make(map[string]struct{}, len(static))
	for _, s := range static {
		seen[s] = struct{}{}
	}

	for _, e := range encodable {
		if _, ok := seen[e]; !ok {
			return false
		}
	}

	return true
}
