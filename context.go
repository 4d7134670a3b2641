package amf3

import (
	"reflect"

	"github.com/flexwire/amf3/internal/reftable"
)

// Context holds the four reference tables an AMF3 pass shares (strings,
// objects, classes-by-type/-by-index, legacy XML) plus the class-trait
// cache, shared between one Decoder and Encoder pass and cleared between
// independent top-level messages.
//
// A Context is not safe for concurrent use: each concurrent encode/decode
// needs its own Context.
type Context struct {
	strings   *reftable.StringTable
	objects   *reftable.ObjectTable
	legacyXML *reftable.ObjectTable

	classByType  map[reflect.Type]*ClassDefinition
	classByIndex []*ClassDefinition

	proxyHandles map[any]*Proxy
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{
		strings:      reftable.NewStringTable(),
		objects:      reftable.NewObjectTable(),
		legacyXML:    reftable.NewObjectTable(),
		classByType:  make(map[reflect.Type]*ClassDefinition),
		proxyHandles: make(map[any]*Proxy),
	}
}

// Clear empties every table, releasing all reference indices. Underlying
// storage is retained for reuse.
func (c *Context) Clear() {
	c.strings.Clear()
	c.objects.Clear()
	c.legacyXML.Clear()

	for k := range c.classByType {
		delete(c.classByType, k)
	}
	c.classByIndex = c.classByIndex[:0]

	for k := range c.proxyHandles {
		delete(c.proxyHandles, k)
	}
}

// identityKey normalizes v for use as an object-table key. Raw Go slices
// are not comparable and would panic as map keys, so slice-kind values are
// reduced to their backing-array address and length: two slice variables
// sharing a backing array are the same object, a reslice of a different
// backing array is not.
func identityKey(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		return sliceIdentity{ptr: rv.Pointer(), len: rv.Len()}
	}

	return v
}

type sliceIdentity struct {
	ptr uintptr
	len int
}

// AddString interns s, returning its reference index. The empty string is
// never interned; callers must still branch on that case before calling
// AddString if they need a distinct "inline empty" path, since this always
// returns -1 for "".
func (c *Context) AddString(s string) int {
	if s == "" {
		return -1
	}

	return c.strings.Append(s)
}

// StringReference returns the reference index for s, or (0, false) if it
// has not been interned (always false for the empty string).
func (c *Context) StringReference(s string) (int, bool) {
	return c.strings.ReferenceTo(s)
}

// StringByIndex returns the interned string at reference index i.
func (c *Context) StringByIndex(i int) (string, bool) {
	return c.strings.ByIndex(i)
}

// AddObject registers obj (a composite value: Array, Object, Date,
// ByteArray, or XML) in the object table before its contents are read or
// written, returning its new reference index.
func (c *Context) AddObject(obj any) int {
	return c.objects.Append(identityKey(obj))
}

// ObjectReference returns obj's reference index if it has already been
// registered.
func (c *Context) ObjectReference(obj any) (int, bool) {
	return c.objects.ReferenceTo(identityKey(obj))
}

// ObjectByIndex returns the registered object at reference index i. The
// returned value is whatever was passed to AddObject, not the
// identity-normalized key.
func (c *Context) ObjectByIndex(i int) (any, bool) {
	return c.objects.ByIndex(i)
}

// ProxyHandleFor returns the stable *Proxy wrapper used to register v's
// ArrayCollection/ObjectProxy identity in the object table, distinct from
// v's own identity. The same v always yields the same handle within a
// Context, mirroring pyamf's context.getProxyForObject: repeat encodes of
// the same collection become a reference to the same emitted proxy, while
// v itself keeps its own, separate object-reference slot the first time
// its body is actually written.
func (c *Context) ProxyHandleFor(v any, alias string) *Proxy {
	key := identityKey(v)

	if p, ok := c.proxyHandles[key]; ok {
		return p
	}

	p := &Proxy{ClassName: alias, Value: v}
	c.proxyHandles[key] = p

	return p
}

// AddLegacyXML registers doc as having been decoded from (or destined to
// be encoded as) the legacy XMLDocument marker 0x07, rather than the E4X
// XMLString marker 0x0B.
func (c *Context) AddLegacyXML(doc any) int {
	return c.legacyXML.Append(identityKey(doc))
}

// LegacyXMLReference reports whether doc is tracked as legacy XML.
func (c *Context) LegacyXMLReference(doc any) (int, bool) {
	return c.legacyXML.ReferenceTo(identityKey(doc))
}

// GetClassByType returns the cached ClassDefinition for host type t, if
// any class has been resolved for it in this Context.
func (c *Context) GetClassByType(t reflect.Type) (*ClassDefinition, bool) {
	cd, ok := c.classByType[t]
	return cd, ok
}

// GetClassByIndex returns the ClassDefinition previously assigned
// reference index i.
func (c *Context) GetClassByIndex(i int) (*ClassDefinition, bool) {
	if i < 0 || i >= len(c.classByIndex) {
		return nil, false
	}

	return c.classByIndex[i], true
}

// AddClass registers cd under host type t and assigns it the next class
// reference index, the first time that class's traits are emitted or
// decoded in this Context.
func (c *Context) AddClass(cd *ClassDefinition, t reflect.Type) int {
	idx := len(c.classByIndex)
	cd.ReferenceIndex = idx

	c.classByIndex = append(c.classByIndex, cd)
	c.classByType[t] = cd

	return idx
}
