// Package reftable implements the insertion-ordered reference tables AMF3
// uses to dedupe strings, objects, and legacy XML within a single
// encode/decode pass.
//
// Two flavors are provided: StringTable, which deduplicates by value using a
// content hash as a fast pre-filter, and ObjectTable, which deduplicates by
// identity (pointer equality) since two structurally-equal objects must
// still be encoded as distinct references.
package reftable

import "github.com/flexwire/amf3/internal/hash"

// StringTable is an insertion-ordered table of interned strings, looked up
// by content. Empty strings are never interned: Append and ReferenceTo both
// treat "" as never-present.
//
// Lookups hash the string with xxhash first, via internal/hash.ID, so
// repeated encodes of the same long class/property name don't pay for a
// byte-by-byte comparison against every other bucket entry, only against
// same-hash entries.
type StringTable struct {
	values  []string
	buckets map[uint64][]int // hash -> indices into values with that hash
}

// NewStringTable creates an empty string table.
func NewStringTable() *StringTable {
	return &StringTable{
		buckets: make(map[uint64][]int),
	}
}

// Append interns s and returns its new reference index, or -1 for the empty
// string, which is never interned. Callers must check ReferenceTo first;
// Append does not dedupe on its own.
func (t *StringTable) Append(s string) int {
	if s == "" {
		return -1
	}

	idx := len(t.values)
	t.values = append(t.values, s)

	h := hash.ID(s)
	t.buckets[h] = append(t.buckets[h], idx)

	return idx
}

// ReferenceTo returns the reference index for s if it has already been
// interned, or (0, false) if not. The empty string is never found.
func (t *StringTable) ReferenceTo(s string) (int, bool) {
	if s == "" {
		return 0, false
	}

	h := hash.ID(s)
	for _, idx := range t.buckets[h] {
		if t.values[idx] == s {
			return idx, true
		}
	}

	return 0, false
}

// ByIndex returns the string at reference index i, or ("", false) if i is
// out of range.
func (t *StringTable) ByIndex(i int) (string, bool) {
	if i < 0 || i >= len(t.values) {
		return "", false
	}

	return t.values[i], true
}

// Len returns the number of interned strings.
func (t *StringTable) Len() int { return len(t.values) }

// Clear empties the table but keeps the underlying storage for reuse.
func (t *StringTable) Clear() {
	t.values = t.values[:0]
	for k := range t.buckets {
		delete(t.buckets, k)
	}
}

// ObjectTable is an insertion-ordered table of composite values (Array,
// Object, Date, ByteArray, XML), looked up by identity rather than value
// equality: two empty objects must still be encoded as two distinct
// references unless the caller passes the exact same handle twice.
//
// Go has no pointer-identity-as-map-key primitive for interface values
// holding non-pointer types, so callers are required to register pointers
// or other comparable "stable handles" — a slice gets wrapped in *[]T by
// the caller before it is appended here, for instance.
type ObjectTable struct {
	values []any
	index  map[any]int
}

// NewObjectTable creates an empty object table.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{
		index: make(map[any]int),
	}
}

// Append registers obj and returns its new reference index.
func (t *ObjectTable) Append(obj any) int {
	idx := len(t.values)
	t.values = append(t.values, obj)
	t.index[obj] = idx

	return idx
}

// ReferenceTo returns the reference index for obj if it has already been
// registered, or (0, false) if not.
func (t *ObjectTable) ReferenceTo(obj any) (int, bool) {
	idx, ok := t.index[obj]
	return idx, ok
}

// ByIndex returns the object at reference index i, or (nil, false) if i is
// out of range.
func (t *ObjectTable) ByIndex(i int) (any, bool) {
	if i < 0 || i >= len(t.values) {
		return nil, false
	}

	return t.values[i], true
}

// Len returns the number of registered objects.
func (t *ObjectTable) Len() int { return len(t.values) }

// Clear empties the table but keeps the underlying storage for reuse.
func (t *ObjectTable) Clear() {
	t.values = t.values[:0]
	for k := range t.index {
		delete(t.index, k)
	}
}
