package amf3

// List is the host representation of a dense AMF3 Array: one with integer
// indexes only. It is a named slice type rather than a bare []any so decode
// can hand back a stable *List pointer to register in the object table
// before the slice is populated — Go slices themselves are not comparable
// and cannot serve as reference-table keys.
type List []any

// MixedArray is the ordered string-or-non-negative-integer-keyed mapping
// that preserves the AMF3 distinction between a dense integer-indexed array
// and an associative one. Keys are stored by their decimal string form
// regardless of whether they originated from the associative or dense half
// of the wire format, so that a decode's dense-element pass overwrites a
// coincident associative key: the dense pass runs last and wins.
type MixedArray struct {
	order  []string
	values map[string]any
}

// NewMixedArray creates an empty MixedArray.
func NewMixedArray() *MixedArray {
	return &MixedArray{values: make(map[string]any)}
}

// Set assigns key to v, appending key to the insertion order only the
// first time it is used.
func (m *MixedArray) Set(key string, v any) {
	if _, exists := m.values[key]; !exists {
		m.order = append(m.order, key)
	}

	m.values[key] = v
}

// Get returns the value stored at key.
func (m *MixedArray) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (m *MixedArray) Len() int { return len(m.values) }

// Keys returns the keys in insertion order.
func (m *MixedArray) Keys() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
