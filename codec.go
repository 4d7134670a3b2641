package amf3

import "github.com/flexwire/amf3/stream"

// Marshal encodes a single value to its AMF3 byte representation using a
// fresh Context, for callers that don't need reference-table continuity
// across multiple calls.
func Marshal(v any, opts ...Option) ([]byte, error) {
	enc, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	w := stream.NewBuffer()
	defer w.Release()

	if err := enc.Encode(w, v); err != nil {
		return nil, err
	}

	out := make([]byte, len(w.Bytes()))
	copy(out, w.Bytes())

	return out, nil
}

// Unmarshal decodes a single top-level AMF3 element from data using a fresh
// Context.
func Unmarshal(data []byte, opts ...Option) (any, error) {
	dec, err := NewDecoder(opts...)
	if err != nil {
		return nil, err
	}

	return dec.Decode(stream.New(data))
}
