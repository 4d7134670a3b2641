package amf3

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// ByteArray is an opaque binary payload with a compressed flag; it also
// carries its own private Context for nested reads/writes.
//
// Compressed mirrors pyamf.amf3.ByteArray.compressed
// (original_source/pyamf/amf3.py:537 and the readByteArray detection
// branch): on decode it reports whether the payload was opportunistically
// zlib-decompressed; on encode, setting it requests zlib compression of
// Data before the raw bytes are written.
type ByteArray struct {
	Data       []byte
	Compressed bool

	// ctx is this ByteArray's private Context, used only when its
	// contents are themselves decoded/encoded as nested AMF3 elements.
	// Nested content never shares reference tables with the outer stream.
	ctx *Context
}

// NewByteArray wraps data as an uncompressed ByteArray.
func NewByteArray(data []byte) *ByteArray {
	return &ByteArray{Data: data}
}

// Context returns this ByteArray's private Context, creating it on first
// use.
func (b *ByteArray) Context() *Context {
	if b.ctx == nil {
		b.ctx = NewContext()
	}

	return b.ctx
}

// decompressByteArray attempts zlib inflation of raw, matching readByteArray's
// try/except zlib.error pattern: success means the payload was compressed.
func decompressByteArray(raw []byte) (data []byte, compressed bool) {
	r, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return raw, false
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return raw, false
	}

	return out, true
}

// compressByteArray deflates data with zlib, used when writing a ByteArray whose
// Compressed flag is set.
func compressByteArray(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
