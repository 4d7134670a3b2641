// Package stream defines the byte-stream primitives the amf3 codec reads
// and writes through, and provides a default in-memory implementation.
//
// The byte stream is treated as an external collaborator: a random-access
// buffered stream exposing primitive reads/writes (signed/unsigned 8/16/32,
// IEEE-754 float/double, raw bytes, UTF-8 with byte-length prefix). Reader
// and Writer capture exactly that surface so the decoder/encoder never
// depend on a concrete buffer type; embedders can hand in their own
// ByteArray-backed implementation.
package stream

import (
	"io"
	"math"

	"github.com/flexwire/amf3/endian"
	"github.com/flexwire/amf3/errs"
	"github.com/flexwire/amf3/internal/pool"
)

// Reader is the primitive read surface the decoder consumes. All
// multi-byte values are big-endian (network order). ReadByte follows
// io.ByteReader so a Reader can be passed directly to
// internal/varint.DecodeUnsigned/DecodeSigned.
type Reader interface {
	io.ByteReader

	// ReadFull reads exactly len(p) bytes into p, or returns an error
	// (io.EOF or io.ErrUnexpectedEOF) if the stream is exhausted first.
	ReadFull(p []byte) error

	ReadU16() (uint16, error)
	ReadI16() (int16, error)
	ReadU32() (uint32, error)
	ReadI32() (int32, error)
	ReadF32() (float32, error)
	ReadF64() (float64, error)

	// ReadUTF reads a length-prefixed (u16 byte length) UTF-8 string.
	ReadUTF() (string, error)

	// Len reports how many unread bytes remain.
	Len() int
}

// Writer is the primitive write surface the encoder produces into.
type Writer interface {
	io.ByteWriter

	Write(p []byte) error

	WriteU16(uint16) error
	WriteI16(int16) error
	WriteU32(uint32) error
	WriteI32(int32) error
	WriteF32(float32) error
	WriteF64(float64) error

	// WriteUTF writes s prefixed with its byte length as a u16.
	WriteUTF(s string) error

	// Bytes returns the accumulated written bytes.
	Bytes() []byte
}

// buffer is the default Reader/Writer: an in-memory byte slice, growing on
// write and consuming from the front on read. It is backed by
// internal/pool.ByteBuffer; repeated NewBuffer calls in a hot encode loop
// reuse a pooled backing array, while New allocates its own.
type buffer struct {
	bb     *pool.ByteBuffer
	pooled bool
	off    int
	engine endian.EndianEngine
}

// New returns a Reader over a copy of data, for decoding a received
// payload. The caller's slice is neither retained nor modified.
func New(data []byte) Reader {
	bb := pool.NewByteBuffer(len(data))
	bb.MustWrite(data)

	return &buffer{bb: bb, engine: endian.GetBigEndianEngine()}
}

// NewBuffer returns an empty Writer (which is also a Reader over whatever
// has been written so far), backed by a pooled buffer. Callers that are
// done with it should call Release to return the buffer to the pool.
func NewBuffer() *buffer {
	return &buffer{bb: pool.GetStreamBuffer(), pooled: true, engine: endian.GetBigEndianEngine()}
}

// Release returns a NewBuffer-allocated backing array to the pool. It is a
// no-op for buffers created with New. Calling Release makes the buffer
// unsafe to use again.
func (b *buffer) Release() {
	if b.pooled {
		pool.PutStreamBuffer(b.bb)
		b.pooled = false
	}
}

func (b *buffer) Len() int { return b.bb.Len() - b.off }

func (b *buffer) Bytes() []byte { return b.bb.Bytes() }

func (b *buffer) ReadByte() (byte, error) {
	if b.Len() < 1 {
		return 0, io.EOF
	}
	c := b.bb.Bytes()[b.off]
	b.off++
	return c, nil
}

func (b *buffer) ReadFull(p []byte) error {
	if b.Len() < len(p) {
		return io.ErrUnexpectedEOF
	}
	copy(p, b.bb.Bytes()[b.off:b.off+len(p)])
	b.off += len(p)
	return nil
}

func (b *buffer) ReadU16() (uint16, error) {
	var buf [2]byte
	if err := b.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return b.engine.Uint16(buf[:]), nil
}

func (b *buffer) ReadI16() (int16, error) {
	u, err := b.ReadU16()
	return int16(u), err
}

func (b *buffer) ReadU32() (uint32, error) {
	var buf [4]byte
	if err := b.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return b.engine.Uint32(buf[:]), nil
}

func (b *buffer) ReadI32() (int32, error) {
	u, err := b.ReadU32()
	return int32(u), err
}

func (b *buffer) ReadF32() (float32, error) {
	u, err := b.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (b *buffer) ReadF64() (float64, error) {
	var buf [8]byte
	if err := b.ReadFull(buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(b.engine.Uint64(buf[:])), nil
}

func (b *buffer) ReadUTF() (string, error) {
	n, err := b.ReadU16()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if err := b.ReadFull(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func (b *buffer) WriteByte(c byte) error {
	b.bb.Grow(1)
	b.bb.MustWrite([]byte{c})
	return nil
}

func (b *buffer) Write(p []byte) error {
	b.bb.Grow(len(p))
	b.bb.MustWrite(p)
	return nil
}

func (b *buffer) WriteU16(v uint16) error {
	var buf [2]byte
	b.engine.PutUint16(buf[:], v)
	return b.Write(buf[:])
}

func (b *buffer) WriteI16(v int16) error { return b.WriteU16(uint16(v)) }

func (b *buffer) WriteU32(v uint32) error {
	var buf [4]byte
	b.engine.PutUint32(buf[:], v)
	return b.Write(buf[:])
}

func (b *buffer) WriteI32(v int32) error { return b.WriteU32(uint32(v)) }

func (b *buffer) WriteF32(v float32) error { return b.WriteU32(math.Float32bits(v)) }

func (b *buffer) WriteF64(v float64) error {
	var buf [8]byte
	b.engine.PutUint64(buf[:], math.Float64bits(v))
	return b.Write(buf[:])
}

func (b *buffer) WriteUTF(s string) error {
	if len(s) > math.MaxUint16 {
		return errs.ErrOverflow
	}
	if err := b.WriteU16(uint16(len(s))); err != nil {
		return err
	}
	return b.Write([]byte(s))
}
