package stream

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// ==============================================================================
// buffer: primitive round trips
// ==============================================================================

func TestBuffer_U16RoundTrip(t *testing.T) {
	w := NewBuffer()
	require.NoError(t, w.WriteU16(0xABCD))

	r := New(w.Bytes())
	got, err := r.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(0xABCD), got)
}

func TestBuffer_I32RoundTrip(t *testing.T) {
	w := NewBuffer()
	require.NoError(t, w.WriteI32(-12345))

	r := New(w.Bytes())
	got, err := r.ReadI32()
	require.NoError(t, err)
	require.Equal(t, int32(-12345), got)
}

func TestBuffer_F64RoundTrip(t *testing.T) {
	w := NewBuffer()
	require.NoError(t, w.WriteF64(3.14159265358979))

	r := New(w.Bytes())
	got, err := r.ReadF64()
	require.NoError(t, err)
	require.InDelta(t, 3.14159265358979, got, 1e-12)
}

func TestBuffer_BigEndianByteOrder(t *testing.T) {
	w := NewBuffer()
	require.NoError(t, w.WriteU32(0x01020304))

	b := w.Bytes()
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, b)
}

func TestBuffer_UTFRoundTrip(t *testing.T) {
	w := NewBuffer()
	require.NoError(t, w.WriteUTF("hello"))

	r := New(w.Bytes())
	got, err := r.ReadUTF()
	require.NoError(t, err)
	require.Equal(t, "hello", got)
}

func TestBuffer_ReadByteEOF(t *testing.T) {
	r := New(nil)
	_, err := r.ReadByte()
	require.ErrorIs(t, err, io.EOF)
}

func TestBuffer_ReadFullUnexpectedEOF(t *testing.T) {
	r := New([]byte{0x01})
	buf := make([]byte, 4)
	err := r.ReadFull(buf)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestBuffer_LenTracksConsumption(t *testing.T) {
	r := New([]byte{1, 2, 3, 4})
	require.Equal(t, 4, r.Len())

	_, _ = r.ReadByte()
	require.Equal(t, 3, r.Len())
}

// ==============================================================================
// Input/Output element re-entry
// ==============================================================================

func TestInputOutput_ElementReentry(t *testing.T) {
	echo := func(w Writer, v any) error {
		s, _ := v.(string)
		return w.WriteUTF(s)
	}
	out := NewOutput(NewBuffer(), echo)
	require.NoError(t, out.WriteObject("nested"))

	readBack := func(r Reader) (any, error) { return r.ReadUTF() }
	in := NewInput(New(out.Bytes()), readBack)

	got, err := in.ReadObject()
	require.NoError(t, err)
	require.Equal(t, "nested", got)
}
