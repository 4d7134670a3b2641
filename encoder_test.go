package amf3

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flexwire/amf3/errs"
	"github.com/flexwire/amf3/stream"
)

func encodeOne(t *testing.T, v any, opts ...Option) []byte {
	t.Helper()

	enc, err := NewEncoder(opts...)
	require.NoError(t, err)

	w := stream.NewBuffer()
	defer w.Release()

	require.NoError(t, enc.Encode(w, v))

	out := make([]byte, len(w.Bytes()))
	copy(out, w.Bytes())

	return out
}

func TestEncode_IntegerZero(t *testing.T) {
	require.Equal(t, []byte{0x04, 0x00}, encodeOne(t, 0))
}

func TestEncode_IntegerMinusOne(t *testing.T) {
	require.Equal(t, []byte{0x04, 0xFF, 0xFF, 0xFF, 0xFF}, encodeOne(t, -1))
}

func TestEncode_EmptyString(t *testing.T) {
	require.Equal(t, []byte{0x06, 0x01}, encodeOne(t, ""))
}

func TestEncode_StringReferenceWithinList(t *testing.T) {
	lst := &List{"a", "a"}
	want := []byte{0x09, 0x05, 0x01, 0x06, 0x03, 0x61, 0x06, 0x00}
	require.Equal(t, want, encodeOne(t, lst))
}

func TestEncode_DenseList(t *testing.T) {
	lst := &List{1, 2, 3}
	want := []byte{0x09, 0x07, 0x01, 0x04, 0x01, 0x04, 0x02, 0x04, 0x03}
	require.Equal(t, want, encodeOne(t, lst))
}

func TestEncode_MixedArrayReclassifiesNonZeroIntKey(t *testing.T) {
	ma := NewMixedArray()
	ma.Set("a", 1)
	ma.Set("2", "x")

	want := []byte{
		0x09, 0x01,
		0x03, 0x61, 0x04, 0x01,
		0x03, 0x32, 0x06, 0x03, 0x78,
		0x01,
	}
	require.Equal(t, want, encodeOne(t, ma))
}

func TestEncode_SharedObjectBecomesReference(t *testing.T) {
	shared := NewMixedArray()
	lst := &List{shared, shared}

	got := encodeOne(t, lst)

	// Array header (size=2, inline), empty-key sentinel, then the two
	// Object... actually shared is a *MixedArray so it is written via the
	// Array marker too: first occurrence inline (dense=0,assoc=0 -> 0x09
	// 0x01 0x01), second occurrence a bare object reference (0x09 0x02).
	want := []byte{
		0x09, 0x05, 0x01,
		0x09, 0x01, 0x01,
		0x09, 0x02,
	}
	require.Equal(t, want, got)
}

func TestEncode_ByteArrayUncompressed(t *testing.T) {
	ba := NewByteArray([]byte("hello world"))

	want := []byte{
		0x0C, 0x17,
		'h', 'e', 'l', 'l', 'o', ' ', 'w', 'o', 'r', 'l', 'd',
	}
	require.Equal(t, want, encodeOne(t, ba))
}

func TestEncode_EmptyDictKeyFails(t *testing.T) {
	ma := NewMixedArray()
	ma.Set("", 1)

	enc, err := NewEncoder()
	require.NoError(t, err)

	w := stream.NewBuffer()
	defer w.Release()

	err = enc.Encode(w, ma)
	require.ErrorIs(t, err, errs.ErrEmptyDictKey)
	require.Empty(t, w.Bytes(), "empty-key rule: no byte is emitted for such a value")
}

func TestEncode_IntegerOutOfRangeFallsBackToNumber(t *testing.T) {
	got := encodeOne(t, int64(1)<<40)
	require.Equal(t, byte(MarkerNumber), got[0])
}

func TestEncode_NoAliasForUnknownType(t *testing.T) {
	type custom struct{ X int }

	_, err := Marshal(custom{X: 1})
	require.ErrorIs(t, err, errs.ErrNoAliasForType)
}
