package varint

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flexwire/amf3/errs"
)

// ==============================================================================
// Encode/Decode bijection
// ==============================================================================

func TestEncodeDecodeSigned_Bijection(t *testing.T) {
	cases := []int32{
		0, 1, -1, 127, 128, -128, 16383, 16384, -16384,
		2097151, 2097152, -2097152, MaxSigned29, MinSigned29,
	}

	for _, n := range cases {
		buf, err := EncodeSigned(nil, n)
		require.NoError(t, err)

		got, err := DecodeSigned(bytes.NewReader(buf))
		require.NoError(t, err)
		require.Equal(t, n, got, "round-trip of %d", n)
	}
}

func TestEncodeSigned_Overflow(t *testing.T) {
	_, err := EncodeSigned(nil, MaxSigned29+1)
	require.ErrorIs(t, err, errs.ErrOverflow)

	_, err = EncodeSigned(nil, MinSigned29-1)
	require.ErrorIs(t, err, errs.ErrOverflow)
}

func TestEncodeUnsigned_MinimalLength(t *testing.T) {
	tests := []struct {
		n    uint32
		want int
	}{
		{0, 1},
		{0x7F, 1},
		{0x80, 2},
		{0x3FFF, 2},
		{0x4000, 3},
		{0x1FFFFF, 3},
		{0x200000, 4},
		{MaxUnsigned29, 4},
	}

	for _, tt := range tests {
		buf, err := EncodeUnsigned(nil, tt.n)
		require.NoError(t, err)
		require.Len(t, buf, tt.want, "n=0x%x", tt.n)
	}
}

func TestEncodeUnsigned_Overflow(t *testing.T) {
	_, err := EncodeUnsigned(nil, MaxUnsigned29+1)
	require.ErrorIs(t, err, errs.ErrOverflow)
}

// TestDecodeUnsigned_FourByteQuirk locks in the non-canonical "shift left and
// add one" behavior that must be preserved byte-for-byte for wire
// compatibility.
func TestDecodeUnsigned_FourByteQuirk(t *testing.T) {
	// 4-byte form with the top bit of the reconstructed value set.
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF}

	got, err := DecodeUnsigned(bytes.NewReader(buf))
	require.NoError(t, err)

	// Mechanically: 3 continuation bytes contribute 0x1FFFFF worth of 7-bit
	// groups, then the raw final byte. bit 28 ends up set, so the quirk
	// kicks in: result = (result << 1) + 1.
	require.Equal(t, uint32(0x3FFFFFFF), got)
}

func TestEncodeUnsigned_KnownBytes(t *testing.T) {
	buf, err := EncodeUnsigned(nil, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00}, buf)

	buf, err = EncodeSigned(nil, -1)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, buf)
}
