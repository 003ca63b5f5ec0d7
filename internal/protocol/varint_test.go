package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []int32{0, 1, -1, 127, 128, 255, 25565, -2147483648, 2147483647}
	for _, v := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt(&buf, v))
		require.LessOrEqual(t, buf.Len(), 5)
		require.Equal(t, SizeVarInt(v), buf.Len())

		got, err := ReadVarInt(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarIntTooLong(t *testing.T) {
	// Five continuation bytes followed by a terminator: 6 bytes total,
	// past the 5-byte cap for a 32-bit varint.
	malformed := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	_, err := ReadVarInt(bytes.NewReader(malformed))
	require.Error(t, err)
}

func TestVarLongRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 1 << 40, -(1 << 40), 9223372036854775807, -9223372036854775808}
	for _, v := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteVarLong(&buf, v))
		got, err := ReadVarLong(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}
