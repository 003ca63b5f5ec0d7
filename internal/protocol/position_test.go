package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPositionRoundTripModern(t *testing.T) {
	cases := [][3]int{{0, 0, 0}, {8, 255, 8}, {-100, 64, 200}, {33554431, 2047, -33554432}}
	for _, c := range cases {
		encoded := EncodePosition(V1_16, c[0], c[1], c[2])
		x, y, z := DecodePosition(V1_16, encoded)
		require.Equal(t, c[0], x)
		require.Equal(t, c[1], y)
		require.Equal(t, c[2], z)
	}
}

func TestPositionRoundTripLegacy(t *testing.T) {
	cases := [][3]int{{0, 0, 0}, {8, 255, 8}, {-100, 64, 200}}
	for _, c := range cases {
		encoded := EncodePosition(V1_7_2, c[0], c[1], c[2])
		x, y, z := DecodePosition(V1_7_2, encoded)
		require.Equal(t, c[0], x)
		require.Equal(t, c[1], y)
		require.Equal(t, c[2], z)
	}
}

func TestPositionLegacyVsModernDiffer(t *testing.T) {
	modern := EncodePosition(V1_16, 8, 255, 8)
	legacy := EncodePosition(V1_7_2, 8, 255, 8)
	require.NotEqual(t, modern, legacy)
}
