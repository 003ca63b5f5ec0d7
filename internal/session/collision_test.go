package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckCollisionInsideFootprint(t *testing.T) {
	require.True(t, CheckCollision(8, 8))
	require.True(t, CheckCollision(4, 4))  // lower bound, inclusive
	require.True(t, CheckCollision(11.9, 11.9))
}

func TestCheckCollisionOutsideFootprint(t *testing.T) {
	require.False(t, CheckCollision(0, 0))
	require.False(t, CheckCollision(12, 8)) // upper bound, exclusive
	require.False(t, CheckCollision(8, 20))
	require.False(t, CheckCollision(3.9, 8))
}
