package assets

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildFallingTableLength(t *testing.T) {
	table := BuildFallingTable(8)
	require.Equal(t, 8+11, table.Len())
}

func TestBuildFallingTableMotionValues(t *testing.T) {
	table := BuildFallingTable(8)
	require.InDelta(t, 0, table.Motion(0), 1e-9)
	expected1 := -((math.Pow(0.98, 1) - 1) * 3.92)
	require.InDelta(t, expected1, table.Motion(1), 1e-9)
}

func TestBuildFallingTableOutOfRange(t *testing.T) {
	table := BuildFallingTable(8)
	require.Equal(t, float64(0), table.Motion(-1))
	require.Equal(t, float64(0), table.Motion(table.Len()))
}

func TestCumulativeFallMonotonicallyIncreasesInMagnitude(t *testing.T) {
	table := BuildFallingTable(8)
	prev := 0.0
	for i := 1; i <= table.Len(); i++ {
		cur := table.CumulativeFall(i)
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestCumulativeFallZeroTicks(t *testing.T) {
	table := BuildFallingTable(8)
	require.Equal(t, float64(0), table.CumulativeFall(0))
	require.Equal(t, float64(0), table.CumulativeFall(-5))
}
