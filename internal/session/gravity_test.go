package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ocx/limbo-gate/internal/assets"
)

func TestGravityCheckerFollowsExactSequence(t *testing.T) {
	table := assets.BuildFallingTable(5)
	spawnY := 300.0
	g := NewGravityChecker(table, spawnY, 5, 0)

	for tick := 0; tick < 5; tick++ {
		expected := spawnY + table.CumulativeFall(tick+1)
		result := g.Advance(expected)
		if tick < 4 {
			require.Equal(t, GravityContinue, result, "tick %d", tick)
		}
	}
	require.Equal(t, 5, g.Tick())
}

func TestGravityCheckerAbsorbsIgnoredTick(t *testing.T) {
	table := assets.BuildFallingTable(5)
	spawnY := 300.0
	g := NewGravityChecker(table, spawnY, 5, 1)

	// First tick: send garbage, within the absorbed-tick budget.
	result := g.Advance(spawnY - 50)
	require.Equal(t, GravityContinue, result)
	require.Equal(t, 1, g.Tick())

	// Resume the expected sequence from the now-advanced tick cursor.
	expected := spawnY + table.CumulativeFall(g.Tick()+1)
	result = g.Advance(expected)
	require.Equal(t, GravityContinue, result)
}

func TestGravityCheckerViolatesWithoutAbsorption(t *testing.T) {
	table := assets.BuildFallingTable(5)
	spawnY := 300.0
	g := NewGravityChecker(table, spawnY, 5, 0)

	result := g.Advance(spawnY - 50) // nowhere near the expected curve or the platform
	require.Equal(t, GravityViolated, result)
}

func TestGravityCheckerDetectsCollisionAtPlatformTop(t *testing.T) {
	table := assets.BuildFallingTable(1)
	platformTop := float64(assets.PlatformY + 1)
	g := NewGravityChecker(table, platformTop, 1, 0)

	result := g.Advance(platformTop)
	require.Equal(t, GravityCollided, result)
}

// TestGravityCheckerRejectsPrematurePlatformReading guards against a bot
// skipping the fall curve entirely by reporting the platform-top Y on its
// very first packet: without having advanced through maxMovementTicks of
// real curve matches, that reading must not be accepted as a collision.
func TestGravityCheckerRejectsPrematurePlatformReading(t *testing.T) {
	table := assets.BuildFallingTable(8)
	spawnY := 260.0
	platformTop := float64(assets.PlatformY + 1)
	g := NewGravityChecker(table, spawnY, 8, 0)

	result := g.Advance(platformTop)
	require.NotEqual(t, GravityCollided, result)
	require.Equal(t, 0, g.Tick())
}

func TestGravityCheckerIgnoredBudgetExhausted(t *testing.T) {
	table := assets.BuildFallingTable(5)
	spawnY := 300.0
	g := NewGravityChecker(table, spawnY, 5, 1)

	require.Equal(t, GravityContinue, g.Advance(spawnY-50)) // uses up the one ignored tick
	result := g.Advance(spawnY - 999)                        // second garbage tick: budget exhausted
	require.Equal(t, GravityViolated, result)
}
