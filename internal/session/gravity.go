package session

import (
	"math"

	"github.com/ocx/limbo-gate/internal/assets"
)

// GravityTolerance is the per-tick epsilon for matching a reported Y
// against the precomputed falling-motion table. The source accepts
// "ignored ticks" but never states a numeric tolerance (spec.md §9 open
// question); 1/16 of a block matches the client's own position-update
// rounding and is the value used here.
const GravityTolerance = 0.0625

// GravityResult is the outcome of feeding one reported Y to the checker.
type GravityResult int

const (
	GravityContinue GravityResult = iota
	GravityCollided
	GravityViolated
)

// GravityChecker validates a falling client's reported Y against the
// shared FallingTable, absorbing up to maxIgnoredTicks missing or
// duplicated position packets before failing (spec.md §4.5).
type GravityChecker struct {
	table            *assets.FallingTable
	spawnY           float64
	maxIgnoredTicks  int
	maxMovementTicks int
	platformTop      float64

	tick        int
	ignoredUsed int
	lastY       float64
}

// NewGravityChecker constructs a checker for one session's fall, starting
// at rest at spawnY.
func NewGravityChecker(table *assets.FallingTable, spawnY float64, maxMovementTicks, maxIgnoredTicks int) *GravityChecker {
	return &GravityChecker{
		table:            table,
		spawnY:           spawnY,
		maxIgnoredTicks:  maxIgnoredTicks,
		maxMovementTicks: maxMovementTicks,
		platformTop:      float64(assets.PlatformY + 1),
		lastY:            spawnY,
	}
}

// Advance checks one reported Y and advances the expected-tick cursor.
func (g *GravityChecker) Advance(reportedY float64) GravityResult {
	// CumulativeFall returns the non-negative running sum of the table;
	// expected Y is spawn height plus that sum.
	expected := g.spawnY + g.table.CumulativeFall(g.tick+1)

	if math.Abs(reportedY-expected) <= GravityTolerance {
		g.tick++
		g.lastY = reportedY
		if g.tick >= g.maxMovementTicks {
			return g.checkSettled(reportedY)
		}
		return GravityContinue
	}

	// A reported Y sitting on the platform top is only a real collision once
	// the fall has actually run its course; otherwise a single crafted
	// packet at spawn could claim "landed" on the very first tick.
	if g.tick >= g.maxMovementTicks && g.settledAtPlatform(reportedY) {
		return GravityCollided
	}

	if g.ignoredUsed < g.maxIgnoredTicks {
		g.ignoredUsed++
		g.tick++
		g.lastY = reportedY
		return GravityContinue
	}
	return GravityViolated
}

func (g *GravityChecker) checkSettled(reportedY float64) GravityResult {
	if g.settledAtPlatform(reportedY) {
		return GravityCollided
	}
	return GravityContinue
}

// settledAtPlatform reports whether reportedY sits on the platform's top
// surface, within tolerance.
func (g *GravityChecker) settledAtPlatform(reportedY float64) bool {
	return math.Abs(reportedY-g.platformTop) <= GravityTolerance
}

// Tick returns the number of ticks validated so far.
func (g *GravityChecker) Tick() int { return g.tick }
