// Package assets builds the immutable precomputed artifacts the fallback
// session hands to every connection: per-bracket JoinGame images, the
// barrier-block platform, the empty spawn chunk, and the falling-motion
// table. Everything here is built once in Prepare and shared read-only
// across sessions (spec.md §4.3, §9).
package assets

import "math"

// FallingTable is the precomputed per-tick Y-motion curve, indexed by tick.
// M[i] = -((0.98^i - 1) * 3.92), matching the client's own gravity
// integration so a legitimate faller reproduces it exactly.
type FallingTable struct {
	motion []float64
	cumul  []float64
}

// BuildFallingTable computes maxMovementTicks+11 entries (spec.md §3
// invariant: "the precomputed Y-motion table has maxMovementTicks + 11
// entries; the Fallback Session never indexes past the last").
func BuildFallingTable(maxMovementTicks int) *FallingTable {
	n := maxMovementTicks + 11
	t := &FallingTable{motion: make([]float64, n), cumul: make([]float64, n)}
	var sum float64
	for i := 0; i < n; i++ {
		m := -((math.Pow(0.98, float64(i)) - 1) * 3.92)
		t.motion[i] = m
		sum += m
		t.cumul[i] = sum
	}
	return t
}

// Motion returns M[tick], the expected per-tick Y delta.
func (t *FallingTable) Motion(tick int) float64 {
	if tick < 0 || tick >= len(t.motion) {
		return 0
	}
	return t.motion[tick]
}

// CumulativeFall returns M[0] + ... + M[ticks-1], the expected total Y
// drop after `ticks` ticks of free fall (0 for ticks <= 0; ticks beyond
// the table are capped at its length).
func (t *FallingTable) CumulativeFall(ticks int) float64 {
	if ticks <= 0 {
		return 0
	}
	if ticks > len(t.cumul) {
		ticks = len(t.cumul)
	}
	return t.cumul[ticks-1]
}

// Len reports the number of precomputed entries.
func (t *FallingTable) Len() int { return len(t.motion) }
