package session

import "github.com/ocx/limbo-gate/internal/assets"

// CheckCollision reports whether (x, z) lies within the platform's 8x8
// footprint, as required when the collision check is enabled (spec.md
// §4.5, §9 open question: treated here as required-by-default but
// feature-gated per SPEC_FULL.md so an operator can relax it if the
// gravity check alone is judged sufficient).
func CheckCollision(x, z float64) bool {
	const half = float64(assets.BlocksPerRow) / 2
	low := half
	high := 3 * half
	return x >= low && x < high && z >= low && z < high
}
