package game

import "arena-duel/internal/game/spatial"

// Body hitbox proportions relative to the sprite box. The body is smaller
// than the sprite so limbs may overlap walls while the torso cannot.
const (
	BodyWidthRatio  = 0.45
	BodyHeightRatio = 0.55
)

// SegmentIntersectsRect clips segment a→b against r (Liang-Barsky).
// Returns true if any part of the segment lies inside r.
func SegmentIntersectsRect(a, b spatial.Vec2, r spatial.Rect) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	t0, t1 := 0.0, 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{a.X - r.Left(), r.Right() - a.X, a.Y - r.Top(), r.Bottom() - a.Y}

	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			// Parallel to this edge: reject if outside it
			if q[i] < 0 {
				return false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
	}
	return t0 <= t1
}
