package render

import (
	"math"

	"arena-duel/internal/game/spatial"
)

// Camera maps world space into one split-screen view. The offset keeps
// the focus centred but never shows anything past the world edge.
type Camera struct {
	Offset spatial.Vec2
	ViewW  float64
	ViewH  float64
}

// NewCamera centres a viewW×viewH view on focus, clamped to the world.
// A world smaller than the view pins the offset at zero.
func NewCamera(focus spatial.Vec2, viewW, viewH, worldW, worldH float64) Camera {
	return Camera{
		Offset: spatial.V(
			clampOffset(focus.X-viewW/2, worldW-viewW),
			clampOffset(focus.Y-viewH/2, worldH-viewH),
		),
		ViewW: viewW,
		ViewH: viewH,
	}
}

func clampOffset(v, hi float64) float64 {
	return math.Max(0, math.Min(hi, v))
}

// Rect implements game.View.
func (c Camera) Rect(r spatial.Rect) spatial.Rect {
	return r.Translate(c.Offset.Scale(-1))
}

// Point implements game.View.
func (c Camera) Point(p spatial.Vec2) spatial.Vec2 {
	return p.Sub(c.Offset)
}

// Bounds is the view rectangle in view space.
func (c Camera) Bounds() spatial.Rect {
	return spatial.R(0, 0, c.ViewW, c.ViewH)
}

// World is the visible world rectangle.
func (c Camera) World() spatial.Rect {
	return spatial.R(c.Offset.X, c.Offset.Y, c.ViewW, c.ViewH)
}
