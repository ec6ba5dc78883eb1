package game

import (
	"image/color"

	"arena-duel/internal/game/spatial"
)

// Surface is the drawing target handed to Draw. Coordinates are in view
// space; the simulation never computes them itself, it maps world state
// through a View first. Colors are straight (non-premultiplied) alpha.
type Surface interface {
	FillRect(r spatial.Rect, c color.RGBA, cornerRadius float64)
	StrokeRect(r spatial.Rect, c color.RGBA, width, cornerRadius float64)
	FillCircle(center spatial.Vec2, radius float64, c color.RGBA)
	StrokeCircle(center spatial.Vec2, radius float64, c color.RGBA, width float64)
	Line(a, b spatial.Vec2, c color.RGBA, width float64)
	// FillRing fills the annulus between inner and outer radii.
	FillRing(center spatial.Vec2, inner, outer float64, c color.RGBA)
	// FillOutside fills bounds except for the circle at center.
	FillOutside(bounds spatial.Rect, center spatial.Vec2, radius float64, c color.RGBA)
}

// View maps world space to one split-screen view.
type View interface {
	Rect(r spatial.Rect) spatial.Rect
	Point(p spatial.Vec2) spatial.Vec2
}

// Drawable is implemented by every simulation component that renders.
type Drawable interface {
	Draw(s Surface, v View)
}

// SoundPlayer plays a named sound effect. Calls are fire-and-forget and must
// not block the tick; unknown names are ignored.
type SoundPlayer interface {
	Play(name string, volume float64)
}

// NoSound is the default SoundPlayer.
type NoSound struct{}

func (NoSound) Play(string, float64) {}

// withAlpha returns c with its alpha replaced.
func withAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

// Palette shared by the simulation's Draw methods.
var (
	colorObstacle     = color.RGBA{70, 74, 92, 255}
	colorObstacleEdge = color.RGBA{110, 116, 140, 255}
	colorBullet       = color.RGBA{255, 230, 120, 255}
	colorGrenade      = color.RGBA{90, 170, 90, 255}
	colorExplosion    = color.RGBA{255, 150, 60, 255}
	colorShockwave    = color.RGBA{255, 210, 90, 255}
	colorTeleport     = color.RGBA{120, 200, 255, 255}
	colorPlayer1      = color.RGBA{80, 160, 255, 255}
	colorPlayer2      = color.RGBA{255, 110, 110, 255}
)
