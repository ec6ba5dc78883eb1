// Package render draws rounds into split-screen frames with gg.
package render

import (
	"image/color"

	"github.com/fogleman/gg"

	"arena-duel/internal/game/spatial"
)

// Surface implements game.Surface on a gg context. Simulation colors carry
// straight (non-premultiplied) alpha, so they are handed to gg as NRGBA.
type Surface struct {
	dc *gg.Context
}

// NewSurface wraps dc.
func NewSurface(dc *gg.Context) *Surface {
	return &Surface{dc: dc}
}

// Context returns the underlying gg context.
func (s *Surface) Context() *gg.Context {
	return s.dc
}

func nrgba(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (s *Surface) rect(r spatial.Rect, cornerRadius float64) {
	if cornerRadius > 0 {
		s.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, cornerRadius)
		return
	}
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
}

func (s *Surface) FillRect(r spatial.Rect, c color.RGBA, cornerRadius float64) {
	if r.W <= 0 || r.H <= 0 || c.A == 0 {
		return
	}
	s.rect(r, cornerRadius)
	s.dc.SetColor(nrgba(c))
	s.dc.Fill()
}

func (s *Surface) StrokeRect(r spatial.Rect, c color.RGBA, width, cornerRadius float64) {
	if r.W <= 0 || r.H <= 0 || c.A == 0 {
		return
	}
	s.rect(r, cornerRadius)
	s.dc.SetColor(nrgba(c))
	s.dc.SetLineWidth(width)
	s.dc.Stroke()
}

func (s *Surface) FillCircle(center spatial.Vec2, radius float64, c color.RGBA) {
	if radius <= 0 || c.A == 0 {
		return
	}
	s.dc.DrawCircle(center.X, center.Y, radius)
	s.dc.SetColor(nrgba(c))
	s.dc.Fill()
}

func (s *Surface) StrokeCircle(center spatial.Vec2, radius float64, c color.RGBA, width float64) {
	if radius <= 0 || c.A == 0 {
		return
	}
	s.dc.DrawCircle(center.X, center.Y, radius)
	s.dc.SetColor(nrgba(c))
	s.dc.SetLineWidth(width)
	s.dc.Stroke()
}

func (s *Surface) Line(a, b spatial.Vec2, c color.RGBA, width float64) {
	if c.A == 0 {
		return
	}
	s.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	s.dc.SetColor(nrgba(c))
	s.dc.SetLineWidth(width)
	s.dc.Stroke()
}

// FillRing fills the annulus between inner and outer with the even-odd rule.
func (s *Surface) FillRing(center spatial.Vec2, inner, outer float64, c color.RGBA) {
	if outer <= inner || outer <= 0 || c.A == 0 {
		return
	}
	s.dc.Push()
	defer s.dc.Pop()
	s.dc.SetFillRuleEvenOdd()
	s.dc.DrawCircle(center.X, center.Y, outer)
	if inner > 0 {
		s.dc.DrawCircle(center.X, center.Y, inner)
	}
	s.dc.SetColor(nrgba(c))
	s.dc.Fill()
}

// FillOutside fills bounds minus the circle, clipped to bounds.
func (s *Surface) FillOutside(bounds spatial.Rect, center spatial.Vec2, radius float64, c color.RGBA) {
	if bounds.W <= 0 || bounds.H <= 0 || c.A == 0 {
		return
	}
	s.dc.Push()
	defer s.dc.Pop()
	s.dc.DrawRectangle(bounds.X, bounds.Y, bounds.W, bounds.H)
	s.dc.Clip()
	s.dc.SetFillRuleEvenOdd()
	s.dc.DrawRectangle(bounds.X, bounds.Y, bounds.W, bounds.H)
	if radius > 0 {
		s.dc.DrawCircle(center.X, center.Y, radius)
	}
	s.dc.SetColor(nrgba(c))
	s.dc.Fill()
	s.dc.ResetClip()
}
