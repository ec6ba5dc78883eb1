// Package spatial provides the 2D primitives the simulation is built on:
// vectors, axis-aligned rectangles, an R-tree obstacle index and the
// random free-position search used by every spawner.
package spatial

import "math"

// Vec2 is a point or direction in world space.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// FromAngle returns the unit vector for an angle in radians.
func FromAngle(rad float64) Vec2 {
	return Vec2{math.Cos(rad), math.Sin(rad)}
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// RectAround builds a w×h rectangle centred on c.
func RectAround(c Vec2, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

func (r Rect) Left() float64 { return r.X }
func (r Rect) Top() float64 { return r.Y }
func (r Rect) Right() float64 { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the rectangle centre.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.W/2, r.Y + r.H/2}
}

// Intersects reports whether two rectangles share a region of positive area.
// Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// ContainsPoint uses half-open bounds: left/top inclusive, right/bottom exclusive.
func (r Rect) ContainsPoint(p Vec2) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// ContainsRect reports whether o lies fully inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Inflate grows the rectangle by dx total width and dy total height,
// keeping the centre fixed. Negative values shrink it.
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{X: r.X - dx/2, Y: r.Y - dy/2, W: r.W + dx, H: r.H + dy}
}

// Pad grows the rectangle by p on every side.
func (r Rect) Pad(p float64) Rect {
	return r.Inflate(2*p, 2*p)
}

// Translate returns the rectangle moved by d.
func (r Rect) Translate(d Vec2) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// WithCenter returns the rectangle moved so its centre is c.
func (r Rect) WithCenter(c Vec2) Rect {
	return RectAround(c, r.W, r.H)
}

// ClampInto moves r the minimum distance needed to lie inside bounds.
// When r is larger than bounds on an axis it is centred on that axis.
func (r Rect) ClampInto(bounds Rect) Rect {
	out := r
	if r.W >= bounds.W {
		out.X = bounds.X + (bounds.W-r.W)/2
	} else if r.X < bounds.X {
		out.X = bounds.X
	} else if r.Right() > bounds.Right() {
		out.X = bounds.Right() - r.W
	}
	if r.H >= bounds.H {
		out.Y = bounds.Y + (bounds.H-r.H)/2
	} else if r.Y < bounds.Y {
		out.Y = bounds.Y
	} else if r.Bottom() > bounds.Bottom() {
		out.Y = bounds.Bottom() - r.H
	}
	return out
}

// OverlapsAny reports whether r intersects any rectangle in rects.
func OverlapsAny(r Rect, rects []Rect) bool {
	for _, o := range rects {
		if r.Intersects(o) {
			return true
		}
	}
	return false
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
