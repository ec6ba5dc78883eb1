package game

import (
	"math"

	"arena-duel/internal/game/spatial"
)

// BulletKind is the shape a bullet collides and renders with.
type BulletKind uint8

const (
	BulletRect BulletKind = iota
	BulletLine
)

// Bullet is a straight-line projectile fired by a weapon. It lives until it
// hits something or leaves the world.
type Bullet struct {
	Rect      spatial.Rect
	Vel       spatial.Vec2
	Owner     PlayerID
	Damage    int
	Kind      BulletKind
	Thickness float64
	Weapon    string
}

// NewBullet creates a bullet of the given size centred on origin.
func NewBullet(origin, vel spatial.Vec2, w, h float64, owner PlayerID, damage int, kind BulletKind, thickness float64) *Bullet {
	return &Bullet{
		Rect:      spatial.RectAround(origin, w, h),
		Vel:       vel,
		Owner:     owner,
		Damage:    damage,
		Kind:      kind,
		Thickness: thickness,
	}
}

// Update advances the bullet by vel*dt.
func (b *Bullet) Update(dt float64) {
	b.Rect = b.Rect.Translate(b.Vel.Scale(dt))
}

// Center returns the bullet's centre point.
func (b *Bullet) Center() spatial.Vec2 {
	return b.Rect.Center()
}

// Segment returns the tracer for line bullets: a segment of the bullet's
// length ending at its centre, pointing along its velocity.
func (b *Bullet) Segment() (spatial.Vec2, spatial.Vec2) {
	head := b.Center()
	length := b.Rect.W
	if b.Rect.H > length {
		length = b.Rect.H
	}
	tail := head.Sub(b.Vel.Normalize().Scale(length))
	return tail, head
}

// Bounds returns the box enclosing everything Hits can touch.
func (b *Bullet) Bounds() spatial.Rect {
	if b.Kind != BulletLine {
		return b.Rect
	}
	tail, head := b.Segment()
	x0, x1 := math.Min(tail.X, head.X), math.Max(tail.X, head.X)
	y0, y1 := math.Min(tail.Y, head.Y), math.Max(tail.Y, head.Y)
	return spatial.R(x0, y0, x1-x0, y1-y0).Pad(b.Thickness/2 + 1)
}

// Hits reports whether the bullet overlaps r. Line bullets test their
// tracer segment against r grown by half the line thickness.
func (b *Bullet) Hits(r spatial.Rect) bool {
	if b.Kind == BulletLine {
		tail, head := b.Segment()
		return SegmentIntersectsRect(tail, head, r.Pad(b.Thickness/2))
	}
	return b.Rect.Intersects(r)
}

// OutOfWorld reports whether the bullet has fully left [0,w]×[0,h].
func (b *Bullet) OutOfWorld(w, h float64) bool {
	return b.Rect.Right() < 0 || b.Rect.Left() > w ||
		b.Rect.Bottom() < 0 || b.Rect.Top() > h
}

// Draw renders the bullet.
func (b *Bullet) Draw(s Surface, v View) {
	if b.Kind == BulletLine {
		tail, head := b.Segment()
		s.Line(v.Point(tail), v.Point(head), colorBullet, b.Thickness)
		return
	}
	s.FillRect(v.Rect(b.Rect), colorBullet, 2)
}
