package game

import (
	"math"

	"arena-duel/internal/config"
	"arena-duel/internal/game/spatial"
)

// Grenade is a bouncing explosive with a fuse.
type Grenade struct {
	Pos   spatial.Vec2
	Vel   spatial.Vec2
	Owner PlayerID
	Fuse  float64

	half    float64 // half of the fixed square hitbox
	bounce  float64
	damping float64
}

// NewGrenade creates a grenade using the mode's grenade parameters.
func NewGrenade(pos, vel spatial.Vec2, owner PlayerID, cfg config.GrenadeConfig) *Grenade {
	return &Grenade{
		Pos:     pos,
		Vel:     vel,
		Owner:   owner,
		Fuse:    cfg.Fuse,
		half:    cfg.HitboxSize / 2,
		bounce:  cfg.Bounce,
		damping: cfg.Damping,
	}
}

// Hitbox returns the fixed square used for obstacle and player contact.
// Its size is independent of how the grenade is drawn.
func (g *Grenade) Hitbox() spatial.Rect {
	return spatial.RectAround(g.Pos, 2*g.half, 2*g.half)
}

// Expired reports whether the fuse has run out.
func (g *Grenade) Expired() bool {
	return g.Fuse <= 0
}

// Update integrates the grenade, bounces it off the arena walls and the
// first obstacle it penetrates, applies damping and burns the fuse.
func (g *Grenade) Update(dt float64, blockers *spatial.Blockers, arena spatial.Rect) {
	g.Pos = g.Pos.Add(g.Vel.Scale(dt))

	box := g.Hitbox()
	if box.Left() < arena.Left() {
		g.Pos.X = arena.Left() + g.half
		g.Vel.X = -g.Vel.X * g.bounce
	}
	if box.Right() > arena.Right() {
		g.Pos.X = arena.Right() - g.half
		g.Vel.X = -g.Vel.X * g.bounce
	}
	if box.Top() < arena.Top() {
		g.Pos.Y = arena.Top() + g.half
		g.Vel.Y = -g.Vel.Y * g.bounce
	}
	if box.Bottom() > arena.Bottom() {
		g.Pos.Y = arena.Bottom() - g.half
		g.Vel.Y = -g.Vel.Y * g.bounce
	}

	// Obstacles are tested with the pre-wall-correction box.
	if ob, hit := blockers.First(box); hit {
		g.bounceOff(box, ob)
	}

	g.Vel = g.Vel.Scale(g.damping)
	g.Fuse -= dt
}

// bounceOff pushes the grenade out of ob through the face with the least
// penetration and reflects the matching velocity component.
func (g *Grenade) bounceOff(box, ob spatial.Rect) {
	fromLeft := math.Abs(box.Right() - ob.Left())
	fromRight := math.Abs(ob.Right() - box.Left())
	fromTop := math.Abs(box.Bottom() - ob.Top())
	fromBottom := math.Abs(ob.Bottom() - box.Top())
	m := math.Min(math.Min(fromLeft, fromRight), math.Min(fromTop, fromBottom))

	switch m {
	case fromLeft:
		g.Pos.X = ob.Left() - g.half
		g.Vel.X = -g.Vel.X * g.bounce
	case fromRight:
		g.Pos.X = ob.Right() + g.half
		g.Vel.X = -g.Vel.X * g.bounce
	case fromTop:
		g.Pos.Y = ob.Top() - g.half
		g.Vel.Y = -g.Vel.Y * g.bounce
	default:
		g.Pos.Y = ob.Bottom() + g.half
		g.Vel.Y = -g.Vel.Y * g.bounce
	}
}

// Draw renders the grenade.
func (g *Grenade) Draw(s Surface, v View) {
	c := v.Point(g.Pos)
	s.FillCircle(c, 6, colorGrenade)
	s.StrokeCircle(c, 6, withAlpha(colorBullet, 200), 1.5)
}
