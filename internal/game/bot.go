package game

import (
	"math"
	"math/rand"

	"arena-duel/internal/game/spatial"
)

// Bot tuning. Distances are in world units, durations in ticks.
const (
	botAlignTolerance = 16.0 // axis offset still considered "in line"
	botShotgunRange   = 200.0
	botPistolRange    = 460.0
	botGrenadeRange   = 340.0
	botGrenadeChance  = 0.02
	botStrafeTicks    = 30
	botStuckEpsilon   = 0.5
)

// botBrain is the per-player memory of a Bot.
type botBrain struct {
	lastPos     spatial.Vec2
	moving      bool
	strafe      spatial.Vec2
	strafeTicks int
}

// Bot is a simple AI InputSource that drives both players: pick a weapon
// by range, line up on one axis, shoot, and sidestep when stuck.
type Bot struct {
	rng    *rand.Rand
	brains [2]botBrain
}

// NewBot creates a bot with its own RNG.
func NewBot(seed int64) *Bot {
	return &Bot{rng: rand.New(rand.NewSource(seed))}
}

// Inputs implements InputSource.
func (b *Bot) Inputs(r *Round) [2]Input {
	var out [2]Input
	for i, p := range r.Players {
		out[i] = b.think(&b.brains[i], p, r.Player(p.ID.Opponent()))
	}
	return out
}

func (b *Bot) think(brain *botBrain, self, target *Player) Input {
	var in Input
	if !self.Alive() || !target.Alive() {
		return in
	}

	pos := self.Center()
	delta := target.Center().Sub(pos)
	dist := delta.Len()

	// Stuck on a wall: sidestep perpendicular for a while.
	if brain.moving && pos.Dist(brain.lastPos) < botStuckEpsilon && brain.strafeTicks == 0 {
		brain.strafeTicks = botStrafeTicks
		if math.Abs(delta.X) > math.Abs(delta.Y) {
			brain.strafe = spatial.V(0, b.sign())
		} else {
			brain.strafe = spatial.V(b.sign(), 0)
		}
	}
	brain.lastPos = pos

	switch {
	case dist < botShotgunRange:
		in.Weapon = 3
	case dist < botPistolRange:
		in.Weapon = 1
	default:
		in.Weapon = 2
	}
	if in.Weapon-1 == self.WeaponIndex {
		in.Weapon = 0
	}

	w := self.Weapon()
	if w.Mag == 0 && !w.Reloading() {
		in.Reload = true
	}

	var dir spatial.Vec2
	aligned := false
	switch {
	case brain.strafeTicks > 0:
		brain.strafeTicks--
		dir = brain.strafe
	case math.Abs(delta.Y) < botAlignTolerance:
		dir = spatial.V(math.Copysign(1, delta.X), 0)
		aligned = true
	case math.Abs(delta.X) < botAlignTolerance:
		dir = spatial.V(0, math.Copysign(1, delta.Y))
		aligned = true
	case math.Abs(delta.X) < math.Abs(delta.Y):
		// Close the smaller gap first to get in line.
		dir = spatial.V(math.Copysign(1, delta.X), 0)
	default:
		dir = spatial.V(0, math.Copysign(1, delta.Y))
	}

	if aligned {
		// Actions resolve before movement, so only shoot once already facing.
		facing := self.Facing.Dot(dir) > 0.99
		in.Fire = facing && w.CanFire()
		if dist < botGrenadeRange && self.Grenades > 0 && b.rng.Float64() < botGrenadeChance {
			in.Grenade = facing
		}
		// Hold position at close range instead of walking through the target.
		if facing && dist < botShotgunRange*0.6 {
			dir = spatial.Vec2{}
		}
	}

	setDirection(&in, dir)
	brain.moving = !dir.IsZero()
	return in
}

func (b *Bot) sign() float64 {
	if b.rng.Intn(2) == 0 {
		return -1
	}
	return 1
}

// setDirection maps a movement vector onto the four held direction flags.
func setDirection(in *Input, dir spatial.Vec2) {
	in.Left = dir.X < 0
	in.Right = dir.X > 0
	in.Up = dir.Y < 0
	in.Down = dir.Y > 0
}
