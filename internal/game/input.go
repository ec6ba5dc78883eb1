package game

import "arena-duel/internal/game/spatial"

// Input is one player's intent for a tick. Movement flags are held state;
// Fire, Reload, Grenade and Weapon are edge-triggered actions.
type Input struct {
	Up, Down, Left, Right bool

	Fire    bool
	Reload  bool
	Grenade bool
	Weapon  int // 1-based slot to switch to, 0 keeps the current one
}

// Direction returns the normalized 4-directional movement vector.
func (in Input) Direction() spatial.Vec2 {
	var v spatial.Vec2
	if in.Left {
		v.X--
	}
	if in.Right {
		v.X++
	}
	if in.Up {
		v.Y--
	}
	if in.Down {
		v.Y++
	}
	return v.Normalize()
}

// InputSource supplies both players' inputs for the next tick.
type InputSource interface {
	Inputs(r *Round) [2]Input
}

// InputFunc adapts a function to InputSource.
type InputFunc func(r *Round) [2]Input

func (f InputFunc) Inputs(r *Round) [2]Input { return f(r) }
