package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"arena-duel/internal/game/spatial"
)

func TestBotLongRangeAligned(t *testing.T) {
	r := newTestRound(bareMode())
	in := NewBot(1).Inputs(r)

	// Spawns share a row, so both bots face each other and open fire.
	assert.True(t, in[0].Right)
	assert.True(t, in[0].Fire)
	assert.True(t, in[1].Left)
	assert.True(t, in[1].Fire)
	for i := range in {
		if in[i].Weapon != 2 {
			t.Errorf("Player %d: expected rifle slot 2 at long range, got %d", i+1, in[i].Weapon)
		}
	}
}

func TestBotWeaponByRange(t *testing.T) {
	tests := []struct {
		name string
		gap  float64
		want int
	}{
		{"close", 100, 3},
		{"mid", 300, 1},
		{"far", 700, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRound(bareMode())
			// Hold a different slot so the choice is always emitted.
			r.Players[0].WeaponIndex = 2
			if tt.want == 3 {
				r.Players[0].WeaponIndex = 0
			}
			r.Players[1].Rect = r.Players[0].Rect.Translate(spatial.V(tt.gap, 0))

			in := NewBot(1).Inputs(r)
			if in[0].Weapon != tt.want {
				t.Errorf("Expected slot %d, got %d", tt.want, in[0].Weapon)
			}
		})
	}
}

func TestBotKeepsCurrentWeapon(t *testing.T) {
	r := newTestRound(bareMode())
	r.Players[1].Rect = r.Players[0].Rect.Translate(spatial.V(300, 0))

	in := NewBot(1).Inputs(r)
	assert.Equal(t, 0, in[0].Weapon, "already holding the pistol")
}

func TestBotHoldsPositionAtCloseRange(t *testing.T) {
	r := newTestRound(bareMode())
	r.Players[1].Rect = r.Players[0].Rect.Translate(spatial.V(80, 0))

	in := NewBot(1).Inputs(r)
	assert.True(t, in[0].Fire)
	assert.True(t, in[0].Direction().IsZero())
}

func TestBotReloadsEmptyMagazine(t *testing.T) {
	r := newTestRound(bareMode())
	r.Players[0].Weapon().Mag = 0

	in := NewBot(1).Inputs(r)
	assert.True(t, in[0].Reload)
	assert.False(t, in[0].Fire)
}

func TestBotLinesUpBeforeShooting(t *testing.T) {
	r := newTestRound(bareMode())
	r.Players[1].Rect = r.Players[0].Rect.Translate(spatial.V(300, 200))

	in := NewBot(1).Inputs(r)
	// The vertical gap is smaller, so close it first.
	assert.True(t, in[0].Down)
	assert.False(t, in[0].Left || in[0].Right)
	assert.False(t, in[0].Fire)
}

func TestBotSidestepsWhenStuck(t *testing.T) {
	r := newTestRound(bareMode())
	bot := NewBot(1)

	first := bot.Inputs(r)
	assert.True(t, first[0].Right)

	// Nobody moved, so the bot considers itself stuck.
	second := bot.Inputs(r)
	assert.False(t, second[0].Right)
	assert.True(t, second[0].Up || second[0].Down)
	assert.False(t, second[0].Fire)
}

func TestBotIdleWhenOpponentDead(t *testing.T) {
	r := newTestRound(bareMode())
	r.Players[1].HP = 0

	in := NewBot(1).Inputs(r)
	assert.Equal(t, Input{}, in[0])
	assert.Equal(t, Input{}, in[1])
}
