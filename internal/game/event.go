package game

import (
	"encoding/json"
	"time"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeRoundStart
	EventTypeFire
	EventTypeGrenadeThrown
	EventTypeDamage
	EventTypeDetonation
	EventTypeHeal
	EventTypeTeleport
	EventTypeTileBroken
	EventTypeRoundOver
)

// EventVersion for backwards compatibility of the journal format
const EventVersion uint8 = 1

// Event is a simulation fact published to the presentation side. The
// simulation never calls back into presentation code; it only emits these.
type Event struct {
	Version   uint8           `json:"version"`
	Type      EventType       `json:"type"`
	Name      string          `json:"name"`
	Timestamp int64           `json:"timestamp"` // Unix nano
	Sequence  uint64          `json:"sequence"`
	TickNum   uint64          `json:"tickNum"`
	RoundID   string          `json:"roundId"`
	Mode      string          `json:"mode"`
	PlayerID  string          `json:"playerId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeRoundStart:
		return "round_start"
	case EventTypeFire:
		return "fire"
	case EventTypeGrenadeThrown:
		return "grenade_thrown"
	case EventTypeDamage:
		return "damage"
	case EventTypeDetonation:
		return "detonation"
	case EventTypeHeal:
		return "heal"
	case EventTypeTeleport:
		return "teleport"
	case EventTypeTileBroken:
		return "tile_broken"
	case EventTypeRoundOver:
		return "round_over"
	default:
		return "unknown"
	}
}

// EventSink receives every event a round emits, on the simulation goroutine.
// Sinks must return quickly.
type EventSink func(Event)

// Typed payloads for different event types

// RoundStartPayload describes a freshly built round.
type RoundStartPayload struct {
	Seed      int64    `json:"seed"`
	Obstacles int      `json:"obstacles"`
	Hazards   []string `json:"hazards"`
	Players   []string `json:"players"`
}

// FirePayload records a weapon discharge.
type FirePayload struct {
	Weapon  string `json:"weapon"`
	Bullets int    `json:"bullets"`
	Mag     int    `json:"mag"`
}

// DamagePayload contains damage event details
type DamagePayload struct {
	Source   string `json:"source"` // weapon id, "grenade", "mine", "barrel", "poison"
	VictimID string `json:"victimId"`
	Damage   int    `json:"damage"`
	VictimHP int    `json:"victimHp"`
}

// DetonationPayload describes any area blast.
type DetonationPayload struct {
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// HealPayload contains heal event details
type HealPayload struct {
	Amount    int `json:"amount"`
	CurrentHP int `json:"currentHp"`
}

// TeleportPayload records a portal jump.
type TeleportPayload struct {
	FromX float64 `json:"fromX"`
	FromY float64 `json:"fromY"`
	ToX   float64 `json:"toX"`
	ToY   float64 `json:"toY"`
}

// TilePayload records a floor tile breaking.
type TilePayload struct {
	State string  `json:"state"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// RoundOverPayload names the winner.
type RoundOverPayload struct {
	Winner   string  `json:"winner"`
	WinnerID string  `json:"winnerId"`
	WinnerHP int     `json:"winnerHp"`
	Duration float64 `json:"duration"`
	Recorded bool    `json:"recorded"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) json.RawMessage {
	if payload == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, tickNum uint64, playerID string, payload interface{}) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Name:      eventType.String(),
		Timestamp: time.Now().UnixNano(),
		TickNum:   tickNum,
		PlayerID:  playerID,
		Payload:   EncodePayload(payload),
	}
}
