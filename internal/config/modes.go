package config

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Mode keys.
const (
	ModeClassic  = "classic"
	ModeHardcore = "hardcore"
	ModeChaos    = "chaos"
)

// Hazard keys, in the order a round composes them.
const (
	HazardFloor   = "floor"
	HazardBarrels = "barrels"
	HazardMines   = "mines"
	HazardPoison  = "poison"
	HazardApples  = "apples"
	HazardPortals = "portals"
	HazardFog     = "fog"
)

// HazardOrder is the fixed composition order. Floor precedes barrels so
// breakable terrain consumes bullets first.
var HazardOrder = []string{
	HazardFloor, HazardBarrels, HazardMines, HazardPoison,
	HazardApples, HazardPortals, HazardFog,
}

// Mode is the immutable parameter bundle for one game mode.
// Components receive it by value and never write to it.
type Mode struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`

	WorldWidth    float64 `yaml:"world_width"`
	WorldHeight   float64 `yaml:"world_height"`
	Margin        float64 `yaml:"margin"`
	ObstacleCount int     `yaml:"obstacle_count"`

	MaxHP        int     `yaml:"max_hp"`
	PlayerSize   float64 `yaml:"player_size"`
	PlayerSpeed  float64 `yaml:"player_speed"`
	InfiniteAmmo bool    `yaml:"infinite_ammo"`
	WinDelay     float64 `yaml:"win_delay"`

	Grenade GrenadeConfig `yaml:"grenade"`

	// Hazards lists the enabled hazard keys; BuildHazards sorts them into HazardOrder.
	Hazards []string     `yaml:"hazards"`
	Apples  AppleConfig  `yaml:"apples"`
	Portals PortalConfig `yaml:"portals"`
	Poison  PoisonConfig `yaml:"poison"`
	Mines   MineConfig   `yaml:"mines"`
	Barrels BarrelConfig `yaml:"barrels"`
	Floor   FloorConfig  `yaml:"floor"`
	Fog     FogConfig    `yaml:"fog"`
}

// HasHazard reports whether the mode enables the given hazard.
func (m Mode) HasHazard(key string) bool {
	for _, h := range m.Hazards {
		if h == key {
			return true
		}
	}
	return false
}

// GrenadeConfig holds throw and blast parameters.
type GrenadeConfig struct {
	Charges    int     `yaml:"charges"`
	Cooldown   float64 `yaml:"cooldown"`
	Speed      float64 `yaml:"speed"`
	Fuse       float64 `yaml:"fuse"`
	Radius     float64 `yaml:"radius"`
	MinDamage  int     `yaml:"min_damage"`
	MaxDamage  int     `yaml:"max_damage"`
	Bounce     float64 `yaml:"bounce"`
	Damping    float64 `yaml:"damping"`
	HitboxSize float64 `yaml:"hitbox_size"`
}

// AppleConfig configures the heal pickup spawner.
type AppleConfig struct {
	MaxApples   int     `yaml:"max_apples"`
	Heal        int     `yaml:"heal"`
	Size        float64 `yaml:"size"`
	SpawnMin    float64 `yaml:"spawn_min"`
	SpawnMax    float64 `yaml:"spawn_max"`
	AvoidPad    float64 `yaml:"avoid_pad"`
	Attempts    int     `yaml:"attempts"`
	SoundVolume float64 `yaml:"sound_volume"`
}

// PortalConfig configures the linked teleporter pair.
type PortalConfig struct {
	Radius        float64 `yaml:"radius"`
	BreathAmp     float64 `yaml:"breath_amp"`
	BreathHz      float64 `yaml:"breath_hz"`
	Cooldown      float64 `yaml:"cooldown"`
	MinSeparation float64 `yaml:"min_separation"`
	PairAttempts  int     `yaml:"pair_attempts"`
	ExitOffset    float64 `yaml:"exit_offset"`
	AvoidPad      float64 `yaml:"avoid_pad"`
	Attempts      int     `yaml:"attempts"`
}

// PoisonConfig configures the shrinking safe zone.
type PoisonConfig struct {
	Interval     float64 `yaml:"interval"`
	Step         float64 `yaml:"step"`
	MinWidthPct  float64 `yaml:"min_width_pct"`
	MinHeightPct float64 `yaml:"min_height_pct"`
	DamagePerSec float64 `yaml:"damage_per_sec"`
}

// MineConfig configures proximity mines.
type MineConfig struct {
	Count     int     `yaml:"count"`
	Radius    float64 `yaml:"radius"`
	Blast     float64 `yaml:"blast"`
	MinDamage int     `yaml:"min_damage"`
	MaxDamage int     `yaml:"max_damage"`
	ArmDelay  float64 `yaml:"arm_delay"`
	AvoidPad  float64 `yaml:"avoid_pad"`
	Attempts  int     `yaml:"attempts"`
}

// BarrelConfig configures explosive barrels.
type BarrelConfig struct {
	Count       int     `yaml:"count"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Blast       float64 `yaml:"blast"`
	MinDamage   int     `yaml:"min_damage"`
	MaxDamage   int     `yaml:"max_damage"`
	ChainRadius float64 `yaml:"chain_radius"`
	AvoidPad    float64 `yaml:"avoid_pad"`
	Attempts    int     `yaml:"attempts"`
}

// FloorConfig configures breakable floor tiles.
type FloorConfig struct {
	Count      int     `yaml:"count"`
	MinWidth   float64 `yaml:"min_width"`
	MaxWidth   float64 `yaml:"max_width"`
	MinHeight  float64 `yaml:"min_height"`
	MaxHeight  float64 `yaml:"max_height"`
	MudSlow    float64 `yaml:"mud_slow"`
	InitialMud float64 `yaml:"initial_mud"`
	MudChance  float64 `yaml:"mud_chance"`
	BreakPad   float64 `yaml:"break_pad"`
	AvoidPad   float64 `yaml:"avoid_pad"`
	Attempts   int     `yaml:"attempts"`
}

// FogConfig configures the per-view darkness overlay.
type FogConfig struct {
	Radius   float64 `yaml:"radius"`
	Darkness uint8   `yaml:"darkness"`
	Feather  float64 `yaml:"feather"`
	Rings    int     `yaml:"rings"`
}

func baseMode() Mode {
	return Mode{
		Margin:      40,
		PlayerSize:  44,
		PlayerSpeed: 260,
		WinDelay:    1.2,
		Grenade: GrenadeConfig{
			Charges:    3,
			Fuse:       1.25,
			MinDamage:  8,
			MaxDamage:  35,
			Bounce:     0.55,
			Damping:    0.993,
			HitboxSize: 14,
		},
		Apples: AppleConfig{
			MaxApples:   3,
			Heal:        15,
			Size:        18,
			SpawnMin:    6,
			SpawnMax:    10,
			AvoidPad:    20,
			Attempts:    800,
			SoundVolume: 0.35,
		},
		Portals: PortalConfig{
			Radius:        22,
			BreathAmp:     3,
			BreathHz:      1.4,
			Cooldown:      1.0,
			MinSeparation: 220,
			PairAttempts:  400,
			ExitOffset:    30,
			AvoidPad:      30,
			Attempts:      800,
		},
		Poison: PoisonConfig{
			Interval:     7.0,
			Step:         26,
			MinWidthPct:  0.40,
			MinHeightPct: 0.35,
			DamagePerSec: 12,
		},
		Mines: MineConfig{
			Count:     7,
			Radius:    13,
			Blast:     105,
			MinDamage: 12,
			MaxDamage: 48,
			ArmDelay:  0.7,
			AvoidPad:  60,
			Attempts:  1200,
		},
		Barrels: BarrelConfig{
			Count:       6,
			Width:       34,
			Height:      46,
			Blast:       130,
			MinDamage:   10,
			MaxDamage:   36,
			ChainRadius: 170,
			AvoidPad:    64,
			Attempts:    900,
		},
		Floor: FloorConfig{
			Count:      10,
			MinWidth:   70,
			MaxWidth:   130,
			MinHeight:  44,
			MaxHeight:  70,
			MudSlow:    0.72,
			InitialMud: 0.30,
			MudChance:  0.45,
			BreakPad:   20,
			AvoidPad:   64,
			Attempts:   900,
		},
		Fog: FogConfig{
			Radius:   220,
			Darkness: 210,
			Feather:  24,
			Rings:    4,
		},
	}
}

// ClassicMode returns the Classic bundle: apples and portals.
func ClassicMode() Mode {
	m := baseMode()
	m.Key = ModeClassic
	m.Title = "Classic"
	m.WorldWidth, m.WorldHeight = 1400, 820
	m.ObstacleCount = 9
	m.MaxHP = 100
	m.Grenade.Radius = 80
	m.Grenade.Cooldown = 1.0
	m.Grenade.Speed = 420
	m.Hazards = []string{HazardApples, HazardPortals}
	return m
}

// HardcoreMode returns the Hardcore bundle: poison zone and mines.
func HardcoreMode() Mode {
	m := baseMode()
	m.Key = ModeHardcore
	m.Title = "Hardcore"
	m.WorldWidth, m.WorldHeight = 1550, 900
	m.ObstacleCount = 12
	m.MaxHP = 60
	m.Grenade.Radius = 95
	m.Grenade.Cooldown = 1.4
	m.Grenade.Speed = 460
	m.Hazards = []string{HazardPoison, HazardMines}
	return m
}

// ChaosMode returns the Chaos bundle: barrels, breakable floor and fog.
func ChaosMode() Mode {
	m := baseMode()
	m.Key = ModeChaos
	m.Title = "Chaos"
	m.WorldWidth, m.WorldHeight = 1700, 980
	m.ObstacleCount = 16
	m.MaxHP = 120
	m.InfiniteAmmo = true
	m.Grenade.Radius = 110
	m.Grenade.Cooldown = 0.6
	m.Grenade.Speed = 520
	m.Hazards = []string{HazardFloor, HazardBarrels, HazardFog}
	return m
}

// DefaultModes returns the three built-in modes keyed by Mode.Key.
func DefaultModes() map[string]Mode {
	return map[string]Mode{
		ModeClassic:  ClassicMode(),
		ModeHardcore: HardcoreMode(),
		ModeChaos:    ChaosMode(),
	}
}

// ModeKeys returns the known mode keys in a stable order.
func ModeKeys(modes map[string]Mode) []string {
	keys := make([]string, 0, len(modes))
	for k := range modes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type modesFile struct {
	Modes map[string]yaml.Node `yaml:"modes"`
}

// LoadModes returns the default modes with any overrides from a YAML file
// applied on top. Fields missing from the file keep their default values;
// an unknown key starts from the Classic bundle. An empty path returns the
// defaults unchanged.
func LoadModes(path string) (map[string]Mode, error) {
	modes := DefaultModes()
	if path == "" {
		return modes, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return modes, errors.Wrapf(err, "read modes file %s", path)
	}

	var file modesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return modes, errors.Wrapf(err, "parse modes file %s", path)
	}

	for key, node := range file.Modes {
		m, ok := modes[key]
		if !ok {
			m = ClassicMode()
		}
		if err := node.Decode(&m); err != nil {
			return DefaultModes(), errors.Wrapf(err, "decode mode %q", key)
		}
		m.Key = key
		modes[key] = m
	}

	return modes, nil
}
