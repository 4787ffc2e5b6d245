package config

import "github.com/yohamta/donburi/ecs"

// Default is the only ECS layer the simulation uses.
const Default ecs.LayerID = 0

// SimConfig holds general simulation configuration
type SimConfig struct {
	TicksPerSecond int
	Enabled        bool   // master switch for occlusion and propagation
	SettingsApp    string // gdata app name, empty disables persistence
	LevelsDir      string
	DefaultLevel   string
}

// GridConfig describes the voxel grid laid over a level
type GridConfig struct {
	CellRadius float64

	// Zero extents are taken from the level bounds.
	Width  float64
	Depth  float64
	Height float64

	// Centered grids are laid out around Pivot on X/Y and start at Pivot on Z.
	Centered bool
	PivotX   float64
	PivotY   float64
	PivotZ   float64

	// Broadphase cell size for the collision space.
	SpaceCellSize int
}

// Global configuration instances
var Sim SimConfig
var Grid GridConfig

func init() {
	Sim = SimConfig{
		TicksPerSecond: 60,
		Enabled:        true,
		SettingsApp:    "earshot",
		LevelsDir:      "levels",
		DefaultLevel:   "corridor",
	}

	Grid = GridConfig{
		CellRadius:    50,
		SpaceCellSize: 64,
	}
}
