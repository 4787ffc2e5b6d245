package systems

import (
	"encoding/json"
	"log"

	"github.com/quasilyte/gdata"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/components"
	cfg "github.com/automoto/earshot/config"
)

// SavedSettings represents the settings data stored on disk
type SavedSettings struct {
	Enabled            bool    `json:"enabled"`
	OcclusionEnabled   bool    `json:"occlusionEnabled"`
	PropagationEnabled bool    `json:"propagationEnabled"`
	MinVolume          float64 `json:"minVolume"`
	BlockingThickness  float64 `json:"blockingThickness"`
	MoveSpeed          float64 `json:"moveSpeed"`
	VolumeRate         float64 `json:"volumeRate"`
	MasterVolume       float64 `json:"masterVolume"`
}

var gdataManager *gdata.Manager
var gdataInitialized bool

// InitPersistence initializes the gdata manager for settings storage
func InitPersistence(appName string) error {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return err
	}
	gdataManager = m
	gdataInitialized = true
	return nil
}

// LoadSettings loads settings from disk
func LoadSettings() (*SavedSettings, error) {
	if !gdataInitialized || gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem("settings")
	if err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
		return nil, nil
	}
	if len(data) == 0 {
		// No saved settings yet, use defaults
		return nil, nil
	}

	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Printf("Warning: Could not parse saved settings: %v", err)
		return nil, err
	}

	return &settings, nil
}

// SaveSettings saves settings to disk
func SaveSettings(s *SavedSettings) error {
	if !gdataInitialized || gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("Warning: Could not serialize settings: %v", err)
		return err
	}

	if err := gdataManager.SaveItem("settings", data); err != nil {
		log.Printf("Warning: Could not save settings: %v", err)
		return err
	}
	return nil
}

// CurrentSettings snapshots the live configuration. The master switch is read
// from the ECS when one is given.
func CurrentSettings(e *ecs.ECS) *SavedSettings {
	s := &SavedSettings{
		Enabled:            cfg.Sim.Enabled,
		OcclusionEnabled:   cfg.Occlusion.Enabled,
		PropagationEnabled: cfg.Propagation.Enabled,
		MinVolume:          cfg.Occlusion.MinVolume,
		BlockingThickness:  cfg.Occlusion.MaxBlockingThickness,
		MoveSpeed:          cfg.Propagation.MoveSpeed,
		VolumeRate:         cfg.Propagation.VolumeRate,
		MasterVolume:       cfg.Audio.MasterVolume,
	}
	if e != nil {
		if entry, ok := components.Acoustics.First(e.World); ok {
			s.Enabled = components.Acoustics.Get(entry).Enabled
		}
	}
	return s
}

// SaveCurrentSettings persists the live configuration
func SaveCurrentSettings(e *ecs.ECS) {
	_ = SaveSettings(CurrentSettings(e))
}

// ApplySavedSettingsGlobal applies settings to the global config.
// Used during startup before the simulation is built, so the engines pick
// the values up when their settings are converted.
func ApplySavedSettingsGlobal(saved *SavedSettings) {
	if saved == nil {
		return
	}

	cfg.Sim.Enabled = saved.Enabled
	cfg.Occlusion.Enabled = saved.OcclusionEnabled
	cfg.Propagation.Enabled = saved.PropagationEnabled

	// Zero means the field was missing from an older save
	if saved.MinVolume > 0 {
		cfg.Occlusion.MinVolume = saved.MinVolume
	}
	if saved.BlockingThickness > 0 {
		cfg.Occlusion.MaxBlockingThickness = saved.BlockingThickness
	}
	if saved.MoveSpeed > 0 {
		cfg.Propagation.MoveSpeed = saved.MoveSpeed
	}
	if saved.VolumeRate > 0 {
		cfg.Propagation.VolumeRate = saved.VolumeRate
	}
	if saved.MasterVolume > 0 {
		cfg.Audio.MasterVolume = saved.MasterVolume
	}
}

// ApplySavedSettings applies the runtime part of saved settings to a running
// simulation
func ApplySavedSettings(e *ecs.ECS, saved *SavedSettings) {
	if saved == nil {
		return
	}
	SetEnabled(e, saved.Enabled)
}
