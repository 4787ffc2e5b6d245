package config

// ChannelWorldStatic is the collision channel of level geometry.
const ChannelWorldStatic = "world_static"

// OcclusionConfig contains direct-path occlusion tuning
type OcclusionConfig struct {
	Enabled     bool
	AllSources  bool     // false: only sources tagged Occlude
	IgnoreKinds []string // source kinds never occluded
	Channels    []string // blocking collision channels

	MaxBlockingThickness float64 // units of geometry that block everything
	WallOffset           float64
	WallStopDistance     float64
	MaxLowPassFrequency  float64 // Hz
	MinLowPassFrequency  float64 // Hz
	LowPassInterval      float64 // seconds between low-pass refreshes
	MinVolume            float64

	// Material name -> occlusion multiplier. Missing materials count as 1.
	Materials map[string]float64
}

// PropagationConfig contains secondary-source propagation tuning
type PropagationConfig struct {
	Enabled     bool
	AllSources  bool // false: only sources tagged Propagate
	IgnoreKinds []string
	Channels    []string

	MoveSpeed  float64 // units per second
	VolumeRate float64 // volume per second
	FadeFloor  float64

	// Applied to every propagated copy.
	FalloffDistance float64 // zero keeps the original falloff
	EffectChain     string
}

var Occlusion OcclusionConfig
var Propagation PropagationConfig

func init() {
	Occlusion = OcclusionConfig{
		Enabled:    true,
		AllSources: true,
		Channels:   []string{ChannelWorldStatic},

		MaxBlockingThickness: 900,
		WallOffset:           60,
		WallStopDistance:     700,
		MaxLowPassFrequency:  17000,
		MinLowPassFrequency:  200,
		LowPassInterval:      0.1,
		MinVolume:            0.01,

		Materials: map[string]float64{
			"concrete": 1.5,
			"metal":    1.2,
			"wood":     0.8,
			"glass":    0.5,
			"cloth":    0.3,
		},
	}

	Propagation = PropagationConfig{
		Enabled:    true,
		AllSources: true,
		Channels:   []string{ChannelWorldStatic},

		MoveSpeed:  3500,
		VolumeRate: 0.5,
		FadeFloor:  0.01,

		EffectChain: "propagated",
	}
}
