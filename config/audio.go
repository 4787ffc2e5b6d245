package config

// AudioConfig contains audio output configuration values
type AudioConfig struct {
	Enabled      bool // play through the ebiten audio backend
	SampleRate   int
	MasterVolume float64
	DefaultSound string // asset used by sources without a sound property
}

var Audio AudioConfig

func init() {
	Audio = AudioConfig{
		Enabled:      false,
		SampleRate:   44100,
		MasterVolume: 1.0,
		DefaultSound: "audio/tone.wav",
	}
}
