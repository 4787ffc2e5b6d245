package components

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/earshot/sound"
)

// SoundSourceData is a looping source placed in the level.
type SoundSourceData struct {
	*sound.Emitter
	Name     string
	Kind     string
	Sound    string  // audio asset path
	Duration float64 // loop length in seconds, 0 when unknown
	PlayTime float64 // seconds into the current loop
}

var SoundSource = donburi.NewComponentType[SoundSourceData]()

// PropagatedData is a secondary copy of a source spawned around geometry.
type PropagatedData struct {
	*sound.Emitter
	Origin  sound.ID
	StartAt float64 // playback offset the copy started from
}

var Propagated = donburi.NewComponentType[PropagatedData]()
