package components

import (
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/yohamta/donburi"

	"github.com/automoto/earshot/sound"
)

// VoiceData is the ebiten playback of one source or propagated copy.
type VoiceData struct {
	Player *audio.Player
	Filter *sound.LowPassStream
}

var Voice = donburi.NewComponentType[VoiceData]()
