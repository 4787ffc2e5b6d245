package systems

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/assets"
	"github.com/automoto/earshot/components"
	cfg "github.com/automoto/earshot/config"
	"github.com/automoto/earshot/sound"
)

// Global audio state - created once and shared by every simulation
var (
	globalAudioContext *audio.Context
	globalAudioLoader  *assets.AudioLoader
	audioInitOnce      sync.Once
)

// initGlobalAudio initializes the global audio context (called once)
func initGlobalAudio() {
	audioInitOnce.Do(func() {
		globalAudioContext = audio.NewContext(cfg.Audio.SampleRate)
		globalAudioLoader = assets.NewAudioLoader(globalAudioContext)
	})
}

// EbitenBackend plays sources through ebiten audio. It reports play times
// from the live players, so propagated copies start in sync with what is
// actually heard.
type EbitenBackend struct {
	ecs *ecs.ECS
}

func NewEbitenBackend(e *ecs.ECS) *EbitenBackend {
	initGlobalAudio()
	return &EbitenBackend{ecs: e}
}

func (b *EbitenBackend) PlayTime(id sound.ID) float64 {
	entry, ok := SourceEntry(b.ecs, id)
	if !ok || !entry.HasComponent(components.Voice) {
		return -1
	}
	voice := components.Voice.Get(entry)
	src := components.SoundSource.Get(entry)
	if voice.Player == nil || src.Duration <= 0 {
		return -1
	}
	return math.Mod(voice.Player.Position().Seconds(), src.Duration)
}

// UpdateAudio starts a voice for every new source or propagated copy and
// pushes volume and low-pass state to the players.
func UpdateAudio(e *ecs.ECS) {
	if !cfg.Audio.Enabled {
		return
	}
	initGlobalAudio()

	l, _ := CurrentListener(e)

	// Collect first: adding the Voice component moves entries between
	// archetypes.
	var sources, copies []*donburi.Entry
	components.SoundSource.Each(e.World, func(entry *donburi.Entry) {
		sources = append(sources, entry)
	})
	components.Propagated.Each(e.World, func(entry *donburi.Entry) {
		copies = append(copies, entry)
	})

	for _, entry := range sources {
		src := components.SoundSource.Get(entry)
		syncVoice(entry, src.Emitter, voiceSound(src.Sound), 0, l.Position)
	}
	for _, entry := range copies {
		p := components.Propagated.Get(entry)
		path := cfg.Audio.DefaultSound
		if origin, ok := SourceEntry(e, p.Origin); ok {
			path = voiceSound(components.SoundSource.Get(origin).Sound)
		}
		syncVoice(entry, p.Emitter, path, p.StartAt, l.Position)
	}
}

func voiceSound(path string) string {
	if path == "" {
		return cfg.Audio.DefaultSound
	}
	return path
}

func syncVoice(entry *donburi.Entry, em *sound.Emitter, path string, startAt float64, listener mgl64.Vec3) {
	if !entry.HasComponent(components.Voice) {
		player, filter, err := globalAudioLoader.LoadLoop(path)
		if err != nil {
			log.Printf("Warning: Could not start voice for source %d: %v", em.ID(), err)
			return
		}
		if startAt > 0 {
			if err := player.SetPosition(time.Duration(startAt * float64(time.Second))); err != nil {
				log.Printf("Warning: Could not seek source %d: %v", em.ID(), err)
			}
		}
		player.Play()
		entry.AddComponent(components.Voice)
		components.Voice.SetValue(entry, components.VoiceData{Player: player, Filter: filter})
	}

	voice := components.Voice.Get(entry)
	voice.Player.SetVolume(cfg.Audio.MasterVolume * em.Volume * attenuation(em, listener))
	voice.Filter.SetEnabled(em.LowPassOn)
	if em.LowPassOn {
		voice.Filter.SetCutoff(em.LowPassHz)
	}
}

// attenuation is a linear rolloff to silence at the falloff distance.
func attenuation(em *sound.Emitter, listener mgl64.Vec3) float64 {
	if em.Falloff <= 0 {
		return 1
	}
	return 1 - mgl64.Clamp(listener.Sub(em.Pos).Len()/em.Falloff, 0, 1)
}

// closeVoice stops and drops the player of an entry, if it has one.
func closeVoice(entry *donburi.Entry) {
	if !entry.HasComponent(components.Voice) {
		return
	}
	if voice := components.Voice.Get(entry); voice.Player != nil {
		_ = voice.Player.Close()
	}
}
