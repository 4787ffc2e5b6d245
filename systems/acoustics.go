package systems

import (
	"cmp"
	"log"
	"slices"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/components"
	cfg "github.com/automoto/earshot/config"
	"github.com/automoto/earshot/geom"
	"github.com/automoto/earshot/leveldata"
	"github.com/automoto/earshot/occlusion"
	"github.com/automoto/earshot/propagation"
	"github.com/automoto/earshot/sound"
	"github.com/automoto/earshot/systems/factory"
	"github.com/automoto/earshot/tags"
)

// UpdateListener moves the listener by its walk vector.
func UpdateListener(e *ecs.ECS) {
	entry, ok := tags.Listener.First(e.World)
	if !ok {
		return
	}
	l := components.Listener.Get(entry)
	l.Position = l.Position.Add(l.Walk)
}

// UpdateOcclusion applies direct-path occlusion to the selected sources.
func UpdateOcclusion(e *ecs.ECS) {
	a, ok := activeAcoustics(e)
	if !ok || a.Occlusion == nil || !cfg.Occlusion.Enabled {
		return
	}
	l, ok := CurrentListener(e)
	if !ok {
		return
	}

	sources := gatherSources(e, cfg.Occlusion.AllSources, tags.Occlude, cfg.Occlusion.IgnoreKinds)
	a.LastOcclusion = a.Occlusion.Update(GetOrCreateClock(e).DT(), l, sources)
}

// UpdatePropagation places secondary sources for the selected sources.
func UpdatePropagation(e *ecs.ECS) {
	a, ok := activeAcoustics(e)
	if !ok || a.Propagation == nil || !cfg.Propagation.Enabled {
		return
	}
	l, ok := CurrentListener(e)
	if !ok {
		return
	}

	sources := gatherSources(e, cfg.Propagation.AllSources, tags.Propagate, cfg.Propagation.IgnoreKinds)
	a.Propagation.Update(GetOrCreateClock(e).DT(), l, sources)
}

func activeAcoustics(e *ecs.ECS) (*components.AcousticsData, bool) {
	entry, ok := components.Acoustics.First(e.World)
	if !ok {
		return nil, false
	}
	a := components.Acoustics.Get(entry)
	return a, a.Enabled
}

// CurrentListener returns the listener as the engines see it.
func CurrentListener(e *ecs.ECS) (sound.Listener, bool) {
	entry, ok := tags.Listener.First(e.World)
	if !ok {
		return sound.Listener{}, false
	}
	l := components.Listener.Get(entry)
	return sound.Listener{Position: l.Position, Actor: l.Actor}, true
}

// gatherSources lists every source when all is set, otherwise only those
// carrying optIn. Sources whose kind is ignored are dropped. The result is
// ordered by id.
func gatherSources(e *ecs.ECS, all bool, optIn donburi.IComponentType, ignoreKinds []string) []sound.Source {
	var found []*components.SoundSourceData
	tags.SoundSource.Each(e.World, func(entry *donburi.Entry) {
		if !all && !entry.HasComponent(optIn) {
			return
		}
		src := components.SoundSource.Get(entry)
		if slices.Contains(ignoreKinds, src.Kind) {
			return
		}
		found = append(found, src)
	})

	slices.SortFunc(found, func(a, b *components.SoundSourceData) int {
		return cmp.Compare(a.SourceID, b.SourceID)
	})

	sources := make([]sound.Source, len(found))
	for i, src := range found {
		sources[i] = src.Emitter
	}
	return sources
}

// SetEnabled flips the master switch for both engines.
func SetEnabled(e *ecs.ECS, enabled bool) {
	if entry, ok := components.Acoustics.First(e.World); ok {
		components.Acoustics.Get(entry).Enabled = enabled
	}
}

// SourceEntry finds the live entity of a source.
func SourceEntry(e *ecs.ECS, id sound.ID) (*donburi.Entry, bool) {
	entry, ok := components.Acoustics.First(e.World)
	if !ok {
		return nil, false
	}
	entity, ok := components.Acoustics.Get(entry).Sources[id]
	if !ok || !e.World.Valid(entity) {
		return nil, false
	}
	return e.World.Entry(entity), true
}

// AddSource registers a source after the level has loaded. A source whose id
// is already live is returned unchanged.
func AddSource(e *ecs.ECS, spawn leveldata.SourceSpawn) *donburi.Entry {
	if entry, ok := SourceEntry(e, sound.ID(spawn.ID)); ok {
		return entry
	}
	return factory.CreateSoundSource(e, spawn)
}

// RemoveSource destroys a source together with its propagated copy.
func RemoveSource(e *ecs.ECS, id sound.ID) bool {
	entry, ok := SourceEntry(e, id)
	if !ok {
		return false
	}

	a := components.Acoustics.Get(components.Acoustics.MustFirst(e.World))
	if a.Propagation != nil {
		a.Propagation.Remove(id)
	}
	closeVoice(entry)
	delete(a.Sources, id)
	e.World.Remove(entry.Entity())
	log.Printf("Removed sound source %d", id)
	return true
}

// OcclusionSettings converts the occlusion config into engine settings.
func OcclusionSettings() occlusion.Settings {
	c := cfg.Occlusion
	materials := make(occlusion.MaterialTable, len(c.Materials))
	for name, factor := range c.Materials {
		materials[geom.MaterialID(name)] = factor
	}
	return occlusion.Settings{
		Filter:               geom.Filter(c.Channels),
		MaxBlockingThickness: c.MaxBlockingThickness,
		WallOffset:           c.WallOffset,
		WallStopDistance:     c.WallStopDistance,
		MaxLowPassFrequency:  c.MaxLowPassFrequency,
		MinLowPassFrequency:  c.MinLowPassFrequency,
		LowPassInterval:      c.LowPassInterval,
		MinVolume:            c.MinVolume,
		Materials:            materials,
	}
}

// PropagationSettings converts the propagation config into engine settings.
func PropagationSettings() propagation.Settings {
	c := cfg.Propagation
	return propagation.Settings{
		Filter:     geom.Filter(c.Channels),
		MoveSpeed:  c.MoveSpeed,
		VolumeRate: c.VolumeRate,
		FadeFloor:  c.FadeFloor,
		Overrides: sound.Overrides{
			FalloffDistance: c.FalloffDistance,
			EffectChain:     c.EffectChain,
		},
	}
}
