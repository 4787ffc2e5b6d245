package factory

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/archetypes"
	"github.com/automoto/earshot/components"
	"github.com/automoto/earshot/leveldata"
	"github.com/automoto/earshot/sound"
	"github.com/automoto/earshot/tags"
)

// CreateSoundSource spawns a looping source, tagged for the features it opts
// into, and registers it with the acoustics singleton.
func CreateSoundSource(ecs *ecs.ECS, spawn leveldata.SourceSpawn) *donburi.Entry {
	var optIn []donburi.IComponentType
	if spawn.Occlude {
		optIn = append(optIn, tags.Occlude)
	}
	if spawn.Propagate {
		optIn = append(optIn, tags.Propagate)
	}
	source := archetypes.SoundSource.Spawn(ecs, optIn...)

	id := sound.ID(spawn.ID)
	components.SoundSource.SetValue(source, components.SoundSourceData{
		Emitter:  sound.NewEmitter(id, mgl64.Vec3{spawn.X, spawn.Y, spawn.Z}, spawn.Falloff),
		Name:     spawn.Name,
		Kind:     spawn.Kind,
		Sound:    spawn.Sound,
		Duration: spawn.Duration,
	})

	if entry, ok := components.Acoustics.First(ecs.World); ok {
		components.Acoustics.Get(entry).Sources[id] = source.Entity()
	}
	return source
}

// CreatePropagatedSound spawns the entity carrying a secondary source.
func CreatePropagatedSound(ecs *ecs.ECS, origin sound.ID, emitter *sound.Emitter, startAt float64) *donburi.Entry {
	propagated := archetypes.PropagatedSound.Spawn(ecs)
	components.Propagated.SetValue(propagated, components.PropagatedData{
		Emitter: emitter,
		Origin:  origin,
		StartAt: startAt,
	})
	return propagated
}
