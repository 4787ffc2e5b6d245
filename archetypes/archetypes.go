package archetypes

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/components"
	cfg "github.com/automoto/earshot/config"
	"github.com/automoto/earshot/tags"
)

var (
	Acoustics = newArchetype(
		components.Acoustics,
	)
	Clock = newArchetype(
		components.Clock,
	)
	Level = newArchetype(
		components.Level,
	)
	Wall = newArchetype(
		tags.Wall,
		components.Wall,
	)
	Listener = newArchetype(
		tags.Listener,
		components.Listener,
	)
	SoundSource = newArchetype(
		tags.SoundSource,
		components.SoundSource,
	)
	PropagatedSound = newArchetype(
		tags.PropagatedSound,
		components.Propagated,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
