package systems

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/sound"
	"github.com/automoto/earshot/systems/factory"
)

// Propagated copies are numbered above every level source id.
const propagatedIDBase sound.ID = 1 << 32

// EntitySpawner creates a PropagatedSound entity for every secondary source
// the propagation engine asks for.
type EntitySpawner struct {
	ecs    *ecs.ECS
	nextID sound.ID
	live   map[*sound.Emitter]donburi.Entity
}

func NewEntitySpawner(e *ecs.ECS) *EntitySpawner {
	return &EntitySpawner{
		ecs:    e,
		nextID: propagatedIDBase,
		live:   make(map[*sound.Emitter]donburi.Entity),
	}
}

func (s *EntitySpawner) SpawnPropagated(origin sound.Source, at mgl64.Vec3, o sound.Overrides, startAt float64) sound.Propagated {
	s.nextID++
	emitter := duplicate(origin, s.nextID, at, o)
	entry := factory.CreatePropagatedSound(s.ecs, origin.ID(), emitter, startAt)
	s.live[emitter] = entry.Entity()
	return emitter
}

func (s *EntitySpawner) ReleasePropagated(p sound.Propagated) {
	emitter, ok := p.(*sound.Emitter)
	if !ok {
		return
	}
	entity, ok := s.live[emitter]
	if !ok {
		return
	}
	delete(s.live, emitter)
	if !s.ecs.World.Valid(entity) {
		return
	}
	closeVoice(s.ecs.World.Entry(entity))
	s.ecs.World.Remove(entity)
}

// Live returns how many propagated copies exist.
func (s *EntitySpawner) Live() int { return len(s.live) }

func duplicate(origin sound.Source, id sound.ID, at mgl64.Vec3, o sound.Overrides) *sound.Emitter {
	if em, ok := origin.(*sound.Emitter); ok {
		return em.Duplicate(id, at, o)
	}
	em := sound.NewEmitter(origin.ID(), origin.Position(), origin.FalloffDistance())
	em.OwnerActor = origin.Owner()
	em.Volume = origin.VolumeMultiplier()
	return em.Duplicate(id, at, o)
}
