package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"

	"github.com/automoto/earshot/components"
	"github.com/automoto/earshot/leveldata"
	"github.com/automoto/earshot/sound"
)

func TestEntitySpawner(t *testing.T) {
	e := newTestECS()
	entry := AddSource(e, leveldata.SourceSpawn{ID: 4, X: 1, Y: 2, Z: 3, Falloff: 2000})
	origin := components.SoundSource.Get(entry).Emitter

	spawner := NewEntitySpawner(e)
	at := mgl64.Vec3{650, 650, 50}
	p := spawner.SpawnPropagated(origin, at, sound.Overrides{FalloffDistance: 1500, EffectChain: "muffled"}, 1.25)

	if p.ID() != propagatedIDBase+1 {
		t.Errorf("id = %d, want %d", p.ID(), propagatedIDBase+1)
	}
	if p.Position() != at || p.FalloffDistance() != 1500 {
		t.Errorf("copy at %v falloff %v", p.Position(), p.FalloffDistance())
	}
	if origin.Position() != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("origin moved to %v", origin.Position())
	}
	if spawner.Live() != 1 {
		t.Fatalf("live = %d, want 1", spawner.Live())
	}

	var found *components.PropagatedData
	components.Propagated.Each(e.World, func(entry *donburi.Entry) {
		found = components.Propagated.Get(entry)
	})
	if found == nil {
		t.Fatalf("no propagated entity spawned")
	}
	if found.Origin != 4 || found.StartAt != 1.25 || found.EffectChain != "muffled" {
		t.Errorf("propagated data = %+v", *found)
	}

	spawner.ReleasePropagated(p)
	if spawner.Live() != 0 {
		t.Errorf("live = %d after release, want 0", spawner.Live())
	}
	remaining := 0
	components.Propagated.Each(e.World, func(*donburi.Entry) { remaining++ })
	if remaining != 0 {
		t.Errorf("%d propagated entities left after release", remaining)
	}

	// Releasing twice is harmless
	spawner.ReleasePropagated(p)
}
