package scenes

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/yohamta/donburi"

	"github.com/automoto/earshot/assets"
	"github.com/automoto/earshot/components"
	cfg "github.com/automoto/earshot/config"
	"github.com/automoto/earshot/leveldata"
	"github.com/automoto/earshot/propagation"
	"github.com/automoto/earshot/systems"
	"github.com/automoto/earshot/voxel"
)

func loadCorridor(t *testing.T) *leveldata.Level {
	t.Helper()
	level, err := assets.LoadLevel("levels", "corridor")
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	return level
}

// counter sums every series of a counter family.
func counter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	total := 0.0
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestSimulationCorridor(t *testing.T) {
	reg := prometheus.NewRegistry()
	sim, err := NewSimulation(loadCorridor(t), Options{TicksPerSecond: 60, Registerer: reg})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}

	sim.Update()
	snap := sim.Snapshot()

	if snap.Tick != 1 || len(snap.Sources) != 2 {
		t.Fatalf("tick %d with %d sources, want tick 1 with 2", snap.Tick, len(snap.Sources))
	}

	gen := snap.Sources[0]
	if gen.Name != "generator" {
		t.Fatalf("first source = %q, want generator", gen.Name)
	}
	// Glass then concrete, 100 units each.
	if want := 1 - (100.0/900*0.5 + 100.0/900*1.5); math.Abs(gen.Volume-want) > 1e-9 {
		t.Errorf("generator volume = %v, want %v", gen.Volume, want)
	}
	if gen.State != propagation.Spawned || !gen.HasSecondary {
		t.Fatalf("generator state = %v secondary=%v, want spawned copy", gen.State, gen.HasSecondary)
	}
	if gen.SecondaryPos != (mgl64.Vec3{650, 650, 50}) || gen.PathLen != 14 {
		t.Errorf("generator copy at %v over %d nodes, want (650,650,50) over 14", gen.SecondaryPos, gen.PathLen)
	}

	hum := snap.Sources[1]
	if !hum.HasSecondary || hum.PathLen != 9 {
		t.Errorf("hum copy=%v path=%d, want copy over 9 nodes", hum.HasSecondary, hum.PathLen)
	}

	if sim.Spawner().Live() != 2 {
		t.Errorf("live copies = %d, want 2", sim.Spawner().Live())
	}
	if got := counter(t, reg, "earshot_propagated_spawned_total"); got != 2 {
		t.Errorf("spawned counter = %v, want 2", got)
	}

	startAt := map[uint64]float64{}
	components.Propagated.Each(sim.ECS().World, func(entry *donburi.Entry) {
		p := components.Propagated.Get(entry)
		startAt[uint64(p.Origin)] = p.StartAt
	})
	if math.Abs(startAt[2]-1.0/60) > 1e-9 {
		t.Errorf("generator copy starts at %v, want one tick in", startAt[2])
	}
	if startAt[3] != 0 {
		t.Errorf("hum has no duration, copy starts at %v, want 0", startAt[3])
	}

	for i := 0; i < 59; i++ {
		sim.Update()
	}
	snap = sim.Snapshot()
	gen = snap.Sources[0]

	if got := counter(t, reg, "earshot_path_searches_total"); got != 2 {
		t.Errorf("searches = %v, want 2 while the listener stands still", got)
	}
	if got := counter(t, reg, "earshot_path_cache_hits_total"); got != 118 {
		t.Errorf("cache hits = %v, want 118", got)
	}
	if gen.State != propagation.Active {
		t.Errorf("generator state = %v, want active", gen.State)
	}
	// 14 cells of 100 out of 2000 falloff
	if math.Abs(gen.SecondaryVolume-0.3) > 1e-9 {
		t.Errorf("generator copy volume = %v, want 0.3", gen.SecondaryVolume)
	}
	if !gen.LowPass || math.Abs(gen.LowPassHz-17000*190.0/700) > 1e-6 {
		t.Errorf("generator low-pass = %v at %v Hz", gen.LowPass, gen.LowPassHz)
	}
}

func TestSimulationMasterSwitch(t *testing.T) {
	enabled := cfg.Sim.Enabled
	t.Cleanup(func() { cfg.Sim.Enabled = enabled })
	cfg.Sim.Enabled = false

	sim, err := NewSimulation(loadCorridor(t), Options{})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	sim.Update()

	snap := sim.Snapshot()
	if snap.Enabled {
		t.Errorf("snapshot reports enabled")
	}
	for _, src := range snap.Sources {
		if src.Volume != 1 || src.HasSecondary {
			t.Errorf("%s touched while disabled: %+v", src.Name, src)
		}
	}

	systems.SetEnabled(sim.ECS(), true)
	sim.Update()
	if sim.Spawner().Live() != 2 {
		t.Errorf("live copies = %d after enabling, want 2", sim.Spawner().Live())
	}
}

func TestSimulationRemoveSource(t *testing.T) {
	sim, err := NewSimulation(loadCorridor(t), Options{})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	sim.Update()

	if !systems.RemoveSource(sim.ECS(), 2) {
		t.Fatalf("RemoveSource failed")
	}
	if sim.Spawner().Live() != 1 {
		t.Errorf("live copies = %d, want 1", sim.Spawner().Live())
	}

	sim.Update()
	snap := sim.Snapshot()
	if len(snap.Sources) != 1 || snap.Sources[0].Name != "hum" {
		t.Errorf("sources after removal = %+v", snap.Sources)
	}
}

func TestSimulationListenerWalk(t *testing.T) {
	sim, err := NewSimulation(loadCorridor(t), Options{Walk: mgl64.Vec3{10, 0, 0}})
	if err != nil {
		t.Fatalf("NewSimulation: %v", err)
	}
	for i := 0; i < 5; i++ {
		sim.Update()
	}
	if got := sim.Snapshot().Listener; got != (mgl64.Vec3{900, 150, 50}) {
		t.Errorf("listener at %v, want (900,150,50)", got)
	}
}

func TestSimulationRejectsEmptyLevel(t *testing.T) {
	_, err := NewSimulation(&leveldata.Level{Name: "empty"}, Options{})
	if !errors.Is(err, voxel.ErrInvalidDimensions) {
		t.Fatalf("err = %v, want ErrInvalidDimensions", err)
	}
}
