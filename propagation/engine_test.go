package propagation

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/automoto/earshot/geom"
	"github.com/automoto/earshot/sound"
	"github.com/automoto/earshot/voxel"
)

type spawnRecord struct {
	origin  sound.ID
	at      mgl64.Vec3
	startAt float64
}

type fakeSpawner struct {
	nextID   sound.ID
	spawned  []spawnRecord
	released []sound.Propagated
}

func (f *fakeSpawner) SpawnPropagated(origin sound.Source, at mgl64.Vec3, o sound.Overrides, startAt float64) sound.Propagated {
	f.nextID++
	f.spawned = append(f.spawned, spawnRecord{origin: origin.ID(), at: at, startAt: startAt})
	em := origin.(*sound.Emitter)
	return em.Duplicate(1000+f.nextID, at, o)
}

func (f *fakeSpawner) ReleasePropagated(p sound.Propagated) {
	f.released = append(f.released, p)
}

type fixedClock map[sound.ID]float64

func (c fixedClock) PlayTime(id sound.ID) float64 {
	if v, ok := c[id]; ok {
		return v
	}
	return -1
}

type events struct {
	spawned int
	faded   int
	noPath  int
}

func (e *events) PropagatedSpawned() { e.spawned++ }
func (e *events) PropagationFaded(noPath bool) {
	e.faded++
	if noPath {
		e.noPath++
	}
}

var (
	behindWall  = mgl64.Vec3{850, 150, 50}
	aroundWall  = mgl64.Vec3{850, 550, 50}
	inOpenView  = mgl64.Vec3{150, 850, 50}
	insideWall  = mgl64.Vec3{500, 350, 50}
	cornerCell  = mgl64.Vec3{650, 650, 50}
	upperCorner = mgl64.Vec3{550, 750, 50}
)

// wallScene is a 10x10x1 grid of 100 unit cells split by a wall that leaves
// a gap along the top edge.
func wallScene(t *testing.T) (*geom.Scene, *voxel.VoxelGrid) {
	t.Helper()
	s := geom.NewScene(-5000, -5000, 10000, 10000, 128)
	s.AddBox(mgl64.Vec3{400, 0, -1000}, mgl64.Vec3{600, 700, 1000}, "world_static")
	g, err := voxel.Build(s, mgl64.Vec3{}, mgl64.Vec3{1000, 1000, 100}, 50, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s, g
}

type harness struct {
	engine  *Engine
	spawner *fakeSpawner
	events  *events
	source  *sound.Emitter
	sources []sound.Source
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s, g := wallScene(t)
	h := &harness{
		spawner: &fakeSpawner{},
		events:  &events{},
		source:  sound.NewEmitter(1, mgl64.Vec3{150, 150, 50}, 2000),
	}
	h.sources = []sound.Source{h.source}
	settings := DefaultSettings()
	settings.Overrides = sound.Overrides{FalloffDistance: 1500, EffectChain: "muffled"}
	h.engine = New(s, g, h.spawner, fixedClock{1: 1.25}, settings, WithObserver(h.events))
	return h
}

func (h *harness) tick(dt float64, listener mgl64.Vec3) {
	h.engine.Update(dt, sound.Listener{Position: listener}, h.sources)
}

func (h *harness) secondary(t *testing.T) sound.Propagated {
	t.Helper()
	p, ok := h.engine.Secondary(h.source.ID())
	if !ok {
		t.Fatal("no secondary source")
	}
	return p
}

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestSpawnsAtDeepestVisibleNode(t *testing.T) {
	h := newHarness(t)
	h.tick(0.1, behindWall)

	if len(h.spawner.spawned) != 1 {
		t.Fatalf("spawned %d, want 1", len(h.spawner.spawned))
	}
	rec := h.spawner.spawned[0]
	if rec.at != cornerCell {
		t.Errorf("placed at %v, want %v", rec.at, cornerCell)
	}
	if rec.startAt != 1.25 {
		t.Errorf("start offset = %v, want the origin's play time", rec.startAt)
	}
	if h.engine.State(h.source.ID()) != Spawned {
		t.Errorf("state = %v, want spawned", h.engine.State(h.source.ID()))
	}
	if h.events.spawned != 1 {
		t.Errorf("observer saw %d spawns", h.events.spawned)
	}

	p := h.secondary(t)
	if p.FalloffDistance() != 1500 {
		t.Errorf("falloff override not applied: %v", p.FalloffDistance())
	}
	if em := p.(*sound.Emitter); em.EffectChain != "muffled" {
		t.Errorf("effect chain = %q", em.EffectChain)
	}

	// 14 steps of 100 over a 2000 falloff leaves 0.3; volume eases from 1
	// at 0.5 per second.
	if len(h.engine.Path(h.source.ID())) != 14 {
		t.Errorf("path length = %d, want 14", len(h.engine.Path(h.source.ID())))
	}
	if !approx(p.VolumeMultiplier(), 0.95, 1e-4) {
		t.Errorf("volume = %v, want 0.95", p.VolumeMultiplier())
	}
	if h.source.VolumeMultiplier() != 1 {
		t.Error("origin volume must not change")
	}

	h.tick(0.1, behindWall)
	if h.engine.State(h.source.ID()) != Active {
		t.Errorf("state = %v, want active", h.engine.State(h.source.ID()))
	}
	if len(h.spawner.spawned) != 1 {
		t.Error("second tick must not spawn again")
	}
	if !approx(p.VolumeMultiplier(), 0.9, 1e-4) {
		t.Errorf("volume = %v, want 0.9", p.VolumeMultiplier())
	}

	for i := 0; i < 40; i++ {
		h.tick(0.1, behindWall)
	}
	if !approx(p.VolumeMultiplier(), 0.3, 1e-9) {
		t.Errorf("settled volume = %v, want 0.3", p.VolumeMultiplier())
	}
}

func TestUnknownPlayTimeStartsAtZero(t *testing.T) {
	s, g := wallScene(t)
	sp := &fakeSpawner{}
	e := New(s, g, sp, fixedClock{}, DefaultSettings())
	src := sound.NewEmitter(7, mgl64.Vec3{150, 150, 50}, 2000)

	e.Update(0.1, sound.Listener{Position: behindWall}, []sound.Source{src})
	if len(sp.spawned) != 1 || sp.spawned[0].startAt != 0 {
		t.Fatalf("spawns = %+v", sp.spawned)
	}
}

func TestMovesAtConstantSpeed(t *testing.T) {
	h := newHarness(t)
	h.tick(0.1, behindWall)
	p := h.secondary(t)

	const dt = 0.01
	maxStep := DefaultSettings().MoveSpeed * dt
	prev := p.Position()
	moved := false
	for i := 0; i < 20; i++ {
		h.tick(dt, aroundWall)
		step := p.Position().Sub(prev).Len()
		if step > maxStep+1e-3 {
			t.Fatalf("tick %d: moved %v, more than %v", i, step, maxStep)
		}
		if i == 0 {
			if step == 0 {
				t.Fatal("secondary did not start moving")
			}
			if h.engine.State(h.source.ID()) != Moving {
				t.Errorf("state = %v, want moving", h.engine.State(h.source.ID()))
			}
		}
		moved = moved || step > 0
		prev = p.Position()
	}
	if !moved || p.Position() != upperCorner {
		t.Errorf("secondary at %v, want %v", p.Position(), upperCorner)
	}
	if h.engine.State(h.source.ID()) != Active {
		t.Errorf("state = %v, want active once arrived", h.engine.State(h.source.ID()))
	}
	if len(h.spawner.spawned) != 1 {
		t.Error("moving must not respawn")
	}
}

func TestFadesButKeepsSecondary(t *testing.T) {
	h := newHarness(t)
	h.tick(0.1, behindWall)
	p := h.secondary(t)
	before := p.VolumeMultiplier()

	h.tick(0.1, inOpenView)
	if h.engine.State(h.source.ID()) != Fading {
		t.Fatalf("state = %v, want fading", h.engine.State(h.source.ID()))
	}
	if !approx(p.VolumeMultiplier(), before-0.05, 1e-4) {
		t.Errorf("volume = %v, want %v", p.VolumeMultiplier(), before-0.05)
	}

	for i := 0; i < 20; i++ {
		h.tick(0.5, inOpenView)
		if p.VolumeMultiplier() < 0.01 {
			t.Fatalf("volume %v dropped below the floor", p.VolumeMultiplier())
		}
	}
	if p.VolumeMultiplier() != 0.01 {
		t.Errorf("faded volume = %v, want 0.01", p.VolumeMultiplier())
	}
	if len(h.spawner.released) != 0 {
		t.Error("fading must not release the secondary")
	}
	if h.events.faded == 0 || h.events.noPath != 0 {
		t.Errorf("events = %+v", h.events)
	}

	// Blocked again: the kept secondary is re-engaged rather than respawned.
	h.tick(0.1, behindWall)
	if h.engine.State(h.source.ID()) != Spawned {
		t.Errorf("state = %v, want spawned", h.engine.State(h.source.ID()))
	}
	if len(h.spawner.spawned) != 1 {
		t.Errorf("spawned %d times, want 1", len(h.spawner.spawned))
	}
	if p.VolumeMultiplier() <= 0.01 {
		t.Error("volume should rise again once re-engaged")
	}
}

func TestNoPathFades(t *testing.T) {
	h := newHarness(t)
	h.tick(0.1, behindWall)
	p := h.secondary(t)

	h.tick(0.1, insideWall)
	if h.engine.State(h.source.ID()) != Fading {
		t.Errorf("state = %v, want fading", h.engine.State(h.source.ID()))
	}
	if h.events.noPath != 1 {
		t.Errorf("no-path fades = %d, want 1", h.events.noPath)
	}
	if p.VolumeMultiplier() >= 0.95 {
		t.Errorf("volume = %v, should be fading", p.VolumeMultiplier())
	}
}

func TestNoPathWithoutSecondaryDoesNothing(t *testing.T) {
	h := newHarness(t)
	h.tick(0.1, insideWall)

	if h.engine.State(h.source.ID()) != None {
		t.Errorf("state = %v, want none", h.engine.State(h.source.ID()))
	}
	if len(h.spawner.spawned) != 0 {
		t.Error("nothing should spawn without a route")
	}
}

func TestFullyVisiblePathPlacesNothing(t *testing.T) {
	s := geom.NewScene(-5000, -5000, 10000, 10000, 128)
	s.AddBox(mgl64.Vec3{495, 155, 45}, mgl64.Vec3{505, 165, 55}, "world_static")
	g, err := voxel.Build(s, mgl64.Vec3{}, mgl64.Vec3{1000, 1000, 100}, 50, nil)
	if err != nil {
		t.Fatal(err)
	}
	sp := &fakeSpawner{}
	e := New(s, g, sp, nil, DefaultSettings())
	src := sound.NewEmitter(1, mgl64.Vec3{150, 160, 50}, 2000)

	e.Update(0.1, sound.Listener{Position: mgl64.Vec3{850, 160, 50}}, []sound.Source{src})
	if len(e.Path(1)) == 0 {
		t.Fatal("expected a route around the obstacle")
	}
	if len(sp.spawned) != 0 {
		t.Errorf("spawned at %v, want nothing", sp.spawned[0].at)
	}
}

func TestOutOfFalloffIgnored(t *testing.T) {
	s, g := wallScene(t)
	sp := &fakeSpawner{}
	e := New(s, g, sp, nil, DefaultSettings())
	src := sound.NewEmitter(1, mgl64.Vec3{150, 150, 50}, 500)

	e.Update(0.1, sound.Listener{Position: behindWall}, []sound.Source{src})
	if len(sp.spawned) != 0 || e.State(1) != None {
		t.Error("sources beyond their falloff must be skipped")
	}
}

func TestRemoveReleasesSecondary(t *testing.T) {
	h := newHarness(t)
	h.tick(0.1, behindWall)
	p := h.secondary(t)

	h.engine.Remove(h.source.ID())
	if len(h.spawner.released) != 1 || h.spawner.released[0] != p {
		t.Fatalf("released = %v", h.spawner.released)
	}
	if h.engine.State(h.source.ID()) != None {
		t.Errorf("state = %v after remove", h.engine.State(h.source.ID()))
	}
	if _, ok := h.engine.Secondary(h.source.ID()); ok {
		t.Error("secondary still tracked after remove")
	}
	if h.engine.Path(h.source.ID()) != nil {
		t.Error("path still cached after remove")
	}

	// Removing twice is harmless.
	h.engine.Remove(h.source.ID())
	if len(h.spawner.released) != 1 {
		t.Error("second remove released again")
	}
}

func TestMissingGridDisablesEngine(t *testing.T) {
	s, _ := wallScene(t)
	sp := &fakeSpawner{}
	e := New(s, nil, sp, nil, DefaultSettings())

	if !errors.Is(e.Err(), ErrNoGrid) {
		t.Fatalf("Err = %v, want ErrNoGrid", e.Err())
	}
	src := sound.NewEmitter(1, mgl64.Vec3{150, 150, 50}, 2000)
	e.Update(0.1, sound.Listener{Position: behindWall}, []sound.Source{src})
	if len(sp.spawned) != 0 {
		t.Error("disabled engine spawned a source")
	}
	e.Remove(1)
}

func TestLinearTween(t *testing.T) {
	var lt LinearTween

	if got := lt.Volume(1, 0, 0.5, 0.5); !approx(got, 0.75, 1e-6) {
		t.Errorf("Volume = %v, want 0.75", got)
	}
	if got := lt.Volume(0.2, 0.3, 1, 0.5); got != 0.3 {
		t.Errorf("Volume overshoot = %v, want snap to 0.3", got)
	}
	if got := lt.Volume(0.2, 0.8, 1, 0); got != 0.8 {
		t.Errorf("zero rate = %v, want target", got)
	}

	from := mgl64.Vec3{0, 0, 0}
	to := mgl64.Vec3{300, 400, 0}
	got := lt.Position(from, to, 0.1, 1000)
	if !approx(got.Len(), 100, 1e-3) || !approx(got[0]/got[1], 0.75, 1e-6) {
		t.Errorf("Position = %v, want 100 units along the line", got)
	}
	if got := lt.Position(from, to, 1, 1000); got != to {
		t.Errorf("Position overshoot = %v, want %v", got, to)
	}
	if got := lt.Position(to, to, 0.1, 1000); got != to {
		t.Errorf("Position at target = %v", got)
	}
}
