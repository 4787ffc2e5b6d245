// Package propagation places a secondary copy of a fully blocked source at the
// deepest point of the route around the obstacle that the listener can still
// see, so the sound appears to bend around corners.
package propagation

import (
	"errors"
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/automoto/earshot/geom"
	"github.com/automoto/earshot/pathfind"
	"github.com/automoto/earshot/sound"
	"github.com/automoto/earshot/voxel"
)

// ErrNoGrid is reported when the engine is built without a voxel grid.
var ErrNoGrid = errors.New("propagation: no voxel grid available, propagation disabled")

// State is the lifecycle of a source's secondary copy.
type State int

const (
	None    State = iota // never propagated
	Spawned              // secondary created or re-engaged this tick
	Active               // secondary resting at its placement
	Moving               // secondary travelling toward its placement
	Fading               // direct sound or no route; secondary silenced but kept
)

func (s State) String() string {
	switch s {
	case Spawned:
		return "spawned"
	case Active:
		return "active"
	case Moving:
		return "moving"
	case Fading:
		return "fading"
	default:
		return "none"
	}
}

// Settings tune placement and interpolation.
type Settings struct {
	Filter     geom.Filter
	MoveSpeed  float64 // units per second
	VolumeRate float64 // volume units per second
	FadeFloor  float64
	Overrides  sound.Overrides
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		MoveSpeed:  3500,
		VolumeRate: 0.5,
		FadeFloor:  0.01,
	}
}

// Observer receives lifecycle events.
type Observer interface {
	PropagatedSpawned()
	PropagationFaded(noPath bool)
}

type tracked struct {
	path      pathfind.Path
	secondary sound.Propagated
	state     State
}

// Engine owns every secondary source and the path cached for each origin.
type Engine struct {
	query    geom.Raycaster
	spawner  sound.Spawner
	clock    sound.PlayTimeTracker
	settings Settings

	finder   *pathfind.Pathfinder
	interp   Interpolator
	observer Observer

	sources map[sound.ID]*tracked
	ignore  []geom.ActorID
	err     error
}

// Option configures an Engine.
type Option func(*Engine)

// WithPathfinder shares an existing pathfinder instead of building one.
func WithPathfinder(p *pathfind.Pathfinder) Option {
	return func(e *Engine) { e.finder = p }
}

// WithInterpolator replaces the default constant-rate tweening.
func WithInterpolator(i Interpolator) Option {
	return func(e *Engine) { e.interp = i }
}

// WithObserver installs a statistics sink.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New creates an engine. A nil grid without WithPathfinder disables the engine:
// the problem is logged once and Update does nothing.
func New(q geom.Raycaster, grid *voxel.VoxelGrid, spawner sound.Spawner, clock sound.PlayTimeTracker, s Settings, opts ...Option) *Engine {
	e := &Engine{
		query:    q,
		spawner:  spawner,
		clock:    clock,
		settings: s,
		interp:   LinearTween{},
		sources:  make(map[sound.ID]*tracked),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.finder == nil {
		if grid == nil {
			e.err = ErrNoGrid
			log.Printf("Warning: %v", e.err)
			return e
		}
		e.finder = pathfind.New(grid, pathfind.LineOfSightFunc(e.visible))
	}
	return e
}

// Err returns why the engine is disabled, if it is.
func (e *Engine) Err() error { return e.err }

// Pathfinder returns the pathfinder in use, or nil when disabled.
func (e *Engine) Pathfinder() *pathfind.Pathfinder { return e.finder }

// State returns the lifecycle state of a source.
func (e *Engine) State(id sound.ID) State {
	if t, ok := e.sources[id]; ok {
		return t.state
	}
	return None
}

// Secondary returns the propagated copy of a source, if one exists.
func (e *Engine) Secondary(id sound.ID) (sound.Propagated, bool) {
	t, ok := e.sources[id]
	if !ok || t.secondary == nil {
		return nil, false
	}
	return t.secondary, true
}

// Path returns the route last used for a source.
func (e *Engine) Path(id sound.ID) pathfind.Path {
	if t, ok := e.sources[id]; ok {
		return t.path
	}
	return nil
}

// Update refreshes every source in falloff range.
func (e *Engine) Update(dt float64, l sound.Listener, sources []sound.Source) {
	if e.err != nil {
		return
	}
	for _, src := range sources {
		if src == nil || !sound.InFalloffRange(l, src) {
			continue
		}
		e.update(dt, l, src)
	}
}

// Remove forgets a source and releases its secondary copy.
func (e *Engine) Remove(id sound.ID) {
	t, ok := e.sources[id]
	if !ok {
		return
	}
	if t.secondary != nil && e.spawner != nil {
		e.spawner.ReleasePropagated(t.secondary)
	}
	delete(e.sources, id)
	if e.finder != nil {
		e.finder.Invalidate()
	}
}

func (e *Engine) update(dt float64, l sound.Listener, src sound.Source) {
	e.ignore = geom.Ignore(l.Actor, src.Owner())

	if e.visible(src.Position(), l.Position) {
		e.fade(dt, src.ID(), false)
		return
	}

	// An unchanged target hands back the route cached for this start node,
	// so the search only reruns when the listener crosses into another cell.
	path, found, _ := e.finder.FindPath(src.Position(), l.Position)
	if !found {
		e.fade(dt, src.ID(), true)
		return
	}

	t := e.track(src.ID())
	t.path = path

	for i := 1; i < len(path); i++ {
		if e.visible(path[i].Position, l.Position) {
			continue
		}
		e.place(dt, t, src, path[i-1].Position, len(path))
		return
	}
}

// place puts the secondary copy at (or moves it toward) at and eases its
// volume toward what is left after travelling the path.
func (e *Engine) place(dt float64, t *tracked, src sound.Source, at mgl64.Vec3, steps int) {
	wasFading := t.state == Fading

	switch {
	case t.secondary == nil:
		if e.spawner == nil {
			return
		}
		t.secondary = e.spawner.SpawnPropagated(src, at, e.settings.Overrides, e.startAt(src.ID()))
		if t.secondary == nil {
			return
		}
		t.state = Spawned
		if e.observer != nil {
			e.observer.PropagatedSpawned()
		}
	case t.secondary.Position() != at:
		t.secondary.SetPosition(e.interp.Position(t.secondary.Position(), at, dt, e.settings.MoveSpeed))
		t.state = Moving
		if t.secondary.Position() == at {
			t.state = Active
		}
	default:
		t.state = Active
	}

	if wasFading {
		t.state = Spawned
	}

	target := 1 - mgl64.Clamp(float64(steps)*e.diameter()/src.FalloffDistance(), 0, 1)
	t.secondary.SetVolumeMultiplier(e.interp.Volume(t.secondary.VolumeMultiplier(), target, dt, e.settings.VolumeRate))
}

// fade eases an existing secondary copy toward the floor without removing it.
func (e *Engine) fade(dt float64, id sound.ID, noPath bool) {
	t, ok := e.sources[id]
	if !ok || t.secondary == nil {
		return
	}
	t.state = Fading
	v := e.interp.Volume(t.secondary.VolumeMultiplier(), e.settings.FadeFloor, dt, e.settings.VolumeRate)
	t.secondary.SetVolumeMultiplier(max(v, e.settings.FadeFloor))
	if e.observer != nil {
		e.observer.PropagationFaded(noPath)
	}
}

func (e *Engine) track(id sound.ID) *tracked {
	t, ok := e.sources[id]
	if !ok {
		t = &tracked{}
		e.sources[id] = t
	}
	return t
}

func (e *Engine) startAt(id sound.ID) float64 {
	if e.clock == nil {
		return 0
	}
	if at := e.clock.PlayTime(id); at >= 0 {
		return at
	}
	return 0
}

func (e *Engine) diameter() float64 {
	return e.finder.Grid().Diameter()
}

// visible traces between two points ignoring the listener and the current
// source's owner.
func (e *Engine) visible(from, to mgl64.Vec3) bool {
	return geom.HasLineOfSight(e.query, from, to, e.settings.Filter, e.ignore)
}
