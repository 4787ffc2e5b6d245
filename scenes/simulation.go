package scenes

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/components"
	cfg "github.com/automoto/earshot/config"
	"github.com/automoto/earshot/geom"
	"github.com/automoto/earshot/leveldata"
	"github.com/automoto/earshot/occlusion"
	"github.com/automoto/earshot/propagation"
	"github.com/automoto/earshot/sound"
	"github.com/automoto/earshot/systems"
	"github.com/automoto/earshot/systems/factory"
	"github.com/automoto/earshot/voxel"
)

// Options configure a Simulation. Zero values fall back to config.
type Options struct {
	TicksPerSecond int
	CellRadius     float64
	Walk           mgl64.Vec3 // listener displacement per tick

	// Registerer receives the engine metrics; nil keeps them private.
	Registerer prometheus.Registerer

	// Audio plays every source through ebiten and takes play times from the
	// players. Requires config.Audio.Enabled.
	Audio bool
}

// Simulation is a headless world running occlusion and propagation over one
// level.
type Simulation struct {
	ecs     *ecs.ECS
	level   *leveldata.Level
	spawner *systems.EntitySpawner
	metrics *systems.Metrics
}

func NewSimulation(level *leveldata.Level, opts Options) (*Simulation, error) {
	if opts.TicksPerSecond <= 0 {
		opts.TicksPerSecond = cfg.Sim.TicksPerSecond
	}
	if opts.CellRadius <= 0 {
		opts.CellRadius = cfg.Grid.CellRadius
	}

	ecs := ecs.NewECS(donburi.NewWorld())

	ecs.AddSystem(systems.UpdateClock)
	ecs.AddSystem(systems.UpdateListener)
	ecs.AddSystem(systems.UpdatePlayTimes)
	ecs.AddSystem(systems.UpdateOcclusion)
	ecs.AddSystem(systems.UpdatePropagation)

	// Audio runs last so it hears this tick's volumes
	ecs.AddSystem(systems.UpdateAudio)

	s := &Simulation{
		ecs:     ecs,
		level:   level,
		spawner: systems.NewEntitySpawner(ecs),
		metrics: systems.NewMetrics(opts.Registerer),
	}

	factory.CreateClock(ecs, opts.TicksPerSecond)
	factory.CreateLevel(ecs, level)
	acousticsEntry := factory.CreateAcoustics(ecs, level.Width, level.Height, cfg.Grid.SpaceCellSize, cfg.Sim.Enabled)
	acoustics := components.Acoustics.Get(acousticsEntry)

	// Walls must be in the scene before the grid probes it
	for _, solid := range level.Solids {
		factory.CreateWall(ecs, solid)
	}

	grid, err := buildGrid(acoustics.Scene, level, opts.CellRadius)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", level.Name, err)
	}
	acoustics.Grid = grid

	factory.CreateListener(ecs, level.Listener, opts.Walk)
	for _, spawn := range level.Sources {
		systems.AddSource(ecs, spawn)
	}

	acoustics = components.Acoustics.Get(acousticsEntry)

	var clock sound.PlayTimeTracker = systems.NewClockPlayTimes(ecs)
	if opts.Audio && cfg.Audio.Enabled {
		clock = systems.NewEbitenBackend(ecs)
	}

	acoustics.Occlusion = occlusion.New(acoustics.Scene, systems.OcclusionSettings())
	acoustics.Occlusion.SetObserver(s.metrics)

	acoustics.Propagation = propagation.New(acoustics.Scene, grid, s.spawner, clock,
		systems.PropagationSettings(), propagation.WithObserver(s.metrics))
	if finder := acoustics.Propagation.Pathfinder(); finder != nil {
		finder.SetObserver(s.metrics)
	}

	return s, nil
}

// buildGrid lays the voxel grid over the level, or over the configured box
// when the grid config sets one.
func buildGrid(scene *geom.Scene, level *leveldata.Level, radius float64) (*voxel.VoxelGrid, error) {
	size := mgl64.Vec3{level.Width, level.Height, level.Depth}
	if cfg.Grid.Width > 0 {
		size[0] = cfg.Grid.Width
	}
	if cfg.Grid.Depth > 0 {
		size[1] = cfg.Grid.Depth
	}
	if cfg.Grid.Height > 0 {
		size[2] = cfg.Grid.Height
	}
	// Flat levels still get one layer of cells
	if size[2] <= 0 {
		size[2] = radius * 2
	}

	filter := geom.Filter(cfg.Propagation.Channels)
	if cfg.Grid.Centered {
		pivot := mgl64.Vec3{cfg.Grid.PivotX, cfg.Grid.PivotY, cfg.Grid.PivotZ}
		return voxel.BuildCentered(scene, pivot, size, radius, filter)
	}
	return voxel.Build(scene, mgl64.Vec3{}, size, radius, filter)
}

// Update runs one tick.
func (s *Simulation) Update() {
	s.ecs.Update()
}

func (s *Simulation) ECS() *ecs.ECS                   { return s.ecs }
func (s *Simulation) Level() *leveldata.Level         { return s.level }
func (s *Simulation) Spawner() *systems.EntitySpawner { return s.spawner }

func (s *Simulation) acoustics() *components.AcousticsData {
	return components.Acoustics.Get(components.Acoustics.MustFirst(s.ecs.World))
}

// SourceReport is the state of one source after a tick.
type SourceReport struct {
	ID        sound.ID
	Name      string
	Volume    float64
	LowPass   bool
	LowPassHz float64

	State           propagation.State
	HasSecondary    bool
	SecondaryPos    mgl64.Vec3
	SecondaryVolume float64
	PathLen         int
}

// Snapshot is everything the report prints for one tick.
type Snapshot struct {
	Tick      int
	Elapsed   float64
	Listener  mgl64.Vec3
	Enabled   bool
	Occlusion occlusion.Stats
	Sources   []SourceReport
}

// Snapshot reports the current tick. Sources are listed in level order.
func (s *Simulation) Snapshot() Snapshot {
	a := s.acoustics()
	clock := systems.GetOrCreateClock(s.ecs)
	l, _ := systems.CurrentListener(s.ecs)

	snap := Snapshot{
		Tick:      clock.Tick,
		Elapsed:   clock.Elapsed,
		Listener:  l.Position,
		Enabled:   a.Enabled,
		Occlusion: a.LastOcclusion,
	}

	for _, spawn := range s.level.Sources {
		entry, ok := systems.SourceEntry(s.ecs, sound.ID(spawn.ID))
		if !ok {
			continue
		}
		src := components.SoundSource.Get(entry)
		r := SourceReport{
			ID:        src.SourceID,
			Name:      src.Name,
			Volume:    src.Volume,
			LowPass:   src.LowPassOn,
			LowPassHz: src.LowPassHz,
		}
		if a.Propagation != nil {
			r.State = a.Propagation.State(src.SourceID)
			r.PathLen = len(a.Propagation.Path(src.SourceID))
			if sec, ok := a.Propagation.Secondary(src.SourceID); ok {
				r.HasSecondary = true
				r.SecondaryPos = sec.Position()
				r.SecondaryVolume = sec.VolumeMultiplier()
			}
		}
		snap.Sources = append(snap.Sources, r)
	}
	return snap
}
