// Package occlusion attenuates sources whose direct path to the listener is
// blocked, based on how much geometry the sound has to pass through.
package occlusion

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/automoto/earshot/geom"
	"github.com/automoto/earshot/sound"
)

// ErrQueryAsymmetry is returned when the two opposed traces disagree on how
// many surfaces lie between listener and source.
var ErrQueryAsymmetry = errors.New("occlusion: opposed traces hit a different number of surfaces")

// Settings tune the occlusion model.
type Settings struct {
	Filter geom.Filter

	// Thickness at which a surface blocks everything.
	MaxBlockingThickness float64

	// Low-pass eases off between WallOffset and WallOffset+WallStopDistance
	// from the first blocking wall.
	WallOffset       float64
	WallStopDistance float64

	MaxLowPassFrequency float64
	MinLowPassFrequency float64
	LowPassInterval     float64 // seconds

	MinVolume float64
	Materials MaterialTable
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		MaxBlockingThickness: 900,
		WallOffset:           60,
		WallStopDistance:     700,
		MaxLowPassFrequency:  17000,
		MinLowPassFrequency:  200,
		LowPassInterval:      0.1,
		MinVolume:            0.01,
		Materials:            MaterialTable{},
	}
}

// Result is the occlusion evaluation of one source.
type Result struct {
	Blocked          bool
	Occlusion        float64 // summed, clamped to [0,1]
	Volume           float64
	LowPassFrequency float64
	Surfaces         int
}

// Stats summarizes one Update.
type Stats struct {
	InRange  int
	Clear    int
	Occluded int
	Skipped  int
	LowPass  bool // whether the low-pass was refreshed this tick
}

// Observer receives per-source outcomes.
type Observer interface {
	OcclusionEvaluated(blocked bool)
	OcclusionSkipped(err error)
}

// Engine evaluates and applies occlusion once per tick.
type Engine struct {
	query    geom.WorldQuery
	settings Settings
	observer Observer

	lowPassTimer float64
}

// New creates an engine over the given world.
func New(q geom.WorldQuery, s Settings) *Engine {
	return &Engine{query: q, settings: s}
}

// SetObserver installs a statistics sink.
func (e *Engine) SetObserver(o Observer) { e.observer = o }

// Settings returns the active tuning.
func (e *Engine) Settings() Settings { return e.settings }

// Update evaluates every source in falloff range and writes volume and
// low-pass state back to it. The low-pass is only refreshed once the interval
// timer has elapsed; the timer restarts after the whole sweep.
func (e *Engine) Update(dt float64, l sound.Listener, sources []sound.Source) Stats {
	var stats Stats
	e.lowPassTimer += dt
	refreshLowPass := e.lowPassTimer > e.settings.LowPassInterval
	stats.LowPass = refreshLowPass

	for _, src := range sources {
		if src == nil || !sound.InFalloffRange(l, src) {
			continue
		}
		stats.InRange++

		res, err := e.Evaluate(l, src)
		if err != nil {
			log.Printf("Warning: occlusion skipped for source %d: %v", src.ID(), err)
			stats.Skipped++
			if e.observer != nil {
				e.observer.OcclusionSkipped(err)
			}
			continue
		}
		if e.observer != nil {
			e.observer.OcclusionEvaluated(res.Blocked)
		}

		if !res.Blocked {
			stats.Clear++
			if src.VolumeMultiplier() != 1 {
				src.SetVolumeMultiplier(1)
			}
			src.SetLowPassEnabled(false)
			continue
		}

		stats.Occluded++
		src.SetVolumeMultiplier(res.Volume)
		if refreshLowPass {
			src.SetLowPassEnabled(true)
			src.SetLowPassFrequency(res.LowPassFrequency)
		}
	}

	if refreshLowPass {
		e.lowPassTimer = 0
	}
	return stats
}

// Evaluate computes the occlusion of one source without touching it.
func (e *Engine) Evaluate(l sound.Listener, src sound.Source) (Result, error) {
	ignore := geom.Ignore(l.Actor, src.Owner())
	from := l.Position
	to := src.Position()

	fromListener := e.query.Raycast(from, to, e.settings.Filter, ignore)
	if len(fromListener) == 0 {
		return Result{Volume: 1}, nil
	}

	fromSource := e.query.Raycast(to, from, e.settings.Filter, ignore)
	if len(fromSource) != len(fromListener) {
		return Result{}, fmt.Errorf("source %d: listener side %d, source side %d: %w",
			src.ID(), len(fromListener), len(fromSource), ErrQueryAsymmetry)
	}

	// Pair each entry hit with the matching exit hit.
	fromSource = slices.Clone(fromSource)
	slices.Reverse(fromSource)

	total := 0.0
	for i := range fromListener {
		total += e.contribution(fromListener[i], fromSource[i])
	}
	total = mgl64.Clamp(total, 0, 1)

	return Result{
		Blocked:          true,
		Occlusion:        total,
		Volume:           mgl64.Clamp(1-total, e.settings.MinVolume, 1),
		LowPassFrequency: e.lowPassFrequency(from, fromListener[0]),
		Surfaces:         len(fromListener),
	}, nil
}

func (e *Engine) contribution(listenerSide, sourceSide geom.Hit) float64 {
	thickness := 1.0
	if e.settings.MaxBlockingThickness > 0 {
		thickness = mgl64.Clamp(listenerSide.Point.Sub(sourceSide.Point).Len()/e.settings.MaxBlockingThickness, 0, 1)
	}
	material := e.settings.Materials.Factor(listenerSide.Materials)
	return mgl64.Clamp(thickness*material, 0, 1)
}

// lowPassFrequency opens the filter up as the listener backs away from the
// first wall.
func (e *Engine) lowPassFrequency(listener mgl64.Vec3, first geom.Hit) float64 {
	closest, ok := e.query.ClosestPoint(first.Actor, listener)
	if !ok {
		closest = first.Point
	}

	factor := 1.0
	if e.settings.WallStopDistance > 0 {
		dist := closest.Sub(listener).Len()
		factor = mgl64.Clamp(dist-e.settings.WallOffset, 0, e.settings.WallStopDistance) / e.settings.WallStopDistance
	}

	maxHz := e.settings.MaxLowPassFrequency
	return mgl64.Clamp(maxHz*factor, e.settings.MinLowPassFrequency, maxHz)
}
