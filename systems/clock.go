package systems

import (
	"math"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/components"
	cfg "github.com/automoto/earshot/config"
	"github.com/automoto/earshot/sound"
)

// UpdateClock advances simulation time by one tick.
func UpdateClock(e *ecs.ECS) {
	clock := GetOrCreateClock(e)
	clock.Tick++
	clock.Elapsed += clock.DT()
}

// UpdatePlayTimes advances the loop position of every source.
func UpdatePlayTimes(e *ecs.ECS) {
	dt := GetOrCreateClock(e).DT()
	components.SoundSource.Each(e.World, func(entry *donburi.Entry) {
		src := components.SoundSource.Get(entry)
		src.PlayTime = advancePlayTime(src.PlayTime, dt, src.Duration)
	})
}

// advancePlayTime wraps at duration so looping sources never drift past
// the end of their sample.
func advancePlayTime(at, dt, duration float64) float64 {
	if duration <= 0 {
		return at + dt
	}
	return math.Mod(at+dt, duration)
}

// GetOrCreateClock returns the singleton Clock component, creating it if needed
func GetOrCreateClock(e *ecs.ECS) *components.ClockData {
	entry, ok := components.Clock.First(e.World)
	if !ok {
		entry = e.World.Entry(e.World.Create(components.Clock))
		components.Clock.SetValue(entry, components.ClockData{
			TicksPerSecond: cfg.Sim.TicksPerSecond,
		})
	}
	return components.Clock.Get(entry)
}

// ClockPlayTimes reports the loop position tracked by UpdatePlayTimes.
// Sources without a known duration report -1.
type ClockPlayTimes struct {
	ecs *ecs.ECS
}

func NewClockPlayTimes(e *ecs.ECS) *ClockPlayTimes {
	return &ClockPlayTimes{ecs: e}
}

func (c *ClockPlayTimes) PlayTime(id sound.ID) float64 {
	entry, ok := SourceEntry(c.ecs, id)
	if !ok {
		return -1
	}
	src := components.SoundSource.Get(entry)
	if src.Duration <= 0 {
		return -1
	}
	return src.PlayTime
}
