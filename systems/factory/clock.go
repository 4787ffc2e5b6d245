package factory

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/archetypes"
	"github.com/automoto/earshot/components"
)

func CreateClock(ecs *ecs.ECS, ticksPerSecond int) *donburi.Entry {
	clock := archetypes.Clock.Spawn(ecs)
	components.Clock.SetValue(clock, components.ClockData{TicksPerSecond: ticksPerSecond})
	return clock
}
