package factory

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/archetypes"
	"github.com/automoto/earshot/components"
	"github.com/automoto/earshot/leveldata"
)

// CreateListener spawns the listener. walk is added to its position every tick.
func CreateListener(ecs *ecs.ECS, spawn leveldata.ListenerSpawn, walk mgl64.Vec3) *donburi.Entry {
	listener := archetypes.Listener.Spawn(ecs)
	components.Listener.SetValue(listener, components.ListenerData{
		Position: mgl64.Vec3{spawn.X, spawn.Y, spawn.Z},
		Walk:     walk,
	})
	return listener
}
