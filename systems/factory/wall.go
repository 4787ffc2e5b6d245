package factory

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/archetypes"
	"github.com/automoto/earshot/components"
	"github.com/automoto/earshot/geom"
	"github.com/automoto/earshot/leveldata"
)

func CreateWall(ecs *ecs.ECS, s leveldata.Solid) *donburi.Entry {
	wall := archetypes.Wall.Spawn(ecs)

	data := components.WallData{Channel: s.Channel, Material: s.Material}

	// Add to the scene if it exists
	if entry, ok := components.Acoustics.First(ecs.World); ok {
		var materials []geom.MaterialID
		if s.Material != "" {
			materials = append(materials, geom.MaterialID(s.Material))
		}
		data.Actor = components.Acoustics.Get(entry).Scene.AddBox(
			mgl64.Vec3{s.X, s.Y, s.Z},
			mgl64.Vec3{s.X + s.W, s.Y + s.H, s.Z + s.D},
			s.Channel,
			materials...,
		)
	}

	components.Wall.SetValue(wall, data)
	return wall
}
