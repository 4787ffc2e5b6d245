package factory

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/archetypes"
	"github.com/automoto/earshot/components"
	"github.com/automoto/earshot/geom"
	"github.com/automoto/earshot/sound"
)

// CreateAcoustics spawns the acoustics singleton with an empty scene covering
// width x height. Walls created afterwards are added to it.
func CreateAcoustics(ecs *ecs.ECS, width, height float64, cellSize int, enabled bool) *donburi.Entry {
	acoustics := archetypes.Acoustics.Spawn(ecs)
	components.Acoustics.SetValue(acoustics, components.AcousticsData{
		Scene:   geom.NewScene(0, 0, width, height, cellSize),
		Enabled: enabled,
		Sources: make(map[sound.ID]donburi.Entity),
	})
	return acoustics
}
