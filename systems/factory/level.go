package factory

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"

	"github.com/automoto/earshot/archetypes"
	"github.com/automoto/earshot/components"
	"github.com/automoto/earshot/leveldata"
)

func CreateLevel(ecs *ecs.ECS, level *leveldata.Level) *donburi.Entry {
	entry := archetypes.Level.Spawn(ecs)
	components.Level.Set(entry, &components.LevelData{CurrentLevel: level})
	return entry
}
