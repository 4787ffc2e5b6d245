package components

import (
	"github.com/yohamta/donburi"

	"github.com/automoto/earshot/geom"
)

type WallData struct {
	Actor    geom.ActorID
	Channel  string
	Material string
}

var Wall = donburi.NewComponentType[WallData]()
