package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"

	"github.com/automoto/earshot/geom"
)

type ListenerData struct {
	Position mgl64.Vec3
	Walk     mgl64.Vec3 // displacement applied every tick
	Actor    geom.ActorID
}

var Listener = donburi.NewComponentType[ListenerData]()
