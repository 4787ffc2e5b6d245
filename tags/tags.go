package tags

import "github.com/yohamta/donburi"

var (
	Listener        = donburi.NewTag().SetName("Listener")
	SoundSource     = donburi.NewTag().SetName("SoundSource")
	PropagatedSound = donburi.NewTag().SetName("PropagatedSound")
	Wall            = donburi.NewTag().SetName("Wall")

	// Opt-in tags used when a feature is not applied to all sources.
	Occlude   = donburi.NewTag().SetName("Occlude")
	Propagate = donburi.NewTag().SetName("Propagate")
)
