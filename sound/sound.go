// Package sound defines the view of audio sources, the listener and their
// lifecycle owner that the occlusion and propagation engines work against.
package sound

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/automoto/earshot/geom"
)

// ID identifies a tracked source.
type ID uint64

// Listener is the single point everything is heard from.
type Listener struct {
	Position mgl64.Vec3
	Actor    geom.ActorID // ignored by line traces
}

// Source is the mutable external view of an audio source.
type Source interface {
	ID() ID
	Owner() geom.ActorID
	Position() mgl64.Vec3
	FalloffDistance() float64
	VolumeMultiplier() float64
	SetVolumeMultiplier(v float64)
	SetLowPassEnabled(enabled bool)
	SetLowPassFrequency(hz float64)
}

// Propagated is a secondary source that can be moved around.
type Propagated interface {
	Source
	SetPosition(p mgl64.Vec3)
}

// Overrides replace the duplicated source's attenuation and effects.
type Overrides struct {
	FalloffDistance float64 // zero keeps the original falloff
	EffectChain     string
}

// Spawner duplicates a source at a new position. startAt is the playback
// offset in seconds the duplicate starts from.
type Spawner interface {
	SpawnPropagated(origin Source, at mgl64.Vec3, o Overrides, startAt float64) Propagated
	ReleasePropagated(p Propagated)
}

// PlayTimeTracker reports the live playback offset of a source in seconds,
// or -1 when it is unknown.
type PlayTimeTracker interface {
	PlayTime(id ID) float64
}

// InFalloffRange reports whether the listener is strictly inside the
// source's falloff distance.
func InFalloffRange(l Listener, s Source) bool {
	return s.FalloffDistance() > l.Position.Sub(s.Position()).Len()
}
