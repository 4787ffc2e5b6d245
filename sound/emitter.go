package sound

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/automoto/earshot/geom"
)

// Emitter is a plain in-memory source. It satisfies Propagated.
type Emitter struct {
	SourceID    ID
	OwnerActor  geom.ActorID
	Pos         mgl64.Vec3
	Falloff     float64
	Volume      float64
	LowPassOn   bool
	LowPassHz   float64
	EffectChain string
}

// NewEmitter returns an emitter at full volume with the low-pass disabled.
func NewEmitter(id ID, pos mgl64.Vec3, falloff float64) *Emitter {
	return &Emitter{
		SourceID: id,
		Pos:      pos,
		Falloff:  falloff,
		Volume:   1,
	}
}

func (e *Emitter) ID() ID                        { return e.SourceID }
func (e *Emitter) Owner() geom.ActorID           { return e.OwnerActor }
func (e *Emitter) Position() mgl64.Vec3          { return e.Pos }
func (e *Emitter) SetPosition(p mgl64.Vec3)      { e.Pos = p }
func (e *Emitter) FalloffDistance() float64      { return e.Falloff }
func (e *Emitter) VolumeMultiplier() float64     { return e.Volume }
func (e *Emitter) SetVolumeMultiplier(v float64) { e.Volume = v }
func (e *Emitter) SetLowPassEnabled(on bool)     { e.LowPassOn = on }
func (e *Emitter) SetLowPassFrequency(hz float64) {
	e.LowPassHz = hz
}

// LowPassEnabled reports the current filter switch.
func (e *Emitter) LowPassEnabled() bool { return e.LowPassOn }

// Duplicate copies the emitter under a new id at a new position, applying the
// overrides.
func (e *Emitter) Duplicate(id ID, at mgl64.Vec3, o Overrides) *Emitter {
	dup := *e
	dup.SourceID = id
	dup.Pos = at
	if o.FalloffDistance > 0 {
		dup.Falloff = o.FalloffDistance
	}
	if o.EffectChain != "" {
		dup.EffectChain = o.EffectChain
	}
	return &dup
}
