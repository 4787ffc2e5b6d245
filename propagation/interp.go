package propagation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Interpolator moves values toward a target at a constant rate.
type Interpolator interface {
	// Volume steps current toward target by at most rate*dt.
	Volume(current, target, dt, rate float64) float64
	// Position steps current toward target by at most speed*dt units.
	Position(current, target mgl64.Vec3, dt, speed float64) mgl64.Vec3
}

// LinearTween drives constant-rate steps through a linear gween tween whose
// duration is the time needed to cover the remaining distance.
type LinearTween struct{}

func (LinearTween) Volume(current, target, dt, rate float64) float64 {
	frac, done := step(math.Abs(target-current), dt, rate)
	if done {
		return target
	}
	return current + (target-current)*frac
}

func (LinearTween) Position(current, target mgl64.Vec3, dt, speed float64) mgl64.Vec3 {
	delta := target.Sub(current)
	frac, done := step(delta.Len(), dt, speed)
	if done {
		return target
	}
	return current.Add(delta.Mul(frac))
}

// step returns the fraction of dist covered after dt at rate. A non-positive
// rate snaps straight to the target.
func step(dist, dt, rate float64) (float64, bool) {
	if dist == 0 || rate <= 0 {
		return 1, true
	}
	if dt <= 0 {
		return 0, false
	}
	tw := gween.New(0, 1, float32(dist/rate), ease.Linear)
	frac, done := tw.Update(float32(dt))
	if done || frac >= 1 {
		return 1, true
	}
	return float64(frac), false
}
