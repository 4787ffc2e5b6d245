package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

// Box is an axis-aligned block of static geometry.
type Box struct {
	ID        ActorID
	Min, Max  mgl64.Vec3
	Channel   string
	Materials []MaterialID // in surface order; the first table match wins
}

// Center returns the middle of the box.
func (b *Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// ClosestPoint clamps p into the box.
func (b *Box) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(p[0], b.Min[0], b.Max[0]),
		mgl64.Clamp(p[1], b.Min[1], b.Max[1]),
		mgl64.Clamp(p[2], b.Min[2], b.Max[2]),
	}
}

// OverlapsSphere reports whether the sphere intersects the box interior.
// Touching the surface does not count.
func (b *Box) OverlapsSphere(center mgl64.Vec3, radius float64) bool {
	d := center.Sub(b.ClosestPoint(center))
	return d.Dot(d) < radius*radius
}

// SegmentEntry returns the segment parameter t in [0,1] where start->end
// enters the box. A start inside the box enters at t=0.
func (b *Box) SegmentEntry(start, end mgl64.Vec3) (float64, bool) {
	dir := end.Sub(start)
	tMin, tMax := 0.0, 1.0

	for axis := 0; axis < 3; axis++ {
		o := start[axis]
		d := dir[axis]
		if math.Abs(d) < epsilon {
			// Parallel to this slab: must already be inside it.
			if o < b.Min[axis] || o > b.Max[axis] {
				return 0, false
			}
			continue
		}

		inv := 1.0 / d
		t0 := (b.Min[axis] - o) * inv
		t1 := (b.Max[axis] - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
