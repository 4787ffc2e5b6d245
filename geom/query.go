// Package geom holds the world-query contract used by the acoustics engines and
// a resolv-backed scene of static boxes that implements it.
package geom

import "github.com/go-gl/mathgl/mgl64"

// ActorID identifies a piece of blocking geometry. Zero means "no actor".
type ActorID int

// MaterialID identifies a surface material.
type MaterialID string

// Filter lists the collision channels a query considers blocking.
// An empty filter matches every channel.
type Filter []string

// Hit is one blocking surface struck by a ray.
type Hit struct {
	Point     mgl64.Vec3
	Distance  float64 // from the ray start
	Actor     ActorID
	Materials []MaterialID
}

// Overlapper answers sphere overlap queries.
type Overlapper interface {
	Overlap(center mgl64.Vec3, radius float64, filter Filter) []ActorID
}

// Raycaster answers segment queries. Raycast returns every blocking hit ordered
// by distance from start; RaycastFirst returns only the nearest.
type Raycaster interface {
	Raycast(start, end mgl64.Vec3, filter Filter, ignore []ActorID) []Hit
	RaycastFirst(start, end mgl64.Vec3, filter Filter, ignore []ActorID) (Hit, bool)
}

// WorldQuery is the full set of geometry queries the engines consume.
type WorldQuery interface {
	Overlapper
	Raycaster
	// ClosestPoint returns the point on the actor's collision closest to p.
	ClosestPoint(actor ActorID, p mgl64.Vec3) (mgl64.Vec3, bool)
}

// HasLineOfSight reports whether nothing under filter blocks the segment.
func HasLineOfSight(q Raycaster, from, to mgl64.Vec3, filter Filter, ignore []ActorID) bool {
	_, blocked := q.RaycastFirst(from, to, filter, ignore)
	return !blocked
}

// Ignore builds an ignore list, dropping zero ids.
func Ignore(ids ...ActorID) []ActorID {
	out := make([]ActorID, 0, len(ids))
	for _, id := range ids {
		if id != 0 {
			out = append(out, id)
		}
	}
	return out
}

func ignored(id ActorID, ignore []ActorID) bool {
	for _, i := range ignore {
		if i == id {
			return true
		}
	}
	return false
}
