package geom

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
)

// Scene is a static set of boxes. A resolv.Space indexes their X/Y footprints
// as a broadphase; the Z extent is resolved exactly per candidate.
type Scene struct {
	space   *resolv.Space
	offsetX float64
	offsetY float64
	boxes   map[ActorID]*Box
	order   []ActorID
	nextID  ActorID
}

// NewScene creates a scene covering the X/Y rectangle starting at (minX, minY).
// cellSize is the resolv broadphase cell size in world units.
func NewScene(minX, minY, width, height float64, cellSize int) *Scene {
	if cellSize <= 0 {
		cellSize = 64
	}
	w := int(math.Ceil(width))
	h := int(math.Ceil(height))
	return &Scene{
		space:   resolv.NewSpace(w, h, cellSize, cellSize),
		offsetX: minX,
		offsetY: minY,
		boxes:   make(map[ActorID]*Box),
	}
}

// AddBox inserts a box spanning min..max on the given channel.
func (s *Scene) AddBox(min, max mgl64.Vec3, channel string, materials ...MaterialID) ActorID {
	s.nextID++
	lo := mgl64.Vec3{math.Min(min[0], max[0]), math.Min(min[1], max[1]), math.Min(min[2], max[2])}
	hi := mgl64.Vec3{math.Max(min[0], max[0]), math.Max(min[1], max[1]), math.Max(min[2], max[2])}
	box := &Box{
		ID:        s.nextID,
		Min:       lo,
		Max:       hi,
		Channel:   channel,
		Materials: materials,
	}

	obj := resolv.NewObject(lo[0]-s.offsetX, lo[1]-s.offsetY, math.Max(hi[0]-lo[0], 1), math.Max(hi[1]-lo[1], 1), channel)
	obj.SetShape(resolv.NewRectangle(0, 0, obj.W, obj.H))
	obj.Data = box
	s.space.Add(obj)

	s.boxes[box.ID] = box
	s.order = append(s.order, box.ID)
	return box.ID
}

// Box returns the box registered under id.
func (s *Scene) Box(id ActorID) (*Box, bool) {
	b, ok := s.boxes[id]
	return b, ok
}

// Boxes returns every box in insertion order.
func (s *Scene) Boxes() []*Box {
	out := make([]*Box, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.boxes[id])
	}
	return out
}

// candidates probes the broadphase with a temporary object covering the
// X/Y rectangle, the same way nav grids probe the space per cell.
func (s *Scene) candidates(minX, minY, maxX, maxY float64, filter Filter) []*Box {
	const margin = 1
	probe := resolv.NewObject(
		minX-s.offsetX-margin,
		minY-s.offsetY-margin,
		maxX-minX+2*margin,
		maxY-minY+2*margin,
	)
	s.space.Add(probe)
	check := probe.Check(0, 0, filter...)
	s.space.Remove(probe)

	if check == nil {
		return nil
	}

	out := make([]*Box, 0, len(check.Objects))
	for _, obj := range check.Objects {
		if box, ok := obj.Data.(*Box); ok {
			out = append(out, box)
		}
	}
	return out
}

// Overlap returns every box under filter that the sphere intersects.
func (s *Scene) Overlap(center mgl64.Vec3, radius float64, filter Filter) []ActorID {
	var out []ActorID
	for _, box := range s.candidates(center[0]-radius, center[1]-radius, center[0]+radius, center[1]+radius, filter) {
		if box.OverlapsSphere(center, radius) {
			out = append(out, box.ID)
		}
	}
	return out
}

// Raycast returns one entry hit per box crossed by start->end, nearest first.
func (s *Scene) Raycast(start, end mgl64.Vec3, filter Filter, ignore []ActorID) []Hit {
	length := end.Sub(start).Len()
	boxes := s.candidates(
		math.Min(start[0], end[0]), math.Min(start[1], end[1]),
		math.Max(start[0], end[0]), math.Max(start[1], end[1]),
		filter,
	)

	var hits []Hit
	for _, box := range boxes {
		if ignored(box.ID, ignore) {
			continue
		}
		t, ok := box.SegmentEntry(start, end)
		if !ok {
			continue
		}
		hits = append(hits, Hit{
			Point:     start.Add(end.Sub(start).Mul(t)),
			Distance:  t * length,
			Actor:     box.ID,
			Materials: box.Materials,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Distance == hits[j].Distance {
			return hits[i].Actor < hits[j].Actor
		}
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// RaycastFirst returns the nearest hit only.
func (s *Scene) RaycastFirst(start, end mgl64.Vec3, filter Filter, ignore []ActorID) (Hit, bool) {
	hits := s.Raycast(start, end, filter, ignore)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// ClosestPoint returns the point on the box closest to p.
func (s *Scene) ClosestPoint(actor ActorID, p mgl64.Vec3) (mgl64.Vec3, bool) {
	box, ok := s.boxes[actor]
	if !ok {
		return mgl64.Vec3{}, false
	}
	return box.ClosestPoint(p), true
}
