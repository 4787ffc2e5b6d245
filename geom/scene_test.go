package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestScene() *Scene {
	return NewScene(-2000, -2000, 4000, 4000, 64)
}

func TestOverlapSphere(t *testing.T) {
	s := newTestScene()
	wall := s.AddBox(mgl64.Vec3{400, 0, -100}, mgl64.Vec3{600, 700, 100}, "world_static")

	tests := []struct {
		name   string
		center mgl64.Vec3
		radius float64
		want   int
	}{
		{"inside", mgl64.Vec3{500, 300, 0}, 10, 1},
		{"grazing", mgl64.Vec3{380, 300, 0}, 30, 1},
		{"touching surface", mgl64.Vec3{350, 300, 0}, 50, 0},
		{"clear", mgl64.Vec3{150, 150, 0}, 50, 0},
		{"above", mgl64.Vec3{500, 300, 300}, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Overlap(tt.center, tt.radius, nil)
			if len(got) != tt.want {
				t.Fatalf("Overlap = %v, want %d hits", got, tt.want)
			}
			if tt.want == 1 && got[0] != wall {
				t.Errorf("hit actor %d, want %d", got[0], wall)
			}
		})
	}
}

func TestOverlapFilter(t *testing.T) {
	s := newTestScene()
	s.AddBox(mgl64.Vec3{-50, -50, -50}, mgl64.Vec3{50, 50, 50}, "trigger")

	if got := s.Overlap(mgl64.Vec3{}, 10, Filter{"world_static"}); len(got) != 0 {
		t.Errorf("filtered overlap = %v, want none", got)
	}
	if got := s.Overlap(mgl64.Vec3{}, 10, Filter{"trigger"}); len(got) != 1 {
		t.Errorf("matching overlap = %v, want one", got)
	}
}

func TestRaycastOrdersHits(t *testing.T) {
	s := newTestScene()
	far := s.AddBox(mgl64.Vec3{700, -50, -50}, mgl64.Vec3{750, 50, 50}, "world_static", "wood")
	near := s.AddBox(mgl64.Vec3{200, -50, -50}, mgl64.Vec3{300, 50, 50}, "world_static", "concrete")

	hits := s.Raycast(mgl64.Vec3{}, mgl64.Vec3{1000, 0, 0}, nil, nil)
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].Actor != near || hits[1].Actor != far {
		t.Fatalf("hit order = %d,%d, want %d,%d", hits[0].Actor, hits[1].Actor, near, far)
	}
	if math.Abs(hits[0].Distance-200) > 1e-9 {
		t.Errorf("first distance = %v, want 200", hits[0].Distance)
	}
	if !hits[0].Point.ApproxEqual(mgl64.Vec3{200, 0, 0}) {
		t.Errorf("first point = %v", hits[0].Point)
	}
	if len(hits[0].Materials) != 1 || hits[0].Materials[0] != "concrete" {
		t.Errorf("materials = %v", hits[0].Materials)
	}

	back := s.Raycast(mgl64.Vec3{1000, 0, 0}, mgl64.Vec3{}, nil, nil)
	if len(back) != 2 || back[0].Actor != far {
		t.Fatalf("reverse hits = %+v", back)
	}
	if !back[0].Point.ApproxEqual(mgl64.Vec3{750, 0, 0}) {
		t.Errorf("reverse entry = %v, want exit face of far box", back[0].Point)
	}
}

func TestRaycastIgnoreAndFirst(t *testing.T) {
	s := newTestScene()
	a := s.AddBox(mgl64.Vec3{200, -50, -50}, mgl64.Vec3{300, 50, 50}, "world_static")
	b := s.AddBox(mgl64.Vec3{500, -50, -50}, mgl64.Vec3{600, 50, 50}, "world_static")

	hit, ok := s.RaycastFirst(mgl64.Vec3{}, mgl64.Vec3{1000, 0, 0}, nil, Ignore(a))
	if !ok || hit.Actor != b {
		t.Fatalf("RaycastFirst = %+v, %v; want actor %d", hit, ok, b)
	}
	if HasLineOfSight(s, mgl64.Vec3{}, mgl64.Vec3{1000, 0, 0}, nil, Ignore(a, b)) != true {
		t.Error("expected line of sight with both boxes ignored")
	}
	if HasLineOfSight(s, mgl64.Vec3{0, 200, 0}, mgl64.Vec3{1000, 200, 0}, nil, nil) != true {
		t.Error("expected line of sight beside the boxes")
	}
	if HasLineOfSight(s, mgl64.Vec3{}, mgl64.Vec3{1000, 0, 0}, nil, nil) {
		t.Error("expected the boxes to block")
	}
}

func TestRaycastVertical(t *testing.T) {
	s := newTestScene()
	floor := s.AddBox(mgl64.Vec3{-500, -500, -20}, mgl64.Vec3{500, 500, 0}, "world_static")

	hit, ok := s.RaycastFirst(mgl64.Vec3{10, 10, 100}, mgl64.Vec3{10, 10, -100}, nil, nil)
	if !ok || hit.Actor != floor {
		t.Fatalf("vertical ray missed the floor: %+v", hit)
	}
	if math.Abs(hit.Point[2]) > 1e-9 {
		t.Errorf("hit z = %v, want 0", hit.Point[2])
	}
}

func TestClosestPoint(t *testing.T) {
	s := newTestScene()
	id := s.AddBox(mgl64.Vec3{450, -500, -500}, mgl64.Vec3{550, 500, 500}, "world_static")

	p, ok := s.ClosestPoint(id, mgl64.Vec3{})
	if !ok {
		t.Fatal("unknown actor")
	}
	if !p.ApproxEqual(mgl64.Vec3{450, 0, 0}) {
		t.Errorf("closest = %v, want (450,0,0)", p)
	}
	if _, ok := s.ClosestPoint(id+1, mgl64.Vec3{}); ok {
		t.Error("expected unknown actor to report false")
	}
}

func TestIgnoreDropsZero(t *testing.T) {
	got := Ignore(0, 3, 0, 5)
	if len(got) != 2 || got[0] != 3 || got[1] != 5 {
		t.Errorf("Ignore = %v", got)
	}
}
