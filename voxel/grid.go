// Package voxel builds a walkability grid over a level by probing blocking
// geometry at every cell center.
package voxel

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/automoto/earshot/geom"
)

// ErrInvalidDimensions is returned when the grid would have no cells.
var ErrInvalidDimensions = errors.New("voxel: grid dimensions must be positive")

// VoxelGrid owns a flat arena of nodes addressed by integer coordinates.
type VoxelGrid struct {
	origin   mgl64.Vec3 // bottom-left corner
	size     mgl64.Vec3
	radius   float64
	diameter float64
	nx       int
	ny       int
	nz       int
	nodes    []GridNode
}

// Build voxelizes the box starting at origin with the given size. A cell is
// walkable iff nothing under filter overlaps a sphere of cellRadius at its
// center.
func Build(q geom.Overlapper, origin, size mgl64.Vec3, cellRadius float64, filter geom.Filter) (*VoxelGrid, error) {
	if cellRadius <= 0 || size[0] <= 0 || size[1] <= 0 || size[2] <= 0 {
		return nil, fmt.Errorf("size %v, cell radius %v: %w", size, cellRadius, ErrInvalidDimensions)
	}

	diameter := cellRadius * 2
	g := &VoxelGrid{
		origin:   origin,
		size:     size,
		radius:   cellRadius,
		diameter: diameter,
		nx:       roundToInt(size[0] / diameter),
		ny:       roundToInt(size[1] / diameter),
		nz:       roundToInt(size[2] / diameter),
	}
	if g.nx <= 0 || g.ny <= 0 || g.nz <= 0 {
		return nil, fmt.Errorf("size %v rounds to %dx%dx%d cells: %w", size, g.nx, g.ny, g.nz, ErrInvalidDimensions)
	}

	g.nodes = make([]GridNode, g.nx*g.ny*g.nz)
	for x := 0; x < g.nx; x++ {
		for y := 0; y < g.ny; y++ {
			for z := 0; z < g.nz; z++ {
				pos := origin.Add(mgl64.Vec3{
					float64(x)*diameter + cellRadius,
					float64(y)*diameter + cellRadius,
					float64(z)*diameter + cellRadius,
				})
				g.nodes[g.index(x, y, z)] = GridNode{
					X:        x,
					Y:        y,
					Z:        z,
					Position: pos,
					walkable: len(q.Overlap(pos, cellRadius, filter)) == 0,
					Parent:   NoParent,
				}
			}
		}
	}
	return g, nil
}

// BuildCentered builds a grid whose X/Y extent is centered on pivot and whose
// Z extent starts at the pivot, matching a level actor placed on the floor.
func BuildCentered(q geom.Overlapper, pivot, size mgl64.Vec3, cellRadius float64, filter geom.Filter) (*VoxelGrid, error) {
	origin := mgl64.Vec3{pivot[0] - size[0]/2, pivot[1] - size[1]/2, pivot[2]}
	return Build(q, origin, size, cellRadius, filter)
}

// index maps grid coordinates into the arena.
func (g *VoxelGrid) index(x, y, z int) int {
	return x*g.ny*g.nz + z*g.ny + y
}

// InBounds reports whether the coordinates address a node.
func (g *VoxelGrid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.nx && y >= 0 && y < g.ny && z >= 0 && z < g.nz
}

// Node returns the node at grid coordinates, or nil when out of bounds.
func (g *VoxelGrid) Node(x, y, z int) *GridNode {
	if !g.InBounds(x, y, z) {
		return nil
	}
	return &g.nodes[g.index(x, y, z)]
}

// NodeByIndex returns the node at an arena index.
func (g *VoxelGrid) NodeByIndex(i int) *GridNode {
	return &g.nodes[i]
}

// Index returns the arena index of a node owned by this grid.
func (g *VoxelGrid) Index(n *GridNode) int {
	return g.index(n.X, n.Y, n.Z)
}

// NodeAt maps a world position to the nearest node, clamping into the grid.
// It always returns a node.
func (g *VoxelGrid) NodeAt(world mgl64.Vec3) *GridNode {
	rel := world.Sub(g.origin)
	x := axisIndex((rel[0]-g.radius)/g.diameter, g.nx)
	y := axisIndex((rel[1]-g.radius)/g.diameter, g.ny)
	z := axisIndex((rel[2]-g.radius)/g.diameter, g.nz)
	return &g.nodes[g.index(x, y, z)]
}

// Neighbors returns the up to 26 in-bounds nodes around n.
func (g *VoxelGrid) Neighbors(n *GridNode) []*GridNode {
	return g.AppendNeighbors(make([]*GridNode, 0, 26), n)
}

// AppendNeighbors appends n's neighbors to dst, x outermost and z innermost.
func (g *VoxelGrid) AppendNeighbors(dst []*GridNode, n *GridNode) []*GridNode {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				x, y, z := n.X+dx, n.Y+dy, n.Z+dz
				if !g.InBounds(x, y, z) {
					continue
				}
				dst = append(dst, &g.nodes[g.index(x, y, z)])
			}
		}
	}
	return dst
}

// Counts returns the number of cells per axis.
func (g *VoxelGrid) Counts() (int, int, int) { return g.nx, g.ny, g.nz }

// Len returns the total number of nodes.
func (g *VoxelGrid) Len() int { return len(g.nodes) }

func (g *VoxelGrid) Origin() mgl64.Vec3 { return g.origin }
func (g *VoxelGrid) Size() mgl64.Vec3   { return g.size }
func (g *VoxelGrid) Radius() float64    { return g.radius }
func (g *VoxelGrid) Diameter() float64  { return g.diameter }

// WalkableCount returns how many cells are free.
func (g *VoxelGrid) WalkableCount() int {
	count := 0
	for i := range g.nodes {
		if g.nodes[i].walkable {
			count++
		}
	}
	return count
}

// roundToInt rounds half up, so -0.5 becomes 0.
func roundToInt(v float64) int {
	return int(math.Floor(v + 0.5))
}

// axisIndex rounds and clamps in float space so positions far outside the
// grid never overflow the int conversion.
func axisIndex(v float64, n int) int {
	r := math.Floor(v + 0.5)
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r > float64(n-1) {
		return n - 1
	}
	return int(r)
}
