package voxel

import "github.com/go-gl/mathgl/mgl64"

// NoParent marks a node without a parent link.
const NoParent = -1

// GridNode is one voxel cell. Nodes live in the grid's arena for the grid's
// whole lifetime; the scratch fields belong to whoever is searching.
type GridNode struct {
	X, Y, Z  int
	Position mgl64.Vec3 // cell center
	walkable bool

	// Search scratch. Only meaningful while Stamp matches the current search.
	G      int
	H      int
	Parent int // arena index or NoParent
	Stamp  uint32
}

// Walkable reports whether the cell is free of blocking geometry.
func (n *GridNode) Walkable() bool { return n.walkable }

// F is G+H.
func (n *GridNode) F() int { return n.G + n.H }
