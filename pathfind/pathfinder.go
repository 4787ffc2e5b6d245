// Package pathfind runs A* over a voxel grid's 26-connected neighbor graph.
package pathfind

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/automoto/earshot/voxel"
)

// Path is ordered from the target node back toward the start node. The
// start node itself is not included and the order is never reversed:
// path[0] is the target, path[len-1] is adjacent to the start.
type Path []*voxel.GridNode

// Target returns the target end of the path.
func (p Path) Target() *voxel.GridNode {
	if len(p) == 0 {
		return nil
	}
	return p[0]
}

// LineOfSight answers whether a point can see another.
type LineOfSight interface {
	HasLineOfSight(from, to mgl64.Vec3) bool
}

// LineOfSightFunc adapts a function to LineOfSight.
type LineOfSightFunc func(from, to mgl64.Vec3) bool

func (f LineOfSightFunc) HasLineOfSight(from, to mgl64.Vec3) bool { return f(from, to) }

// Observer receives search statistics.
type Observer interface {
	PathSearched(found bool, expanded int, took time.Duration)
	PathCacheHit()
}

type cachedTarget struct {
	target int
	path   Path
	found  bool
}

// Pathfinder is not reentrant: it writes scratch costs into the grid's nodes.
type Pathfinder struct {
	grid     *voxel.VoxelGrid
	los      LineOfSight
	observer Observer

	search uint32
	closed []uint32 // arena index -> search stamp when closed
	open   *openSet

	// Last resolved target per start node.
	cache map[int]cachedTarget
	buf   []*voxel.GridNode
}

// New creates a pathfinder over grid. los resolves listener targets that land
// inside blocking cells; nil treats every neighbor as visible.
func New(grid *voxel.VoxelGrid, los LineOfSight) *Pathfinder {
	return &Pathfinder{
		grid:   grid,
		los:    los,
		closed: make([]uint32, grid.Len()),
		open:   newOpenSet(grid),
		cache:  make(map[int]cachedTarget),
		buf:    make([]*voxel.GridNode, 0, 26),
	}
}

// SetObserver installs a statistics sink.
func (p *Pathfinder) SetObserver(o Observer) { p.observer = o }

// Grid returns the grid searched.
func (p *Pathfinder) Grid() *voxel.VoxelGrid { return p.grid }

// FindPath searches from the node containing from to the resolved target node
// for to. changed is false when the resolved target equals the last one seen
// for the same start node; no search runs and the cached result is returned.
func (p *Pathfinder) FindPath(from, to mgl64.Vec3) (path Path, found bool, changed bool) {
	start := p.grid.NodeAt(from)
	target := p.ResolveTarget(to)

	startIdx := p.grid.Index(start)
	targetIdx := p.grid.Index(target)

	if last, ok := p.cache[startIdx]; ok && last.target == targetIdx {
		if p.observer != nil {
			p.observer.PathCacheHit()
		}
		return last.path, last.found, false
	}

	path, found = p.Search(start, target)
	p.cache[startIdx] = cachedTarget{target: targetIdx, path: path, found: found}
	return path, found, true
}

// Invalidate forgets every cached target resolution.
func (p *Pathfinder) Invalidate() {
	clear(p.cache)
}

// ResolveTarget returns the node for to. If that node is blocked, the first
// walkable neighbor that can see to is used instead; failing that the blocked
// node is kept.
func (p *Pathfinder) ResolveTarget(to mgl64.Vec3) *voxel.GridNode {
	node := p.grid.NodeAt(to)
	if node.Walkable() {
		return node
	}

	p.buf = p.grid.AppendNeighbors(p.buf[:0], node)
	for _, n := range p.buf {
		if !n.Walkable() {
			continue
		}
		if p.los == nil || p.los.HasLineOfSight(n.Position, to) {
			return n
		}
	}
	return node
}

// Search runs A* between two nodes of the grid.
func (p *Pathfinder) Search(start, target *voxel.GridNode) (Path, bool) {
	began := time.Now()
	p.search++
	if p.search == 0 {
		// Stamp wrapped: old stamps could collide with new ones.
		clear(p.closed)
		for i := 0; i < p.grid.Len(); i++ {
			p.grid.NodeByIndex(i).Stamp = 0
		}
		p.search = 1
	}
	p.open.reset()

	startIdx := p.grid.Index(start)
	targetIdx := p.grid.Index(target)

	p.touch(start)
	start.G = 0
	start.H = 0
	start.Parent = voxel.NoParent
	p.open.push(startIdx)

	expanded := 0
	for p.open.Len() > 0 {
		currentIdx := p.open.pop()
		current := p.grid.NodeByIndex(currentIdx)
		p.closed[currentIdx] = p.search
		expanded++

		if currentIdx == targetIdx {
			path := p.retrace(startIdx, targetIdx)
			p.report(true, expanded, began)
			return path, true
		}

		p.buf = p.grid.AppendNeighbors(p.buf[:0], current)
		for _, nb := range p.buf {
			nbIdx := p.grid.Index(nb)
			if !nb.Walkable() || p.closed[nbIdx] == p.search {
				continue
			}

			inOpen := p.open.contains(nbIdx)
			g := current.G + cost(current, nb)
			if inOpen && g >= nb.G {
				continue
			}

			p.touch(nb)
			nb.G = g
			nb.H = cost(nb, target)
			nb.Parent = currentIdx

			if inOpen {
				p.open.fix(nbIdx)
			} else {
				p.open.push(nbIdx)
			}
		}
	}

	p.report(false, expanded, began)
	return nil, false
}

// touch claims a node's scratch fields for the running search.
func (p *Pathfinder) touch(n *voxel.GridNode) {
	if n.Stamp != p.search {
		n.Stamp = p.search
		n.Parent = voxel.NoParent
	}
}

func (p *Pathfinder) retrace(startIdx, targetIdx int) Path {
	var path Path
	for idx := targetIdx; idx != startIdx && idx != voxel.NoParent; {
		n := p.grid.NodeByIndex(idx)
		path = append(path, n)
		idx = n.Parent
	}
	return path
}

func (p *Pathfinder) report(found bool, expanded int, began time.Time) {
	if p.observer != nil {
		p.observer.PathSearched(found, expanded, time.Since(began))
	}
}

// cost is the squared Euclidean distance between node centers. Squaring
// biases the search toward fewer, straighter steps.
func cost(a, b *voxel.GridNode) int {
	d := b.Position.Sub(a.Position)
	return int(math.Round(d.Dot(d)))
}
