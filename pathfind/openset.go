package pathfind

import (
	"container/heap"

	"github.com/automoto/earshot/voxel"
)

// openSet is a binary min-heap of arena indices ordered by F, then H.
// pos tracks each node's heap slot so improved costs can be re-sifted.
type openSet struct {
	grid  *voxel.VoxelGrid
	items []int
	pos   []int // arena index -> heap slot, -1 when absent
}

func newOpenSet(grid *voxel.VoxelGrid) *openSet {
	pos := make([]int, grid.Len())
	for i := range pos {
		pos[i] = -1
	}
	return &openSet{grid: grid, pos: pos}
}

func (o *openSet) Len() int { return len(o.items) }

func (o *openSet) Less(i, j int) bool {
	a := o.grid.NodeByIndex(o.items[i])
	b := o.grid.NodeByIndex(o.items[j])
	if a.F() == b.F() {
		return a.H < b.H
	}
	return a.F() < b.F()
}

func (o *openSet) Swap(i, j int) {
	o.items[i], o.items[j] = o.items[j], o.items[i]
	o.pos[o.items[i]] = i
	o.pos[o.items[j]] = j
}

func (o *openSet) Push(x any) {
	idx := x.(int)
	o.pos[idx] = len(o.items)
	o.items = append(o.items, idx)
}

func (o *openSet) Pop() any {
	old := o.items
	n := len(old)
	idx := old[n-1]
	o.items = old[:n-1]
	o.pos[idx] = -1
	return idx
}

func (o *openSet) contains(idx int) bool { return o.pos[idx] >= 0 }

func (o *openSet) push(idx int) { heap.Push(o, idx) }

func (o *openSet) pop() int { return heap.Pop(o).(int) }

func (o *openSet) fix(idx int) { heap.Fix(o, o.pos[idx]) }

// reset empties the heap, clearing only the slots that were used.
func (o *openSet) reset() {
	for _, idx := range o.items {
		o.pos[idx] = -1
	}
	o.items = o.items[:0]
}
