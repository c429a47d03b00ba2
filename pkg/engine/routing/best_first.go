package routing

import (
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/geo"
)

// BestFirstSearch is greedy: the queue is ordered by the manhattan distance to the target only.
type BestFirstSearch struct {
	*searchState
	pq *da.MinHeap[*da.Cell]
}

func NewBestFirstSearch(engine *GridRoutingEngine) *BestFirstSearch {
	bs := &BestFirstSearch{
		searchState: newSearchState(engine),
		pq:          da.NewFourAryHeap[*da.Cell](),
	}
	bs.pq.Preallocate(bs.grid.NumberOfCells())
	return bs
}

func (bs *BestFirstSearch) initSearch() {
	bs.pq.Insert(da.NewPriorityQueueNode(0, bs.start.GetID(), bs.start))
	bs.pushed(bs.start)
}

func (bs *BestFirstSearch) isEmpty() bool {
	return bs.pq.IsEmpty()
}

func (bs *BestFirstSearch) graphSearchUni() (*da.Cell, expandStatus) {
	node, _ := bs.pq.ExtractMin()
	u := node.GetItem()
	bs.popped(u)

	if u == bs.target {
		return u, EXPAND_TARGET_REACHED
	}
	if bs.isClosed(u) {
		return u, EXPAND_SKIPPED
	}
	bs.settle(u)

	bs.grid.ForNeighborsOf(u, func(v *da.Cell) {
		if !bs.expandable(v) {
			return
		}
		h := geo.ManhattanDistanceCells(v, bs.target)
		v.SetParent(u)
		bs.pq.Insert(da.NewPriorityQueueNode(h, v.GetID(), v))
		bs.pushed(v)
	})
	return u, EXPAND_SETTLED
}

func (bs *BestFirstSearch) buildPath() []*da.Cell {
	return reconstructPath(bs.start, bs.target, bs.grid.NumberOfCells())
}
