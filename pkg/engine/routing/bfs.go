package routing

import (
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/zyedidia/generic/queue"
)

// BreadthFirstSearch expands cells in FIFO order. Every push overwrites the parent of the pushed cell.
type BreadthFirstSearch struct {
	*searchState
	queue *queue.Queue[*da.Cell]
}

func NewBreadthFirstSearch(engine *GridRoutingEngine) *BreadthFirstSearch {
	return &BreadthFirstSearch{
		searchState: newSearchState(engine),
		queue:       queue.New[*da.Cell](),
	}
}

func (bs *BreadthFirstSearch) initSearch() {
	bs.queue.Enqueue(bs.start)
	bs.pushed(bs.start)
}

func (bs *BreadthFirstSearch) isEmpty() bool {
	return bs.queue.Empty()
}

func (bs *BreadthFirstSearch) graphSearchUni() (*da.Cell, expandStatus) {
	u := bs.queue.Dequeue()
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
		v.SetParent(u)
		bs.queue.Enqueue(v)
		bs.pushed(v)
	})
	return u, EXPAND_SETTLED
}

func (bs *BreadthFirstSearch) buildPath() []*da.Cell {
	return reconstructPath(bs.start, bs.target, bs.grid.NumberOfCells())
}
