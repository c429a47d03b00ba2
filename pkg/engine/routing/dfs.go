package routing

import (
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/zyedidia/generic/stack"
)

// DepthFirstSearch expands the most recently pushed cell first. The last neighbor pushed
// (right, then left, down, up) is explored first.
type DepthFirstSearch struct {
	*searchState
	stack *stack.Stack[*da.Cell]
}

func NewDepthFirstSearch(engine *GridRoutingEngine) *DepthFirstSearch {
	return &DepthFirstSearch{
		searchState: newSearchState(engine),
		stack:       stack.New[*da.Cell](),
	}
}

func (ds *DepthFirstSearch) initSearch() {
	ds.stack.Push(ds.start)
	ds.pushed(ds.start)
}

func (ds *DepthFirstSearch) isEmpty() bool {
	return ds.stack.Size() == 0
}

func (ds *DepthFirstSearch) graphSearchUni() (*da.Cell, expandStatus) {
	u := ds.stack.Pop()
	ds.popped(u)

	if u == ds.target {
		return u, EXPAND_TARGET_REACHED
	}
	if ds.isClosed(u) {
		return u, EXPAND_SKIPPED
	}
	ds.settle(u)

	ds.grid.ForNeighborsOf(u, func(v *da.Cell) {
		if !ds.expandable(v) {
			return
		}
		v.SetParent(u)
		ds.stack.Push(v)
		ds.pushed(v)
	})
	return u, EXPAND_SETTLED
}

func (ds *DepthFirstSearch) buildPath() []*da.Cell {
	return reconstructPath(ds.start, ds.target, ds.grid.NumberOfCells())
}
