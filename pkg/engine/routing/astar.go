package routing

import (
	"github.com/lintang-b-s/gridnav/pkg"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/geo"
)

// AStar orders the queue by f = g + h with h the manhattan distance, which is
// admissible and consistent on a 4-connected unit grid. Predecessors live in
// cameFrom rather than on the cells.
type AStar struct {
	*searchState
	pq       *da.MinHeap[*da.Cell]
	gScore   map[da.Index]float64
	cameFrom map[da.Index]*da.Cell
}

func NewAStar(engine *GridRoutingEngine) *AStar {
	as := &AStar{
		searchState: newSearchState(engine),
		pq:          da.NewFourAryHeap[*da.Cell](),
		gScore:      make(map[da.Index]float64),
		cameFrom:    make(map[da.Index]*da.Cell),
	}
	as.pq.Preallocate(as.grid.NumberOfCells())
	return as
}

func (as *AStar) g(c *da.Cell) float64 {
	if g, ok := as.gScore[c.GetID()]; ok {
		return g
	}
	return pkg.INF_WEIGHT
}

func (as *AStar) heuristic(c *da.Cell) float64 {
	return geo.ManhattanDistanceCells(c, as.target)
}

func (as *AStar) initSearch() {
	as.gScore[as.start.GetID()] = 0
	as.pq.Insert(da.NewPriorityQueueNode(as.heuristic(as.start), as.start.GetID(), as.start))
	as.pushed(as.start)
}

func (as *AStar) isEmpty() bool {
	return as.pq.IsEmpty()
}

func (as *AStar) graphSearchUni() (*da.Cell, expandStatus) {
	node, _ := as.pq.ExtractMin()
	u := node.GetItem()
	as.popped(u)

	if u == as.target {
		return u, EXPAND_TARGET_REACHED
	}
	if as.isClosed(u) {
		return u, EXPAND_SKIPPED
	}
	as.settle(u)

	gu := as.g(u)
	as.grid.ForNeighborsOf(u, func(v *da.Cell) {
		if !as.expandable(v) {
			return
		}
		tentative := gu + pkg.UNIT_STEP_COST
		if tentative >= as.g(v) {
			return
		}
		as.cameFrom[v.GetID()] = u
		as.gScore[v.GetID()] = tentative
		as.pq.Insert(da.NewPriorityQueueNode(tentative+as.heuristic(v), v.GetID(), v))
		as.pushed(v)
	})
	return u, EXPAND_SETTLED
}

func (as *AStar) buildPath() []*da.Cell {
	return reconstructPathCameFrom(as.cameFrom, as.start, as.target, as.grid.NumberOfCells())
}
