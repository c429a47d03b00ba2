package routing

import (
	"github.com/lintang-b-s/gridnav/pkg"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
)

// Dijkstra keeps the tentative distance on the cell itself and only relinks a
// parent when the distance improves. Stale heap entries are skipped at pop.
type Dijkstra struct {
	*searchState
	pq *da.MinHeap[*da.Cell]
}

func NewDijkstra(engine *GridRoutingEngine) *Dijkstra {
	d := &Dijkstra{
		searchState: newSearchState(engine),
		pq:          da.NewFourAryHeap[*da.Cell](),
	}
	d.pq.Preallocate(d.grid.NumberOfCells())
	return d
}

func (us *Dijkstra) initSearch() {
	us.start.SetDistance(0)
	us.pq.Insert(da.NewPriorityQueueNode(0, us.start.GetID(), us.start))
	us.pushed(us.start)
}

func (us *Dijkstra) isEmpty() bool {
	return us.pq.IsEmpty()
}

func (us *Dijkstra) graphSearchUni() (*da.Cell, expandStatus) {
	node, _ := us.pq.ExtractMin()
	u := node.GetItem()
	us.popped(u)

	if u == us.target {
		return u, EXPAND_TARGET_REACHED
	}
	if us.isClosed(u) {
		return u, EXPAND_SKIPPED
	}
	us.settle(u)

	us.grid.ForNeighborsOf(u, func(v *da.Cell) {
		if !us.expandable(v) {
			return
		}
		newDist := u.GetDistance() + pkg.UNIT_STEP_COST
		if newDist >= v.GetDistance() {
			return
		}
		v.SetDistance(newDist)
		v.SetParent(u)
		us.pq.Insert(da.NewPriorityQueueNode(newDist, v.GetID(), v))
		us.pushed(v)
	})
	return u, EXPAND_SETTLED
}

func (us *Dijkstra) buildPath() []*da.Cell {
	return reconstructPath(us.start, us.target, us.grid.NumberOfCells())
}
