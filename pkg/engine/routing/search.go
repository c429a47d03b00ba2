package routing

import (
	"slices"

	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/zyedidia/generic/mapset"
)

type expandStatus uint8

const (
	EXPAND_SKIPPED expandStatus = iota // stale entry of an already closed cell
	EXPAND_SETTLED
	EXPAND_TARGET_REACHED
)

// gridSearch is one run of a search algorithm over the grid. graphSearchUni pops one frontier entry.
type gridSearch interface {
	initSearch()
	isEmpty() bool
	graphSearchUni() (*da.Cell, expandStatus)
	buildPath() []*da.Cell
	state() *searchState
}

// searchState is the bookkeeping shared by every algorithm: the closed set, the
// multiset of open entries and the settle order.
type searchState struct {
	grid   *da.Grid
	start  *da.Cell
	target *da.Cell

	closed mapset.Set[da.Index]
	open   map[da.Index]int

	visited         []*da.Cell
	numSettledNodes int
}

func newSearchState(engine *GridRoutingEngine) *searchState {
	return &searchState{
		grid:    engine.grid,
		start:   engine.start,
		target:  engine.target,
		closed:  mapset.New[da.Index](),
		open:    make(map[da.Index]int),
		visited: make([]*da.Cell, 0),
	}
}

func (s *searchState) state() *searchState {
	return s
}

func (s *searchState) pushed(c *da.Cell) {
	s.open[c.GetID()]++
}

func (s *searchState) popped(c *da.Cell) {
	id := c.GetID()
	if s.open[id] <= 1 {
		delete(s.open, id)
		return
	}
	s.open[id]--
}

func (s *searchState) isClosed(c *da.Cell) bool {
	return s.closed.Has(c.GetID())
}

func (s *searchState) settle(c *da.Cell) {
	s.closed.Put(c.GetID())
	s.visited = append(s.visited, c)
	s.numSettledNodes++
}

// expandable reports whether v may be pushed as a neighbor.
func (s *searchState) expandable(v *da.Cell) bool {
	return !v.IsWall() && !s.isClosed(v)
}

// frontier returns the discovered but not yet expanded cells sorted by id.
// Stale entries of closed cells are left out.
func (s *searchState) frontier() []da.Position {
	ids := make([]da.Index, 0, len(s.open))
	for id := range s.open {
		if s.closed.Has(id) {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)

	positions := make([]da.Position, 0, len(ids))
	for _, id := range ids {
		positions = append(positions, s.grid.GetCellByID(id).GetPosition())
	}
	return positions
}

// runSearch drives search until the target is popped, the frontier is empty or
// yield asks to stop. Skipped pops emit no step.
func runSearch(search gridSearch, snapshots bool, yield func(Step) bool) Result {
	st := search.state()
	search.initSearch()

	seq := 0
	for !search.isEmpty() {
		u, status := search.graphSearchUni()
		if status == EXPAND_SKIPPED {
			continue
		}

		seq++
		pos := u.GetPosition()
		step := Step{Seq: seq, Status: STEP_EXPANDED, Expanded: &pos}
		if snapshots {
			step.Frontier = st.frontier()
		}

		if status == EXPAND_TARGET_REACHED {
			path := search.buildPath()
			step.Status = STEP_FOUND
			step.Path = da.CellsToPositions(path)
			yield(step)
			return Result{
				Path:            path,
				Visited:         st.visited,
				NumSettledNodes: st.numSettledNodes,
				Found:           true,
			}
		}

		if !yield(step) {
			return Result{
				Visited:         st.visited,
				NumSettledNodes: st.numSettledNodes,
				Aborted:         true,
			}
		}
	}

	yield(Step{Seq: seq + 1, Status: STEP_EXHAUSTED, Frontier: []da.Position{}})
	return Result{
		Visited:         st.visited,
		NumSettledNodes: st.numSettledNodes,
	}
}
