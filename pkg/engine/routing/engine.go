package routing

import (
	"errors"
	"fmt"
	"iter"

	"github.com/lintang-b-s/gridnav/pkg"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"go.uber.org/zap"
)

var (
	ErrNoStart           = errors.New("start cell is not set")
	ErrNoTarget          = errors.New("target cell is not set")
	ErrTargetUnreachable = errors.New("target is unreachable from start")
	ErrUnknownAlgorithm  = errors.New("unknown search algorithm")
	ErrWallOnMarker      = errors.New("cannot place a wall on the start or target cell")
	ErrInvalidPath       = errors.New("path does not connect start to target")
)

type MouseButton uint8

const (
	LEFT_BUTTON MouseButton = iota + 1
	RIGHT_BUTTON
)

// GridRoutingEngine is one simulation: a grid, its start/target markers and the
// last found path. It is not safe for concurrent use.
type GridRoutingEngine struct {
	grid   *da.Grid
	start  *da.Cell
	target *da.Cell
	path   []*da.Cell
	logger *zap.Logger
}

// NewGridRoutingEngine places start on (0,0) and leaves target unset.
func NewGridRoutingEngine(grid *da.Grid, logger *zap.Logger) *GridRoutingEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &GridRoutingEngine{
		grid:   grid,
		logger: logger,
	}
	e.defaultStart()
	return e
}

// defaultStart puts start on (0,0) and clears any wall there.
func (e *GridRoutingEngine) defaultStart() {
	e.start, _ = e.grid.GetCell(0, 0)
	if e.start != nil {
		e.start.SetWall(false)
	}
}

// NewGridRoutingEngineFromLayout uses the layout's markers, falling back to (0,0) for start.
func NewGridRoutingEngineFromLayout(layout *da.GridLayout, logger *zap.Logger) (*GridRoutingEngine, error) {
	e := NewGridRoutingEngine(layout.Grid, logger)
	if layout.Start != nil {
		if err := e.SetStart(layout.Start.Row, layout.Start.Col); err != nil {
			return nil, err
		}
	}
	if layout.Target != nil {
		if err := e.SetTarget(layout.Target.Row, layout.Target.Col); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (e *GridRoutingEngine) GetGrid() *da.Grid {
	return e.grid
}

func (e *GridRoutingEngine) GetStart() *da.Cell {
	return e.start
}

func (e *GridRoutingEngine) GetTarget() *da.Cell {
	return e.target
}

func (e *GridRoutingEngine) GetPath() []*da.Cell {
	path := make([]*da.Cell, len(e.path))
	copy(path, e.path)
	return path
}

func (e *GridRoutingEngine) isMarker(c *da.Cell) bool {
	return c == e.start || c == e.target
}

// SetStart moves start. A wall on the chosen cell is removed.
func (e *GridRoutingEngine) SetStart(row, col int) error {
	c, err := e.grid.GetCell(row, col)
	if err != nil {
		return err
	}
	c.SetWall(false)
	e.start = c
	e.path = nil
	return nil
}

// SetTarget moves target. A wall on the chosen cell is removed.
func (e *GridRoutingEngine) SetTarget(row, col int) error {
	c, err := e.grid.GetCell(row, col)
	if err != nil {
		return err
	}
	if e.target != nil {
		e.target.SetTarget(false)
	}
	c.SetWall(false)
	c.SetTarget(true)
	e.target = c
	e.path = nil
	return nil
}

func (e *GridRoutingEngine) ClearStart() {
	e.start = nil
	e.path = nil
}

func (e *GridRoutingEngine) ClearTarget() {
	if e.target != nil {
		e.target.SetTarget(false)
	}
	e.target = nil
	e.path = nil
}

func (e *GridRoutingEngine) SetWall(row, col int) error {
	c, err := e.grid.GetCell(row, col)
	if err != nil {
		return err
	}
	if e.isMarker(c) {
		return fmt.Errorf("%w: %s", ErrWallOnMarker, c)
	}
	c.SetWall(true)
	e.path = nil
	return nil
}

func (e *GridRoutingEngine) ClearWall(row, col int) error {
	if err := e.grid.SetWall(row, col, false); err != nil {
		return err
	}
	e.path = nil
	return nil
}

func (e *GridRoutingEngine) ToggleWall(row, col int) (bool, error) {
	c, err := e.grid.GetCell(row, col)
	if err != nil {
		return false, err
	}
	if !c.IsWall() && e.isMarker(c) {
		return false, fmt.Errorf("%w: %s", ErrWallOnMarker, c)
	}
	c.SetWall(!c.IsWall())
	e.path = nil
	return c.IsWall(), nil
}

// Click applies a mouse click on a cell. Left paints a wall. Right places start
// while it is unset, then target while it is unset, and otherwise erases a wall.
func (e *GridRoutingEngine) Click(row, col int, button MouseButton) error {
	switch button {
	case LEFT_BUTTON:
		return e.SetWall(row, col)
	case RIGHT_BUTTON:
		if e.start == nil {
			return e.SetStart(row, col)
		}
		if e.target == nil {
			return e.SetTarget(row, col)
		}
		return e.ClearWall(row, col)
	default:
		return fmt.Errorf("unknown mouse button %d", button)
	}
}

// Reset clears walls, target, path and search state. Start goes back to (0,0).
func (e *GridRoutingEngine) Reset() {
	e.grid.ClearWalls()
	e.grid.ResetSearchState()
	e.ClearTarget()
	e.defaultStart()
	e.path = nil
}

// ApplyPath stores a path computed elsewhere, e.g. on a clone of this engine.
func (e *GridRoutingEngine) ApplyPath(positions []da.Position) error {
	if e.start == nil {
		return ErrNoStart
	}
	if e.target == nil {
		return ErrNoTarget
	}
	if len(positions) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	path := make([]*da.Cell, 0, len(positions))
	for i, p := range positions {
		c, err := e.grid.GetCellAt(p)
		if err != nil {
			return err
		}
		if i > 0 && !path[i-1].IsAdjacent(c) {
			return fmt.Errorf("%w: %s and %s are not adjacent", ErrInvalidPath, path[i-1], c)
		}
		path = append(path, c)
	}
	if path[0] != e.start || path[len(path)-1] != e.target {
		return fmt.Errorf("%w: endpoints %s..%s", ErrInvalidPath, path[0], path[len(path)-1])
	}
	e.path = path
	return nil
}

// Clone copies the grid and markers. The copy shares nothing with e.
func (e *GridRoutingEngine) Clone() *GridRoutingEngine {
	ce := &GridRoutingEngine{
		grid:   e.grid.Clone(),
		logger: e.logger,
	}
	if e.start != nil {
		ce.start = ce.grid.GetCellByID(e.start.GetID())
	}
	if e.target != nil {
		ce.target = ce.grid.GetCellByID(e.target.GetID())
	}
	if len(e.path) > 0 {
		ce.path = make([]*da.Cell, len(e.path))
		for i, c := range e.path {
			ce.path[i] = ce.grid.GetCellByID(c.GetID())
		}
	}
	return ce
}

// Render draws the grid with the last path and both markers.
func (e *GridRoutingEngine) Render() []string {
	overlay := make(map[da.Index]byte, len(e.path)+2)
	for _, c := range e.path {
		overlay[c.GetID()] = da.PATH_CHAR
	}
	if e.start != nil {
		overlay[e.start.GetID()] = da.START_CHAR
	}
	if e.target != nil {
		overlay[e.target.GetID()] = da.TARGET_CHAR
	}
	return e.grid.Render(overlay)
}

// Layout snapshots the grid and markers for persisting.
func (e *GridRoutingEngine) Layout() *da.GridLayout {
	ce := e.Clone()
	layout := &da.GridLayout{Grid: ce.grid}
	if ce.start != nil {
		p := ce.start.GetPosition()
		layout.Start = &p
	}
	if ce.target != nil {
		p := ce.target.GetPosition()
		layout.Target = &p
	}
	return layout
}

func (e *GridRoutingEngine) checkPreconditions(algorithm pkg.Algorithm) error {
	if algorithm >= pkg.UNKNOWN_ALGORITHM {
		return fmt.Errorf("%w: %d", ErrUnknownAlgorithm, algorithm)
	}
	if e.start == nil {
		return ErrNoStart
	}
	if e.target == nil {
		return ErrNoTarget
	}
	return nil
}

func (e *GridRoutingEngine) newSearch(algorithm pkg.Algorithm) gridSearch {
	switch algorithm {
	case pkg.BFS:
		return NewBreadthFirstSearch(e)
	case pkg.DFS:
		return NewDepthFirstSearch(e)
	case pkg.DIJKSTRA:
		return NewDijkstra(e)
	case pkg.BEST_FIRST:
		return NewBestFirstSearch(e)
	default:
		return NewAStar(e)
	}
}

// run resets all search state before searching, so consecutive runs never see
// distances or parents of a previous one.
func (e *GridRoutingEngine) run(algorithm pkg.Algorithm, snapshots bool, yield func(Step) bool) Result {
	e.grid.ResetSearchState()
	e.path = nil

	res := runSearch(e.newSearch(algorithm), snapshots, yield)
	res.Algorithm = algorithm
	if res.Found {
		e.path = res.Path
	}

	e.logger.Debug("grid search finished",
		zap.String("algorithm", algorithm.String()),
		zap.Bool("found", res.Found),
		zap.Bool("aborted", res.Aborted),
		zap.Int("settled", res.NumSettledNodes),
		zap.Int("path_length", res.PathLength()),
	)
	return res
}

// Search runs algorithm to completion. A run that exhausts the frontier returns
// the result together with ErrTargetUnreachable.
func (e *GridRoutingEngine) Search(algorithm pkg.Algorithm) (Result, error) {
	if err := e.checkPreconditions(algorithm); err != nil {
		return Result{Algorithm: algorithm}, err
	}
	res := e.run(algorithm, false, func(Step) bool { return true })
	if !res.Found {
		return res, ErrTargetUnreachable
	}
	return res, nil
}

// Steps returns the run as a sequence of steps ending with a found or exhausted
// step. Each range starts a fresh run. Breaking out early leaves no path stored.
func (e *GridRoutingEngine) Steps(algorithm pkg.Algorithm) (iter.Seq[Step], error) {
	if err := e.checkPreconditions(algorithm); err != nil {
		return nil, err
	}
	return func(yield func(Step) bool) {
		if err := e.checkPreconditions(algorithm); err != nil {
			// markers were cleared after the sequence was created
			return
		}
		e.run(algorithm, true, yield)
	}, nil
}
