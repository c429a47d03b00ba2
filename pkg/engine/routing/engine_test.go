package routing

import (
	"fmt"
	"testing"

	"github.com/lintang-b-s/gridnav/pkg"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var maze = []string{
	"S.....#...",
	".####.#.#.",
	".#....#.#.",
	".#.####.#.",
	".#......#.",
	".######.#.",
	"........#T",
}

const mazeShortestPath = 27

func newTestEngine(t *testing.T, lines []string) *GridRoutingEngine {
	t.Helper()
	layout, err := da.ParseGridLines(lines)
	require.NoError(t, err)
	e, err := NewGridRoutingEngineFromLayout(layout, nil)
	require.NoError(t, err)
	return e
}

func newOpenEngine(t *testing.T, rows, cols int) *GridRoutingEngine {
	t.Helper()
	g, err := da.NewGrid(rows, cols)
	require.NoError(t, err)
	return NewGridRoutingEngine(g, nil)
}

// assertValidPath checks the path runs start to target over free, 4-adjacent cells.
func assertValidPath(t *testing.T, e *GridRoutingEngine, path []*da.Cell) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Same(t, e.GetStart(), path[0])
	assert.Same(t, e.GetTarget(), path[len(path)-1])
	for i, c := range path {
		assert.False(t, c.IsWall(), "path crosses wall at %s", c)
		if i > 0 {
			assert.True(t, path[i-1].IsAdjacent(c), "%s and %s are not adjacent", path[i-1], c)
		}
	}
}

func shortestAlgorithms() []pkg.Algorithm {
	return []pkg.Algorithm{pkg.BFS, pkg.DIJKSTRA, pkg.ASTAR}
}

func TestOpenGridPathIsManhattan(t *testing.T) {
	testCases := []struct {
		rows, cols    int
		start, target da.Position
	}{
		{rows: 3, cols: 3, start: da.NewPosition(0, 0), target: da.NewPosition(2, 2)},
		{rows: 5, cols: 8, start: da.NewPosition(0, 0), target: da.NewPosition(4, 7)},
		{rows: 5, cols: 8, start: da.NewPosition(4, 7), target: da.NewPosition(0, 0)},
		{rows: 6, cols: 6, start: da.NewPosition(2, 3), target: da.NewPosition(5, 0)},
		{rows: 1, cols: 10, start: da.NewPosition(0, 9), target: da.NewPosition(0, 1)},
		{rows: 30, cols: 40, start: da.NewPosition(0, 0), target: da.NewPosition(29, 39)},
	}

	for _, tt := range testCases {
		for _, algorithm := range shortestAlgorithms() {
			t.Run(fmt.Sprintf("%s %dx%d %s->%s", algorithm, tt.rows, tt.cols, tt.start, tt.target), func(t *testing.T) {
				e := newOpenEngine(t, tt.rows, tt.cols)
				require.NoError(t, e.SetStart(tt.start.Row, tt.start.Col))
				require.NoError(t, e.SetTarget(tt.target.Row, tt.target.Col))

				res, err := e.Search(algorithm)
				require.NoError(t, err)
				assert.True(t, res.Found)
				assert.Equal(t, geo.ManhattanDistance(tt.start, tt.target), res.PathLength())
				assertValidPath(t, e, res.Path)
			})
		}
	}
}

func TestThreeByThreeOpenGrid(t *testing.T) {
	for _, algorithm := range shortestAlgorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			e := newTestEngine(t, []string{
				"S..",
				"...",
				"..T",
			})
			res, err := e.Search(algorithm)
			require.NoError(t, err)
			assert.Equal(t, 4, res.PathLength())
			assert.Len(t, e.GetPath(), 5)
		})
	}
}

func TestAStarMatchesOptimalAlgorithms(t *testing.T) {
	layouts := map[string][]string{
		"maze": maze,
		"detour": {
			"S.#....",
			"..#.##.",
			"..#..#.",
			"..##.#.",
			"......T",
		},
		"greedy trap": {
			"..........",
			".S......#.",
			"........#.",
			"........#T",
			"######..#.",
			"..........",
		},
	}

	for name, lines := range layouts {
		t.Run(name, func(t *testing.T) {
			lengths := make(map[pkg.Algorithm]int)
			for _, algorithm := range pkg.Algorithms() {
				e := newTestEngine(t, lines)
				res, err := e.Search(algorithm)
				require.NoError(t, err, algorithm.String())
				assertValidPath(t, e, res.Path)
				lengths[algorithm] = res.PathLength()
			}

			assert.Equal(t, lengths[pkg.BFS], lengths[pkg.DIJKSTRA])
			assert.Equal(t, lengths[pkg.BFS], lengths[pkg.ASTAR])
			assert.LessOrEqual(t, lengths[pkg.ASTAR], lengths[pkg.BEST_FIRST])
			assert.LessOrEqual(t, lengths[pkg.ASTAR], lengths[pkg.DFS])
		})
	}
}

func TestMazeShortestPath(t *testing.T) {
	for _, algorithm := range shortestAlgorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			e := newTestEngine(t, maze)
			res, err := e.Search(algorithm)
			require.NoError(t, err)
			assert.Equal(t, mazeShortestPath, res.PathLength())
		})
	}
}

func TestDefaultStartOnWall(t *testing.T) {
	for _, algorithm := range pkg.Algorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			e := newTestEngine(t, []string{
				"#..",
				"...",
				"..T",
			})
			require.NotNil(t, e.GetStart())
			assert.Equal(t, da.NewPosition(0, 0), e.GetStart().GetPosition())
			assert.False(t, e.GetStart().IsWall())
			assert.Empty(t, e.GetGrid().Walls())

			res, err := e.Search(algorithm)
			require.NoError(t, err)
			require.True(t, res.Found)
			assertValidPath(t, e, res.Path)
		})
	}
}

func TestUnreachableTarget(t *testing.T) {
	layouts := map[string][]string{
		"wall between adjacent cells": {"S#T"},
		"separated halves": {
			"S..#...",
			"...#...",
			"...#..T",
		},
		"boxed in target": {
			"S....",
			"...#.",
			"..#T#",
			"...#.",
		},
	}

	for name, lines := range layouts {
		for _, algorithm := range pkg.Algorithms() {
			t.Run(name+" "+algorithm.String(), func(t *testing.T) {
				e := newTestEngine(t, lines)
				res, err := e.Search(algorithm)
				assert.ErrorIs(t, err, ErrTargetUnreachable)
				assert.False(t, res.Found)
				assert.Equal(t, -1, res.PathLength())
				assert.Empty(t, res.Path)
				assert.Empty(t, e.GetPath())
				assert.NotEmpty(t, res.Visited)
			})
		}
	}
}

func TestSearchIsDeterministic(t *testing.T) {
	for _, algorithm := range pkg.Algorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			e := newTestEngine(t, maze)
			first, err := e.Search(algorithm)
			require.NoError(t, err)
			second, err := e.Search(algorithm)
			require.NoError(t, err)

			assert.Equal(t, first.PathPositions(), second.PathPositions())
			assert.Equal(t, first.VisitedPositions(), second.VisitedPositions())

			other := newTestEngine(t, maze)
			third, err := other.Search(algorithm)
			require.NoError(t, err)
			assert.Equal(t, first.VisitedPositions(), third.VisitedPositions())
		})
	}
}

func TestDepthFirstExpansionOrder(t *testing.T) {
	e := newTestEngine(t, []string{
		"S..",
		"...",
		"..T",
	})
	res, err := e.Search(pkg.DFS)
	require.NoError(t, err)

	// the last pushed neighbor (right before left, down before up) is explored first
	assert.Equal(t, []da.Position{
		da.NewPosition(0, 0), da.NewPosition(0, 1), da.NewPosition(0, 2), da.NewPosition(1, 2), da.NewPosition(1, 1), da.NewPosition(1, 0), da.NewPosition(2, 0), da.NewPosition(2, 1),
	}, res.VisitedPositions())
	assert.Equal(t, []da.Position{
		da.NewPosition(0, 0), da.NewPosition(0, 1), da.NewPosition(0, 2), da.NewPosition(1, 2), da.NewPosition(1, 1), da.NewPosition(1, 0), da.NewPosition(2, 0), da.NewPosition(2, 1), da.NewPosition(2, 2),
	}, res.PathPositions())
}

func TestStartIsTarget(t *testing.T) {
	for _, algorithm := range pkg.Algorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			e := newOpenEngine(t, 3, 3)
			require.NoError(t, e.SetTarget(0, 0))
			res, err := e.Search(algorithm)
			require.NoError(t, err)
			assert.Equal(t, 0, res.PathLength())
			assert.Equal(t, []da.Position{da.NewPosition(0, 0)}, res.PathPositions())
			assert.Empty(t, res.Visited)
		})
	}
}

func TestSearchPreconditions(t *testing.T) {
	e := newOpenEngine(t, 3, 3)

	_, err := e.Search(pkg.BFS)
	assert.ErrorIs(t, err, ErrNoTarget, "target starts unset")

	require.NoError(t, e.SetTarget(2, 2))
	_, err = e.Search(pkg.UNKNOWN_ALGORITHM)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)

	e.ClearStart()
	_, err = e.Search(pkg.ASTAR)
	assert.ErrorIs(t, err, ErrNoStart)

	_, err = e.Steps(pkg.ASTAR)
	assert.ErrorIs(t, err, ErrNoStart)
}

func TestSearchResetsStateBetweenRuns(t *testing.T) {
	e := newOpenEngine(t, 5, 5)
	require.NoError(t, e.SetTarget(4, 4))

	res, err := e.Search(pkg.DIJKSTRA)
	require.NoError(t, err)
	require.Equal(t, 8, res.PathLength())

	// a wall across the middle forces a detour through column 4
	for col := 0; col < 4; col++ {
		require.NoError(t, e.SetWall(2, col))
	}
	assert.Empty(t, e.GetPath(), "a wall edit drops the stale path")

	for _, algorithm := range pkg.Algorithms() {
		res, err = e.Search(algorithm)
		require.NoError(t, err, algorithm.String())
		assertValidPath(t, e, res.Path)
		if algorithm != pkg.DFS && algorithm != pkg.BEST_FIRST {
			assert.Equal(t, 8, res.PathLength(), algorithm.String())
		}
	}

	require.NoError(t, e.SetWall(2, 4))
	_, err = e.Search(pkg.DIJKSTRA)
	assert.ErrorIs(t, err, ErrTargetUnreachable)
	assert.Empty(t, e.GetPath())
}

func TestMarkers(t *testing.T) {
	e := newOpenEngine(t, 3, 3)
	assert.Equal(t, da.NewPosition(0, 0), e.GetStart().GetPosition())
	assert.Nil(t, e.GetTarget())

	require.NoError(t, e.SetWall(2, 2))
	require.NoError(t, e.SetTarget(2, 2))
	assert.False(t, e.GetTarget().IsWall(), "target on a wall clears the wall")
	assert.True(t, e.GetTarget().IsTarget())

	require.NoError(t, e.SetTarget(1, 2))
	old, _ := e.GetGrid().GetCell(2, 2)
	assert.False(t, old.IsTarget())

	assert.ErrorIs(t, e.SetWall(0, 0), ErrWallOnMarker)
	assert.ErrorIs(t, e.SetWall(1, 2), ErrWallOnMarker)
	_, err := e.ToggleWall(1, 2)
	assert.ErrorIs(t, err, ErrWallOnMarker)
	assert.ErrorIs(t, e.SetStart(3, 0), da.ErrOutOfBounds)

	isWall, err := e.ToggleWall(1, 1)
	require.NoError(t, err)
	assert.True(t, isWall)
	require.NoError(t, e.ClearWall(1, 1))
	assert.Empty(t, e.GetGrid().Walls())
}

func TestClick(t *testing.T) {
	e := newOpenEngine(t, 3, 3)

	require.NoError(t, e.Click(1, 1, LEFT_BUTTON))
	assert.Equal(t, []da.Position{da.NewPosition(1, 1)}, e.GetGrid().Walls())

	assert.ErrorIs(t, e.Click(0, 0, LEFT_BUTTON), ErrWallOnMarker)

	// start is set, so right places the target
	require.NoError(t, e.Click(2, 2, RIGHT_BUTTON))
	require.NotNil(t, e.GetTarget())
	assert.Equal(t, da.NewPosition(2, 2), e.GetTarget().GetPosition())

	// both markers set: right erases walls
	require.NoError(t, e.Click(1, 1, RIGHT_BUTTON))
	assert.Empty(t, e.GetGrid().Walls())
	assert.Equal(t, da.NewPosition(2, 2), e.GetTarget().GetPosition())

	e.ClearStart()
	require.NoError(t, e.Click(0, 2, RIGHT_BUTTON))
	assert.Equal(t, da.NewPosition(0, 2), e.GetStart().GetPosition())

	assert.Error(t, e.Click(0, 1, MouseButton(9)))
	assert.ErrorIs(t, e.Click(7, 7, LEFT_BUTTON), da.ErrOutOfBounds)
}

func TestReset(t *testing.T) {
	e := newTestEngine(t, maze)
	require.NoError(t, e.SetStart(6, 0))
	_, err := e.Search(pkg.ASTAR)
	require.NoError(t, err)
	require.NotEmpty(t, e.GetPath())

	e.Reset()
	assert.Empty(t, e.GetGrid().Walls())
	assert.Empty(t, e.GetPath())
	assert.Nil(t, e.GetTarget())
	assert.Equal(t, da.NewPosition(0, 0), e.GetStart().GetPosition())
	e.GetGrid().ForCells(func(c *da.Cell) {
		assert.False(t, c.IsTarget())
		assert.Nil(t, c.GetParent())
		assert.Equal(t, pkg.INF_WEIGHT, c.GetDistance())
	})

	_, err = e.Search(pkg.ASTAR)
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestCloneAndApplyPath(t *testing.T) {
	e := newTestEngine(t, maze)
	ce := e.Clone()

	res, err := ce.Search(pkg.ASTAR)
	require.NoError(t, err)
	assert.Empty(t, e.GetPath(), "searching a clone leaves e untouched")

	require.NoError(t, ce.SetWall(0, 1))
	c, _ := e.GetGrid().GetCell(0, 1)
	assert.False(t, c.IsWall())

	require.NoError(t, e.ApplyPath(res.PathPositions()))
	assert.Equal(t, res.PathPositions(), da.CellsToPositions(e.GetPath()))
	assertValidPath(t, e, e.GetPath())

	assert.ErrorIs(t, e.ApplyPath(nil), ErrInvalidPath)
	assert.ErrorIs(t, e.ApplyPath([]da.Position{da.NewPosition(0, 0), da.NewPosition(1, 1)}), ErrInvalidPath)
	assert.ErrorIs(t, e.ApplyPath([]da.Position{da.NewPosition(0, 0), da.NewPosition(0, 1)}), ErrInvalidPath)
	assert.ErrorIs(t, e.ApplyPath([]da.Position{da.NewPosition(0, 0), da.NewPosition(-1, 0)}), da.ErrOutOfBounds)
}

func TestRender(t *testing.T) {
	e := newTestEngine(t, []string{
		"S.#",
		"..#",
		"..T",
	})
	assert.Equal(t, []string{"S.#", "..#", "..T"}, e.Render())

	_, err := e.Search(pkg.BFS)
	require.NoError(t, err)
	// the second push of (2,1) came from (1,1), so bfs relinks it there
	assert.Equal(t, []string{"S*#", ".*#", ".*T"}, e.Render())

	layout := e.Layout()
	assert.Equal(t, []string{"S.#", "..#", "..T"}, layout.Lines())
}
