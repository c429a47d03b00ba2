package routing

import (
	"iter"
	"testing"

	"github.com/lintang-b-s/gridnav/pkg"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(seq iter.Seq[Step]) []Step {
	steps := make([]Step, 0)
	for step := range seq {
		steps = append(steps, step)
	}
	return steps
}

func TestStepsFirstStep(t *testing.T) {
	e := newOpenEngine(t, 3, 3)
	require.NoError(t, e.SetTarget(2, 2))

	seq, err := e.Steps(pkg.BFS)
	require.NoError(t, err)

	for step := range seq {
		assert.Equal(t, 1, step.Seq)
		assert.Equal(t, STEP_EXPANDED, step.Status)
		require.NotNil(t, step.Expanded)
		assert.Equal(t, da.NewPosition(0, 0), *step.Expanded)
		// (0,1) has id 1, (1,0) has id 3
		assert.Equal(t, []da.Position{da.NewPosition(0, 1), da.NewPosition(1, 0)}, step.Frontier)
		assert.Empty(t, step.Path)
		assert.False(t, step.IsFinal())
		break
	}
	assert.Empty(t, e.GetPath(), "a stopped sequence stores no path")
}

func TestStepsMatchSearch(t *testing.T) {
	for _, algorithm := range pkg.Algorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			e := newTestEngine(t, maze)
			seq, err := e.Steps(algorithm)
			require.NoError(t, err)
			steps := collect(seq)

			ce := newTestEngine(t, maze)
			res, err := ce.Search(algorithm)
			require.NoError(t, err)

			require.NotEmpty(t, steps)
			last := steps[len(steps)-1]
			assert.Equal(t, STEP_FOUND, last.Status)
			assert.True(t, last.IsFinal())
			assert.Equal(t, res.PathPositions(), last.Path)
			assert.Equal(t, e.GetTarget().GetPosition(), *last.Expanded)
			assert.Equal(t, res.PathPositions(), da.CellsToPositions(e.GetPath()))

			expanded := make([]da.Position, 0, len(steps))
			for i, step := range steps {
				assert.Equal(t, i+1, step.Seq)
				if i < len(steps)-1 {
					assert.Equal(t, STEP_EXPANDED, step.Status)
					expanded = append(expanded, *step.Expanded)
				}
			}
			assert.Equal(t, res.VisitedPositions(), expanded)
		})
	}
}

func TestStepsFrontierExcludesExpandedCells(t *testing.T) {
	for _, algorithm := range pkg.Algorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			e := newTestEngine(t, maze)
			seq, err := e.Steps(algorithm)
			require.NoError(t, err)

			grid := e.GetGrid()
			expanded := make(map[da.Position]bool)
			for step := range seq {
				if step.Status == STEP_EXPANDED {
					expanded[*step.Expanded] = true
				}
				prev := -1
				for _, p := range step.Frontier {
					assert.False(t, expanded[p], "step %d: %s is closed but in frontier", step.Seq, p)
					c, err := grid.GetCellAt(p)
					require.NoError(t, err)
					assert.False(t, c.IsWall())
					assert.Greater(t, int(c.GetID()), prev, "frontier is sorted by id")
					prev = int(c.GetID())
				}
			}
		})
	}
}

func TestStepsExhausted(t *testing.T) {
	for _, algorithm := range pkg.Algorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			e := newTestEngine(t, []string{
				"S.#..",
				"..#.T",
			})
			seq, err := e.Steps(algorithm)
			require.NoError(t, err)
			steps := collect(seq)

			// (0,0), (0,1), (1,0), (1,1) are expanded, then the frontier runs dry
			require.Len(t, steps, 5)
			last := steps[4]
			assert.Equal(t, STEP_EXHAUSTED, last.Status)
			assert.Equal(t, 5, last.Seq)
			assert.Nil(t, last.Expanded)
			assert.Empty(t, last.Frontier)
			assert.Empty(t, last.Path)
			assert.True(t, last.IsFinal())
			assert.Empty(t, e.GetPath())
		})
	}
}

func TestStepsRestartOnEveryRange(t *testing.T) {
	e := newTestEngine(t, maze)
	seq, err := e.Steps(pkg.ASTAR)
	require.NoError(t, err)

	first := collect(seq)
	second := collect(seq)
	assert.Equal(t, first, second)

	n := 0
	for range seq {
		n++
		if n == 3 {
			break
		}
	}
	assert.Empty(t, e.GetPath())

	third := collect(seq)
	assert.Equal(t, first, third)
	assert.NotEmpty(t, e.GetPath())
}

func TestStepsAfterMarkerCleared(t *testing.T) {
	e := newTestEngine(t, maze)
	seq, err := e.Steps(pkg.DIJKSTRA)
	require.NoError(t, err)

	e.ClearTarget()
	assert.Empty(t, collect(seq))
}
