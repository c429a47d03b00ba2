package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/lintang-b-s/gridnav/pkg"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine"
	"github.com/lintang-b-s/gridnav/pkg/engine/routing"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, maxBoards int) *BoardService {
	t.Helper()
	// 3 rows x 5 cols template
	eng, err := engine.NewEngine("", 100, 60, 20, zap.NewNop())
	require.NoError(t, err)
	bs, err := NewBoardService(zap.NewNop(), eng, maxBoards, 16)
	require.NoError(t, err)
	return bs
}

func codeOf(t *testing.T, err error) error {
	t.Helper()
	var uerr *util.Error
	require.ErrorAs(t, err, &uerr)
	return uerr.Code()
}

func TestCreateBoard(t *testing.T) {
	bs := newTestService(t, 8)

	tests := []struct {
		name       string
		rows, cols int
		wantRows   int
		wantCols   int
		wantCode   error
	}{
		{"from template", 0, 0, 3, 5, nil},
		{"explicit size", 4, 6, 4, 6, nil},
		{"negative rows", -1, 5, 0, 0, util.ErrBadParamInput},
		{"zero cols", 3, 0, 0, 0, util.ErrBadParamInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := bs.CreateBoard(tt.rows, tt.cols)
			if tt.wantCode != nil {
				assert.Equal(t, tt.wantCode, codeOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, snap.ID)
			assert.Equal(t, uint64(0), snap.Revision)
			assert.Equal(t, tt.wantRows, snap.Rows)
			assert.Equal(t, tt.wantCols, snap.Cols)
			assert.Len(t, snap.Cells, tt.wantRows)
			require.NotNil(t, snap.Start)
			assert.Equal(t, da.NewPosition(0, 0), *snap.Start)
			assert.Nil(t, snap.Target)

			got, err := bs.GetBoard(snap.ID)
			require.NoError(t, err)
			assert.Equal(t, snap, got)
		})
	}
}

func TestBoardNotFound(t *testing.T) {
	bs := newTestService(t, 8)

	_, err := bs.GetBoard("missing")
	assert.Equal(t, util.ErrNotFound, codeOf(t, err))
	assert.ErrorIs(t, err, ErrBoardNotFound)

	snap, err := bs.CreateBoard(0, 0)
	require.NoError(t, err)
	require.NoError(t, bs.DeleteBoard(snap.ID))

	_, err = bs.SetWall(snap.ID, 1, 1)
	assert.Equal(t, util.ErrNotFound, codeOf(t, err))
	assert.Equal(t, util.ErrNotFound, codeOf(t, bs.DeleteBoard(snap.ID)))
}

func TestBoardEviction(t *testing.T) {
	bs := newTestService(t, 1)

	first, err := bs.CreateBoard(0, 0)
	require.NoError(t, err)
	second, err := bs.CreateBoard(0, 0)
	require.NoError(t, err)

	_, err = bs.GetBoard(first.ID)
	assert.ErrorIs(t, err, ErrBoardNotFound)
	_, err = bs.GetBoard(second.ID)
	assert.NoError(t, err)
}

func TestMutationsBumpRevision(t *testing.T) {
	bs := newTestService(t, 8)
	snap, err := bs.CreateBoard(0, 0)
	require.NoError(t, err)
	id := snap.ID

	snap, err = bs.SetWall(id, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Revision)
	assert.Equal(t, []da.Position{da.NewPosition(1, 1)}, snap.Walls)

	_, err = bs.SetWall(id, 0, 0)
	assert.Equal(t, util.ErrConflict, codeOf(t, err))
	_, err = bs.SetWall(id, 3, 0)
	assert.Equal(t, util.ErrBadParamInput, codeOf(t, err))

	snap, err = bs.GetBoard(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Revision, "failed mutations keep the revision")

	snap, err = bs.Click(id, 2, 4, routing.RIGHT_BUTTON)
	require.NoError(t, err)
	require.NotNil(t, snap.Target)
	assert.Equal(t, da.NewPosition(2, 4), *snap.Target)

	snap, err = bs.ClearWall(id, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, snap.Walls)

	snap, err = bs.SetStart(id, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, da.NewPosition(1, 0), *snap.Start)

	snap, err = bs.SetTarget(id, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, da.NewPosition(2, 2), *snap.Target)

	snap, err = bs.Reset(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), snap.Revision)
	assert.Equal(t, da.NewPosition(0, 0), *snap.Start)
	assert.Nil(t, snap.Target)
}


func TestToggleWall(t *testing.T) {
	bs := newTestService(t, 8)
	snap, err := bs.CreateBoard(0, 0)
	require.NoError(t, err)
	id := snap.ID
	_, err = bs.SetTarget(id, 2, 4)
	require.NoError(t, err)

	testCases := []struct {
		name      string
		row, col  int
		wantWalls []da.Position
		wantCode  error
	}{
		{name: "free cell becomes wall", row: 1, col: 2, wantWalls: []da.Position{da.NewPosition(1, 2)}},
		{name: "wall becomes free", row: 1, col: 2, wantWalls: []da.Position{}},
		{name: "start refuses", row: 0, col: 0, wantCode: util.ErrConflict},
		{name: "target refuses", row: 2, col: 4, wantCode: util.ErrConflict},
		{name: "out of bounds", row: 3, col: 0, wantCode: util.ErrBadParamInput},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := bs.ToggleWall(id, tt.row, tt.col)
			if tt.wantCode != nil {
				assert.Equal(t, tt.wantCode, codeOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantWalls, snap.Walls)
		})
	}

	_, err = bs.ToggleWall("missing", 1, 1)
	assert.ErrorIs(t, err, ErrBoardNotFound)
}

func TestReplaceLayout(t *testing.T) {
	bs := newTestService(t, 8)
	snap, err := bs.CreateBoard(0, 0)
	require.NoError(t, err)

	lines := []string{
		"S.#",
		"..#",
		"..T",
	}
	snap, err = bs.ReplaceLayout(snap.ID, lines)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Rows)
	assert.Equal(t, 3, snap.Cols)
	assert.Equal(t, lines, snap.Cells)
	assert.Equal(t, uint64(1), snap.Revision)

	_, err = bs.ReplaceLayout(snap.ID, []string{"S..", ".x"})
	assert.Equal(t, util.ErrBadParamInput, codeOf(t, err))
	_, err = bs.ReplaceLayout("missing", lines)
	assert.Equal(t, util.ErrNotFound, codeOf(t, err))
}

func TestSearch(t *testing.T) {
	bs := newTestService(t, 8)
	snap, err := bs.CreateBoard(0, 0)
	require.NoError(t, err)
	id := snap.ID

	_, err = bs.Search(id, pkg.BFS)
	assert.Equal(t, util.ErrBadParamInput, codeOf(t, err))
	assert.ErrorIs(t, err, routing.ErrNoTarget)

	_, err = bs.SetTarget(id, 2, 4)
	require.NoError(t, err)

	res, err := bs.Search(id, pkg.ASTAR)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, pkg.ASTAR, res.Algorithm)
	assert.Equal(t, 6, res.PathLength)
	assert.NotEmpty(t, res.Polyline)
	assert.NotEmpty(t, res.Visited)

	snap, err = bs.GetBoard(id)
	require.NoError(t, err)
	assert.Equal(t, res.Path, snap.Path, "found path stays on the board")

	for row := 0; row < 3; row++ {
		_, err = bs.SetWall(id, row, 2)
		require.NoError(t, err)
	}
	_, err = bs.Search(id, pkg.DIJKSTRA)
	assert.Equal(t, util.ErrNotFound, codeOf(t, err))
	assert.ErrorIs(t, err, routing.ErrTargetUnreachable)
	assert.Contains(t, err.Error(), "found no path from (0,0) to (2,4)")

	_, err = bs.Search(id, pkg.UNKNOWN_ALGORITHM)
	assert.Equal(t, util.ErrBadParamInput, codeOf(t, err))
}

func TestCompare(t *testing.T) {
	bs := newTestService(t, 8)
	snap, err := bs.CreateBoard(0, 0)
	require.NoError(t, err)
	id := snap.ID
	_, err = bs.SetTarget(id, 2, 4)
	require.NoError(t, err)

	results, err := bs.Compare(id)
	require.NoError(t, err)
	require.Len(t, results, len(pkg.Algorithms()))
	for i, res := range results {
		assert.Equal(t, pkg.Algorithms()[i], res.Algorithm)
		assert.True(t, res.Found)
	}
	for _, algorithm := range []pkg.Algorithm{pkg.BFS, pkg.DIJKSTRA, pkg.ASTAR} {
		assert.Equal(t, 6, results[algorithm].PathLength)
	}

	snap, err = bs.GetBoard(id)
	require.NoError(t, err)
	assert.Empty(t, snap.Path, "compare runs on clones")

	cached, err := bs.Compare(id)
	require.NoError(t, err)
	assert.Equal(t, results, cached)

	for row := 0; row < 3; row++ {
		_, err = bs.SetWall(id, row, 2)
		require.NoError(t, err)
	}
	results, err = bs.Compare(id)
	require.NoError(t, err)
	for _, res := range results {
		assert.False(t, res.Found, res.Algorithm.String())
		assert.Equal(t, -1, res.PathLength)
		assert.Empty(t, res.Polyline)
	}
}

func TestStreamSteps(t *testing.T) {
	bs := newTestService(t, 8)
	snap, err := bs.CreateBoard(0, 0)
	require.NoError(t, err)
	id := snap.ID
	_, err = bs.SetTarget(id, 2, 4)
	require.NoError(t, err)

	t.Run("found path is written back", func(t *testing.T) {
		var steps []routing.Step
		err := bs.StreamSteps(context.Background(), id, pkg.BFS, func(step routing.Step) error {
			steps = append(steps, step)
			return nil
		})
		require.NoError(t, err)
		require.NotEmpty(t, steps)
		last := steps[len(steps)-1]
		assert.Equal(t, routing.STEP_FOUND, last.Status)

		snap, err := bs.GetBoard(id)
		require.NoError(t, err)
		assert.Equal(t, last.Path, snap.Path)
	})

	t.Run("board changed during stream", func(t *testing.T) {
		first := true
		err := bs.StreamSteps(context.Background(), id, pkg.DFS, func(step routing.Step) error {
			if first {
				first = false
				_, err := bs.SetWall(id, 0, 4)
				return err
			}
			return nil
		})
		require.NoError(t, err)

		snap, err := bs.GetBoard(id)
		require.NoError(t, err)
		assert.Empty(t, snap.Path)
	})

	t.Run("emit error stops the stream", func(t *testing.T) {
		errClosed := errors.New("connection closed")
		n := 0
		err := bs.StreamSteps(context.Background(), id, pkg.DIJKSTRA, func(step routing.Step) error {
			n++
			return errClosed
		})
		assert.ErrorIs(t, err, errClosed)
		assert.Equal(t, 1, n)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		n := 0
		err := bs.StreamSteps(ctx, id, pkg.ASTAR, func(step routing.Step) error {
			n++
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, n)
	})

	t.Run("missing marker", func(t *testing.T) {
		_, err := bs.Reset(id)
		require.NoError(t, err)
		err = bs.StreamSteps(context.Background(), id, pkg.BFS, func(step routing.Step) error {
			return nil
		})
		assert.Equal(t, util.ErrBadParamInput, codeOf(t, err))
	})
}
