package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/gridnav/pkg"
	"github.com/lintang-b-s/gridnav/pkg/concurrent"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine/routing"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"go.uber.org/zap"
)

var ErrBoardNotFound = errors.New("board not found")

type board struct {
	mu        sync.Mutex
	id        string
	revision  uint64
	createdAt time.Time
	engine    *routing.GridRoutingEngine
}

type compareCacheKey struct {
	id       string
	revision uint64
}

// BoardService keeps the live boards. Every board is guarded by its own mutex;
// comparisons and step streams run on clones.
type BoardService struct {
	log          *zap.Logger
	engine       RoutingEngineFactory
	boards       *lru.Cache[string, *board]
	compareCache *lru.Cache[compareCacheKey, []SearchResult]
}

func NewBoardService(log *zap.Logger, engine RoutingEngineFactory, maxBoards, resultCacheSize int) (*BoardService, error) {
	boards, err := lru.NewWithEvict(maxBoards, func(id string, _ *board) {
		log.Info("board evicted", zap.String("board_id", id))
	})
	if err != nil {
		return nil, err
	}
	compareCache, err := lru.New[compareCacheKey, []SearchResult](resultCacheSize)
	if err != nil {
		return nil, err
	}
	return &BoardService{
		log:          log,
		engine:       engine,
		boards:       boards,
		compareCache: compareCache,
	}, nil
}

// translate maps engine errors onto the service error codes.
func translate(err error, format string, a ...interface{}) error {
	msg := fmt.Sprintf(format, a...)
	switch {
	case errors.Is(err, routing.ErrWallOnMarker):
		return util.WrapErrorf(err, util.ErrConflict, "%s: %v", msg, err)
	case errors.Is(err, routing.ErrTargetUnreachable), errors.Is(err, ErrBoardNotFound):
		return util.WrapErrorf(err, util.ErrNotFound, "%s: %v", msg, err)
	case errors.Is(err, da.ErrOutOfBounds), errors.Is(err, da.ErrEmptyGrid),
		errors.Is(err, da.ErrMalformedGrid), errors.Is(err, routing.ErrNoStart),
		errors.Is(err, routing.ErrNoTarget), errors.Is(err, routing.ErrUnknownAlgorithm),
		errors.Is(err, routing.ErrInvalidPath):
		return util.WrapErrorf(err, util.ErrBadParamInput, "%s: %v", msg, err)
	default:
		return util.WrapErrorf(err, util.ErrInternalServerError, "%s: %v", msg, err)
	}
}

func (bs *BoardService) get(id string) (*board, error) {
	b, ok := bs.boards.Get(id)
	if !ok {
		return nil, translate(ErrBoardNotFound, "board %s", id)
	}
	return b, nil
}

// CreateBoard builds a rows x cols board, or a board from the configured template when both are zero.
func (bs *BoardService) CreateBoard(rows, cols int) (BoardSnapshot, error) {
	var (
		e   *routing.GridRoutingEngine
		err error
	)
	if rows == 0 && cols == 0 {
		e, err = bs.engine.NewRoutingEngine()
	} else {
		e, err = bs.engine.NewRoutingEngineWithSize(rows, cols)
	}
	if err != nil {
		return BoardSnapshot{}, translate(err, "create %dx%d board", rows, cols)
	}

	b := &board{
		id:        uuid.NewString(),
		createdAt: time.Now(),
		engine:    e,
	}
	bs.boards.Add(b.id, b)
	bs.log.Info("board created", zap.String("board_id", b.id),
		zap.Int("rows", e.GetGrid().NumberOfRows()), zap.Int("cols", e.GetGrid().NumberOfCols()))

	b.mu.Lock()
	defer b.mu.Unlock()
	return snapshotOf(b), nil
}

func (bs *BoardService) GetBoard(id string) (BoardSnapshot, error) {
	b, err := bs.get(id)
	if err != nil {
		return BoardSnapshot{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return snapshotOf(b), nil
}

func (bs *BoardService) DeleteBoard(id string) error {
	if !bs.boards.Remove(id) {
		return translate(ErrBoardNotFound, "board %s", id)
	}
	return nil
}

// mutate applies fn under the board lock and bumps the revision when fn succeeds.
func (bs *BoardService) mutate(id string, op string, fn func(e *routing.GridRoutingEngine) error) (BoardSnapshot, error) {
	b, err := bs.get(id)
	if err != nil {
		return BoardSnapshot{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := fn(b.engine); err != nil {
		return BoardSnapshot{}, translate(err, "%s on board %s", op, id)
	}
	b.revision++
	return snapshotOf(b), nil
}

func (bs *BoardService) ReplaceLayout(id string, lines []string) (BoardSnapshot, error) {
	layout, err := da.ParseGridLines(lines)
	if err != nil {
		return BoardSnapshot{}, translate(err, "parse layout for board %s", id)
	}
	e, err := bs.engine.NewRoutingEngineFromLayout(layout)
	if err != nil {
		return BoardSnapshot{}, translate(err, "load layout for board %s", id)
	}

	b, err := bs.get(id)
	if err != nil {
		return BoardSnapshot{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.engine = e
	b.revision++
	return snapshotOf(b), nil
}

func (bs *BoardService) SetWall(id string, row, col int) (BoardSnapshot, error) {
	return bs.mutate(id, "set wall", func(e *routing.GridRoutingEngine) error {
		return e.SetWall(row, col)
	})
}

func (bs *BoardService) ClearWall(id string, row, col int) (BoardSnapshot, error) {
	return bs.mutate(id, "clear wall", func(e *routing.GridRoutingEngine) error {
		return e.ClearWall(row, col)
	})
}

// ToggleWall flips the wall on a cell. Start and target refuse to become walls.
func (bs *BoardService) ToggleWall(id string, row, col int) (BoardSnapshot, error) {
	return bs.mutate(id, "toggle wall", func(e *routing.GridRoutingEngine) error {
		_, err := e.ToggleWall(row, col)
		return err
	})
}

func (bs *BoardService) Click(id string, row, col int, button routing.MouseButton) (BoardSnapshot, error) {
	return bs.mutate(id, "click", func(e *routing.GridRoutingEngine) error {
		return e.Click(row, col, button)
	})
}

func (bs *BoardService) SetStart(id string, row, col int) (BoardSnapshot, error) {
	return bs.mutate(id, "set start", func(e *routing.GridRoutingEngine) error {
		return e.SetStart(row, col)
	})
}

func (bs *BoardService) SetTarget(id string, row, col int) (BoardSnapshot, error) {
	return bs.mutate(id, "set target", func(e *routing.GridRoutingEngine) error {
		return e.SetTarget(row, col)
	})
}

func (bs *BoardService) Reset(id string) (BoardSnapshot, error) {
	return bs.mutate(id, "reset", func(e *routing.GridRoutingEngine) error {
		e.Reset()
		return nil
	})
}

// Search runs algorithm on the board itself, so a found path stays on the board.
func (bs *BoardService) Search(id string, algorithm pkg.Algorithm) (SearchResult, error) {
	b, err := bs.get(id)
	if err != nil {
		return SearchResult{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	res, err := b.engine.Search(algorithm)
	if err != nil {
		return SearchResult{}, bs.searchError(b, algorithm, err)
	}
	return newSearchResult(res), nil
}

func (bs *BoardService) searchError(b *board, algorithm pkg.Algorithm, err error) error {
	if errors.Is(err, routing.ErrTargetUnreachable) {
		return translate(err, "%s found no path from %s to %s", algorithm,
			b.engine.GetStart(), b.engine.GetTarget())
	}
	return translate(err, "%s on board %s", algorithm, b.id)
}

// Compare runs every algorithm on its own clone of the board in parallel. Results
// are cached per board revision. Unreachable targets are reported as Found == false.
func (bs *BoardService) Compare(id string) ([]SearchResult, error) {
	b, err := bs.get(id)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	key := compareCacheKey{id: id, revision: b.revision}
	if cached, ok := bs.compareCache.Get(key); ok {
		b.mu.Unlock()
		return cached, nil
	}
	snapshot := b.engine.Clone()
	b.mu.Unlock()

	algorithms := pkg.Algorithms()
	type compareResult struct {
		result SearchResult
		err    error
	}

	wp := concurrent.NewWorkerPool[pkg.Algorithm, compareResult](len(algorithms), len(algorithms))
	wp.Start(func(algorithm pkg.Algorithm) compareResult {
		res, err := snapshot.Clone().Search(algorithm)
		if err != nil && !errors.Is(err, routing.ErrTargetUnreachable) {
			return compareResult{err: translate(err, "compare %s on board %s", algorithm, id)}
		}
		return compareResult{result: newSearchResult(res)}
	})
	for _, algorithm := range algorithms {
		wp.AddJob(algorithm)
	}
	wp.Close()
	wp.Wait()

	results := make([]SearchResult, 0, len(algorithms))
	for res := range wp.CollectResults() {
		if res.err != nil {
			return nil, res.err
		}
		results = append(results, res.result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Algorithm < results[j].Algorithm
	})

	bs.compareCache.Add(key, results)
	return results, nil
}

// StreamSteps runs algorithm on a clone of the board and hands every step to
// emit. A found path is written back when the board did not change meanwhile.
func (bs *BoardService) StreamSteps(ctx context.Context, id string, algorithm pkg.Algorithm,
	emit func(step routing.Step) error) error {
	b, err := bs.get(id)
	if err != nil {
		return err
	}
	b.mu.Lock()
	snapshot := b.engine.Clone()
	revision := b.revision
	b.mu.Unlock()

	steps, err := snapshot.Steps(algorithm)
	if err != nil {
		return translate(err, "stream %s on board %s", algorithm, id)
	}

	var last routing.Step
	for step := range steps {
		if util.StopConcurrentOperation(ctx) {
			return ctx.Err()
		}
		if err := emit(step); err != nil {
			return err
		}
		last = step
	}

	if last.Status != routing.STEP_FOUND {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.revision != revision {
		bs.log.Debug("board changed during stream, path dropped",
			zap.String("board_id", id), zap.String("algorithm", algorithm.String()))
		return nil
	}
	if err := b.engine.ApplyPath(last.Path); err != nil {
		return translate(err, "apply streamed path on board %s", id)
	}
	return nil
}
