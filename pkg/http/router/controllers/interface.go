package controllers

import (
	"context"
	"time"

	"github.com/lintang-b-s/gridnav/pkg"
	"github.com/lintang-b-s/gridnav/pkg/engine/routing"
	"github.com/lintang-b-s/gridnav/pkg/http/usecases"
)

type BoardService interface {
	CreateBoard(rows, cols int) (usecases.BoardSnapshot, error)
	GetBoard(id string) (usecases.BoardSnapshot, error)
	DeleteBoard(id string) error
	ReplaceLayout(id string, lines []string) (usecases.BoardSnapshot, error)
	SetWall(id string, row, col int) (usecases.BoardSnapshot, error)
	ClearWall(id string, row, col int) (usecases.BoardSnapshot, error)
	ToggleWall(id string, row, col int) (usecases.BoardSnapshot, error)
	Click(id string, row, col int, button routing.MouseButton) (usecases.BoardSnapshot, error)
	SetStart(id string, row, col int) (usecases.BoardSnapshot, error)
	SetTarget(id string, row, col int) (usecases.BoardSnapshot, error)
	Reset(id string) (usecases.BoardSnapshot, error)
	Search(id string, algorithm pkg.Algorithm) (usecases.SearchResult, error)
	Compare(id string) ([]usecases.SearchResult, error)
	StreamSteps(ctx context.Context, id string, algorithm pkg.Algorithm, emit func(step routing.Step) error) error
}

// StreamScheduler runs stream tasks on a bounded set of workers.
type StreamScheduler interface {
	ScheduleTimeout(timeout time.Duration, task func()) error
}
