package usecases

import (
	"time"

	"github.com/lintang-b-s/gridnav/pkg"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine/routing"
	"github.com/lintang-b-s/gridnav/pkg/geo"
)

type BoardSnapshot struct {
	ID        string
	Revision  uint64
	CreatedAt time.Time
	Rows      int
	Cols      int
	Start     *da.Position
	Target    *da.Position
	Walls     []da.Position
	Path      []da.Position
	Cells     []string
}

type SearchResult struct {
	Algorithm  pkg.Algorithm
	Found      bool
	PathLength int
	Path       []da.Position
	Polyline   string
	Visited    []da.Position
}

func newSearchResult(res routing.Result) SearchResult {
	path := res.PathPositions()
	sr := SearchResult{
		Algorithm:  res.Algorithm,
		Found:      res.Found,
		PathLength: res.PathLength(),
		Path:       path,
		Visited:    res.VisitedPositions(),
	}
	if res.Found {
		sr.Polyline = geo.PolylineFromPositions(path)
	}
	return sr
}

func positionOf(c *da.Cell) *da.Position {
	if c == nil {
		return nil
	}
	p := c.GetPosition()
	return &p
}

func snapshotOf(b *board) BoardSnapshot {
	e := b.engine
	g := e.GetGrid()
	return BoardSnapshot{
		ID:        b.id,
		Revision:  b.revision,
		CreatedAt: b.createdAt,
		Rows:      g.NumberOfRows(),
		Cols:      g.NumberOfCols(),
		Start:     positionOf(e.GetStart()),
		Target:    positionOf(e.GetTarget()),
		Walls:     g.Walls(),
		Path:      da.CellsToPositions(e.GetPath()),
		Cells:     e.Render(),
	}
}
