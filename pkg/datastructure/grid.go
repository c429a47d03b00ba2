package datastructure

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyGrid     = errors.New("grid must have at least one row and one column")
	ErrOutOfBounds   = errors.New("cell position is outside the grid")
	ErrMalformedGrid = errors.New("malformed grid layout")
)

// up, down, left, right. neighbor order is part of the DFS/BFS expansion order.
var neighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Grid owns a fixed rows x cols block of cells stored row-major. It is never resized.
type Grid struct {
	rows  int
	cols  int
	cells []*Cell
}

func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyGrid
	}

	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]*Cell, 0, rows*cols),
	}

	var seq Index
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			g.cells = append(g.cells, newCell(seq, i, j))
			seq++
		}
	}
	return g, nil
}

// NewGridFromResolution derives the grid size from a window resolution and a square cell size.
func NewGridFromResolution(width, height, cellSize int) (*Grid, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %d: %w", cellSize, ErrEmptyGrid)
	}
	return NewGrid(height/cellSize, width/cellSize)
}

func (g *Grid) NumberOfRows() int {
	return g.rows
}

func (g *Grid) NumberOfCols() int {
	return g.cols
}

func (g *Grid) NumberOfCells() int {
	return len(g.cells)
}

func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) GetCell(row, col int) (*Cell, error) {
	if !g.InBounds(row, col) {
		return nil, fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfBounds, row, col, g.rows, g.cols)
	}
	return g.cellAt(row, col), nil
}

func (g *Grid) GetCellAt(p Position) (*Cell, error) {
	return g.GetCell(p.Row, p.Col)
}

func (g *Grid) GetCellByID(id Index) *Cell {
	if int(id) >= len(g.cells) {
		return nil
	}
	return g.cells[id]
}

func (g *Grid) cellAt(row, col int) *Cell {
	return g.cells[row*g.cols+col]
}

// ForNeighborsOf calls handle for every in-bounds axis-aligned neighbor of c, in up, down, left, right order.
// walls are not filtered here.
func (g *Grid) ForNeighborsOf(c *Cell, handle func(n *Cell)) {
	for _, d := range neighborOffsets {
		nr, nc := c.row+d[0], c.col+d[1]
		if !g.InBounds(nr, nc) {
			continue
		}
		handle(g.cellAt(nr, nc))
	}
}

func (g *Grid) ForCells(handle func(c *Cell)) {
	for _, c := range g.cells {
		handle(c)
	}
}

func (g *Grid) SetWall(row, col int, wall bool) error {
	c, err := g.GetCell(row, col)
	if err != nil {
		return err
	}
	c.SetWall(wall)
	return nil
}

func (g *Grid) ClearWalls() {
	for _, c := range g.cells {
		c.SetWall(false)
	}
}

func (g *Grid) Walls() []Position {
	walls := make([]Position, 0)
	for _, c := range g.cells {
		if c.IsWall() {
			walls = append(walls, c.GetPosition())
		}
	}
	return walls
}

func (g *Grid) ResetSearchState() {
	for _, c := range g.cells {
		c.ResetSearchState()
	}
}

// Clone copies dimensions, identities, wall and target flags. Search state starts fresh.
func (g *Grid) Clone() *Grid {
	cg := &Grid{
		rows:  g.rows,
		cols:  g.cols,
		cells: make([]*Cell, len(g.cells)),
	}
	for i, c := range g.cells {
		nc := newCell(c.id, c.row, c.col)
		nc.wall = c.wall
		nc.target = c.target
		cg.cells[i] = nc
	}
	return cg
}
