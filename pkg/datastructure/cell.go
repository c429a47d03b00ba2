package datastructure

import (
	"fmt"

	"github.com/lintang-b-s/gridnav/pkg"
)

type Index uint32

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewPosition(row, col int) Position {
	return Position{Row: row, Col: col}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Cell is one grid position. row, col and id are fixed at creation, the rest is search state.
type Cell struct {
	id       Index
	row      int
	col      int
	wall     bool
	target   bool
	distance float64
	parent   *Cell
}

func newCell(id Index, row, col int) *Cell {
	return &Cell{
		id:       id,
		row:      row,
		col:      col,
		distance: pkg.INF_WEIGHT,
	}
}

func (c *Cell) GetID() Index {
	return c.id
}

func (c *Cell) GetRow() int {
	return c.row
}

func (c *Cell) GetCol() int {
	return c.col
}

func (c *Cell) GetPosition() Position {
	return Position{Row: c.row, Col: c.col}
}

func (c *Cell) IsWall() bool {
	return c.wall
}

func (c *Cell) SetWall(wall bool) {
	c.wall = wall
}

func (c *Cell) IsTarget() bool {
	return c.target
}

func (c *Cell) SetTarget(target bool) {
	c.target = target
}

func (c *Cell) GetDistance() float64 {
	return c.distance
}

func (c *Cell) SetDistance(distance float64) {
	c.distance = distance
}

func (c *Cell) GetParent() *Cell {
	return c.parent
}

func (c *Cell) SetParent(parent *Cell) {
	c.parent = parent
}

func (c *Cell) ResetSearchState() {
	c.distance = pkg.INF_WEIGHT
	c.parent = nil
}

// IsAdjacent reports whether c and other share an edge (no diagonals).
func (c *Cell) IsAdjacent(other *Cell) bool {
	dr := c.row - other.row
	dc := c.col - other.col
	return (dr == 0 && (dc == 1 || dc == -1)) || (dc == 0 && (dr == 1 || dr == -1))
}

func (c *Cell) String() string {
	return c.GetPosition().String()
}

func CellsToPositions(cells []*Cell) []Position {
	positions := make([]Position, len(cells))
	for i, c := range cells {
		positions[i] = c.GetPosition()
	}
	return positions
}
