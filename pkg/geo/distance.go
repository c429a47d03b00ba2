package geo

import (
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/util"
)

// ManhattanDistance |Δrow| + |Δcol|. admissible and consistent for 4-connected unit-cost grids.
func ManhattanDistance(a, b da.Position) int {
	return util.Abs(a.Row-b.Row) + util.Abs(a.Col-b.Col)
}

func ManhattanDistanceCells(a, b *da.Cell) float64 {
	return float64(util.Abs(a.GetRow()-b.GetRow()) + util.Abs(a.GetCol()-b.GetCol()))
}
