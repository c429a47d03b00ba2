package geo

import (
	"fmt"
	"math"

	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/twpayne/go-polyline"
)

// PolylineFromPositions encodes a cell path as a Google encoded polyline with (row, col) in place of (lat, lon).
func PolylineFromPositions(path []da.Position) string {
	coords := make([][]float64, len(path))
	for i, p := range path {
		coords[i] = []float64{float64(p.Row), float64(p.Col)}
	}
	return string(polyline.EncodeCoords(coords))
}

func PositionsFromPolyline(encoded string) ([]da.Position, error) {
	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trailing bytes after polyline: %q", rest)
	}
	path := make([]da.Position, len(coords))
	for i, c := range coords {
		path[i] = da.NewPosition(int(math.Round(c[0])), int(math.Round(c[1])))
	}
	return path, nil
}
