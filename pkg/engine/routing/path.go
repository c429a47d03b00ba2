package routing

import (
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/util"
)

// reconstructPath walks parent links from target back to start. A broken chain
// yields the partial chain without start. maxLen guards against parent cycles.
func reconstructPath(start, target *da.Cell, maxLen int) []*da.Cell {
	path := make([]*da.Cell, 0)
	cur := target
	for cur != nil && cur != start && len(path) <= maxLen {
		path = append(path, cur)
		cur = cur.GetParent()
	}
	if cur == start {
		path = append(path, start)
	}
	return util.ReverseG(path)
}

// reconstructPathCameFrom is reconstructPath over an explicit predecessor map.
func reconstructPathCameFrom(cameFrom map[da.Index]*da.Cell, start, target *da.Cell, maxLen int) []*da.Cell {
	path := make([]*da.Cell, 0)
	cur := target
	for cur != nil && cur != start && len(path) <= maxLen {
		path = append(path, cur)
		cur = cameFrom[cur.GetID()]
	}
	if cur == start {
		path = append(path, start)
	}
	return util.ReverseG(path)
}
