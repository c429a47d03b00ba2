package pkg

import "strings"

// enum of search algorithm
type Algorithm uint8

const (
	BFS Algorithm = iota
	DFS
	DIJKSTRA
	BEST_FIRST
	ASTAR
	UNKNOWN_ALGORITHM
)

const (
	INF_WEIGHT     float64 = 1e15
	UNIT_STEP_COST         = 1.0
)

// display defaults, 800x600 px window split into 20 px cells (30 rows x 40 cols)
const (
	DEFAULT_WIDTH     = 800
	DEFAULT_HEIGHT    = 600
	DEFAULT_CELL_SIZE = 20
	DEFAULT_STEP_MS   = 50
)

// Algorithms lists every algorithm in the order used by comparisons.
func Algorithms() []Algorithm {
	return []Algorithm{BFS, DFS, DIJKSTRA, BEST_FIRST, ASTAR}
}

func (a Algorithm) String() string {
	switch a {
	case BFS:
		return "bfs"
	case DFS:
		return "dfs"
	case DIJKSTRA:
		return "dijkstra"
	case BEST_FIRST:
		return "best_first"
	case ASTAR:
		return "astar"
	default:
		return "unknown"
	}
}

// GetAlgorithm maps an algorithm name or its keyboard shortcut to its enum value.
func GetAlgorithm(name string) Algorithm {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bfs", "breadth_first", "space":
		return BFS
	case "dfs", "depth_first", "d":
		return DFS
	case "dijkstra":
		return DIJKSTRA
	case "best_first", "bestfirst", "greedy", "b":
		return BEST_FIRST
	case "astar", "a_star", "a*", "a":
		return ASTAR
	default:
		return UNKNOWN_ALGORITHM
	}
}
