package routing

import (
	"github.com/lintang-b-s/gridnav/pkg"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
)

type StepStatus string

const (
	STEP_EXPANDED  StepStatus = "expanded"
	STEP_FOUND     StepStatus = "found"
	STEP_EXHAUSTED StepStatus = "exhausted"
)

// Step is one observable search iteration. Frontier holds the open cells in creation order.
type Step struct {
	Seq      int           `json:"seq"`
	Status   StepStatus    `json:"status"`
	Expanded *da.Position  `json:"expanded,omitempty"`
	Frontier []da.Position `json:"frontier"`
	Path     []da.Position `json:"path,omitempty"`
}

func (s Step) IsFinal() bool {
	return s.Status == STEP_FOUND || s.Status == STEP_EXHAUSTED
}

type Result struct {
	Algorithm       pkg.Algorithm
	Path            []*da.Cell
	Visited         []*da.Cell
	NumSettledNodes int
	Found           bool
	Aborted         bool
}

// PathLength is the number of edges on the path, -1 when no path was found.
func (r Result) PathLength() int {
	if !r.Found {
		return -1
	}
	return len(r.Path) - 1
}

func (r Result) PathPositions() []da.Position {
	return da.CellsToPositions(r.Path)
}

func (r Result) VisitedPositions() []da.Position {
	return da.CellsToPositions(r.Visited)
}
