package controllers

import (
	"time"

	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/http/usecases"
)

type createBoardRequest struct {
	Rows int `json:"rows" validate:"min=0,max=1000"`
	Cols int `json:"cols" validate:"min=0,max=1000"`
}

type cellRequest struct {
	Row *int `json:"row" validate:"required,min=0"`
	Col *int `json:"col" validate:"required,min=0"`
}

type clickRequest struct {
	Row    *int   `json:"row" validate:"required,min=0"`
	Col    *int   `json:"col" validate:"required,min=0"`
	Button string `json:"button" validate:"required,oneof=left right"`
}

type layoutRequest struct {
	Cells []string `json:"cells" validate:"required,min=1,dive,required"`
}

type searchRequest struct {
	Algorithm string `json:"algorithm" validate:"required,oneof=bfs dfs dijkstra best_first astar"`
}

type streamRequest struct {
	BoardID     string `json:"board_id" validate:"required,uuid"`
	Algorithm   string `json:"algorithm" validate:"required,oneof=bfs dfs dijkstra best_first astar"`
	StepDelayMs int    `json:"step_delay_ms" validate:"min=0,max=10000"`
}

type boardResponse struct {
	ID        string        `json:"id"`
	Revision  uint64        `json:"revision"`
	CreatedAt time.Time     `json:"created_at"`
	Rows      int           `json:"rows"`
	Cols      int           `json:"cols"`
	Start     *da.Position  `json:"start"`
	Target    *da.Position  `json:"target"`
	Walls     []da.Position `json:"walls"`
	Path      []da.Position `json:"path"`
	Cells     []string      `json:"cells"`
}

func NewBoardResponse(b usecases.BoardSnapshot) boardResponse {
	return boardResponse{
		ID:        b.ID,
		Revision:  b.Revision,
		CreatedAt: b.CreatedAt,
		Rows:      b.Rows,
		Cols:      b.Cols,
		Start:     b.Start,
		Target:    b.Target,
		Walls:     b.Walls,
		Path:      b.Path,
		Cells:     b.Cells,
	}
}

type searchResponse struct {
	Algorithm  string        `json:"algorithm"`
	Found      bool          `json:"found"`
	PathLength int           `json:"path_length"`
	Path       []da.Position `json:"path"`
	Polyline   string        `json:"polyline,omitempty"`
	Visited    int           `json:"visited"`
}

func NewSearchResponse(r usecases.SearchResult) searchResponse {
	return searchResponse{
		Algorithm:  r.Algorithm.String(),
		Found:      r.Found,
		PathLength: r.PathLength,
		Path:       r.Path,
		Polyline:   r.Polyline,
		Visited:    len(r.Visited),
	}
}

func NewCompareResponse(results []usecases.SearchResult) []searchResponse {
	resp := make([]searchResponse, len(results))
	for i, r := range results {
		resp[i] = NewSearchResponse(r)
	}
	return resp
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
