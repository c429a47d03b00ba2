package controllers

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/gridnav/pkg"
	"github.com/lintang-b-s/gridnav/pkg/engine/routing"
	helper "github.com/lintang-b-s/gridnav/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/gridnav/pkg/http/usecases"
	"go.uber.org/zap"
)

type boardAPI struct {
	responder
	boardService BoardService
	validate     *requestValidator
	log          *zap.Logger
}

func New(boardService BoardService, log *zap.Logger) *boardAPI {
	return &boardAPI{
		responder:    responder{log: log},
		boardService: boardService,
		validate:     newRequestValidator(),
		log:          log,
	}
}

func (api *boardAPI) Routes(group *helper.RouteGroup) {
	group.POST("/boards", api.createBoard)
	group.GET("/boards/:id", api.getBoard)
	group.DELETE("/boards/:id", api.deleteBoard)
	group.PUT("/boards/:id/layout", api.replaceLayout)
	group.POST("/boards/:id/walls", api.setWall)
	group.DELETE("/boards/:id/walls", api.clearWall)
	group.POST("/boards/:id/walls/toggle", api.toggleWall)
	group.POST("/boards/:id/click", api.click)
	group.PUT("/boards/:id/start", api.setStart)
	group.PUT("/boards/:id/target", api.setTarget)
	group.POST("/boards/:id/reset", api.reset)
	group.POST("/boards/:id/search", api.search)
	group.GET("/boards/:id/compare", api.compare)
}

// decode reads and validates the JSON body into dst, answering 400 on failure.
func (api *boardAPI) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := readJSON(w, r, dst); err != nil {
		api.BadRequestResponse(w, r, err)
		return false
	}
	if err := api.validate.Struct(dst); err != nil {
		api.BadRequestResponse(w, r, err)
		return false
	}
	return true
}

func (api *boardAPI) writeBoard(w http.ResponseWriter, r *http.Request, status int, board usecases.BoardSnapshot, err error) {
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := writeJSON(w, status, envelope{"data": NewBoardResponse(board)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

// createBoard
//
//	@Summary		create a board
//	@Description	create a rows x cols board. zero rows and cols use the configured grid.
//	@Tags			boards
//	@Param			body	body	createBoardRequest	true	"board size"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/boards [post]
//	@Success		201	{object}	boardResponse
//	@Failure		400	{object}	errorResponse
//	@Failure		500	{object}	errorResponse
func (api *boardAPI) createBoard(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request createBoardRequest
	if !api.decode(w, r, &request) {
		return
	}
	board, err := api.boardService.CreateBoard(request.Rows, request.Cols)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/api/boards/"+board.ID)
	if err := writeJSON(w, http.StatusCreated, envelope{"data": NewBoardResponse(board)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *boardAPI) getBoard(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	board, err := api.boardService.GetBoard(p.ByName("id"))
	api.writeBoard(w, r, http.StatusOK, board, err)
}

func (api *boardAPI) deleteBoard(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.boardService.DeleteBoard(p.ByName("id")); err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *boardAPI) replaceLayout(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request layoutRequest
	if !api.decode(w, r, &request) {
		return
	}
	board, err := api.boardService.ReplaceLayout(p.ByName("id"), request.Cells)
	api.writeBoard(w, r, http.StatusOK, board, err)
}

func (api *boardAPI) setWall(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request cellRequest
	if !api.decode(w, r, &request) {
		return
	}
	board, err := api.boardService.SetWall(p.ByName("id"), *request.Row, *request.Col)
	api.writeBoard(w, r, http.StatusOK, board, err)
}

func (api *boardAPI) clearWall(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request cellRequest
	if !api.decode(w, r, &request) {
		return
	}
	board, err := api.boardService.ClearWall(p.ByName("id"), *request.Row, *request.Col)
	api.writeBoard(w, r, http.StatusOK, board, err)
}

func (api *boardAPI) toggleWall(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request cellRequest
	if !api.decode(w, r, &request) {
		return
	}
	board, err := api.boardService.ToggleWall(p.ByName("id"), *request.Row, *request.Col)
	api.writeBoard(w, r, http.StatusOK, board, err)
}

// click
//
//	@Summary		mouse click on a cell
//	@Description	left paints a wall. right places start, then target, then erases walls.
//	@Tags			boards
//	@Param			id		path	string			true	"board id"
//	@Param			body	body	clickRequest	true	"click"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/boards/{id}/click [post]
//	@Success		200	{object}	boardResponse
//	@Failure		400	{object}	errorResponse
//	@Failure		404	{object}	errorResponse
//	@Failure		409	{object}	errorResponse
func (api *boardAPI) click(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request clickRequest
	if !api.decode(w, r, &request) {
		return
	}
	button := routing.LEFT_BUTTON
	if request.Button == "right" {
		button = routing.RIGHT_BUTTON
	}
	board, err := api.boardService.Click(p.ByName("id"), *request.Row, *request.Col, button)
	api.writeBoard(w, r, http.StatusOK, board, err)
}

func (api *boardAPI) setStart(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request cellRequest
	if !api.decode(w, r, &request) {
		return
	}
	board, err := api.boardService.SetStart(p.ByName("id"), *request.Row, *request.Col)
	api.writeBoard(w, r, http.StatusOK, board, err)
}

func (api *boardAPI) setTarget(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request cellRequest
	if !api.decode(w, r, &request) {
		return
	}
	board, err := api.boardService.SetTarget(p.ByName("id"), *request.Row, *request.Col)
	api.writeBoard(w, r, http.StatusOK, board, err)
}

func (api *boardAPI) reset(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	board, err := api.boardService.Reset(p.ByName("id"))
	api.writeBoard(w, r, http.StatusOK, board, err)
}

// search
//
//	@Summary		run a search algorithm on a board
//	@Description	runs an algorithm from start to target and stores the found path on the board.
//	@Tags			boards
//	@Param			id			path	string	true	"board id"
//	@Param			algorithm	query	string	true	"bfs | dfs | dijkstra | best_first | astar"
//	@Produce		application/json
//	@Router			/boards/{id}/search [post]
//	@Success		200	{object}	searchResponse
//	@Failure		400	{object}	errorResponse
//	@Failure		404	{object}	errorResponse
func (api *boardAPI) search(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request := searchRequest{Algorithm: r.URL.Query().Get("algorithm")}
	if err := api.validate.Struct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	algorithm := pkg.GetAlgorithm(request.Algorithm)
	if algorithm == pkg.UNKNOWN_ALGORITHM {
		api.BadRequestResponse(w, r, errors.New("unknown algorithm"))
		return
	}

	result, err := api.boardService.Search(p.ByName("id"), algorithm)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewSearchResponse(result)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}

func (api *boardAPI) compare(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	results, err := api.boardService.Compare(p.ByName("id"))
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, envelope{"data": NewCompareResponse(results)}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
