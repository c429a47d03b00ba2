package engine

import (
	"github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine/routing"
	"go.uber.org/zap"
)

type Engine struct {
	template *datastructure.GridLayout
	logger   *zap.Logger
}

// GetTemplate returns a copy of the layout every new board starts from.
func (e *Engine) GetTemplate() *datastructure.GridLayout {
	return cloneLayout(e.template)
}

// NewEngine loads gridFilePath when it is set, otherwise builds an empty grid of
// width/cellSize columns and height/cellSize rows.
func NewEngine(gridFilePath string, width, height, cellSize int, logger *zap.Logger) (*Engine, error) {
	template, err := initializeTemplate(gridFilePath, width, height, cellSize, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{
		template: template,
		logger:   logger,
	}, nil
}

func initializeTemplate(gridFilePath string, width, height, cellSize int, logger *zap.Logger,
) (*datastructure.GridLayout, error) {
	if gridFilePath != "" {
		logger.Info("Reading grid from ", zap.String("gridFilePath", gridFilePath))
		layout, err := datastructure.ReadGridFile(gridFilePath)
		if err != nil {
			return nil, err
		}
		return layout, nil
	}

	logger.Info("Building empty grid",
		zap.Int("width", width), zap.Int("height", height), zap.Int("cellSize", cellSize))
	grid, err := datastructure.NewGridFromResolution(width, height, cellSize)
	if err != nil {
		return nil, err
	}
	return &datastructure.GridLayout{Grid: grid}, nil
}

// NewRoutingEngine hands out a board initialized from the template.
func (e *Engine) NewRoutingEngine() (*routing.GridRoutingEngine, error) {
	return routing.NewGridRoutingEngineFromLayout(cloneLayout(e.template), e.logger)
}

// NewRoutingEngineWithSize hands out an empty rows x cols board.
func (e *Engine) NewRoutingEngineWithSize(rows, cols int) (*routing.GridRoutingEngine, error) {
	grid, err := datastructure.NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	return routing.NewGridRoutingEngine(grid, e.logger), nil
}

func (e *Engine) NewRoutingEngineFromLayout(layout *datastructure.GridLayout) (*routing.GridRoutingEngine, error) {
	return routing.NewGridRoutingEngineFromLayout(layout, e.logger)
}

func cloneLayout(l *datastructure.GridLayout) *datastructure.GridLayout {
	cl := &datastructure.GridLayout{Grid: l.Grid.Clone()}
	if l.Start != nil {
		s := *l.Start
		cl.Start = &s
	}
	if l.Target != nil {
		t := *l.Target
		cl.Target = &t
	}
	return cl
}
