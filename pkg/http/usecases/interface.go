package usecases

import (
	"github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine/routing"
)

type RoutingEngineFactory interface {
	NewRoutingEngine() (*routing.GridRoutingEngine, error)
	NewRoutingEngineWithSize(rows, cols int) (*routing.GridRoutingEngine, error)
	NewRoutingEngineFromLayout(layout *datastructure.GridLayout) (*routing.GridRoutingEngine, error)
}
