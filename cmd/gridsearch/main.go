package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lintang-b-s/gridnav/pkg"
	da "github.com/lintang-b-s/gridnav/pkg/datastructure"
	"github.com/lintang-b-s/gridnav/pkg/engine/routing"
	"github.com/lintang-b-s/gridnav/pkg/logger"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"go.uber.org/zap"
)

var (
	gridFile      = flag.String("grid", "", "grid layout file (.txt or .bz2)")
	rows          = flag.Int("rows", 30, "rows of the blank grid used when -grid is not set")
	cols          = flag.Int("cols", 40, "columns of the blank grid used when -grid is not set")
	start         = flag.String("start", "", "start cell as row,col (overrides the layout)")
	target        = flag.String("target", "", "target cell as row,col (overrides the layout)")
	algorithmName = flag.String("algorithm", "astar", "bfs | dfs | dijkstra | best_first | astar")
	animate       = flag.Bool("animate", false, "print every search step")
	delay         = flag.Duration("delay", pkg.DEFAULT_STEP_MS*time.Millisecond, "pause between animated steps")
	out           = flag.String("out", "", "write the final board with the path drawn in to this file")
)

// newLogger loads .env and data/config first so LOG_LEVEL applies to the CLI too.
func newLogger() (*zap.Logger, error) {
	if err := util.ReadConfig(); err != nil {
		return nil, err
	}
	return logger.New()
}

const (
	CLOSED_CHAR   = 'o'
	FRONTIER_CHAR = '+'
)

func main() {
	flag.Parse()
	log, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	sugar := log.Sugar()

	algorithm := pkg.GetAlgorithm(*algorithmName)
	if algorithm == pkg.UNKNOWN_ALGORITHM {
		sugar.Fatalf("unknown algorithm %q", *algorithmName)
	}

	e, err := buildEngine(log)
	if err != nil {
		sugar.Fatalf("build grid: %v", err)
	}

	steps, err := e.Steps(algorithm)
	if err != nil {
		sugar.Fatalf("run %s: %v", algorithm, err)
	}

	closed := make(map[da.Index]struct{})
	var last routing.Step
	for step := range steps {
		if step.Status == routing.STEP_EXPANDED {
			c, _ := e.GetGrid().GetCellAt(*step.Expanded)
			closed[c.GetID()] = struct{}{}
		}
		if *animate {
			fmt.Fprint(os.Stdout, "\033[H\033[2J")
			printFrame(os.Stdout, e, closed, step)
			time.Sleep(*delay)
		}
		last = step
	}
	if !*animate {
		printFrame(os.Stdout, e, closed, last)
	}

	if *out != "" {
		if err := da.WriteRenderedGridFile(*out, e.Render()); err != nil {
			sugar.Fatalf("write %s: %v", *out, err)
		}
	}

	if last.Status != routing.STEP_FOUND {
		sugar.Infof("%s: target %s is unreachable from %s, %d cells expanded",
			algorithm, e.GetTarget(), e.GetStart(), len(closed))
		os.Exit(2)
	}
	sugar.Infof("%s: path of %d edges from %s to %s, %d cells expanded",
		algorithm, len(last.Path)-1, e.GetStart(), e.GetTarget(), len(closed))
}

func buildEngine(log *zap.Logger) (*routing.GridRoutingEngine, error) {
	var e *routing.GridRoutingEngine
	if *gridFile != "" {
		layout, err := da.ReadGridFile(*gridFile)
		if err != nil {
			return nil, err
		}
		e, err = routing.NewGridRoutingEngineFromLayout(layout, log)
		if err != nil {
			return nil, err
		}
	} else {
		grid, err := da.NewGrid(*rows, *cols)
		if err != nil {
			return nil, err
		}
		e = routing.NewGridRoutingEngine(grid, log)
		if err := e.SetTarget(*rows-1, *cols-1); err != nil {
			return nil, err
		}
	}

	if *start != "" {
		p, err := parsePosition(*start)
		if err != nil {
			return nil, err
		}
		if err = e.SetStart(p.Row, p.Col); err != nil {
			return nil, err
		}
	}
	if *target != "" {
		p, err := parsePosition(*target)
		if err != nil {
			return nil, err
		}
		if err = e.SetTarget(p.Row, p.Col); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func parsePosition(s string) (da.Position, error) {
	r, c, ok := strings.Cut(s, ",")
	if !ok {
		return da.Position{}, fmt.Errorf("position %q must be row,col", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return da.Position{}, fmt.Errorf("row of %q: %w", s, err)
	}
	col, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil {
		return da.Position{}, fmt.Errorf("col of %q: %w", s, err)
	}
	return da.NewPosition(row, col), nil
}

// printFrame draws walls '#', closed 'o', frontier '+', path '*' and the markers.
func printFrame(w io.Writer, e *routing.GridRoutingEngine, closed map[da.Index]struct{}, step routing.Step) {
	g := e.GetGrid()
	overlay := make(map[da.Index]byte, len(closed)+len(step.Frontier)+len(step.Path)+2)
	for id := range closed {
		overlay[id] = CLOSED_CHAR
	}
	mark := func(positions []da.Position, ch byte) {
		for _, p := range positions {
			if c, err := g.GetCellAt(p); err == nil {
				overlay[c.GetID()] = ch
			}
		}
	}
	mark(step.Frontier, FRONTIER_CHAR)
	mark(step.Path, da.PATH_CHAR)
	if s := e.GetStart(); s != nil {
		overlay[s.GetID()] = da.START_CHAR
	}
	if t := e.GetTarget(); t != nil {
		overlay[t.GetID()] = da.TARGET_CHAR
	}

	for _, line := range g.Render(overlay) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "step %d: %s\n", step.Seq, step.Status)
}
