package main

import (
	"context"
	"flag"

	"github.com/lintang-b-s/gridnav/pkg/engine"
	"github.com/lintang-b-s/gridnav/pkg/http"
	"github.com/lintang-b-s/gridnav/pkg/http/usecases"
	"github.com/lintang-b-s/gridnav/pkg/logger"
	"github.com/lintang-b-s/gridnav/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	gridFile     = flag.String("grid", "", "grid layout file (.txt or .bz2), overrides GRID_FILE")
	useRateLimit = flag.Bool("ratelimit", true, "rate limit the REST API")
)

func main() {
	flag.Parse()
	if err := util.ReadConfig(); err != nil {
		panic(err)
	}
	if *gridFile != "" {
		viper.Set("GRID_FILE", *gridFile)
	}

	logger, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gridEngine, err := engine.NewEngine(viper.GetString("GRID_FILE"),
		viper.GetInt("GRID_WIDTH"), viper.GetInt("GRID_HEIGHT"), viper.GetInt("CELL_SIZE"), logger)
	if err != nil {
		logger.Fatal("failed to build grid engine", zap.Error(err))
	}

	boardService, err := usecases.NewBoardService(logger, gridEngine,
		viper.GetInt("MAX_BOARDS"), viper.GetInt("RESULT_CACHE_SIZE"))
	if err != nil {
		logger.Fatal("failed to build board service", zap.Error(err))
	}

	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}

	api := http.NewServer(logger)
	if _, err := api.Use(ctx, logger, *useRateLimit, boardService); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	signal := http.GracefulShutdown()
	cleanup()
	if err := api.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}

	logger.Info("gridnav server stopped", zap.String("signal", signal.String()))
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
