package main

import (
	"fmt"
	"os"

	"github.com/reecen9696/casino-rollup/common"
	"github.com/reecen9696/casino-rollup/common/mzap"
	"github.com/reecen9696/casino-rollup/internal/bootstrap"
)

func main() {
	logger, err := mzap.InitializeLoggerWithError()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := bootstrap.LoadConfig(os.Args[1:])
	if err != nil {
		logger.Errorf("failed to load configuration: %v", err)
		_ = logger.Sync()
		os.Exit(1)
	}

	svc, err := bootstrap.NewService(cfg)
	if err != nil {
		logger.Errorf("failed to initialize sequencer service: %v", err)
		_ = logger.Sync()
		os.Exit(1)
	}

	launcher := common.NewLauncher(
		common.WithLogger(logger),
		common.RunApp("http", bootstrap.NewHTTPApp(svc)),
		common.RunApp("coordinator", bootstrap.NewCoordinatorApp(svc)),
	)

	launcher.Run()
}
