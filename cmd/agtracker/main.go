package main

import (
	"context"
	"os"
	"time"

	"EnforcementTracker/internal/app"
	"EnforcementTracker/internal/config"
	"EnforcementTracker/internal/logging"
)

// defaultLookback bounds one batch run when no feed adapter narrows it.
const defaultLookback = 7 * 24 * time.Hour

func main() {
	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, nil, logger)
	if err != nil {
		logger.Error("cannot build application", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	since := time.Now().Add(-defaultLookback)
	stats, err := application.Run(ctx, since)
	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("run finished",
		"fetched", stats.Fetched,
		"processed", stats.Processed,
		"clusters", stats.Clusters)
}
