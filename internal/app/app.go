package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"EnforcementTracker/internal/classifier"
	"EnforcementTracker/internal/config"
	"EnforcementTracker/internal/dedup"
	"EnforcementTracker/internal/extract"
	"EnforcementTracker/internal/infrastructure/storage"
	"EnforcementTracker/internal/logging"
	"EnforcementTracker/internal/ports"
	"EnforcementTracker/internal/resolve"
	"EnforcementTracker/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	db       *sql.DB
}

// New builds a runnable application instance. The document source is
// injected by the caller; a nil source yields a pipeline that fetches
// nothing, which is useful for dry wiring checks.
func New(cfg config.Config, source ports.DocumentSource, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	cls, err := classifier.New(cfg.Filter, baseLogger.With("component", "classifier"))
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	builder, err := extract.NewBuilder(&cfg, baseLogger.With("component", "extract"))
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}

	resolver, err := resolve.New(cfg.Entities, cfg.Blocklist, baseLogger.With("component", "resolve"))
	if err != nil {
		return nil, fmt.Errorf("build resolver: %w", err)
	}

	var (
		repository ports.RecordRepository
		db         *sql.DB
	)
	if cfg.Database.DSN != "" {
		db, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repository = storage.NewPostgresRepository(db)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Repository: repository,
		Classifier: cls,
		Builder:    builder,
		Resolver:   resolver,
		Comparer:   dedup.NewComparer(cfg.Dedup, baseLogger.With("component", "dedup")),
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, pipeline: pipeline, db: db}, nil
}

// Run performs a single batch over documents published since the given time.
func (a *Application) Run(ctx context.Context, since time.Time) (usecase.RunStats, error) {
	if a.pipeline == nil {
		return usecase.RunStats{}, nil
	}

	return a.pipeline.ProcessBatch(ctx, since)
}

// Close releases the database handle, if one was opened.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}

	return a.db.Close()
}
