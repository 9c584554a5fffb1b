package ports

import (
	"context"
	"time"

	"EnforcementTracker/internal/domain"
)

// DocumentSource pulls raw press releases from upstream AG office feeds.
type DocumentSource interface {
	FetchSince(ctx context.Context, since time.Time) ([]domain.RawDocument, error)
}

// RecordRepository persists enforcement records for deduplication/history.
type RecordRepository interface {
	AlreadyProcessed(ctx context.Context, urls []string) (map[string]bool, error)
	SaveRecord(ctx context.Context, record domain.EnforcementRecord) error
	SaveCluster(ctx context.Context, cluster domain.MultistateCluster) error
}
