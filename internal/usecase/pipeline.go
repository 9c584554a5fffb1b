package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"EnforcementTracker/internal/classifier"
	"EnforcementTracker/internal/dedup"
	"EnforcementTracker/internal/domain"
	"EnforcementTracker/internal/extract"
	"EnforcementTracker/internal/ports"
	"EnforcementTracker/internal/resolve"
	"EnforcementTracker/internal/textutil"
)

// PipelineDeps wires all collaborators into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.DocumentSource
	Repository ports.RecordRepository
	Classifier *classifier.Classifier
	Builder    *extract.Builder
	Resolver   *resolve.Resolver
	Comparer   *dedup.Comparer
	Logger     *slog.Logger
}

// Pipeline implements the press-release ingestion workflow.
type Pipeline struct {
	source     ports.DocumentSource
	repository ports.RecordRepository
	classifier *classifier.Classifier
	builder    *extract.Builder
	resolver   *resolve.Resolver
	comparer   *dedup.Comparer
	logger     *slog.Logger
}

// RunStats is the accounting for one batch run.
type RunStats struct {
	Fetched   int
	Skipped   int
	Rejected  int
	Errors    int
	Processed int
	Matches   int
	Clusters  int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		source:     deps.Source,
		repository: deps.Repository,
		classifier: deps.Classifier,
		builder:    deps.Builder,
		resolver:   deps.Resolver,
		comparer:   deps.Comparer,
		logger:     logger,
	}
}

// ProcessBatch fetches documents published since the given time and runs
// them through classification, extraction, entity resolution, and
// deduplication. Failures on a single document are logged and do not
// abort the batch.
func (p *Pipeline) ProcessBatch(ctx context.Context, since time.Time) (RunStats, error) {
	var stats RunStats
	if p.source == nil {
		return stats, nil
	}

	docs, err := p.source.FetchSince(ctx, since)
	if err != nil {
		return stats, fmt.Errorf("fetch documents: %w", err)
	}
	stats.Fetched = len(docs)

	urls := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.URL != "" {
			urls = append(urls, doc.URL)
		}
	}

	skip := map[string]bool{}
	if p.repository != nil && len(urls) > 0 {
		skip, err = p.repository.AlreadyProcessed(ctx, urls)
		if err != nil {
			return stats, fmt.Errorf("load processed: %w", err)
		}
	}

	var records []domain.EnforcementRecord
	for _, doc := range docs {
		if doc.URL != "" && skip[doc.URL] {
			stats.Skipped++
			continue
		}

		record, outcome := p.processDocument(doc)
		switch outcome {
		case outcomeRejected:
			stats.Rejected++
		case outcomeError:
			stats.Errors++
		case outcomeAccepted:
			records = append(records, record)
		}
	}
	stats.Processed = len(records)

	matches, clusters := p.linkRecords(records)
	stats.Matches = len(matches)
	stats.Clusters = len(clusters)

	if p.repository != nil {
		for i := range records {
			if err := p.repository.SaveRecord(ctx, records[i]); err != nil {
				return stats, fmt.Errorf("persist record %s: %w", records[i].SourceURL, err)
			}
		}
		for _, cluster := range clusters {
			if err := p.repository.SaveCluster(ctx, cluster); err != nil {
				return stats, fmt.Errorf("persist cluster %s: %w", cluster.ID, err)
			}
		}
	}

	p.logger.Info("batch complete",
		"fetched", stats.Fetched,
		"skipped", stats.Skipped,
		"rejected", stats.Rejected,
		"errors", stats.Errors,
		"processed", stats.Processed,
		"matches", stats.Matches,
		"clusters", stats.Clusters)

	return stats, nil
}

type documentOutcome int

const (
	outcomeAccepted documentOutcome = iota
	outcomeRejected
	outcomeError
)

// processDocument runs one document through the per-record stages. A panic
// inside an extractor is contained here so one malformed page cannot take
// down the batch.
func (p *Pipeline) processDocument(doc domain.RawDocument) (record domain.EnforcementRecord, outcome documentOutcome) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("document processing panicked", "url", doc.URL, "panic", r)
			outcome = outcomeError
		}
	}()

	if doc.BodyText == "" && doc.BodyHTML != "" {
		text, err := textutil.HTMLToText(doc.BodyHTML)
		if err != nil {
			p.logger.Warn("cannot extract body text", "url", doc.URL, "error", err)
			return domain.EnforcementRecord{}, outcomeError
		}
		doc.BodyText = text
	}

	if p.classifier != nil {
		result := p.classifier.Classify(doc.Title, doc.BodyText)
		if !result.IsEnforcement {
			p.logger.Debug("document rejected",
				"url", doc.URL, "stage", result.Stage, "reason", result.Reason)
			return domain.EnforcementRecord{}, outcomeRejected
		}
	}

	if p.builder == nil {
		return domain.EnforcementRecord{}, outcomeRejected
	}

	record = p.builder.Build(doc)
	record.ResetDerived()
	p.resolveDefendants(&record)

	return record, outcomeAccepted
}

// resolveDefendants canonicalizes every mention in place and drops mentions
// the resolver rejects as non-entities.
func (p *Pipeline) resolveDefendants(record *domain.EnforcementRecord) {
	if p.resolver == nil || len(record.Defendants) == 0 {
		return
	}

	kept := record.Defendants[:0]
	for _, mention := range record.Defendants {
		canonical, confidence := p.resolver.Resolve(mention.RawName)
		if canonical == "" {
			continue
		}
		mention.CanonicalName = canonical
		mention.Confidence = confidence
		kept = append(kept, mention)
	}
	record.Defendants = kept
}

// linkRecords runs pairwise duplicate detection over the batch and stamps
// multistate cluster membership back onto the records.
func (p *Pipeline) linkRecords(records []domain.EnforcementRecord) ([]domain.DedupMatch, []domain.MultistateCluster) {
	if p.comparer == nil || len(records) < 2 {
		return nil, nil
	}

	candidates := make([]domain.DedupCandidate, 0, len(records))
	byID := make(map[uuid.UUID]*domain.EnforcementRecord, len(records))
	for i := range records {
		candidates = append(candidates, dedup.CandidateFor(&records[i]))
		byID[records[i].ID] = &records[i]
	}

	matches := p.comparer.FindDuplicates(candidates)
	clusters := dedup.ClusterMultistate(candidates, matches)

	for ci := range clusters {
		cluster := &clusters[ci]
		for _, id := range cluster.ActionIDs {
			if record, ok := byID[id]; ok {
				record.MultistateClusterID = &cluster.ID
			}
		}
	}

	return matches, clusters
}
