package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"EnforcementTracker/internal/classifier"
	"EnforcementTracker/internal/config"
	"EnforcementTracker/internal/dedup"
	"EnforcementTracker/internal/domain"
	"EnforcementTracker/internal/extract"
	"EnforcementTracker/internal/resolve"
)

type fakeSource struct {
	docs []domain.RawDocument
	err  error
}

func (s *fakeSource) FetchSince(_ context.Context, _ time.Time) ([]domain.RawDocument, error) {
	return s.docs, s.err
}

type fakeRepo struct {
	processed map[string]bool
	records   []domain.EnforcementRecord
	clusters  []domain.MultistateCluster
}

func (r *fakeRepo) AlreadyProcessed(_ context.Context, urls []string) (map[string]bool, error) {
	out := map[string]bool{}
	for _, url := range urls {
		if r.processed[url] {
			out[url] = true
		}
	}
	return out, nil
}

func (r *fakeRepo) SaveRecord(_ context.Context, record domain.EnforcementRecord) error {
	r.records = append(r.records, record)
	return nil
}

func (r *fakeRepo) SaveCluster(_ context.Context, cluster domain.MultistateCluster) error {
	r.clusters = append(r.clusters, cluster)
	return nil
}

func newTestPipeline(t *testing.T, source *fakeSource, repo *fakeRepo) *Pipeline {
	t.Helper()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cls, err := classifier.New(cfg.Filter, logger)
	if err != nil {
		t.Fatalf("classifier.New: %v", err)
	}
	builder, err := extract.NewBuilder(&cfg, logger)
	if err != nil {
		t.Fatalf("extract.NewBuilder: %v", err)
	}
	resolver, err := resolve.New(cfg.Entities, cfg.Blocklist, logger)
	if err != nil {
		t.Fatalf("resolve.New: %v", err)
	}

	return NewPipeline(PipelineDeps{
		Source:     source,
		Repository: repo,
		Classifier: cls,
		Builder:    builder,
		Resolver:   resolver,
		Comparer:   dedup.NewComparer(cfg.Dedup, logger),
		Logger:     logger,
	})
}

const caBody = `SACRAMENTO — March 12, 2024 — The Attorney General announced a $10 million settlement with Acme Corporation resolving allegations of deceptive advertising. The settlement includes civil penalties of $2 million.`

const nyBody = `NEW YORK — March 20, 2024 — The Attorney General announced a $10 million settlement with Acme Corporation over deceptive advertising claims. The settlement resolves the state's investigation.`

func TestProcessBatchLinksCrossJurisdictionActions(t *testing.T) {
	t.Parallel()

	source := &fakeSource{docs: []domain.RawDocument{
		{
			Title:        "Attorney General Announces $10 Million Settlement with Acme Corporation",
			BodyText:     caBody,
			URL:          "https://oag.ca.example.gov/press/acme",
			Jurisdiction: "CA",
		},
		{
			Title:        "Attorney General Announces $10 Million Settlement with Acme Corporation",
			BodyText:     nyBody,
			URL:          "https://ag.ny.example.gov/press/acme",
			Jurisdiction: "NY",
		},
		{
			Title:        "AG Warns Consumers of Surge in Text-Based Toll Scam Activity",
			BodyText:     "The Attorney General reminds consumers to be aware of scam texts.",
			URL:          "https://oag.ca.example.gov/press/scam-alert",
			Jurisdiction: "CA",
		},
	}}
	repo := &fakeRepo{}
	p := newTestPipeline(t, source, repo)

	stats, err := p.ProcessBatch(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}

	if stats.Fetched != 3 || stats.Rejected != 1 || stats.Processed != 2 {
		t.Fatalf("stats: %+v", stats)
	}
	if len(repo.records) != 2 {
		t.Fatalf("saved records: got %d", len(repo.records))
	}
	if stats.Clusters != 1 || len(repo.clusters) != 1 {
		t.Fatalf("expected one multistate cluster, stats %+v", stats)
	}
}

func TestProcessBatchStampsClusterID(t *testing.T) {
	t.Parallel()

	source := &fakeSource{docs: []domain.RawDocument{
		{
			Title:        "Attorney General Announces $10 Million Settlement with Acme Corporation",
			BodyText:     caBody,
			URL:          "https://oag.ca.example.gov/press/acme",
			Jurisdiction: "CA",
		},
		{
			Title:        "Attorney General Announces $10 Million Settlement with Acme Corporation",
			BodyText:     nyBody,
			URL:          "https://ag.ny.example.gov/press/acme",
			Jurisdiction: "NY",
		},
	}}
	repo := &fakeRepo{}
	p := newTestPipeline(t, source, repo)

	if _, err := p.ProcessBatch(context.Background(), time.Time{}); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(repo.clusters) != 1 {
		t.Fatalf("clusters: got %d", len(repo.clusters))
	}

	clusterID := repo.clusters[0].ID
	for _, record := range repo.records {
		if record.MultistateClusterID == nil || *record.MultistateClusterID != clusterID {
			t.Fatalf("record %s missing cluster id", record.SourceURL)
		}
	}
	if got := len(repo.clusters[0].Jurisdictions); got != 2 {
		t.Fatalf("cluster jurisdictions: got %d", got)
	}
}

func TestProcessBatchSkipsAlreadyProcessed(t *testing.T) {
	t.Parallel()

	url := "https://oag.ca.example.gov/press/acme"
	source := &fakeSource{docs: []domain.RawDocument{{
		Title:        "Attorney General Announces $10 Million Settlement with Acme Corporation",
		BodyText:     caBody,
		URL:          url,
		Jurisdiction: "CA",
	}}}
	repo := &fakeRepo{processed: map[string]bool{url: true}}
	p := newTestPipeline(t, source, repo)

	stats, err := p.ProcessBatch(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if stats.Skipped != 1 || stats.Processed != 0 {
		t.Fatalf("stats: %+v", stats)
	}
	if len(repo.records) != 0 {
		t.Fatalf("expected no saved records, got %d", len(repo.records))
	}
}

func TestProcessBatchResolvesDefendants(t *testing.T) {
	t.Parallel()

	source := &fakeSource{docs: []domain.RawDocument{{
		Title:        "Attorney General Announces $10 Million Settlement with Acme Corporation",
		BodyText:     caBody,
		URL:          "https://oag.ca.example.gov/press/acme",
		Jurisdiction: "CA",
	}}}
	repo := &fakeRepo{}
	p := newTestPipeline(t, source, repo)

	if _, err := p.ProcessBatch(context.Background(), time.Time{}); err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if len(repo.records) != 1 {
		t.Fatalf("records: got %d", len(repo.records))
	}

	record := repo.records[0]
	if len(record.Defendants) == 0 {
		t.Fatal("expected defendants")
	}
	for _, mention := range record.Defendants {
		if mention.CanonicalName == "" {
			t.Fatalf("mention %q not canonicalized", mention.RawName)
		}
		if mention.Confidence <= 0 {
			t.Fatalf("mention %q has zero confidence", mention.RawName)
		}
	}
}

func TestProcessBatchExtractsHTMLBody(t *testing.T) {
	t.Parallel()

	source := &fakeSource{docs: []domain.RawDocument{{
		Title:        "Attorney General Announces $10 Million Settlement with Acme Corporation",
		BodyHTML:     "<html><body><p>" + caBody + "</p><script>x()</script></body></html>",
		URL:          "https://oag.ca.example.gov/press/acme",
		Jurisdiction: "CA",
	}}}
	repo := &fakeRepo{}
	p := newTestPipeline(t, source, repo)

	stats, err := p.ProcessBatch(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if stats.Processed != 1 {
		t.Fatalf("stats: %+v", stats)
	}
	if repo.records[0].RawText == "" {
		t.Fatal("expected extracted body text")
	}
}

func TestProcessBatchSourceError(t *testing.T) {
	t.Parallel()

	source := &fakeSource{err: errors.New("feed unavailable")}
	p := newTestPipeline(t, source, &fakeRepo{})

	if _, err := p.ProcessBatch(context.Background(), time.Time{}); err == nil {
		t.Fatal("expected error from source")
	}
}

func TestProcessBatchNilDeps(t *testing.T) {
	t.Parallel()

	p := NewPipeline(PipelineDeps{})
	stats, err := p.ProcessBatch(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("ProcessBatch: %v", err)
	}
	if stats.Fetched != 0 {
		t.Fatalf("stats: %+v", stats)
	}
}
