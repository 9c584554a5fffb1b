package extract

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"EnforcementTracker/internal/config"
	"EnforcementTracker/internal/domain"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	cfg := config.Load()
	b, err := NewBuilder(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

const settlementBody = `SACRAMENTO — March 12, 2024 — The Attorney General announced a $10 million settlement with Acme Corporation resolving allegations of deceptive advertising. The settlement includes civil penalties of $2 million and consumer restitution of $5 million. The complaint was filed on January 15, 2024 and alleged violations of the Unfair Competition Law.`

func TestBuildSettlementRecord(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	rec := b.Build(domain.RawDocument{
		Title:        "Attorney General Announces $10 Million Settlement with Acme Corporation",
		BodyText:     settlementBody,
		URL:          "https://oag.example.gov/press/acme",
		Jurisdiction: "CA",
	})

	if rec.ActionType != domain.ActionSettlement {
		t.Fatalf("action type: got %q", rec.ActionType)
	}
	if rec.Status != domain.StatusSettled {
		t.Fatalf("status: got %q", rec.Status)
	}
	if rec.Monetary == nil {
		t.Fatal("expected monetary terms")
	}
	if want := decimal.New(10, 6); !rec.Monetary.Total.Equal(want) {
		t.Fatalf("total: got %s, want %s", rec.Monetary.Total, want)
	}
	if rec.Monetary.CivilPenalty == nil || !rec.Monetary.CivilPenalty.Equal(decimal.New(2, 6)) {
		t.Fatalf("civil penalty: got %v", rec.Monetary.CivilPenalty)
	}
	if len(rec.Defendants) == 0 {
		t.Fatal("expected defendants")
	}
	if rec.DateFiled == nil {
		t.Fatal("expected a filed date")
	}
	if rec.DateAnnounced.Year() != 2024 || rec.DateAnnounced.Month() != time.March {
		t.Fatalf("announced: got %v", rec.DateAnnounced)
	}
	if rec.Summary == "" {
		t.Fatal("expected a summary")
	}
	if rec.ID == uuid.Nil {
		t.Fatal("expected a record id")
	}
}

func TestBuildLawsuitHasNoMonetaryTerms(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	rec := b.Build(domain.RawDocument{
		Title:        "Attorney General Sues MegaBank for Predatory Lending",
		BodyText:     "April 2, 2024 — The Attorney General filed a lawsuit against MegaBank alleging predatory lending. The complaint notes $2.3 billion in grants at stake for affected communities.",
		Jurisdiction: "NY",
	})

	if rec.ActionType != domain.ActionLawsuitFiled {
		t.Fatalf("action type: got %q", rec.ActionType)
	}
	if rec.Status != domain.StatusPending {
		t.Fatalf("status: got %q", rec.Status)
	}
	if rec.Monetary != nil {
		t.Fatalf("lawsuit records must not carry monetary terms, got %+v", rec.Monetary)
	}
}

func TestBuildUsesObservedDate(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	observed := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	rec := b.Build(domain.RawDocument{
		Title:        "Attorney General Announces Settlement with Acme",
		BodyText:     settlementBody,
		Jurisdiction: "CA",
		Observed:     &observed,
	})

	if !rec.DateAnnounced.Equal(observed) {
		t.Fatalf("announced: got %v, want %v", rec.DateAnnounced, observed)
	}
}

func TestBuildViolationCategories(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	rec := b.Build(domain.RawDocument{
		Title:        "Attorney General Announces Settlement with Acme for Data Breach",
		BodyText:     "June 1, 2024 — The settlement resolves claims that Acme failed to protect consumer data, exposing personal information in a data breach affecting millions.",
		Jurisdiction: "CA",
	})

	if len(rec.Categories) == 0 {
		t.Fatal("expected categories")
	}
	for _, c := range rec.Categories {
		if c.Confidence < 0 || c.Confidence > 1 {
			t.Fatalf("confidence out of range: %v", c.Confidence)
		}
	}
	found := false
	for _, c := range rec.Categories {
		if c.Category == "data_privacy" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a privacy category, got %+v", rec.Categories)
	}
}

func TestBuildOtherCategoryFallback(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	rec := b.Build(domain.RawDocument{
		Title:        "Attorney General Announces Settlement",
		BodyText:     "A short note with no further detail.",
		Jurisdiction: "CA",
	})

	if len(rec.Categories) != 1 || rec.Categories[0].Category != "other" {
		t.Fatalf("expected the other fallback, got %+v", rec.Categories)
	}
	if rec.Categories[0].Confidence != 0.3 {
		t.Fatalf("fallback confidence: got %v", rec.Categories[0].Confidence)
	}
}

func TestQualityScoreBounds(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	full := b.Build(domain.RawDocument{
		Title:        "Attorney General Announces $10 Million Settlement with Acme Corporation",
		BodyText:     settlementBody,
		Jurisdiction: "CA",
	})
	empty := b.Build(domain.RawDocument{
		Title:        "Untitled",
		BodyText:     "",
		Jurisdiction: "CA",
	})

	if full.QualityScore < 0 || full.QualityScore > 1 {
		t.Fatalf("score out of range: %v", full.QualityScore)
	}
	if empty.QualityScore < 0 || empty.QualityScore > 1 {
		t.Fatalf("score out of range: %v", empty.QualityScore)
	}
	if full.QualityScore <= empty.QualityScore {
		t.Fatalf("complete record must score higher: %v vs %v", full.QualityScore, empty.QualityScore)
	}
}

func TestSummaryFirstSentences(t *testing.T) {
	t.Parallel()

	body := "The Attorney General announced a settlement today. The agreement requires Acme to pay restitution. Consumers will receive refunds by mail. A fourth sentence should not appear in the summary."
	got := summarize(body)
	if got == "" {
		t.Fatal("expected a summary")
	}
	if len(got) >= len(body) {
		t.Fatal("summary must be shorter than the body")
	}
}
