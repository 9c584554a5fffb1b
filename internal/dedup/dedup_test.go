package dedup

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

func newTestComparer() *Comparer {
	return NewComparer(config.Load().Dedup, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func candidate(jurisdiction string, announced time.Time, defendants []string, total *decimal.Decimal, multistate bool) domain.DedupCandidate {
	return domain.DedupCandidate{
		ActionID:      uuid.New(),
		Jurisdiction:  jurisdiction,
		DateAnnounced: announced,
		Defendants:    defendants,
		TotalAmount:   total,
		Headline:      "AG Settles with Test Corp",
		Multistate:    multistate,
	}
}

func TestAmountsSimilar(t *testing.T) {
	t.Parallel()

	if !amountsSimilar(decimal.RequireFromString("1000000"), decimal.RequireFromString("1000000")) {
		t.Fatal("equal amounts are similar")
	}
	if !amountsSimilar(decimal.RequireFromString("1000000"), decimal.RequireFromString("950000")) {
		t.Fatal("amounts within 10% are similar")
	}
	if amountsSimilar(decimal.RequireFromString("1000000"), decimal.RequireFromString("800000")) {
		t.Fatal("amounts outside 10% are not similar")
	}
	if !amountsSimilar(decimal.Zero, decimal.Zero) {
		t.Fatal("two zeros are similar")
	}
	if amountsSimilar(decimal.Zero, decimal.RequireFromString("1000")) {
		t.Fatal("zero never matches a nonzero amount")
	}
}

func TestDefendantSimilarity(t *testing.T) {
	t.Parallel()

	if got := defendantSimilarity([]string{"Test Corp"}, []string{"Test Corp"}); got != 100 {
		t.Fatalf("exact: got %d", got)
	}
	if got := defendantSimilarity([]string{"Test Corporation"}, []string{"Test Corp"}); got < 70 {
		t.Fatalf("fuzzy: got %d", got)
	}
	if got := defendantSimilarity([]string{"Alpha Inc"}, []string{"Omega LLC"}); got >= 50 {
		t.Fatalf("unrelated: got %d", got)
	}
	if got := defendantSimilarity([]string{"Alpha Inc", "Test Corp"}, []string{"Test Corporation"}); got < 70 {
		t.Fatalf("best-of-lists: got %d", got)
	}
}

func TestCrossJurisdictionMatch(t *testing.T) {
	t.Parallel()
	c := newTestComparer()

	a := candidate("CA", day(2024, time.June, 1), []string{"Test Corp"}, amount("5000000"), false)
	b := candidate("NY", day(2024, time.June, 5), []string{"Test Corp"}, amount("5000000"), false)

	m, ok := c.Compare(a, b)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Type != domain.MatchCrossJurisdiction {
		t.Fatalf("type: got %q", m.Type)
	}
	if m.Confidence < 0.5 {
		t.Fatalf("confidence: got %v", m.Confidence)
	}
}

func TestDifferentDefendantsNoMatch(t *testing.T) {
	t.Parallel()
	c := newTestComparer()

	a := candidate("CA", day(2024, time.June, 1), []string{"Alpha Corp"}, nil, false)
	b := candidate("NY", day(2024, time.June, 1), []string{"Omega Inc"}, nil, false)
	if _, ok := c.Compare(a, b); ok {
		t.Fatal("unrelated defendants must not match")
	}
}

func TestDateOutsideWindowNoMatch(t *testing.T) {
	t.Parallel()
	c := newTestComparer()

	a := candidate("CA", day(2024, time.January, 1), []string{"Test Corp"}, nil, false)
	b := candidate("NY", day(2024, time.June, 1), []string{"Test Corp"}, nil, false)
	if _, ok := c.Compare(a, b); ok {
		t.Fatal("five months exceeds the default window")
	}
}

func TestNoDefendantsNoMatch(t *testing.T) {
	t.Parallel()
	c := newTestComparer()

	a := candidate("CA", day(2024, time.June, 1), nil, nil, false)
	b := candidate("CA", day(2024, time.June, 1), []string{"Test Corp"}, nil, false)
	if _, ok := c.Compare(a, b); ok {
		t.Fatal("a defendant-less candidate cannot match anything")
	}
}

func TestMultistateWiderWindow(t *testing.T) {
	t.Parallel()
	c := newTestComparer()

	a := candidate("CA", day(2023, time.January, 1), []string{"Opioid Corp"}, amount("26000000000"), true)
	b := candidate("NY", day(2024, time.June, 1), []string{"Opioid Corp"}, amount("26000000000"), true)

	m, ok := c.Compare(a, b)
	if !ok {
		t.Fatal("multistate pairs get the wide date window")
	}
	if m.Type != domain.MatchCrossJurisdiction {
		t.Fatalf("type: got %q", m.Type)
	}
}

func TestSameJurisdictionTemporalMatch(t *testing.T) {
	t.Parallel()
	c := newTestComparer()

	a := candidate("CA", day(2024, time.June, 1), []string{"Test Corp"}, amount("5000000"), false)
	b := candidate("CA", day(2024, time.June, 15), []string{"Test Corp"}, amount("5000000"), false)

	m, ok := c.Compare(a, b)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Type != domain.MatchSameJurisdictionTemporal {
		t.Fatalf("type: got %q", m.Type)
	}
}

func TestFindDuplicatesSortedByConfidence(t *testing.T) {
	t.Parallel()
	c := newTestComparer()

	candidates := []domain.DedupCandidate{
		candidate("CA", day(2024, time.June, 1), []string{"Acme"}, amount("1000000"), false),
		candidate("NY", day(2024, time.June, 5), []string{"Acme"}, amount("1000000"), false),
		candidate("TX", day(2024, time.June, 20), []string{"Acme"}, amount("999000"), false),
	}
	matches := c.FindDuplicates(candidates)
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	for i := 0; i+1 < len(matches); i++ {
		if matches[i].Confidence < matches[i+1].Confidence {
			t.Fatalf("matches not sorted: %v then %v", matches[i].Confidence, matches[i+1].Confidence)
		}
	}
}

func TestFindDuplicatesUniqueSet(t *testing.T) {
	t.Parallel()
	c := newTestComparer()

	candidates := []domain.DedupCandidate{
		candidate("CA", day(2024, time.June, 1), []string{"Alpha"}, nil, false),
		candidate("NY", day(2024, time.June, 1), []string{"Beta"}, nil, false),
		candidate("TX", day(2024, time.June, 1), []string{"Gamma"}, nil, false),
	}
	if matches := c.FindDuplicates(candidates); len(matches) != 0 {
		t.Fatalf("got %d matches, want 0", len(matches))
	}
}

func TestTwoJurisdictionCluster(t *testing.T) {
	t.Parallel()

	a := candidate("CA", day(2024, time.June, 1), []string{"Acme"}, amount("5000000"), true)
	b := candidate("NY", day(2024, time.June, 5), []string{"Acme"}, amount("5000000"), true)
	matches := []domain.DedupMatch{
		{ActionA: a.ActionID, ActionB: b.ActionID, Type: domain.MatchCrossJurisdiction, Confidence: 0.9},
	}

	clusters := ClusterMultistate([]domain.DedupCandidate{a, b}, matches)
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if len(clusters[0].ActionIDs) != 2 {
		t.Fatalf("got %d members, want 2", len(clusters[0].ActionIDs))
	}
	if len(clusters[0].Jurisdictions) != 2 {
		t.Fatalf("got jurisdictions %v, want CA and NY", clusters[0].Jurisdictions)
	}
	if !clusters[0].TotalSettlement.Equal(decimal.RequireFromString("5000000")) {
		t.Fatalf("total: got %s", clusters[0].TotalSettlement)
	}
}

func TestTransitiveCluster(t *testing.T) {
	t.Parallel()

	a := candidate("CA", day(2024, time.June, 1), []string{"Acme"}, nil, true)
	b := candidate("NY", day(2024, time.June, 5), []string{"Acme"}, nil, true)
	cc := candidate("TX", day(2024, time.June, 10), []string{"Acme"}, nil, true)
	matches := []domain.DedupMatch{
		{ActionA: a.ActionID, ActionB: b.ActionID, Type: domain.MatchCrossJurisdiction, Confidence: 0.9},
		{ActionA: b.ActionID, ActionB: cc.ActionID, Type: domain.MatchCrossJurisdiction, Confidence: 0.85},
	}

	clusters := ClusterMultistate([]domain.DedupCandidate{a, b, cc}, matches)
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if len(clusters[0].ActionIDs) != 3 {
		t.Fatalf("got %d members, want 3", len(clusters[0].ActionIDs))
	}
}

func TestTemporalMatchesNeverCluster(t *testing.T) {
	t.Parallel()

	a := candidate("CA", day(2024, time.June, 1), []string{"Acme"}, nil, false)
	b := candidate("CA", day(2024, time.June, 5), []string{"Acme"}, nil, false)
	matches := []domain.DedupMatch{
		{ActionA: a.ActionID, ActionB: b.ActionID, Type: domain.MatchSameJurisdictionTemporal, Confidence: 0.8},
	}

	if clusters := ClusterMultistate([]domain.DedupCandidate{a, b}, matches); len(clusters) != 0 {
		t.Fatalf("got %d clusters, want 0", len(clusters))
	}
}

func TestClusterLeadIsEarliestAnnouncer(t *testing.T) {
	t.Parallel()

	a := candidate("NY", day(2024, time.June, 10), []string{"Acme"}, nil, true)
	b := candidate("CA", day(2024, time.June, 1), []string{"Acme"}, nil, true)
	matches := []domain.DedupMatch{
		{ActionA: a.ActionID, ActionB: b.ActionID, Type: domain.MatchCrossJurisdiction, Confidence: 0.9},
	}

	clusters := ClusterMultistate([]domain.DedupCandidate{a, b}, matches)
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}
	if clusters[0].LeadJurisdiction != "CA" {
		t.Fatalf("lead: got %q, want CA", clusters[0].LeadJurisdiction)
	}
}
