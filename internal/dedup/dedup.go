// Package dedup detects when the same enforcement action appears more than
// once in the record set: reported independently by multiple jurisdictions,
// or reported twice by one jurisdiction at different lifecycle stages.
package dedup

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/shopspring/decimal"

	"EnforcementTracker/internal/config"
	"EnforcementTracker/internal/domain"
)

const (
	minConfidence     = 0.5
	headlineThreshold = 70
)

// Comparer performs pairwise duplicate detection over dedup candidates.
// Stateless and safe for concurrent use.
type Comparer struct {
	dateWindowDays       int
	multistateWindowDays int
	defendantThreshold   int
	log                  *slog.Logger
}

func NewComparer(cfg config.DedupConfig, logger *slog.Logger) *Comparer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Comparer{
		dateWindowDays:       cfg.DateWindowDays,
		multistateWindowDays: cfg.MultistateWindowDays,
		defendantThreshold:   cfg.DefendantThreshold,
		log:                  logger,
	}
}

// FindDuplicates compares all pairs and returns matches sorted by
// confidence descending. O(n²), fine for thousands of records.
func (c *Comparer) FindDuplicates(candidates []domain.DedupCandidate) []domain.DedupMatch {
	var matches []domain.DedupMatch
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if m, ok := c.Compare(candidates[i], candidates[j]); ok {
				matches = append(matches, m)
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	c.log.Debug("pairwise dedup finished", "candidates", len(candidates), "matches", len(matches))
	return matches
}

// Compare scores one candidate pair. A pair needs defendants on both sides,
// an announcement gap inside the applicable window, and a defendant-name
// similarity at or above the threshold before confidence is even computed.
func (c *Comparer) Compare(a, b domain.DedupCandidate) (domain.DedupMatch, bool) {
	window := c.window(a, b)

	gap := int(math.Abs(a.DateAnnounced.Sub(b.DateAnnounced).Hours()) / 24)
	if gap > window {
		return domain.DedupMatch{}, false
	}
	if len(a.Defendants) == 0 || len(b.Defendants) == 0 {
		return domain.DedupMatch{}, false
	}

	defendantScore := defendantSimilarity(a.Defendants, b.Defendants)
	if defendantScore < c.defendantThreshold {
		return domain.DedupMatch{}, false
	}

	confidence := 0.0
	var reasons []string

	confidence += 0.4 * float64(defendantScore) / 100.0
	reasons = append(reasons, fmt.Sprintf("defendants=%d%%", defendantScore))

	confidence += 0.2 * (1.0 - float64(gap)/float64(window))
	reasons = append(reasons, fmt.Sprintf("date_diff=%dd", gap))

	if a.TotalAmount != nil && b.TotalAmount != nil {
		if a.TotalAmount.Equal(*b.TotalAmount) {
			confidence += 0.3
			reasons = append(reasons, "exact_amount_match")
		} else if amountsSimilar(*a.TotalAmount, *b.TotalAmount) {
			confidence += 0.15
			reasons = append(reasons, "similar_amount")
		}
	}

	headlineScore := fuzzy.TokenSortRatio(strings.ToLower(a.Headline), strings.ToLower(b.Headline))
	if headlineScore > headlineThreshold {
		confidence += 0.1 * float64(headlineScore) / 100.0
		reasons = append(reasons, fmt.Sprintf("headline=%d%%", headlineScore))
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < minConfidence {
		return domain.DedupMatch{}, false
	}

	matchType := domain.MatchSameJurisdictionTemporal
	if a.Jurisdiction != b.Jurisdiction {
		matchType = domain.MatchCrossJurisdiction
	}

	return domain.DedupMatch{
		ActionA:    a.ActionID,
		ActionB:    b.ActionID,
		Type:       matchType,
		Confidence: math.Round(confidence*1000) / 1000,
		Reason:     strings.Join(reasons, "; "),
	}, true
}

// window picks the date window for a pair. Two independently
// multistate-flagged candidates from different jurisdictions get the wide
// window; real multistate settlements are announced months to years apart.
func (c *Comparer) window(a, b domain.DedupCandidate) int {
	if a.Multistate && b.Multistate && a.Jurisdiction != b.Jurisdiction {
		return c.multistateWindowDays
	}
	return c.dateWindowDays
}

// defendantSimilarity returns the best pairwise name score across both
// candidate lists, 0 to 100.
func defendantSimilarity(defsA, defsB []string) int {
	best := 0
	for _, nameA := range defsA {
		for _, nameB := range defsB {
			score := fuzzy.TokenSortRatio(strings.ToLower(nameA), strings.ToLower(nameB))
			if score > best {
				best = score
			}
		}
	}
	return best
}

// amountsSimilar reports whether two amounts are within 10% of each other.
func amountsSimilar(a, b decimal.Decimal) bool {
	if a.IsZero() || b.IsZero() {
		return a.Equal(b)
	}
	lo, hi := a, b
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}
	ratio, _ := lo.Div(hi).Float64()
	return ratio >= 0.9
}
