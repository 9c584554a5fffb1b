package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"EnforcementTracker/internal/config"
	"EnforcementTracker/internal/domain"
)

type taxonomyCategory struct {
	key           string
	keywords      []*regexp.Regexp
	subcategories []string
}

// Builder runs the full extraction pass over one classified document and
// assembles an EnforcementRecord. Rules only, deterministic for the same
// input.
type Builder struct {
	amounts    *AmountExtractor
	dates      *DateExtractor
	defendants *DefendantExtractor
	taxonomy   []taxonomyCategory
	log        *slog.Logger
}

// NewBuilder wires the extractors from configuration. Taxonomy keywords are
// compiled with word boundaries so "rent" never matches inside "current".
func NewBuilder(cfg *config.Config, logger *slog.Logger) (*Builder, error) {
	amounts, err := NewAmountExtractor(cfg.Amounts)
	if err != nil {
		return nil, fmt.Errorf("amount extractor: %w", err)
	}
	defendants, err := NewDefendantExtractor(cfg.Blocklist)
	if err != nil {
		return nil, fmt.Errorf("defendant extractor: %w", err)
	}

	keys := make([]string, 0, len(cfg.Taxonomy.Categories))
	for key := range cfg.Taxonomy.Categories {
		if key == "other" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	taxonomy := make([]taxonomyCategory, 0, len(keys))
	for _, key := range keys {
		cat := cfg.Taxonomy.Categories[key]
		compiled := make([]*regexp.Regexp, 0, len(cat.Keywords))
		for _, kw := range cat.Keywords {
			re, err := regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(kw)) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("taxonomy keyword %q: %w", kw, err)
			}
			compiled = append(compiled, re)
		}
		taxonomy = append(taxonomy, taxonomyCategory{
			key:           key,
			keywords:      compiled,
			subcategories: cat.Subcategories,
		})
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		amounts:    amounts,
		dates:      NewDateExtractor(cfg.Dates),
		defendants: defendants,
		taxonomy:   taxonomy,
		log:        logger,
	}, nil
}

// Build extracts every structured field from the document and returns the
// assembled record. Field extraction never fails hard; missing fields lower
// the quality score instead.
func (b *Builder) Build(doc domain.RawDocument) domain.EnforcementRecord {
	headline := doc.Title
	body := doc.BodyText

	actionType := ActionType(headline, body)

	announced, hasDate := b.announcedDate(doc)

	var dateFiled, dateResolved *time.Time
	if t, ok := b.dates.Filed(body); ok {
		dateFiled = &t
	}
	if t, ok := b.dates.Resolved(body); ok {
		dateResolved = &t
	}

	amount, hasAmount := b.amounts.SettlementAmount(headline, body)
	components := b.amounts.MonetaryComponents(body)

	names := b.defendantNames(headline, body)
	statutes := Statutes(body)
	categories := b.classifyViolations(headline, body)
	multistate := Multistate(headline, body)

	var monetary *domain.MonetaryTerms
	if actionType.AmountEligible() && (hasAmount || len(components) > 0) {
		monetary = &domain.MonetaryTerms{
			Total:               amount.Amount,
			CivilPenalty:        componentPtr(components, ComponentCivilPenalty),
			ConsumerRestitution: componentPtr(components, ComponentConsumerRestitution),
			FeesAndCosts:        componentPtr(components, ComponentFeesAndCosts),
			Estimated:           amount.Estimated,
		}
	}

	defendants := make([]domain.DefendantMention, 0, len(names))
	for _, name := range names {
		defendants = append(defendants, domain.DefendantMention{RawName: name})
	}

	hasRealCategory := false
	for _, c := range categories {
		if c.Category != "other" {
			hasRealCategory = true
			break
		}
	}

	quality := qualityScore(scoreInputs{
		hasDefendants: len(names) > 0,
		hasAmount:     hasAmount,
		hasCategory:   hasRealCategory,
		hasStatute:    len(statutes) > 0,
		hasDate:       hasDate,
		actionType:    actionType,
		bodyLength:    len(body),
	})

	now := time.Now().UTC()
	return domain.EnforcementRecord{
		ID:            uuid.New(),
		Jurisdiction:  doc.Jurisdiction,
		DateAnnounced: announced,
		DateFiled:     dateFiled,
		DateResolved:  dateResolved,
		ActionType:    actionType,
		Status:        domain.StatusFor(actionType),
		Headline:      headline,
		Summary:       summarize(body),
		SourceURL:     doc.URL,
		Multistate:    multistate,
		QualityScore:  quality,
		RawText:       body,
		Defendants:    defendants,
		Categories:    categories,
		Monetary:      monetary,
		Statutes:      statutes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// announcedDate prefers the listing-page date handed in with the document,
// then the extracted dateline, then today.
func (b *Builder) announcedDate(doc domain.RawDocument) (time.Time, bool) {
	if doc.Observed != nil {
		return *doc.Observed, true
	}
	if t, ok := b.dates.Announced(doc.BodyText); ok {
		return t, true
	}
	return time.Now().UTC().Truncate(24 * time.Hour), false
}

// defendantNames merges headline names (higher confidence, first) with body
// names, case-insensitively deduplicated.
func (b *Builder) defendantNames(headline, body string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, name := range b.defendants.FromHeadline(headline) {
		key := strings.ToLower(strings.TrimSpace(name))
		if !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}
	for _, name := range b.defendants.FromBody(body) {
		key := strings.ToLower(strings.TrimSpace(name))
		if !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}
	return names
}

// classifyViolations matches taxonomy keywords against headline plus body.
// Confidence grows with the number of distinct keywords matched.
func (b *Builder) classifyViolations(headline, body string) []domain.ViolationCategory {
	combined := strings.ToLower(headline + " " + body)

	var results []domain.ViolationCategory
	for _, cat := range b.taxonomy {
		matched := 0
		for _, re := range cat.keywords {
			if re.MatchString(combined) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		confidence := 0.5 + 0.1*float64(matched)
		if confidence > 1.0 {
			confidence = 1.0
		}
		results = append(results, domain.ViolationCategory{
			Category:    cat.key,
			Subcategory: matchSubcategory(combined, cat.subcategories),
			Confidence:  confidence,
		})
	}

	if len(results) == 0 {
		results = append(results, domain.ViolationCategory{Category: "other", Confidence: 0.3})
	}
	return results
}

// matchSubcategory checks each subcategory name as a keyword set. Names with
// slash alternatives match if any alternative's words all appear.
func matchSubcategory(textLower string, subcategories []string) string {
	for _, subcat := range subcategories {
		cleaned := strings.NewReplacer("(", "", ")", "").Replace(strings.ToLower(subcat))
		for _, part := range strings.Split(cleaned, "/") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			all := true
			for _, w := range strings.Fields(part) {
				if len(w) <= 2 {
					continue
				}
				if !strings.Contains(textLower, w) {
					all = false
					break
				}
			}
			if all {
				return subcat
			}
		}
	}
	return ""
}

// summarize takes the first three sentences longer than 20 chars.
func summarize(body string) string {
	var sentences []string
	start := 0
	for i, r := range body {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1-start <= 20 {
			continue
		}
		sentence := strings.TrimSpace(body[start : i+1])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
		if len(sentences) >= 3 {
			break
		}
	}
	return strings.TrimSpace(strings.Join(sentences, " "))
}

type scoreInputs struct {
	hasDefendants bool
	hasAmount     bool
	hasCategory   bool
	hasStatute    bool
	hasDate       bool
	actionType    domain.ActionType
	bodyLength    int
}

// qualityScore measures extraction completeness on a 0.0 to 1.0 scale.
// Amounts are expected for settlements but not for lawsuits or injunctions,
// which get partial credit instead.
func qualityScore(in scoreInputs) float64 {
	score := 0.0
	if in.hasDate {
		score += 0.15
	}
	if in.hasDefendants {
		score += 0.25
	}
	if in.hasAmount {
		score += 0.20
	} else if in.actionType == domain.ActionInjunction || in.actionType == domain.ActionLawsuitFiled {
		score += 0.10
	}
	if in.hasCategory {
		score += 0.15
	}
	if in.hasStatute {
		score += 0.10
	}
	if in.bodyLength > 500 {
		score += 0.10
	} else if in.bodyLength > 200 {
		score += 0.05
	}
	if in.actionType != domain.ActionOther {
		score += 0.05
	}
	if score > 1.0 {
		score = 1.0
	}
	return float64(int(score*100+0.5)) / 100
}

func componentPtr(components map[string]decimal.Decimal, key string) *decimal.Decimal {
	if v, ok := components[key]; ok {
		return &v
	}
	return nil
}
