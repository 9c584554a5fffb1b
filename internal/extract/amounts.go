// Package extract holds the deterministic field extractors and the record
// builder. Every extractor returns "nothing found" rather than an error:
// extraction failures are local, degrade the quality score, and never abort
// a batch.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"EnforcementTracker/internal/config"
	"EnforcementTracker/internal/domain"
)

// Monetary component labels.
const (
	ComponentCivilPenalty        = "civil_penalty"
	ComponentConsumerRestitution = "consumer_restitution"
	ComponentFeesAndCosts        = "fees_and_costs"
)

const (
	approxWindow     = 40
	contextWindow    = 80
	fallbackBodyHead = 1500
)

// Matches $1.5 million, $3,500,000, $1.2B, $500K. Single-letter multipliers
// must sit on a word boundary so "$3million" still parses via the word form.
var dollarRe = regexp.MustCompile(`(?i)\$\s*([\d,]+(?:\.\d+)?)\s*(million|billion|thousand|[MBK]\b)?`)

var multipliers = map[string]decimal.Decimal{
	"thousand": decimal.New(1, 3),
	"million":  decimal.New(1, 6),
	"billion":  decimal.New(1, 9),
	"k":        decimal.New(1, 3),
	"m":        decimal.New(1, 6),
	"b":        decimal.New(1, 9),
}

// Amount in direct grammatical proximity to settlement/penalty verbs.
var settlementContextRe = regexp.MustCompile(`(?i)(?:settl(?:ement|ed|es|ing)|penalt(?:y|ies)|restitution|judgment|consent\s+decree|pay(?:ing)?)\s+` +
	`(?:of\s+|totaling\s+|worth\s+|valued?\s+at\s+|for\s+)?` +
	`(?:(?:approximately|about|nearly|over|more\s+than|at\s+least|up\s+to)\s+)?` +
	`\$\s*([\d,]+(?:\.\d+)?)\s*(million|billion|thousand)?`)

var componentPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{ComponentCivilPenalty, regexp.MustCompile(`(?i)civil\s+penalt(?:y|ies)\s+(?:of\s+)?\$\s*([\d,.]+)\s*(million|billion|thousand)?`)},
	{ComponentConsumerRestitution, regexp.MustCompile(`(?i)(?:consumer\s+)?restitution\s+(?:of\s+)?\$\s*([\d,.]+)\s*(million|billion|thousand)?`)},
	{ComponentFeesAndCosts, regexp.MustCompile(`(?i)(?:attorney.?s?\s+)?fees?\s+(?:and\s+costs?\s+)?(?:of\s+)?\$\s*([\d,.]+)\s*(million|billion|thousand)?`)},
}

// Soft-hyphen stripping on some sites glues words together ("$168Mfor",
// "fromCVSand"). Re-insert spaces before extraction.
var (
	gluedWordsRe      = regexp.MustCompile(`([a-z])([A-Z])`)
	gluedMultiplierRe = regexp.MustCompile(`(\d[MBKmbk])([A-Za-z])`)
)

func fixSpacing(s string) string {
	s = gluedWordsRe.ReplaceAllString(s, "$1 $2")
	return gluedMultiplierRe.ReplaceAllString(s, "$1 $2")
}

// AmountExtractor finds dollar figures and selects the settlement amount.
// Immutable after construction, safe for concurrent use.
type AmountExtractor struct {
	approxRe     *regexp.Regexp
	disqualifyRe *regexp.Regexp
	ceiling      decimal.Decimal
}

// NewAmountExtractor compiles the configured cue and context lists and
// parses the sanity ceiling.
func NewAmountExtractor(cfg config.AmountConfig) (*AmountExtractor, error) {
	approx, err := regexp.Compile(`(?i)(?:` + strings.Join(cfg.ApproximationCues, "|") + `)`)
	if err != nil {
		return nil, fmt.Errorf("compile approximation cues: %w", err)
	}
	disqualify, err := regexp.Compile(`(?i)(?:` + strings.Join(cfg.DisqualifyingContexts, "|") + `)`)
	if err != nil {
		return nil, fmt.Errorf("compile disqualifying contexts: %w", err)
	}
	ceiling, err := decimal.NewFromString(cfg.MaxSettlement)
	if err != nil {
		return nil, fmt.Errorf("parse max settlement %q: %w", cfg.MaxSettlement, err)
	}
	return &AmountExtractor{approxRe: approx, disqualifyRe: disqualify, ceiling: ceiling}, nil
}

type locatedAmount struct {
	amount domain.ExtractedAmount
	start  int
}

func (e *AmountExtractor) locate(text string) []locatedAmount {
	var results []locatedAmount
	for _, idx := range dollarRe.FindAllStringSubmatchIndex(text, -1) {
		raw := text[idx[0]:idx[1]]
		numStr := strings.ReplaceAll(text[idx[2]:idx[3]], ",", "")

		value, err := decimal.NewFromString(numStr)
		if err != nil {
			continue
		}
		if idx[4] >= 0 {
			if m, ok := multipliers[strings.ToLower(text[idx[4]:idx[5]])]; ok {
				value = value.Mul(m)
			}
		}

		results = append(results, locatedAmount{
			amount: domain.ExtractedAmount{
				RawText:   raw,
				Amount:    value,
				Estimated: e.estimated(text, idx[0]),
			},
			start: idx[0],
		})
	}
	return results
}

// estimated reports whether an approximation cue appears in the window
// before the match.
func (e *AmountExtractor) estimated(text string, start int) bool {
	from := start - approxWindow
	if from < 0 {
		from = 0
	}
	return e.approxRe.MatchString(text[from:start])
}

// disqualified reports whether the amount sits in a non-settlement context
// (grants, tax policy, wage rates, ballot measures, hypothetical exposure).
func (e *AmountExtractor) disqualified(text string, start int) bool {
	from := start - contextWindow
	if from < 0 {
		from = 0
	}
	to := start + contextWindow
	if to > len(text) {
		to = len(text)
	}
	return e.disqualifyRe.MatchString(text[from:to])
}

// Amounts extracts every dollar amount in the text.
func (e *AmountExtractor) Amounts(text string) []domain.ExtractedAmount {
	located := e.locate(text)
	amounts := make([]domain.ExtractedAmount, 0, len(located))
	for _, la := range located {
		amounts = append(amounts, la.amount)
	}
	return amounts
}

// Largest returns the biggest dollar amount found, if any.
func (e *AmountExtractor) Largest(text string) (domain.ExtractedAmount, bool) {
	return pickLargest(e.locate(text))
}

func pickLargest(located []locatedAmount) (domain.ExtractedAmount, bool) {
	if len(located) == 0 {
		return domain.ExtractedAmount{}, false
	}
	best := located[0]
	for _, la := range located[1:] {
		if la.amount.Amount.GreaterThan(best.amount.Amount) {
			best = la
		}
	}
	return best.amount, true
}

// SettlementAmount selects the most relevant settlement/penalty figure.
//
// Priority:
//  1. a non-disqualified headline amount under the sanity ceiling (editors
//     put the key number there);
//  2. an amount in settlement-verb proximity in the body;
//  3. fallback: the largest surviving amount in the opening of the body.
func (e *AmountExtractor) SettlementAmount(headline, body string) (domain.ExtractedAmount, bool) {
	headline = fixSpacing(headline)

	var surviving []locatedAmount
	for _, la := range e.locate(headline) {
		if e.disqualified(headline, la.start) || la.amount.Amount.GreaterThan(e.ceiling) {
			continue
		}
		surviving = append(surviving, la)
	}
	if amt, ok := pickLargest(surviving); ok {
		return amt, true
	}

	if idx := settlementContextRe.FindStringSubmatchIndex(body); idx != nil {
		if !e.disqualified(body, idx[0]) {
			numStr := strings.ReplaceAll(body[idx[2]:idx[3]], ",", "")
			if value, err := decimal.NewFromString(numStr); err == nil {
				if idx[4] >= 0 {
					if m, ok := multipliers[strings.ToLower(body[idx[4]:idx[5]])]; ok {
						value = value.Mul(m)
					}
				}
				if !value.GreaterThan(e.ceiling) {
					return domain.ExtractedAmount{
						RawText:   body[idx[0]:idx[1]],
						Amount:    value,
						Estimated: e.estimated(body, idx[0]),
					}, true
				}
			}
		}
	}

	head := fixSpacing(prefix(body, fallbackBodyHead))
	surviving = surviving[:0]
	for _, la := range e.locate(head) {
		if e.disqualified(head, la.start) || la.amount.Amount.GreaterThan(e.ceiling) {
			continue
		}
		surviving = append(surviving, la)
	}
	return pickLargest(surviving)
}

// MonetaryComponents extracts categorized sub-amounts (civil penalty,
// consumer restitution, fees and costs).
func (e *AmountExtractor) MonetaryComponents(text string) map[string]decimal.Decimal {
	components := make(map[string]decimal.Decimal)
	for _, cp := range componentPatterns {
		m := cp.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		numStr := strings.Trim(strings.ReplaceAll(m[1], ",", ""), ".")
		value, err := decimal.NewFromString(numStr)
		if err != nil {
			continue
		}
		if m[2] != "" {
			if mult, ok := multipliers[strings.ToLower(m[2])]; ok {
				value = value.Mul(mult)
			}
		}
		components[cp.label] = value
	}
	return components
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
