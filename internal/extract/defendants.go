package extract

import (
	"fmt"
	"regexp"
	"strings"

	"EnforcementTracker/internal/config"
)

// Headline patterns, in priority order. Number 3 must run before the generic
// "with" and "against" forms so "Charges X with Y" keeps only X.
var headlineDefendantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:sues?|lawsuit\s+against|action\s+against)\s+([\w\s,.&'-]+?)(?:\s+(?:for|over|in|regarding|alleging|with))`),
	regexp.MustCompile(`(?i)settlement\s+with\s+([\w\s,.&'-]+?)(?:\s+(?:for|over|in|regarding|resolving|to)|$)`),
	regexp.MustCompile(`(?i)\bcharges?\s+([\w\s,.&'-]{2,50}?)\s+(?:with|over|for)\b`),
	regexp.MustCompile(`(?i)(?:from)\s+([\w\s,.&'-]+?)(?:\s+(?:for|over|in|regarding|fueling|alleging))`),
	regexp.MustCompile(`(?i)(?:charges?\s+against|against)\s+([\w\s,.&'-]+?)(?:\s*,\s*|\s+(?:for|over|in|regarding|benefiting|resulting)|$)`),
	regexp.MustCompile(`(?i)(?:with)\s+([\w\s,.&'-]+?)(?:\s*,\s*|\s+(?:for|over|in|regarding|resolving|to)|$)`),
	regexp.MustCompile(`(?i)\bv\.?\s+([\w\s,.&'-]+?)(?:\s*$|\s*[,;]|\s+(?:for|over|in|regarding|that))`),
	regexp.MustCompile(`(?i)(?:^|:\s*)([\w\s,.&'-]+?)\s+(?:Must|Agrees?\s+to|to|Will|Ordered\s+to)\s+Pay\b`),
	regexp.MustCompile(`(?i)(?:investigation\s+(?:into|of))\s+([\w\s,.&'-]+?)(?:\s+(?:for|over|regarding|alleging|results|leads|reveals)|[,;]|$)`),
	regexp.MustCompile(`(?i)(?:stops?|halts?|shuts?\s+down)\s+([\w\s,.&'-]+?)(?:\s*(?:'s)?\s+(?:for|over|from|illegal|unlawful|deceptive))`),
	regexp.MustCompile(`(?i)(?:secures?|recovers?|obtains?)\s+[\$\d][\$\d\w\s,.]*?\s+from\s+([\w\s,.&'-]+?)(?:\s+(?:for|over|in|to)|[,;]|$)`),
	regexp.MustCompile(`(?i)(?:^|:\s*)([\w\s,.&'-]+?)\s+(?:Ordered|Required|Directed)\s+to\b`),
}

// Body patterns, applied to the opening paragraphs only.
var bodyDefendantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:defendant|respondent)s?\s+([\w\s,.&'-]{3,60}?)(?:\s*[,.])`),
	regexp.MustCompile(`(?i)(?:filed\s+(?:a\s+)?(?:lawsuit|complaint|action)\s+against)\s+([\w\s,.&'-]{3,60}?)(?:\s*[,.]|\s+(?:for|over|in|alleging))`),
	regexp.MustCompile(`(?i)settlement\s+with\s+([\w\s,.&'-]{3,80}?)(?:\s*[,.])`),
	regexp.MustCompile(`(?i)(?:against)\s+([\w\s,.&'-]{3,60}?)(?:\s*,\s*(?:a|an|the|who|which)|\s+(?:for|over|in|regarding|alleging))`),
	regexp.MustCompile(`(?i)(?:settlement\s+with|against|lawsuit\s+against)\s+([\w\s.&'-]{3,60}?)\s*\(([A-Z]{2,10})\)`),
	regexp.MustCompile(`(?i)(?:announced\s+(?:a\s+)?(?:lawsuit|complaint|action|suit)\s+against)\s+([\w\s,.&'-]{3,60}?)(?:\s+(?:for|over|in|regarding|alleging))`),
	regexp.MustCompile(`(?i)(?:ringleaders?|leaders?|organizers?)\s+(?:of\s+the\s+scheme\s*,?\s*)([\w\s,.&'-]{5,80}?)(?:\s*,\s*(?:were|was)\s+(?:sentenced|convicted))`),
	regexp.MustCompile(`(?i)\bsued\s+([\w\s,.&'-]{3,60}?)(?:\s*[,.]|\s+(?:for|over|in|alleging|under))`),
	regexp.MustCompile(`(?i)charges?\s+against\s+([\w\s,.&'-]{3,60}?)(?:\s*[,.]|\s+(?:for|over|in|alleging|relating))`),
	regexp.MustCompile(`(?i)(?:a\s+)?(?:lawsuit|action|suit|complaint)\s+against\s+([\w\s,.&'-]{3,60}?)(?:\s*[,.]|\s+(?:for|over|in|alleging))`),
	regexp.MustCompile(`(?i)(?:against|with|sued|suing|charging)\s+([\w\s,.&'-]{3,50}?(?:Inc\.?|Corp\.?|LLC|L\.?L\.?C\.?|Ltd\.?|L\.?P\.?|Company|Corporation))`),
	regexp.MustCompile(`(?i)investigation\s+(?:of|into)\s+([\w\s,.&'-]{3,60}?)(?:\s*[,.]|\s+(?:for|over|in|regarding|related))`),
}

// Validator rejections that are structural, not data. Data-driven rejections
// live in the blocklist config.
var (
	hasLetterRe     = regexp.MustCompile(`[a-zA-Z]`)
	modalFragmentRe = regexp.MustCompile(`(?i)\bthat\s+(?:would|could|should|will|may|might|did)\b`)
	superlativeRe   = regexp.MustCompile(`(?i)^(?:largest|biggest|first|major|historic|record|significant)\b`)
	accusationRe    = regexp.MustCompile(`(?i)\bfor\s+(?:deceiving|misleading|defrauding|violating|failing|scamming|harming|exploiting|overcharging|deceptive|illegal|unlawful|false|unfair)`)
	placePersonRe   = regexp.MustCompile(`(?i)^[A-Z]\w+(?:\s+[A-Z]\w+)?\s+(?:man|woman|men|women|business|resident|couple|family)$`)
	industryTermRe  = regexp.MustCompile(`(?i)^(?:e-?cigarette|cryptocurrency|crypto|vaping|mortgage|tobacco)\s*(?:platform|companies|company|firm|firms|exchange|exchanges|lender|lenders|broker|brokers|servicer|servicers)?s?(?:\s|,|$)`)
)

// Multi-word names that must not be split on "and".
var andProtectedRe = regexp.MustCompile(`(?i)\b(?:Food\s+and\s+Drug|Arms?\s+and\s+Ammunition|` +
	`Alcohol,?\s+Tobacco,?\s+(?:Firearms?\s+)?and\s+|` +
	`Johnson\s+and\s+Johnson|Procter\s+and\s+Gamble|` +
	`Ernst\s+and\s+Young|Standard\s+and\s+Poor|` +
	`Bath\s+and\s+Body|Harley.Davidson|` +
	`Bed\s+Bath\s+and\s+Beyond|Barnes\s+and\s+Noble|` +
	`Simon\s+and\s+Schuster|Merrill\s+Lynch.*and|` +
	`cease\s+and\s+desist|assault\s+and\s+battery)`)

var andSplitRe = regexp.MustCompile(`\s+and\s+(?:the\s+)?`)

func safeAndSplit(name string) []string {
	if andProtectedRe.MatchString(name) {
		return []string{name}
	}
	return andSplitRe.Split(name, -1)
}

const bodyDefendantWindow = 1000

// DefendantExtractor finds defendant names in headlines and body text and
// filters out non-entity captures via the configured blocklist.
type DefendantExtractor struct {
	blockExact    map[string]bool
	blockPatterns []*regexp.Regexp
}

// NewDefendantExtractor compiles the blocklist patterns.
func NewDefendantExtractor(cfg config.BlocklistConfig) (*DefendantExtractor, error) {
	exact := make(map[string]bool, len(cfg.ExactMatches))
	for _, entry := range cfg.ExactMatches {
		exact[strings.ToLower(strings.TrimSpace(entry))] = true
	}
	patterns := make([]*regexp.Regexp, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("compile blocklist pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return &DefendantExtractor{blockExact: exact, blockPatterns: patterns}, nil
}

// validName reports whether a candidate looks like a real person or company
// rather than a headline fragment.
func (e *DefendantExtractor) validName(name string) bool {
	name = strings.TrimSpace(name)

	if len(name) < 3 || len(name) > 120 {
		return false
	}
	if e.blockExact[strings.ToLower(name)] {
		return false
	}
	for _, re := range e.blockPatterns {
		if re.MatchString(name) {
			return false
		}
	}
	if !hasLetterRe.MatchString(name) {
		return false
	}
	if modalFragmentRe.MatchString(name) {
		return false
	}
	// "Disney, Largest CCPA Settlement" keeps only the part before the comma
	// on a later pass; the whole string is rejected here.
	if i := strings.Index(name, ","); i >= 0 {
		if superlativeRe.MatchString(strings.TrimSpace(name[i+1:])) {
			return false
		}
	}
	if accusationRe.MatchString(name) {
		return false
	}
	if placePersonRe.MatchString(name) {
		return false
	}
	if strings.HasSuffix(name, "-") {
		return false
	}
	if industryTermRe.MatchString(name) {
		return false
	}

	// Mostly-lowercase multiword captures are sentence fragments.
	words := strings.Fields(name)
	if len(words) > 3 {
		lower := 0
		for _, w := range words {
			switch w {
			case "and", "of", "the", "de", "von", "van":
				continue
			}
			r := rune(w[0])
			if r >= 'a' && r <= 'z' {
				lower++
			}
		}
		if float64(lower) > float64(len(words))*0.6 {
			return false
		}
	}
	return true
}

// FromHeadline extracts defendant names from a press release headline.
func (e *DefendantExtractor) FromHeadline(headline string) []string {
	headline = fixSpacing(headline)

	var results []string
	seen := make(map[string]bool)
	for _, pattern := range headlineDefendantPatterns {
		m := pattern.FindStringSubmatch(headline)
		if m == nil {
			continue
		}
		raw := strings.TrimRight(strings.TrimSpace(m[1]), ",.")
		for _, part := range safeAndSplit(raw) {
			part = strings.TrimRight(strings.TrimSpace(part), ",.")
			if !e.validName(part) {
				continue
			}
			key := strings.ToLower(part)
			if !seen[key] {
				seen[key] = true
				results = append(results, part)
			}
		}
	}
	return results
}

// FromBody extracts defendant names from the opening paragraphs of body
// text. Press releases nearly always name defendants up front.
func (e *DefendantExtractor) FromBody(text string) []string {
	search := prefix(text, bodyDefendantWindow)

	var results []string
	seen := make(map[string]bool)
	for _, pattern := range bodyDefendantPatterns {
		for _, m := range pattern.FindAllStringSubmatch(search, -1) {
			raw := strings.TrimRight(strings.TrimSpace(m[1]), ",.")
			for _, part := range safeAndSplit(raw) {
				part = strings.TrimRight(strings.TrimSpace(part), ",.")
				if !e.validName(part) {
					continue
				}
				key := strings.ToLower(part)
				if !seen[key] {
					seen[key] = true
					results = append(results, part)
				}
			}
		}
	}
	return results
}
