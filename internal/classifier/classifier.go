// Package classifier decides whether a press release describes an
// enforcement action at all. It is the gate in front of extraction: a
// rejected document never produces a record.
//
// The filter runs in two stages. Stage 1 screens the headline plus the
// opening of the body against enforcement and non-enforcement keyword sets,
// with headline-only override patterns that force rejection. Stage 2
// requires a defendant-like phrase and at least one corroborating signal
// (dollar amount, statute citation, or court name).
package classifier

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"EnforcementTracker/internal/config"
	"EnforcementTracker/internal/domain"
)

const keywordBodyWindow = 500

// Stage 1 screen outcomes.
const (
	screenPass      = "pass"
	screenReject    = "reject"
	screenAmbiguous = "ambiguous"
)

var (
	hasDollarRe = regexp.MustCompile(`(?i)\$\s*[\d,]+(?:\.\d+)?\s*(?:million|billion|thousand)?`)

	// Named-statute context; bare "Act" or "Law" are too broad.
	hasStatuteRe = regexp.MustCompile(`(?i)(?:` +
		`\b\w+\s+Code\s+(?:section|§)` +
		`|U\.?S\.?C\.?\s*§` +
		`|\b(?:section|§)\s*\d+` +
		`|\b\w+(?:\s+\w+)?\s+Act\b` +
		`|\b(?:CCPA|COPPA|TCPA|HIPAA|RICO|UDAP|FCRA|RESPA|TILA|FDCPA|CAN-SPAM)\b` +
		`)`)

	hasCourtRe = regexp.MustCompile(`(?i)(?:(?:Superior|District|Circuit|Federal|Supreme)\s+Court|filed\s+in\s+(?:the\s+)?court)`)

	hasDefendantRe = regexp.MustCompile(`(?i)(?:` +
		`(?:against|with)\s+[\w\s,.&'-]{3,60}(?:Inc|Corp|LLC|Ltd|Co\.|Company|Group)|` +
		`(?:defendant|respondent)s?\s+[\w\s,.&'-]{3,60}|` +
		`(?:sues?|sued)\s+[\w\s,.&'-]{3,60}|` +
		`settlement\s+with\s+[\w\s,.&'-]{3,60}` +
		`)`)
)

// Classifier is safe for concurrent use; all state is immutable after
// construction.
type Classifier struct {
	enforcement    []string
	nonEnforcement []string
	overrides      []*regexp.Regexp
	logger         *slog.Logger
}

// New compiles the configured keyword sets and override patterns.
func New(cfg config.FilterConfig, logger *slog.Logger) (*Classifier, error) {
	c := &Classifier{logger: logger}

	for _, kw := range cfg.EnforcementKeywords {
		c.enforcement = append(c.enforcement, strings.ToLower(kw))
	}
	for _, kw := range cfg.NonEnforcementKeywords {
		c.nonEnforcement = append(c.nonEnforcement, strings.ToLower(kw))
	}
	for _, p := range cfg.HeadlineOverridePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile headline override %q: %w", p, err)
		}
		c.overrides = append(c.overrides, re)
	}

	return c, nil
}

// Classify returns the immutable verdict for one document. Documents where
// IsEnforcement is false must never reach extraction.
func (c *Classifier) Classify(headline, body string) domain.FilterResult {
	screen := c.keywordScreen(headline, prefix(body, keywordBodyWindow))

	if screen == screenReject {
		return domain.FilterResult{
			IsEnforcement: false,
			Stage:         domain.StageKeywordReject,
			Reason:        "only non-enforcement keywords found (consumer alert, policy statement, etc.)",
		}
	}

	if patternValidation(headline, body) {
		stage := domain.StagePatternPass
		if screen == screenAmbiguous {
			stage = domain.StagePatternPassAmbiguous
		}
		return domain.FilterResult{
			IsEnforcement: true,
			Stage:         stage,
			Reason:        "enforcement keywords and/or defendant + enforcement pattern found",
		}
	}

	// Keywords passed but no defendant + amount/statute/court corroboration.
	// These are typically commentary pieces quoting enforcement vocabulary
	// ("AG discusses settlement trends"), so they are rejected rather than
	// accepted at reduced confidence.
	if screen == screenPass {
		return domain.FilterResult{
			IsEnforcement: false,
			Stage:         domain.StageKeywordPassNoPattern,
			Reason:        "enforcement keywords found but no defendant/amount/statute pattern — likely commentary",
		}
	}

	return domain.FilterResult{
		IsEnforcement: false,
		Stage:         domain.StagePatternReject,
		Reason:        "no enforcement keywords or patterns found",
	}
}

// keywordScreen is stage 1. Headline overrides win over everything else:
// they are strong non-enforcement signals even when enforcement keywords
// appear in surrounding context.
func (c *Classifier) keywordScreen(headline, bodyHead string) string {
	for _, re := range c.overrides {
		if re.MatchString(headline) {
			if c.logger != nil {
				c.logger.Debug("headline override rejected document", "pattern", re.String(), "headline", headline)
			}
			return screenReject
		}
	}

	combined := strings.ToLower(headline + " " + bodyHead)

	hasEnforcement := containsAny(combined, c.enforcement)
	hasNonEnforcement := containsAny(combined, c.nonEnforcement)

	switch {
	case hasEnforcement:
		return screenPass
	case hasNonEnforcement:
		return screenReject
	default:
		return screenAmbiguous
	}
}

// patternValidation is stage 2: a defendant-like entity AND at least one of
// a dollar amount, a statute citation, or a court name.
func patternValidation(headline, body string) bool {
	combined := headline + " " + body

	if !hasDefendantRe.MatchString(combined) {
		return false
	}
	return hasDollarRe.MatchString(combined) ||
		hasStatuteRe.MatchString(combined) ||
		hasCourtRe.MatchString(combined)
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
