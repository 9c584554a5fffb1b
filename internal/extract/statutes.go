package extract

import (
	"regexp"
	"strings"

	"EnforcementTracker/internal/domain"
)

var statutePatterns = []*regexp.Regexp{
	// State code sections: "Business and Professions Code section 17200"
	regexp.MustCompile(`(?i)(?:California\s+)?(\w[\w\s]+?)\s+Code\s+(?:section|§§?)\s*([\d.]+(?:\s*(?:et\s+seq|through)\s*[\d.]*)?)`),
	// Federal citations: "15 U.S.C. § 45"
	regexp.MustCompile(`(?i)(\d+)\s+U\.?S\.?C\.?\s*§?\s*([\d]+(?:\([a-z]\))?)`),
	// Named statutes, acronyms and full names.
	regexp.MustCompile(`(?i)\b(Sherman\s+Act|Clayton\s+Act|FTC\s+Act|False\s+Claims\s+Act|` +
		`CCPA|COPPA|TCPA|CAN-SPAM|HIPAA|FCRA|RICO|UDAP|ADA|FLSA|OSHA|ECOA|TILA|RESPA|FDCPA|` +
		`Unfair\s+Competition\s+Laws?|UCL|CLRA|` +
		`Telephone\s+Consumer\s+Protection\s+Act|Telemarketing\s+Sales\s+Rule|` +
		`Truth\s+in\s+Caller\s+ID\s+Act|Truth\s+in\s+Lending\s+Act|` +
		`Anti-?Kickback\s+Statute|Stark\s+Law|Unclaimed\s+Property\s+Law|` +
		`Clean\s+Air\s+Act|Clean\s+Water\s+Act|Fair\s+Housing\s+Act|` +
		`Fair\s+Credit\s+Reporting\s+Act|Fair\s+Debt\s+Collection\s+Practices\s+Act|` +
		`Dodd-?Frank\s+Act|Consumer\s+Legal\s+Remedies\s+Act|` +
		`Consumer\s+Fraud\s+Act|Elder\s+Abuse\s+Act|` +
		`Real\s+Estate\s+Settlement\s+Procedures\s+Act|` +
		`Equal\s+Credit\s+Opportunity\s+Act|` +
		`Racketeer\s+Influenced\s+and\s+Corrupt\s+Organizations\s+Act` +
		`)\b`),
	// "in violation of the X Act" style, allows comma lists of laws.
	regexp.MustCompile(`(?i)(?:in\s+violation\s+of|violat(?:ed|ing))\s+(?:the\s+|state\s+)?(?:[\w\s,]+?\s+)((?:Act|Laws?|Code|Statute|Rule|Regulation)s?)\b`),
}

var federalIndicators = []string{
	"u.s.c.", "usc", "federal", "ftc", "sherman", "clayton", "can-spam",
	"hipaa", "fcra", "coppa", "tcpa", "rico", "dodd-frank", "respa", "tila",
	"ecoa", "ada", "flsa", "osha", "stark", "anti-kickback", "clean air",
	"clean water", "fair housing act", "fdcpa", "telemarketing sales rule",
	"truth in caller", "truth in lending",
}

var stateIndicators = []string{
	"california", "business and professions", "civil code", "health and safety",
	"penal code", "ccpa", "ucl", "unfair competition", "clra", "consumer legal remedies",
	"unclaimed property", "udap", "consumer fraud act", "consumer protection act",
}

// Ordered: more specific names must come before names they would shadow.
var statuteCommonNames = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`(?i)ccpa|consumer privacy act`), "CCPA"},
	{regexp.MustCompile(`(?i)coppa|children.s online privacy`), "COPPA"},
	{regexp.MustCompile(`(?i)tcpa|telephone consumer protection`), "TCPA"},
	{regexp.MustCompile(`(?i)hipaa|health insurance portability`), "HIPAA"},
	{regexp.MustCompile(`(?i)fcra|fair credit reporting`), "FCRA"},
	{regexp.MustCompile(`(?i)can.spam`), "CAN-SPAM"},
	{regexp.MustCompile(`(?i)clean air act`), "Clean Air Act"},
	{regexp.MustCompile(`(?i)clean water act`), "Clean Water Act"},
	{regexp.MustCompile(`(?i)\brico\b|racketeer influenced`), "RICO"},
	{regexp.MustCompile(`(?i)dodd.frank`), "Dodd-Frank Act"},
	{regexp.MustCompile(`(?i)respa|real estate settlement`), "RESPA"},
	{regexp.MustCompile(`(?i)tila|truth in lending`), "TILA"},
	{regexp.MustCompile(`(?i)ecoa|equal credit opportunity`), "ECOA"},
	{regexp.MustCompile(`(?i)\bada\b|americans with disabilities`), "ADA"},
	{regexp.MustCompile(`(?i)flsa|fair labor standards`), "FLSA"},
	{regexp.MustCompile(`(?i)osha|occupational safety`), "OSHA"},
	{regexp.MustCompile(`(?i)stark law`), "Stark Law"},
	{regexp.MustCompile(`(?i)anti.kickback statute`), "Anti-Kickback Statute"},
	{regexp.MustCompile(`(?i)ftc act|federal trade commission act`), "FTC Act"},
	{regexp.MustCompile(`(?i)sherman act|sherman\s`), "Sherman Act"},
	{regexp.MustCompile(`(?i)clayton act|clayton\s`), "Clayton Act"},
	{regexp.MustCompile(`(?i)false claims act|false claims`), "False Claims Act"},
	{regexp.MustCompile(`(?i)telemarketing sales rule`), "Telemarketing Sales Rule"},
	{regexp.MustCompile(`(?i)truth in caller`), "Truth in Caller ID Act"},
	{regexp.MustCompile(`(?i)fair housing act`), "Fair Housing Act"},
	{regexp.MustCompile(`(?i)fair debt collection`), "FDCPA"},
	{regexp.MustCompile(`(?i)elder abuse`), "Elder Abuse Act"},
	{regexp.MustCompile(`(?i)unfair\s+(?:and\s+)?deceptive.*(?:act|practices)|udap`), "UDAP"},
	{regexp.MustCompile(`(?i)consumer fraud act`), "Consumer Fraud Act"},
	{regexp.MustCompile(`(?i)business and professions code\s+(?:section\s+)?(?:§§?\s*)?172`), "UCL"},
	{regexp.MustCompile(`(?i)ucl|unfair competition law`), "UCL"},
	{regexp.MustCompile(`(?i)civil code\s+(?:section\s+)?(?:§§?\s*)?175`), "CLRA"},
	{regexp.MustCompile(`(?i)consumers?\s+legal\s+remedies`), "CLRA"},
	{regexp.MustCompile(`(?i)unclaimed property`), "Unclaimed Property Law"},
}

func statuteCommonName(rawLower string) string {
	for _, c := range statuteCommonNames {
		if c.re.MatchString(rawLower) {
			return c.name
		}
	}
	return ""
}

// Statutes extracts statute citations from press release text, deduplicated
// on the raw citation string.
func Statutes(text string) []domain.StatuteCitation {
	var results []domain.StatuteCitation
	seen := make(map[string]bool)

	for _, pattern := range statutePatterns {
		for _, m := range pattern.FindAllString(text, -1) {
			raw := strings.TrimSpace(m)
			if seen[raw] {
				continue
			}
			seen[raw] = true

			rawLower := strings.ToLower(raw)
			results = append(results, domain.StatuteCitation{
				Raw:        raw,
				IsFederal:  containsAny(rawLower, federalIndicators),
				IsState:    containsAny(rawLower, stateIndicators),
				CommonName: statuteCommonName(rawLower),
			})
		}
	}
	return results
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
