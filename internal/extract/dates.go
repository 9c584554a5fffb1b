package extract

import (
	"regexp"
	"strings"
	"time"

	"EnforcementTracker/internal/config"
)

var (
	monthDateRe = regexp.MustCompile(`((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4})`)

	numericDateRe = regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{4})`)

	filedDateRe = regexp.MustCompile(`(?i)(?:filed|filing)\s+(?:on\s+)?(\w+\s+\d{1,2},?\s+\d{4})`)

	resolvedDateRe = regexp.MustCompile(`(?i)(?:settled|resolved|entered|approved|signed)\s+(?:on\s+)?(\w+\s+\d{1,2},?\s+\d{4})`)
)

var dateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"1/2/2006",
	"1-2-2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.Join(strings.Fields(s), " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateExtractor pulls announcement, filing and resolution dates out of
// press release text. Year bounds on the announcement date filter out
// boilerplate dates (copyright years, archived-capture banners).
type DateExtractor struct {
	minYear int
	maxYear int
}

func NewDateExtractor(cfg config.DateConfig) *DateExtractor {
	return &DateExtractor{minYear: cfg.MinYear, maxYear: cfg.MaxYear}
}

// Announced extracts the publication date. It searches progressively
// deeper into the text since many captures carry navigation boilerplate
// before the dateline.
func (e *DateExtractor) Announced(text string) (time.Time, bool) {
	for _, limit := range []int{300, 1000, 2000} {
		header := prefix(text, limit)

		if m := monthDateRe.FindStringSubmatch(header); m != nil {
			if t, ok := parseDate(m[1]); ok && e.inBounds(t) {
				return t, true
			}
		}
		if m := numericDateRe.FindStringSubmatch(header); m != nil {
			if t, ok := parseDate(m[1]); ok && e.inBounds(t) {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Filed extracts a filing date, if the text mentions one.
func (e *DateExtractor) Filed(text string) (time.Time, bool) {
	if m := filedDateRe.FindStringSubmatch(text); m != nil {
		return parseDate(m[1])
	}
	return time.Time{}, false
}

// Resolved extracts a settlement/resolution date, if the text mentions one.
func (e *DateExtractor) Resolved(text string) (time.Time, bool) {
	if m := resolvedDateRe.FindStringSubmatch(text); m != nil {
		return parseDate(m[1])
	}
	return time.Time{}, false
}

func (e *DateExtractor) inBounds(t time.Time) bool {
	return t.Year() >= e.minYear && t.Year() <= e.maxYear
}
