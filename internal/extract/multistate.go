package extract

import "regexp"

var multistatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmultistate\b`),
	regexp.MustCompile(`(?i)\bcoalition\s+of\s+(?:\d+\s+)?(?:state|attorney)`),
	regexp.MustCompile(`(?i)\b(\d+)\s+state(?:s)?\s+(?:attorneys?\s+general|AGs?)\b`),
	regexp.MustCompile(`(?i)\b(?:bipartisan|nationwide)\s+(?:coalition|group|states?)\b`),
	regexp.MustCompile(`(?i)\bjoined?\s+(?:by\s+)?\d+\s+(?:other\s+)?state`),
	// three or more states listed after "attorneys general of"
	regexp.MustCompile(`(?i)attorneys?\s+general\s+of\s+(?:\w+(?:\s+\w+)?,?\s+){3,}`),
	regexp.MustCompile(`(?i)\bstates?\s+negotiating\s+committee\b`),
	regexp.MustCompile(`(?is)\bjoining\s+attorney\s+general\b.*\battorneys?\s+general\s+of\b`),
}

// Multistate reports whether the release describes a coordinated
// multi-jurisdiction action.
func Multistate(headline, body string) bool {
	combined := headline + " " + prefix(body, 2000)
	for _, p := range multistatePatterns {
		if p.MatchString(combined) {
			return true
		}
	}
	return false
}
