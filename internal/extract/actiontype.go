package extract

import (
	"regexp"

	"EnforcementTracker/internal/domain"
)

// Ordered by specificity. Consent decree runs before settlement so that
// "consent" never partial-matches into the broader settlement class, and
// lawsuit_filed runs last among the real types since its verbs appear in
// nearly every release.
var actionTypePatterns = []struct {
	actionType domain.ActionType
	re         *regexp.Regexp
}{
	{domain.ActionConsentDecree, regexp.MustCompile(`(?i)\bconsent\s+(?:decree|order|agreement)\b`)},

	{domain.ActionAssuranceOfDiscontinuance, regexp.MustCompile(`(?i)\b(?:assurance\s+of\s+(?:discontinuance|voluntary\s+compliance)|AOD)\b`)},

	{domain.ActionSettlement, regexp.MustCompile(`(?i)\b(?:settl(?:ed|ement|ements|es|ing)|agrees?\s+to\s+pay|agreed\s+to\s+pay|` +
		`reaches?\s+(?:an?\s+)?agreement|reached\s+(?:an?\s+)?agreement|` +
		`resolves?\s+(?:claims?|charges?|allegations?|dispute|investigation|case)|resolved|` +
		`pays?\s+fine|paid\s+fine|pays?\s+penalty|` +
		`consent\s+judgment|recover(?:s|ed|y|ies)|` +
		`secures?\s+(?:more\s+than\s+|over\s+|nearly\s+|approximately\s+)?\$|obtains?\s+\$|wins?\s+\$|` +
		`secures?\s+(?:[\w$.,]+\s+){0,6}(?:agreement|settlement|debt\s+relief)|` +
		`(?:ends?|ending)\s+(?:harmful|illegal|unlawful|deceptive)\s+\w+\s+practices?|` +
		`delivers?\s+\$|restitution\s+(?:in|on)\s+the|` +
		`(?:on\s+the\s+way|in\s+the\s+mail)\s+to|` +
		`agrees?\s+to\s+(?:remove|stop|halt|cease|reform|change|end|eliminate|address|provide|destroy|surrender)|` +
		`distributes?\s+(?:over\s+)?\$)\b`)},

	{domain.ActionJudgment, regexp.MustCompile(`(?i)\b(?:judgments?|verdict|sentenced|sentencing|convicted|conviction|convictions?\s+of|` +
		`pleads?\s+guilty|pled\s+guilty|guilty\s+plea|guilty\s+verdict|` +
		`found\s+(?:guilty|liable)|court\s+orders?\b|jury\s+(?:verdict|finds?)|` +
		`(?:secures?|wins?)\s+(?:[\w]+\s+){0,3}(?:victory|ruling|win|review|decision)|` +
		`surrenders?\s+(?:\w+\s+)?license|` +
		`permanently\s+(?:shuts?|bars?|bans?|closes?)|` +
		`arrested|(?:\d+\s+)?arrests?\s+(?:for|in|of|made)|` +
		`court\s+(?:declares?|rules?|upholds?|affirms?|denies|strikes?\s+down)|` +
		`judge\s+(?:dismisses?|rules?|orders?|blocks?|upholds?|strikes?)|` +
		`(?:appellate|appeals?\s+court)\s+(?:decision|ruling|upholds?|affirms?)|` +
		`blocks?\s+(?:[\w]+\s*'?s?\s+){0,3}(?:attempt|motion|request|bid))\b`)},

	{domain.ActionInjunction, regexp.MustCompile(`(?i)\b(?:injunction|restraining\s+order|TROs?\b|cease\s+and\s+desist|` +
		`banned?\s+from|bans?\s+(?:[\w]+\s+){1,5}from|temporarily\s+blocked|` +
		`preliminary\s+injunction|permanent\s+injunction|` +
		`shut\s+down|shuts?\s+down|` +
		`ordered?\s+to\s+(?:halt|stop|cease)|` +
		`orders?\s+\w+\s+to\s+(?:halt|stop|cease)|` +
		`demands?\s+(?:[\w]+\s+){0,4}(?:halt|stop|cease|immediate\s+halt))\b`)},

	{domain.ActionLawsuitFiled, regexp.MustCompile(`(?i)\b(?:(?:files?|filed)\s+(?:[\w]+\s+){0,5}(?:lawsuit|complaint|action|suit|litigation|charges?|petition)|` +
		`announces?\s+(?:[\w]+\s+){0,3}(?:lawsuit|complaint|suit|litigation|charges?\s+against|indictment)|` +
		`brings?\s+(?:a\s+)?(?:action|charges?|suit|complaint)|` +
		`(?:takes?|took)\s+(?:legal\s+)?action\s+(?:against|to|in\s+)|` +
		`charged?\s+with|facing\s+(?:[\w]+\s+){0,3}charges|` +
		`charges?\s+(?:[\w]+\s+){0,5}(?:in\s+connection|defendant|suspect|individual)|` +
		`indicts?|indicted|indictment|` +
		`(?:co-?leads?|leads?|joins?)\s+(?:[\w-]+\s+){0,4}(?:lawsuit|litigation|suit|challenge)|` +
		`sues?|sued|suing|` +
		`(?:files?|launches?|announces?|commences?)\s+(?:[\w]+\s+){0,3}investigation|` +
		`investigates?\b|` +
		`(?:seeks?\s+to\s+(?:lead|co-?lead)\s+[\w\s-]*?(?:lawsuit|litigation|suit))|` +
		`appeals?\s+(?:ruling|decision|order)|` +
		`cracks?\s+down|crackdown|` +
		`(?:enforcement\s+action)\s+against|` +
		`pleads?\s+not\s+guilty|` +
		`(?:expands?|updates?)\s+(?:[\w]+\s+){0,3}(?:investigation|lawsuit|suit))\b`)},
}

// ActionType classifies the legal vehicle. The headline is checked first,
// then the body with increasing depth; weaker body signals only win when
// nothing matched closer to the top.
func ActionType(headline, body string) domain.ActionType {
	for _, p := range actionTypePatterns {
		if p.re.MatchString(headline) {
			return p.actionType
		}
	}
	for _, limit := range []int{2000, 5000} {
		head := prefix(body, limit)
		for _, p := range actionTypePatterns {
			if p.re.MatchString(head) {
				return p.actionType
			}
		}
	}
	return domain.ActionOther
}
