// Package resolve canonicalizes defendant name strings into stable
// identities. Matching is deterministic: exact aliases always outrank fuzzy
// matches, and the canonical set only grows within a run.
package resolve

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"EnforcementTracker/internal/config"
	"EnforcementTracker/internal/domain"
)

const (
	autoMatchScore = 85
	reviewScore    = 70
	// Length-ratio bounds for fuzzy candidates. Prevents matching "Chile"
	// to "Children" or "Seller" to "Shell".
	minLenRatio = 0.4
	maxLenRatio = 2.5
	// Names shorter than this never fuzzy match.
	minFuzzyLen = 4

	newEntityConfidence = 0.5
)

// Legal suffixes can stack ("Acme Holdings LLC, Inc."), so stripping runs
// up to three passes.
var legalSuffixRe = regexp.MustCompile(`(?i),?\s*\b(Inc\.?|Incorporated|Corp\.?|Corporation|LLC|L\.L\.C\.?|` +
	`Ltd\.?|Limited|L\.P\.?|LP|LLP|L\.L\.P\.?|` +
	`Co\.?|Company|PLC|P\.L\.C\.?|` +
	`NA|N\.A\.?|` +
	`et\s+al\.?|d/b/a\s+\S+` +
	`)\s*$`)

var (
	leadingArticleRe = regexp.MustCompile(`(?i)^(The|A|An)\s+`)

	leadingDescriptorRe = regexp.MustCompile(`(?i)^(?:tech(?:nology)?|social\s+media|drug|pharmaceutical|oil|retail|banking|e-?commerce)\s+(?:giant|maker|company|firm|conglomerate)\s+`)

	// ", claiming that the data was public" and similar clause tails.
	trailingClauseRe = regexp.MustCompile(`(?i),\s*(?:claiming|alleging|saying|stating|which|who|whose|after|accusing)\b.*$`)

	whitespaceRe = regexp.MustCompile(`\s+`)

	// Short all-caps or digit-led tokens ("3M", "CVS", "IBM") that the
	// title-case rule must not corrupt.
	shortTokenRe = regexp.MustCompile(`^[0-9A-Z][0-9A-Z&]{1,2}$`)

	pureNumberRe = regexp.MustCompile(`^[\d\s,.]+$`)
	digitLedRe   = regexp.MustCompile(`^\d`)
)

// CleanName normalizes a raw entity name: strips leading articles and
// descriptor phrases, legal suffixes, trailing clause fragments, collapses
// whitespace, and title-cases all-caps or all-lowercase input.
func CleanName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	name = leadingArticleRe.ReplaceAllString(name, "")
	name = leadingDescriptorRe.ReplaceAllString(name, "")
	name = trailingClauseRe.ReplaceAllString(name, "")

	for i := 0; i < 3; i++ {
		prev := name
		name = strings.TrimRight(strings.TrimSpace(legalSuffixRe.ReplaceAllString(name, "")), ",.")
		if name == prev {
			break
		}
	}

	name = strings.TrimSpace(whitespaceRe.ReplaceAllString(name, " "))

	if name == strings.ToUpper(name) || name == strings.ToLower(name) {
		name = titleCase(name)
	}
	return name
}

func titleCase(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if shortTokenRe.MatchString(w) {
			continue
		}
		runes := []rune(strings.ToLower(w))
		for j, r := range runes {
			if r >= 'a' && r <= 'z' {
				runes[j] = r - 'a' + 'A'
			}
			break
		}
		// Capitalize the first letter even when the word starts with a
		// digit or punctuation ("7-eleven" -> "7-Eleven" is handled by
		// the whitelist upstream, so a plain first-rune rule suffices).
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// ReviewCandidate is a fuzzy match in the uncertain band, queued for a
// human decision instead of being applied automatically.
type ReviewCandidate struct {
	RawName   string
	Candidate string
	Score     float64
}

// Resolver maps raw defendant names to canonical entities. Not safe for
// concurrent use: the canonical set grows as new entities are seen, so
// resolution order matters and must stay serial for reproducible output.
type Resolver struct {
	aliases       map[string]string
	metadata      map[string]domain.EntityMetadata
	canonical     []string
	canonicalSet  map[string]bool
	reviewQueue   []ReviewCandidate
	stopwords     map[string]bool
	garbage       []*regexp.Regexp
	blockExact    map[string]bool
	blockPatterns []*regexp.Regexp
	numberLed     map[string]bool
	log           *slog.Logger
}

// New builds a resolver from the entity configuration. Canonical names from
// the alias table seed the fuzzy-match pool; every alias also maps its own
// canonical spelling to itself.
func New(entities config.EntityConfig, blocklist config.BlocklistConfig, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{
		aliases:      make(map[string]string),
		metadata:     make(map[string]domain.EntityMetadata),
		canonicalSet: make(map[string]bool),
		stopwords:    make(map[string]bool),
		blockExact:   make(map[string]bool),
		numberLed:    make(map[string]bool),
		log:          logger,
	}

	for alias, canonical := range entities.Aliases {
		r.aliases[strings.ToLower(strings.TrimSpace(alias))] = canonical
	}
	for _, canonical := range entities.Aliases {
		r.aliases[strings.ToLower(strings.TrimSpace(canonical))] = canonical
		r.addCanonical(canonical)
	}

	for name, meta := range entities.Metadata {
		r.metadata[name] = domain.EntityMetadata{
			Type:       domain.EntityType(meta.Type),
			Industry:   meta.Industry,
			RegistryID: meta.RegistryID,
		}
	}

	for _, w := range entities.Stopwords {
		r.stopwords[strings.ToLower(w)] = true
	}
	for _, p := range entities.GarbagePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile garbage pattern %q: %w", p, err)
		}
		r.garbage = append(r.garbage, re)
	}
	for _, entry := range blocklist.ExactMatches {
		r.blockExact[strings.ToLower(strings.TrimSpace(entry))] = true
	}
	for _, p := range blocklist.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile blocklist pattern %q: %w", p, err)
		}
		r.blockPatterns = append(r.blockPatterns, re)
	}
	for _, name := range entities.NumberLedWhitelist {
		r.numberLed[strings.ToLower(name)] = true
	}

	r.log.Info("entity resolver loaded",
		"aliases", len(r.aliases),
		"canonical", len(r.canonical))
	return r, nil
}

func (r *Resolver) addCanonical(name string) {
	key := strings.ToLower(name)
	if !r.canonicalSet[key] {
		r.canonicalSet[key] = true
		r.canonical = append(r.canonical, name)
	}
}

// IsValidCanonicalName reports whether a cleaned name can serve as a
// canonical entity. Garbage captures from greedy extraction patterns are
// rejected here rather than stored.
func (r *Resolver) IsValidCanonicalName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if len(name) < 3 && !shortTokenRe.MatchString(name) {
		return false
	}
	lower := strings.ToLower(name)
	if r.stopwords[lower] {
		return false
	}
	if r.blockExact[lower] {
		return false
	}
	if pureNumberRe.MatchString(name) {
		return false
	}
	if digitLedRe.MatchString(name) && !r.numberLed[lower] {
		return false
	}
	for _, re := range r.blockPatterns {
		if re.MatchString(name) {
			return false
		}
	}
	for _, re := range r.garbage {
		if re.MatchString(name) {
			return false
		}
	}
	return true
}

// Resolve maps a raw name to its canonical form and the confidence of the
// mapping. Invalid input returns an empty name with confidence 0; a name
// with no acceptable match becomes a new canonical entity at 0.5.
func (r *Resolver) Resolve(rawName string) (string, float64) {
	cleaned := CleanName(rawName)
	if cleaned == "" || !r.IsValidCanonicalName(cleaned) {
		return "", 0.0
	}

	if canonical, ok := r.aliases[strings.ToLower(cleaned)]; ok {
		return canonical, 1.0
	}
	if canonical, ok := r.aliases[strings.ToLower(strings.TrimSpace(rawName))]; ok {
		return canonical, 1.0
	}

	bestName, bestScore := r.fuzzyMatch(cleaned)
	if bestScore >= autoMatchScore {
		r.log.Debug("fuzzy matched entity", "raw", rawName, "canonical", bestName, "score", bestScore)
		return bestName, float64(bestScore) / 100.0
	}
	if bestScore >= reviewScore {
		r.reviewQueue = append(r.reviewQueue, ReviewCandidate{
			RawName:   rawName,
			Candidate: bestName,
			Score:     float64(bestScore) / 100.0,
		})
		r.log.Debug("entity queued for review", "raw", rawName, "candidate", bestName, "score", bestScore)
	}

	r.addCanonical(cleaned)
	return cleaned, newEntityConfidence
}

// Resolution is one entry of a batch result.
type Resolution struct {
	Raw        string
	Canonical  string
	Confidence float64
}

// ResolveBatch resolves names in order. Order matters: earlier names can
// create canonical entities that later names fuzzy match against.
func (r *Resolver) ResolveBatch(names []string) []Resolution {
	results := make([]Resolution, 0, len(names))
	for _, name := range names {
		canonical, confidence := r.Resolve(name)
		results = append(results, Resolution{Raw: name, Canonical: canonical, Confidence: confidence})
	}
	return results
}

// Metadata returns curated information for a canonical name, if any.
func (r *Resolver) Metadata(canonical string) (domain.EntityMetadata, bool) {
	meta, ok := r.metadata[canonical]
	return meta, ok
}

// ReviewQueue returns a copy of the names flagged for manual review.
func (r *Resolver) ReviewQueue() []ReviewCandidate {
	queue := make([]ReviewCandidate, len(r.reviewQueue))
	copy(queue, r.reviewQueue)
	return queue
}

// fuzzyMatch scores the cleaned name against every known canonical name
// with a word-order-insensitive ratio. The first strictly-best score wins,
// keeping results stable across runs.
func (r *Resolver) fuzzyMatch(cleaned string) (string, int) {
	if len(cleaned) < minFuzzyLen {
		return "", 0
	}

	cleanedLower := strings.ToLower(cleaned)
	bestName := ""
	bestScore := 0
	for _, canonical := range r.canonical {
		if len(canonical) < minFuzzyLen {
			continue
		}
		ratio := float64(len(cleaned)) / float64(len(canonical))
		if ratio < minLenRatio || ratio > maxLenRatio {
			continue
		}
		score := fuzzy.TokenSortRatio(cleanedLower, strings.ToLower(canonical))
		if score > bestScore {
			bestScore = score
			bestName = canonical
		}
	}
	return bestName, bestScore
}
