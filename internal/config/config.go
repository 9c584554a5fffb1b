package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "AG_TRACKER_CONFIG"
	databaseDSNEnv = "DATABASE_DSN"
	logLevelEnv    = "AG_TRACKER_LOG_LEVEL"
)

// Config holds high-level settings required across the application. The
// hand-tuned keyword sets, override patterns, blocklists, aliases, and the
// violation taxonomy are configuration data, not logic: they ship with
// compiled-in defaults and can be replaced wholesale from a YAML file
// without code changes.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Database  DatabaseConfig  `yaml:"database"`
	Filter    FilterConfig    `yaml:"filter"`
	Amounts   AmountConfig    `yaml:"amounts"`
	Dates     DateConfig      `yaml:"dates"`
	Dedup     DedupConfig     `yaml:"dedup"`
	Entities  EntityConfig    `yaml:"entities"`
	Blocklist BlocklistConfig `yaml:"blocklist"`
	Taxonomy  TaxonomyConfig  `yaml:"taxonomy"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes Postgres connection details for the storage
// collaborator.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// FilterConfig feeds the two-stage enforcement classifier.
type FilterConfig struct {
	EnforcementKeywords    []string `yaml:"enforcementKeywords"`
	NonEnforcementKeywords []string `yaml:"nonEnforcementKeywords"`
	// HeadlineOverridePatterns force rejection even when enforcement
	// vocabulary appears in the body.
	HeadlineOverridePatterns []string `yaml:"headlineOverridePatterns"`
}

// AmountConfig tunes dollar-amount extraction.
type AmountConfig struct {
	// MaxSettlement is the sanity ceiling for a single action. The largest
	// real settlement on record is the $26B opioid distributor settlement;
	// anything above the ceiling is treated as a parsing artifact.
	MaxSettlement string `yaml:"maxSettlement"`
	// ApproximationCues within 40 chars before an amount mark it estimated.
	ApproximationCues []string `yaml:"approximationCues"`
	// DisqualifyingContexts reject amounts embedded in grants, tax policy,
	// wage rates, ballot measures, or hypothetical-exposure language.
	DisqualifyingContexts []string `yaml:"disqualifyingContexts"`
}

// DateConfig bounds the plausible announcement-year range.
type DateConfig struct {
	MinYear int `yaml:"minYear"`
	MaxYear int `yaml:"maxYear"`
}

// DedupConfig tunes the pairwise duplicate comparison.
type DedupConfig struct {
	DateWindowDays int `yaml:"dateWindowDays"`
	// MultistateWindowDays applies when both candidates are multistate-flagged
	// and from different jurisdictions; real multistate settlements are
	// announced months to years apart.
	MultistateWindowDays int `yaml:"multistateWindowDays"`
	DefendantThreshold   int `yaml:"defendantThreshold"`
}

// EntityMetadata is curated information for one canonical entity.
type EntityMetadata struct {
	Type       string `yaml:"type"`
	Industry   string `yaml:"industry"`
	RegistryID string `yaml:"registryId"`
}

// EntityConfig is the alias table plus the resolver's validity lists.
type EntityConfig struct {
	// Aliases maps observed name variants to canonical names.
	Aliases map[string]string `yaml:"aliases"`
	// Metadata is keyed by canonical name.
	Metadata map[string]EntityMetadata `yaml:"metadata"`
	// Stopwords are single generic words that can never be canonical names.
	Stopwords []string `yaml:"stopwords"`
	// GarbagePatterns reject phrases that extraction regexes capture but
	// that are not entities (government bodies, sentence fragments, roles).
	GarbagePatterns []string `yaml:"garbagePatterns"`
	// NumberLedWhitelist lists real company names that start with a digit
	// and would otherwise be rejected as count-phrases.
	NumberLedWhitelist []string `yaml:"numberLedWhitelist"`
}

// BlocklistConfig rejects defendant-name false positives observed in the
// wild, both exact strings and patterns.
type BlocklistConfig struct {
	ExactMatches []string `yaml:"exactMatches"`
	Patterns     []string `yaml:"patterns"`
}

// CategoryConfig is one violation category in the taxonomy.
type CategoryConfig struct {
	Keywords      []string `yaml:"keywords"`
	Subcategories []string `yaml:"subcategories"`
}

// TaxonomyConfig is the violation-category taxonomy keyed by category name.
type TaxonomyConfig struct {
	Categories map[string]CategoryConfig `yaml:"categories"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides on top of the compiled-in defaults.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if len(override.Filter.EnforcementKeywords) > 0 {
		base.Filter.EnforcementKeywords = override.Filter.EnforcementKeywords
	}
	if len(override.Filter.NonEnforcementKeywords) > 0 {
		base.Filter.NonEnforcementKeywords = override.Filter.NonEnforcementKeywords
	}
	if len(override.Filter.HeadlineOverridePatterns) > 0 {
		base.Filter.HeadlineOverridePatterns = override.Filter.HeadlineOverridePatterns
	}

	if override.Amounts.MaxSettlement != "" {
		base.Amounts.MaxSettlement = override.Amounts.MaxSettlement
	}
	if len(override.Amounts.ApproximationCues) > 0 {
		base.Amounts.ApproximationCues = override.Amounts.ApproximationCues
	}
	if len(override.Amounts.DisqualifyingContexts) > 0 {
		base.Amounts.DisqualifyingContexts = override.Amounts.DisqualifyingContexts
	}

	if override.Dates.MinYear != 0 {
		base.Dates.MinYear = override.Dates.MinYear
	}
	if override.Dates.MaxYear != 0 {
		base.Dates.MaxYear = override.Dates.MaxYear
	}

	if override.Dedup.DateWindowDays != 0 {
		base.Dedup.DateWindowDays = override.Dedup.DateWindowDays
	}
	if override.Dedup.MultistateWindowDays != 0 {
		base.Dedup.MultistateWindowDays = override.Dedup.MultistateWindowDays
	}
	if override.Dedup.DefendantThreshold != 0 {
		base.Dedup.DefendantThreshold = override.Dedup.DefendantThreshold
	}

	if len(override.Entities.Aliases) > 0 {
		base.Entities.Aliases = override.Entities.Aliases
	}
	if len(override.Entities.Metadata) > 0 {
		base.Entities.Metadata = override.Entities.Metadata
	}
	if len(override.Entities.Stopwords) > 0 {
		base.Entities.Stopwords = override.Entities.Stopwords
	}
	if len(override.Entities.GarbagePatterns) > 0 {
		base.Entities.GarbagePatterns = override.Entities.GarbagePatterns
	}
	if len(override.Entities.NumberLedWhitelist) > 0 {
		base.Entities.NumberLedWhitelist = override.Entities.NumberLedWhitelist
	}

	if len(override.Blocklist.ExactMatches) > 0 {
		base.Blocklist.ExactMatches = override.Blocklist.ExactMatches
	}
	if len(override.Blocklist.Patterns) > 0 {
		base.Blocklist.Patterns = override.Blocklist.Patterns
	}

	if len(override.Taxonomy.Categories) > 0 {
		base.Taxonomy.Categories = override.Taxonomy.Categories
	}

	return base
}
