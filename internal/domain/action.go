package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ActionType categorizes the legal vehicle of an enforcement action.
type ActionType string

const (
	ActionSettlement                ActionType = "settlement"
	ActionLawsuitFiled              ActionType = "lawsuit_filed"
	ActionConsentDecree             ActionType = "consent_decree"
	ActionAssuranceOfDiscontinuance ActionType = "assurance_of_discontinuance"
	ActionJudgment                  ActionType = "judgment"
	ActionInjunction                ActionType = "injunction"
	ActionOther                     ActionType = "other"
)

// AmountEligible reports whether a settlement/penalty figure is semantically
// meaningful for this action type. Lawsuits and injunctions mention dollar
// figures ("$2.3B in grants at stake") that are not settlement amounts.
func (t ActionType) AmountEligible() bool {
	switch t {
	case ActionSettlement, ActionJudgment, ActionConsentDecree, ActionAssuranceOfDiscontinuance:
		return true
	}
	return false
}

// ActionStatus is derived purely from the action type at build time.
type ActionStatus string

const (
	StatusAnnounced ActionStatus = "announced"
	StatusPending   ActionStatus = "pending"
	StatusSettled   ActionStatus = "settled"
	StatusOngoing   ActionStatus = "ongoing"
	StatusClosed    ActionStatus = "closed"
)

// StatusFor maps an action type to its lifecycle status.
func StatusFor(t ActionType) ActionStatus {
	switch t {
	case ActionSettlement, ActionConsentDecree, ActionJudgment:
		return StatusSettled
	case ActionLawsuitFiled:
		return StatusPending
	case ActionInjunction:
		return StatusOngoing
	}
	return StatusAnnounced
}

// RawDocument is the ephemeral input handed over by a fetcher collaborator.
// BodyHTML is optional; when present it is normalized to BodyText before
// classification.
type RawDocument struct {
	Title        string
	BodyText     string
	BodyHTML     string
	URL          string
	Jurisdiction string
	Observed     *time.Time
}

// Filter stages reported by the classifier verdict.
const (
	StageKeywordReject        = "keyword_reject"
	StagePatternPass          = "pattern_pass"
	StagePatternPassAmbiguous = "pattern_pass_ambiguous"
	StageKeywordPassNoPattern = "keyword_pass_no_pattern"
	StagePatternReject        = "pattern_reject"
)

// FilterResult is the immutable classifier verdict for one document.
type FilterResult struct {
	IsEnforcement bool
	Stage         string
	Reason        string
}

// ExtractedAmount is one dollar figure found in source text.
type ExtractedAmount struct {
	RawText   string
	Amount    decimal.Decimal
	Estimated bool
}

// DefendantMention links the name as printed to its resolved identity.
// CanonicalName stays empty until the entity resolver has run.
type DefendantMention struct {
	RawName       string
	CanonicalName string
	Confidence    float64
}

// MonetaryTerms carries the dollar figures of a resolved action. Attached
// only when the action type is amount-eligible.
type MonetaryTerms struct {
	Total              decimal.Decimal
	CivilPenalty       *decimal.Decimal
	ConsumerRestitution *decimal.Decimal
	FeesAndCosts       *decimal.Decimal
	Estimated          bool
}

// StatuteCitation is one cited statute, classified federal vs. state and
// mapped to a short common name where one is known.
type StatuteCitation struct {
	Raw        string
	CommonName string
	IsState    bool
	IsFederal  bool
}

// ViolationCategory is a taxonomy assignment with match confidence.
type ViolationCategory struct {
	Category    string
	Subcategory string
	Confidence  float64
}

// EnforcementRecord is the canonical structured output of the pipeline.
// It is created once by the record builder and enriched in place by the
// entity resolver (canonical defendant names) and the deduplicator
// (multistate cluster id).
type EnforcementRecord struct {
	ID                  uuid.UUID
	Jurisdiction        string
	DateAnnounced       time.Time
	DateFiled           *time.Time
	DateResolved        *time.Time
	ActionType          ActionType
	Status              ActionStatus
	Headline            string
	Summary             string
	SourceURL           string
	Multistate          bool
	MultistateClusterID *uuid.UUID
	QualityScore        float64
	RawText             string
	Defendants          []DefendantMention
	Categories          []ViolationCategory
	Monetary            *MonetaryTerms
	Statutes            []StatuteCitation
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ResetDerived clears fields written by post-build enrichment so the record
// can be pushed through resolution and deduplication again. Reprocessing is
// always explicit; the pipeline never auto-detects staleness.
func (r *EnforcementRecord) ResetDerived() {
	for i := range r.Defendants {
		r.Defendants[i].CanonicalName = ""
		r.Defendants[i].Confidence = 0
	}
	r.MultistateClusterID = nil
}

// EntityType classifies a canonical entity.
type EntityType string

const (
	EntityCorporation      EntityType = "corporation"
	EntityIndividual       EntityType = "individual"
	EntityOrganization     EntityType = "organization"
	EntityGovernmentEntity EntityType = "government_entity"
)

// CanonicalEntity is the stable identity chosen for one real-world defendant,
// with the confidence of the mapping that produced it.
type CanonicalEntity struct {
	Name       string
	Type       EntityType
	Confidence float64
}

// EntityMetadata is curated information attached to a canonical name.
type EntityMetadata struct {
	Type       EntityType
	Industry   string
	RegistryID string
}
