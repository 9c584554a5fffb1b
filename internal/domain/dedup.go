package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchType names the kind of duplicate a pairwise comparison detected.
type MatchType string

const (
	// MatchCrossJurisdiction is the same action reported independently by
	// different jurisdictions (the multistate case).
	MatchCrossJurisdiction MatchType = "cross_jurisdiction"
	// MatchSameJurisdictionTemporal is the same action reported twice by one
	// jurisdiction at different lifecycle stages (lawsuit then settlement).
	MatchSameJurisdictionTemporal MatchType = "same_jurisdiction_temporal"
)

// DedupCandidate is the reduced comparison view of an enforcement record.
type DedupCandidate struct {
	ActionID      uuid.UUID
	Jurisdiction  string
	DateAnnounced time.Time
	Defendants    []string // canonical names
	TotalAmount   *decimal.Decimal
	Headline      string
	Multistate    bool
}

// DedupMatch is a pairwise duplicate verdict.
type DedupMatch struct {
	ActionA    uuid.UUID
	ActionB    uuid.UUID
	Type       MatchType
	Confidence float64
	Reason     string
}

// MultistateCluster is a transitively-closed group of actions believed to be
// one underlying multistate action.
type MultistateCluster struct {
	ID               uuid.UUID
	ActionIDs        []uuid.UUID
	Jurisdictions    []string
	LeadJurisdiction string // earliest announcer
	TotalSettlement  decimal.Decimal // max of contributing amounts
}
