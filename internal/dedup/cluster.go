package dedup

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"EnforcementTracker/internal/domain"
)

// unionFind over action ids. Path-halving find, union by size.
type unionFind struct {
	parent map[uuid.UUID]uuid.UUID
	size   map[uuid.UUID]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[uuid.UUID]uuid.UUID),
		size:   make(map[uuid.UUID]int),
	}
}

func (u *unionFind) add(id uuid.UUID) {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
		u.size[id] = 1
	}
}

func (u *unionFind) find(id uuid.UUID) uuid.UUID {
	for u.parent[id] != id {
		u.parent[id] = u.parent[u.parent[id]]
		id = u.parent[id]
	}
	return id
}

func (u *unionFind) union(a, b uuid.UUID) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.size[ra] < u.size[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	u.size[ra] += u.size[rb]
}

// ClusterMultistate groups cross-jurisdiction matches into transitively
// closed clusters. Same-jurisdiction temporal matches never contribute
// edges, and singleton components are dropped. Each cluster reports its
// unique jurisdictions, the earliest-announcing lead jurisdiction, and the
// maximum of the contributing settlement totals.
func ClusterMultistate(candidates []domain.DedupCandidate, matches []domain.DedupMatch) []domain.MultistateCluster {
	uf := newUnionFind()
	linked := make(map[uuid.UUID]bool)
	for _, m := range matches {
		if m.Type != domain.MatchCrossJurisdiction {
			continue
		}
		uf.add(m.ActionA)
		uf.add(m.ActionB)
		uf.union(m.ActionA, m.ActionB)
		linked[m.ActionA] = true
		linked[m.ActionB] = true
	}
	if len(linked) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]domain.DedupCandidate, len(candidates))
	for _, c := range candidates {
		byID[c.ActionID] = c
	}

	// Collect components in candidate order for stable output.
	groups := make(map[uuid.UUID][]domain.DedupCandidate)
	var roots []uuid.UUID
	for _, c := range candidates {
		if !linked[c.ActionID] {
			continue
		}
		root := uf.find(c.ActionID)
		if _, ok := groups[root]; !ok {
			roots = append(roots, root)
		}
		groups[root] = append(groups[root], c)
	}

	var clusters []domain.MultistateCluster
	for _, root := range roots {
		members := groups[root]
		if len(members) < 2 {
			continue
		}

		cluster := domain.MultistateCluster{ID: uuid.New()}
		seen := make(map[string]bool)
		lead := members[0]
		for _, m := range members {
			cluster.ActionIDs = append(cluster.ActionIDs, m.ActionID)
			if !seen[m.Jurisdiction] {
				seen[m.Jurisdiction] = true
				cluster.Jurisdictions = append(cluster.Jurisdictions, m.Jurisdiction)
			}
			if m.DateAnnounced.Before(lead.DateAnnounced) {
				lead = m
			}
			if m.TotalAmount != nil && m.TotalAmount.GreaterThan(cluster.TotalSettlement) {
				cluster.TotalSettlement = *m.TotalAmount
			}
		}
		cluster.LeadJurisdiction = lead.Jurisdiction
		clusters = append(clusters, cluster)
	}
	return clusters
}

// CandidateFor reduces a record to its dedup comparison view. Only resolved
// canonical defendant names participate in matching.
func CandidateFor(rec *domain.EnforcementRecord) domain.DedupCandidate {
	var defendants []string
	for _, d := range rec.Defendants {
		if d.CanonicalName != "" {
			defendants = append(defendants, d.CanonicalName)
		}
	}
	var total *decimal.Decimal
	if rec.Monetary != nil {
		t := rec.Monetary.Total
		total = &t
	}
	return domain.DedupCandidate{
		ActionID:      rec.ID,
		Jurisdiction:  rec.Jurisdiction,
		DateAnnounced: rec.DateAnnounced,
		Defendants:    defendants,
		TotalAmount:   total,
		Headline:      rec.Headline,
		Multistate:    rec.Multistate,
	}
}
