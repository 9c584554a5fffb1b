package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"EnforcementTracker/internal/domain"
	"EnforcementTracker/internal/ports"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists enforcement records into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.RecordRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// AlreadyProcessed returns a map with source URLs that already exist in
// storage.
func (r *PostgresRepository) AlreadyProcessed(ctx context.Context, urls []string) (map[string]bool, error) {
	if r.db == nil || len(urls) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := psql.
		Select("source_url").
		From("enforcement_actions").
		Where(sq.Expr("source_url = ANY(?)", pq.Array(urls))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build processed query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query processed: %w", err)
	}

	result := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[url] = true
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// SaveRecord upserts the enforcement record keyed by source URL.
func (r *PostgresRepository) SaveRecord(ctx context.Context, record domain.EnforcementRecord) error {
	if r.db == nil {
		return nil
	}

	defendants := make([]string, 0, len(record.Defendants))
	for _, mention := range record.Defendants {
		if mention.CanonicalName != "" {
			defendants = append(defendants, mention.CanonicalName)
		}
	}

	categories := make([]string, 0, len(record.Categories))
	for _, category := range record.Categories {
		categories = append(categories, category.Category)
	}

	statutes := make([]string, 0, len(record.Statutes))
	for _, statute := range record.Statutes {
		statutes = append(statutes, statute.Raw)
	}

	var totalAmount, civilPenalty, restitution, feesCosts interface{}
	var amountEstimated bool
	if record.Monetary != nil {
		totalAmount = record.Monetary.Total
		civilPenalty = nullDecimal(record.Monetary.CivilPenalty)
		restitution = nullDecimal(record.Monetary.ConsumerRestitution)
		feesCosts = nullDecimal(record.Monetary.FeesAndCosts)
		amountEstimated = record.Monetary.Estimated
	}

	var clusterID interface{}
	if record.MultistateClusterID != nil {
		clusterID = record.MultistateClusterID.String()
	}

	query, args, err := psql.
		Insert("enforcement_actions").
		Columns("id", "jurisdiction", "date_announced", "date_filed", "date_resolved",
			"action_type", "status", "headline", "summary", "source_url",
			"multistate", "multistate_cluster_id", "quality_score", "raw_text",
			"defendants", "categories", "statutes",
			"total_amount", "civil_penalty", "consumer_restitution", "fees_costs",
			"amount_estimated", "created_at", "updated_at").
		Values(record.ID.String(), record.Jurisdiction, record.DateAnnounced,
			record.DateFiled, record.DateResolved,
			string(record.ActionType), string(record.Status),
			record.Headline, record.Summary, record.SourceURL,
			record.Multistate, clusterID, record.QualityScore, record.RawText,
			pq.Array(defendants), pq.Array(categories), pq.Array(statutes),
			totalAmount, civilPenalty, restitution, feesCosts,
			amountEstimated, record.CreatedAt, record.UpdatedAt).
		Suffix(`ON CONFLICT (source_url) DO UPDATE SET
			status = EXCLUDED.status,
			multistate = EXCLUDED.multistate,
			multistate_cluster_id = EXCLUDED.multistate_cluster_id,
			quality_score = EXCLUDED.quality_score,
			defendants = EXCLUDED.defendants,
			categories = EXCLUDED.categories,
			statutes = EXCLUDED.statutes,
			total_amount = EXCLUDED.total_amount,
			civil_penalty = EXCLUDED.civil_penalty,
			consumer_restitution = EXCLUDED.consumer_restitution,
			fees_costs = EXCLUDED.fees_costs,
			amount_estimated = EXCLUDED.amount_estimated,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build record upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}

	return nil
}

// SaveCluster upserts a multistate cluster snapshot.
func (r *PostgresRepository) SaveCluster(ctx context.Context, cluster domain.MultistateCluster) error {
	if r.db == nil {
		return nil
	}

	actionIDs := make([]string, 0, len(cluster.ActionIDs))
	for _, id := range cluster.ActionIDs {
		actionIDs = append(actionIDs, id.String())
	}

	query, args, err := psql.
		Insert("multistate_clusters").
		Columns("id", "action_ids", "jurisdictions", "lead_jurisdiction", "total_settlement").
		Values(cluster.ID.String(), pq.Array(actionIDs), pq.Array(cluster.Jurisdictions),
			cluster.LeadJurisdiction, cluster.TotalSettlement).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			action_ids = EXCLUDED.action_ids,
			jurisdictions = EXCLUDED.jurisdictions,
			lead_jurisdiction = EXCLUDED.lead_jurisdiction,
			total_settlement = EXCLUDED.total_settlement`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build cluster upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert cluster: %w", err)
	}

	return nil
}

func nullDecimal(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return *d
}
