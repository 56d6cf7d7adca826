package repo

import (
	"context"

	"effortnet/internal/domain"
	"effortnet/internal/infra"
	"effortnet/internal/sqlinline"
)

// ScoreEventRepositoryPG implements domain.ScoreEventRepository backed by PostgreSQL.
type ScoreEventRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewScoreEventRepository creates a new ScoreEventRepositoryPG.
func NewScoreEventRepository(sql infra.SQLExecutor) *ScoreEventRepositoryPG {
	return &ScoreEventRepositoryPG{sql: sql}
}

// Insert records one scoring outcome.
func (r *ScoreEventRepositoryPG) Insert(ctx context.Context, ev *domain.ScoreEvent) error {
	var userID any
	if ev.UserID != "" {
		userID = ev.UserID
	}
	_, err := r.sql.Exec(ctx, sqlinline.QInsertScoreEvent,
		userID, ev.URL, string(ev.Platform), ev.Score, ev.Fraud, ev.Tags, ev.Country, ev.LatencyMS)
	return err
}

// Summary aggregates persisted scoring activity.
func (r *ScoreEventRepositoryPG) Summary(ctx context.Context) (*domain.ScoreStats, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QScoreStatsSummary)
	var stats domain.ScoreStats
	if err := row.Scan(&stats.TotalChecks, &stats.FraudCount, &stats.Checks24h, &stats.Fraud24h); err != nil {
		return nil, err
	}
	return &stats, nil
}

var _ domain.ScoreEventRepository = (*ScoreEventRepositoryPG)(nil)
