package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/strata-ai/strata/internal/store"
	"github.com/strata-ai/strata/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // Used for actual queries (can be *sqlx.DB or *sqlx.Tx)
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	// Create a repository instance that uses the transaction
	txRepo := &SqliteRepository{
		db:       r.db, // Keep the original DB handle
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		// attempt rollback, but prioritize original error
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) Decisions() store.DecisionRepository {
	return &decisionRepo{db: r.executor}
}

type decisionRepo struct {
	db DB
}

func (r *decisionRepo) Log(ctx context.Context, decision *model.Decision) error {
	query := `
	INSERT INTO decisions (
		id, fingerprint, tool, score, recommended_tier, chosen_model,
		provider, fallback_json, cost_micros, escalated, bypassed, created_at
	) VALUES (
		:id, :fingerprint, :tool, :score, :recommended_tier, :chosen_model,
		:provider, :fallback_json, :cost_micros, :escalated, :bypassed, :created_at
	)`
	_, err := r.db.NamedExecContext(ctx, query, decision)
	return err
}

func (r *decisionRepo) GetByFingerprint(ctx context.Context, fingerprint string) ([]model.Decision, error) {
	var decisions []model.Decision
	query := `SELECT * FROM decisions WHERE fingerprint = ? ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &decisions, query, fingerprint)
	return decisions, err
}

func (r *decisionRepo) GetRecent(ctx context.Context, limit int) ([]model.Decision, error) {
	var decisions []model.Decision
	query := `SELECT * FROM decisions ORDER BY created_at DESC LIMIT ?`
	err := r.db.SelectContext(ctx, &decisions, query, limit)
	return decisions, err
}

func (r *decisionRepo) GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	var stats []model.DailyStats
	query := `
		SELECT
			DATE(created_at) as date,
			COUNT(*) as total_decisions,
			SUM(escalated) as escalations,
			SUM(bypassed) as bypasses,
			SUM(cost_micros) as total_cost_micros,
			AVG(score) as avg_score
		FROM decisions
		WHERE created_at >= DATE('now', ?)
		GROUP BY date
		ORDER BY date DESC
	`
	// SQLite date offset format is '-7 days'
	err := r.db.SelectContext(ctx, &stats, query, fmt.Sprintf("-%d days", days))
	return stats, err
}
