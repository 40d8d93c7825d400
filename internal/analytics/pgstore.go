package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const resultsSchema = `
CREATE TABLE IF NOT EXISTS merchant_volume (
	run_id        TEXT NOT NULL,
	merchant_id   TEXT NOT NULL,
	merchant_name TEXT NOT NULL,
	txn_count     BIGINT NOT NULL,
	PRIMARY KEY (run_id, merchant_id)
);
CREATE TABLE IF NOT EXISTS merchant_failure_rate (
	run_id       TEXT NOT NULL,
	merchant_id  TEXT NOT NULL,
	total_txns   BIGINT NOT NULL,
	failed_txns  BIGINT NOT NULL,
	failure_rate DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, merchant_id)
);
CREATE TABLE IF NOT EXISTS user_avg_transaction (
	run_id          TEXT NOT NULL,
	user_id         TEXT NOT NULL,
	txn_count       BIGINT NOT NULL,
	avg_transaction DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, user_id)
);
`

// ResultStore persists aggregation results into Postgres for the dashboard.
type ResultStore struct {
	pool *pgxpool.Pool
}

// NewResultStore wraps an existing connection pool.
func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

// Init creates the result tables when they do not exist yet.
func (s *ResultStore) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, resultsSchema); err != nil {
		return fmt.Errorf("create result tables: %w", err)
	}
	return nil
}

// SaveReport inserts every report row under the given run id in a single
// transaction, so a failed save leaves no partial run behind.
func (s *ResultStore) SaveReport(ctx context.Context, runID string, report Report) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin results transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, m := range report.TopMerchants {
		batch.Queue(
			`INSERT INTO merchant_volume (run_id, merchant_id, merchant_name, txn_count) VALUES ($1, $2, $3, $4)`,
			runID, m.MerchantID, m.MerchantName, m.Count,
		)
	}
	for _, r := range report.MerchantFailures {
		batch.Queue(
			`INSERT INTO merchant_failure_rate (run_id, merchant_id, total_txns, failed_txns, failure_rate) VALUES ($1, $2, $3, $4, $5)`,
			runID, r.MerchantID, r.Total, r.Failed, r.FailureRate,
		)
	}
	for _, u := range report.UserAverages {
		batch.Queue(
			`INSERT INTO user_avg_transaction (run_id, user_id, txn_count, avg_transaction) VALUES ($1, $2, $3, $4)`,
			runID, u.UserID, u.Count, u.Average,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("insert result row: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close results batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit results transaction: %w", err)
	}
	return nil
}
