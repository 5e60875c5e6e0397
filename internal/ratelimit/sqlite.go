package ratelimit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	selectCounterSQL = `SELECT rule, count, window_start FROM api_rate_limit_counters WHERE user_key = ?`
	insertCounterSQL = `INSERT INTO api_rate_limit_counters (user_key, rule, count, window_start) VALUES (?, ?, 1, ?)`
	updateCounterSQL = `UPDATE api_rate_limit_counters SET rule = ?, count = ?, window_start = ? WHERE user_key = ?`
	deleteCounterSQL = `DELETE FROM api_rate_limit_counters WHERE user_key = ?`
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps counters in the api_rate_limit_counters table, so that
// every process sharing the database file sees the same counters.
// The table is created by the db package together with the rest of the schema.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Increment reads and writes the counter row in one transaction.
func (s *SQLiteStore) Increment(ctx context.Context, key string, w Window) (Counter, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Counter{}, fmt.Errorf("begin counter tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		ruleKey string
		count   int64
		startMs int64
	)
	err = tx.QueryRowContext(ctx, selectCounterSQL, key).Scan(&ruleKey, &count, &startMs)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, insertCounterSQL, key, w.RuleKey, w.Now.UnixMilli()); err != nil {
			return Counter{}, fmt.Errorf("insert counter %q: %w", key, err)
		}
		if err := tx.Commit(); err != nil {
			return Counter{}, fmt.Errorf("commit counter tx: %w", err)
		}
		return Counter{Count: 1, ResetAt: w.Now.Add(w.Period)}, nil
	case err != nil:
		return Counter{}, fmt.Errorf("select counter %q: %w", key, err)
	}

	start := time.UnixMilli(startMs).UTC()
	if ruleKey != w.RuleKey || !w.Now.Before(start.Add(w.Period)) {
		count = 0
		start = w.Now
	}
	count++

	if _, err := tx.ExecContext(ctx, updateCounterSQL, w.RuleKey, count, start.UnixMilli(), key); err != nil {
		return Counter{}, fmt.Errorf("update counter %q: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return Counter{}, fmt.Errorf("commit counter tx: %w", err)
	}
	return Counter{Count: count, ResetAt: start.Add(w.Period)}, nil
}

func (s *SQLiteStore) Reset(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteCounterSQL, key); err != nil {
		return fmt.Errorf("delete counter %q: %w", key, err)
	}
	return nil
}

// Close does nothing; the database handle belongs to the caller.
func (s *SQLiteStore) Close() error {
	return nil
}
