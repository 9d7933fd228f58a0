package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"travelapi/internal/repository"
)

// AnalyticsPostgres keeps counters as a JSONB object in analytics_counters.
type AnalyticsPostgres struct {
	db querier
}

// NewAnalyticsPostgres creates a new AnalyticsPostgres repository.
func NewAnalyticsPostgres(db *sql.DB) *AnalyticsPostgres {
	return &AnalyticsPostgres{db: db}
}

var _ repository.AnalyticsRepository = (*AnalyticsPostgres)(nil)

// EnsureCounters inserts an empty counters document unless one exists.
func (r *AnalyticsPostgres) EnsureCounters(ctx context.Context, id string) error {
	const q = `
		INSERT INTO analytics_counters (id, counters)
		VALUES ($1, '{}'::jsonb)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// Increment applies each delta in name order, one UPDATE per counter.
func (r *AnalyticsPostgres) Increment(ctx context.Context, id string, deltas map[string]int64) error {
	names := make([]string, 0, len(deltas))
	for name := range deltas {
		names = append(names, name)
	}
	sort.Strings(names)

	const q = `
		UPDATE analytics_counters
		SET counters = jsonb_set(counters, ARRAY[$2::text], to_jsonb(COALESCE((counters->>$2)::bigint, 0) + $3::bigint), true),
		    updated_at = now()
		WHERE id = $1
	`
	for _, name := range names {
		res, err := r.db.ExecContext(ctx, q, id, name, deltas[name])
		if err != nil {
			return fmt.Errorf("increment %s.%s: %w", id, name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("increment %s.%s: %w", id, name, repository.ErrNotFound)
		}
	}
	return nil
}

// Counters returns the current values of the counters document.
func (r *AnalyticsPostgres) Counters(ctx context.Context, id string) (map[string]int64, error) {
	const q = `SELECT counters FROM analytics_counters WHERE id = $1`
	var raw []byte
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	out := make(map[string]int64)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode counters %s: %w", id, err)
	}
	return out, nil
}
