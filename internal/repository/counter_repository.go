package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CounterRepository hands out AUTO_NUMBER values, one sequence per column.
type CounterRepository interface {
	// Next returns the next value for the column. When periodStart differs
	// from the stored period the sequence restarts at start. A zero
	// periodStart means the sequence never resets.
	Next(ctx context.Context, columnID string, start int64, periodStart time.Time) (int64, error)
	// ResetBefore drops counters of the given columns whose period began
	// before periodStart, and returns how many were dropped.
	ResetBefore(ctx context.Context, columnIDs []string, periodStart time.Time) (int64, error)
}

type pgCounterRepository struct {
	pool *pgxpool.Pool
}

func NewCounterRepository(pool *pgxpool.Pool) CounterRepository {
	return &pgCounterRepository{pool: pool}
}

func periodArg(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (r *pgCounterRepository) Next(ctx context.Context, columnID string, start int64, periodStart time.Time) (int64, error) {
	query := `
		INSERT INTO auto_number_counters (column_id, current, period_start, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (column_id) DO UPDATE SET
			current = CASE
				WHEN auto_number_counters.period_start IS DISTINCT FROM EXCLUDED.period_start THEN EXCLUDED.current
				ELSE auto_number_counters.current + 1
			END,
			period_start = EXCLUDED.period_start,
			updated_at = NOW()
		RETURNING current
	`
	var value int64
	err := r.pool.QueryRow(ctx, query, columnID, start, periodArg(periodStart)).Scan(&value)
	return value, err
}

func (r *pgCounterRepository) ResetBefore(ctx context.Context, columnIDs []string, periodStart time.Time) (int64, error) {
	if len(columnIDs) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM auto_number_counters
		 WHERE column_id::text = ANY($1) AND (period_start IS NULL OR period_start < $2)`,
		columnIDs, periodStart,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
