// Package numerator implements core/numerator.Generator on PostgreSQL.
package numerator

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	corenumerator "jargas/internal/core/numerator"
	"jargas/internal/infrastructure/storage/postgres"
)

// Service allocates document numbers on the transaction carried by ctx.
type Service struct {
	db       postgres.QuerierProvider
	strategy corenumerator.Strategy
}

// Ensure compile-time interface compliance.
var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator service.
func New(db postgres.QuerierProvider, strategy corenumerator.Strategy) *Service {
	return &Service{db: db, strategy: strategy}
}

// NextNumber implements corenumerator.Generator.
func (s *Service) NextNumber(ctx context.Context, cfg corenumerator.Config, scope corenumerator.Scope) (string, error) {
	if err := cfg.Validate(scope); err != nil {
		return "", err
	}

	var (
		next int64
		err  error
	)
	switch s.strategy {
	case corenumerator.StrategyScan:
		next, err = s.scanMax(ctx, cfg, scope)
		next++
	default:
		next, err = s.nextCounter(ctx, cfg, scope)
	}
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", cfg.Series, err)
	}

	return cfg.Format(scope, next), nil
}

const (
	bumpCounterSQL = `UPDATE sys_sequences SET current_val = current_val + 1, updated_at = NOW()
WHERE key = $1
RETURNING current_val`

	// seedCounterSQL handles the first use of a key. A concurrent seeder that
	// wins the insert leaves this one incrementing its row instead.
	seedCounterSQL = `INSERT INTO sys_sequences (key, current_val) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET current_val = GREATEST(sys_sequences.current_val + 1, EXCLUDED.current_val), updated_at = NOW()
RETURNING current_val`
)

func (s *Service) nextCounter(ctx context.Context, cfg corenumerator.Config, scope corenumerator.Scope) (int64, error) {
	q := s.db.GetQuerier(ctx)
	key := cfg.Key(scope)

	var next int64
	err := q.QueryRow(ctx, bumpCounterSQL, key).Scan(&next)
	if err == nil {
		return next, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("bump counter %s: %w", key, err)
	}

	issued, err := s.scanMax(ctx, cfg, scope)
	if err != nil {
		return 0, err
	}
	if err := q.QueryRow(ctx, seedCounterSQL, key, issued+1).Scan(&next); err != nil {
		return 0, fmt.Errorf("seed counter %s: %w", key, err)
	}
	return next, nil
}

// scanQuery reads the highest counter issued under cfg for scope. Deleted
// rows are included so their numbers are never handed out again.
func scanQuery(cfg corenumerator.Config) string {
	col := pgx.Identifier{cfg.Source.Column}.Sanitize()
	return fmt.Sprintf(
		"SELECT COALESCE(MAX(substring(%[1]s from $1)::bigint), 0) FROM %[2]s WHERE %[1]s ~ $1",
		col, pgx.Identifier{cfg.Source.Table}.Sanitize())
}

func (s *Service) scanMax(ctx context.Context, cfg corenumerator.Config, scope corenumerator.Scope) (int64, error) {
	var issued int64
	err := s.db.GetQuerier(ctx).
		QueryRow(ctx, scanQuery(cfg), cfg.MatchPattern(scope)).
		Scan(&issued)
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", cfg.Source.Table, err)
	}
	return issued, nil
}
