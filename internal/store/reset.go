package store

import (
	"context"
	"errors"

	"bananaphone/m/internal/migrations"
	"bananaphone/m/internal/seed"
)

// Reset drops and recreates the five entity tables and reloads the sample
// dataset in one transaction. At most one reset runs at a time; a concurrent
// request fails immediately with ErrResetBusy. The whole operation is bounded
// by the configured timeout, after which it is abandoned and reported as
// ErrResetTimeout; a timed-out reset may leave a mixed schema, which the
// IF EXISTS / IF NOT EXISTS statement lists tolerate on the next attempt.
func (s *Store) Reset(ctx context.Context) error {
	if !s.resetMu.TryLock() {
		return ErrResetBusy
	}
	defer s.resetMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.resetTimeout)
	defer cancel()

	err := s.runReset(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrResetTimeout
	}
	return err
}

func (s *Store) runReset(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range migrations.EntityDrops {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, stmt := range migrations.EntitySchema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if err := seed.Apply(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}
