package entitlement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepstack/entitlement/pkg/entitlement"
	"github.com/prepstack/entitlement/pkg/pg"
)

// PGStore is the PostgreSQL SubscriptionStore. The subscriptions table is
// append-only: activations insert, nothing updates, and the newest row per
// user wins. See migrations/00001_create_subscriptions.sql.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a PGStore. Panics if pool is nil to fail fast during
// initialization.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	if pool == nil {
		panic("entitlement: pgx pool is required")
	}
	return &PGStore{pool: pool}
}

// GetByUser returns the user's most recent subscription record.
func (s *PGStore) GetByUser(ctx context.Context, userID uuid.UUID) (*entitlement.Record, error) {
	const q = `
		SELECT user_id, plan_id, plan_name, status, started_at, created_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	var rec entitlement.Record
	err := s.pool.QueryRow(ctx, q, userID).Scan(
		&rec.UserID, &rec.PlanID, &rec.PlanName, &rec.Status, &rec.StartedAt, &rec.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, errors.Join(ErrTransportFailure, err)
	}
	return &rec, nil
}

// Create inserts a new subscription record.
func (s *PGStore) Create(ctx context.Context, rec *entitlement.Record) error {
	const q = `
		INSERT INTO subscriptions (user_id, plan_id, plan_name, status, started_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := s.pool.Exec(ctx, q,
		rec.UserID, rec.PlanID, rec.PlanName, rec.Status, rec.StartedAt,
	); err != nil {
		return errors.Join(ErrTransportFailure, err)
	}
	return nil
}
