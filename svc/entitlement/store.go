package entitlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/prepstack/entitlement/pkg/entitlement"
)

// SubscriptionStore is the persistence collaborator contract. Records are
// append-only: an activation creates a new row and the newest row per user
// is the current one, so GetByUser must always return the most recent.
type SubscriptionStore interface {
	// GetByUser retrieves the user's most recent subscription record.
	// Returns ErrSubscriptionNotFound when the user has none.
	GetByUser(ctx context.Context, userID uuid.UUID) (*entitlement.Record, error)

	// Create persists a new subscription record. Existing rows are never
	// mutated; the new row supersedes them.
	Create(ctx context.Context, rec *entitlement.Record) error
}
