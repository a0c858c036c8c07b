package entitlement

import (
	"context"

	"github.com/google/uuid"

	"github.com/prepstack/entitlement/pkg/entitlement"
)

// StateCache is an optional write-through cache of resolved entitlement
// states, keyed by user. It only warms a freshly created session's first
// paint; access decisions are always served from the session itself, which
// refreshes from the store on every identity change.
type StateCache interface {
	// Get retrieves a cached state. The second value reports a hit.
	Get(ctx context.Context, userID uuid.UUID) (entitlement.State, bool)

	// Set stores a resolved state.
	Set(ctx context.Context, userID uuid.UUID, st entitlement.State) error

	// Delete removes a cached state.
	Delete(ctx context.Context, userID uuid.UUID) error
}

// NoOpCache disables state caching. It is the default for sessions.
type NoOpCache struct{}

func (NoOpCache) Get(ctx context.Context, userID uuid.UUID) (entitlement.State, bool) {
	return entitlement.State{}, false
}

func (NoOpCache) Set(ctx context.Context, userID uuid.UUID, st entitlement.State) error {
	return nil
}

func (NoOpCache) Delete(ctx context.Context, userID uuid.UUID) error {
	return nil
}
