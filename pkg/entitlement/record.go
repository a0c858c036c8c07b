package entitlement

import (
	"time"

	"github.com/google/uuid"
)

// Record is a user's subscription row as read from the persistence
// collaborator. It is read-only to this package; activations supersede
// records rather than mutating them, and the fetcher always reads the
// most recent one.
type Record struct {
	UserID    uuid.UUID
	PlanID    string // backend plan id resolved at activation time
	PlanName  string // free-form, case-insensitive; normalized via ParseTier
	Status    SubscriptionStatus
	StartedAt time.Time
	CreatedAt time.Time
}

// IsActive reports whether the record's status is active.
func (r *Record) IsActive() bool {
	return r != nil && r.Status.IsActive()
}

// State is the resolved entitlement for a session. It is derived from a
// Record and held only by the session cache, never persisted.
type State struct {
	Tier    PlanTier
	Active  bool // Status == active
	Premium bool // Tier == TierPremium
	Loading bool // a fetch is outstanding; access decisions are pending
}

// HasAccess reports whether the state grants access to a feature.
// While Loading it returns false; callers that need to distinguish
// "pending" from "denied" should use Decide instead.
func (s State) HasAccess(f Feature) bool {
	if s.Loading {
		return false
	}
	return HasAccess(s.Tier, f)
}
