package entitlement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prepstack/entitlement/pkg/entitlement"
)

// MemoryStore is an in-memory SubscriptionStore. Records are append-only
// and the most recently created row per user is the current one, matching
// the persistence contract. Safe for concurrent use; intended for tests
// and local development.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[uuid.UUID][]entitlement.Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[uuid.UUID][]entitlement.Record)}
}

// GetByUser returns a copy of the user's most recent record.
func (s *MemoryStore) GetByUser(ctx context.Context, userID uuid.UUID) (*entitlement.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.rows[userID]
	if len(rows) == 0 {
		return nil, ErrSubscriptionNotFound
	}

	latest := rows[0]
	for _, r := range rows[1:] {
		if r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return &latest, nil
}

// Create appends a new record, stamping CreatedAt when unset.
func (s *MemoryStore) Create(ctx context.Context, rec *entitlement.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rec
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.rows[stored.UserID] = append(s.rows[stored.UserID], stored)
	return nil
}

// Count returns the number of stored records for a user.
func (s *MemoryStore) Count(userID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows[userID])
}
