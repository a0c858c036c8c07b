package entitlement_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepstack/entitlement/pkg/entitlement"
	svc "github.com/prepstack/entitlement/svc/entitlement"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()
		store := svc.NewMemoryStore()
		_, err := store.GetByUser(context.Background(), uuid.New())
		assert.ErrorIs(t, err, svc.ErrSubscriptionNotFound)
	})

	t.Run("newest record wins", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		store := svc.NewMemoryStore()

		older := time.Now().UTC().Add(-time.Hour)
		require.NoError(t, store.Create(context.Background(), &entitlement.Record{
			UserID: userID, PlanName: "Standard", Status: entitlement.StatusExpired, CreatedAt: older,
		}))
		require.NoError(t, store.Create(context.Background(), &entitlement.Record{
			UserID: userID, PlanName: "Premium", Status: entitlement.StatusActive,
		}))

		rec, err := store.GetByUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "Premium", rec.PlanName)
		assert.Equal(t, 2, store.Count(userID), "activation supersedes, never mutates")
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		store := svc.NewMemoryStore()
		require.NoError(t, store.Create(context.Background(), &entitlement.Record{
			UserID: userID, PlanName: "Standard", Status: entitlement.StatusActive,
		}))

		rec, err := store.GetByUser(context.Background(), userID)
		require.NoError(t, err)
		rec.PlanName = "Premium"

		again, err := store.GetByUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "Standard", again.PlanName)
	})
}
