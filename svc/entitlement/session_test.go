package entitlement_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prepstack/entitlement/pkg/broadcast"
	"github.com/prepstack/entitlement/pkg/entitlement"
	svc "github.com/prepstack/entitlement/svc/entitlement"
)

// countingStore wraps a SubscriptionStore and counts reads.
type countingStore struct {
	svc.SubscriptionStore
	mu    sync.Mutex
	reads int
}

func (s *countingStore) GetByUser(ctx context.Context, userID uuid.UUID) (*entitlement.Record, error) {
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	return s.SubscriptionStore.GetByUser(ctx, userID)
}

func (s *countingStore) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func newTestSession(t *testing.T, store svc.SubscriptionStore, opts ...svc.SessionOption) *svc.Session {
	t.Helper()
	fetcher := svc.NewFetcher(store,
		svc.WithFetcherLogger(discardLogger()),
		svc.WithFetchRetry(1, 0),
	)
	base := []svc.SessionOption{svc.WithSessionLogger(discardLogger())}
	session := svc.NewSession(fetcher, append(base, opts...)...)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func awaitReady(t *testing.T, session *svc.Session) entitlement.State {
	t.Helper()
	require.Eventually(t, func() bool {
		return session.Phase() == svc.PhaseReady && !session.State().Loading
	}, time.Second, 2*time.Millisecond)
	return session.State()
}

func TestSession_NoIdentity(t *testing.T) {
	t.Parallel()

	store := &countingStore{SubscriptionStore: svc.NewMemoryStore()}
	session := newTestSession(t, store)

	session.SetIdentity(context.Background(), uuid.Nil)

	st := session.State()
	assert.False(t, st.Loading)
	assert.Equal(t, entitlement.TierFree, st.Tier)
	assert.False(t, session.HasAccess(entitlement.FeatureTheoretical))
	assert.Equal(t, svc.PhaseReady, session.Phase())
	assert.Zero(t, store.readCount(), "no network call for an absent identity")
}

func TestSession_ResolvesIdentity(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := svc.NewMemoryStore()
	require.NoError(t, store.Create(context.Background(), &entitlement.Record{
		UserID: userID, PlanName: "Premium", Status: entitlement.StatusActive,
	}))

	session := newTestSession(t, store)
	session.SetIdentity(context.Background(), userID)

	st := awaitReady(t, session)
	assert.Equal(t, entitlement.TierPremium, st.Tier)
	assert.True(t, st.Active)
	assert.True(t, st.Premium)
	assert.True(t, session.HasAccess(entitlement.FeatureRanking))
}

func TestSession_MissingRecordResolvesFree(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, svc.NewMemoryStore())
	session.SetIdentity(context.Background(), uuid.New())

	st := awaitReady(t, session)
	assert.Equal(t, entitlement.TierFree, st.Tier)
	assert.False(t, st.Active)
}

func TestSession_ReadFailureFailsClosed(t *testing.T) {
	t.Parallel()

	store := new(mockStore)
	store.On("GetByUser", mock.Anything, mock.Anything).Return(nil, errors.New("backend down"))

	session := newTestSession(t, store)
	session.SetIdentity(context.Background(), uuid.New())

	st := awaitReady(t, session)
	assert.Equal(t, entitlement.TierFree, st.Tier)
	assert.False(t, session.HasAccess(entitlement.FeatureAI))
}

func TestSession_RefreshIdempotence(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := &countingStore{SubscriptionStore: svc.NewMemoryStore()}
	require.NoError(t, store.Create(context.Background(), &entitlement.Record{
		UserID: userID, PlanName: "Standard", Status: entitlement.StatusActive,
	}))

	session := newTestSession(t, store)
	session.SetIdentity(context.Background(), userID)
	first := awaitReady(t, session)

	session.Refresh(context.Background())
	second := awaitReady(t, session)
	session.Refresh(context.Background())
	third := awaitReady(t, session)

	assert.Equal(t, first, second)
	assert.Equal(t, second, third)
	assert.GreaterOrEqual(t, store.readCount(), 3, "each refresh re-reads the store")
}

func TestSession_RefreshAfterActivation(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := svc.NewMemoryStore()

	session := newTestSession(t, store)
	session.SetIdentity(context.Background(), userID)
	st := awaitReady(t, session)
	require.Equal(t, entitlement.TierFree, st.Tier)

	activator := svc.NewActivator(newTestCatalog(t), store,
		svc.WithActivatorLogger(discardLogger()))
	_, err := activator.Activate(context.Background(), userID, "Standard")
	require.NoError(t, err)

	session.Refresh(context.Background())
	st = awaitReady(t, session)
	assert.Equal(t, entitlement.TierStandard, st.Tier)
	assert.True(t, session.HasAccess(entitlement.FeatureTheoretical))
	assert.False(t, session.HasAccess(entitlement.FeatureRanking))
}

func TestSession_IdentityChange(t *testing.T) {
	t.Parallel()

	premiumUser := uuid.New()
	store := &countingStore{SubscriptionStore: svc.NewMemoryStore()}
	require.NoError(t, store.Create(context.Background(), &entitlement.Record{
		UserID: premiumUser, PlanName: "Premium", Status: entitlement.StatusActive,
	}))

	session := newTestSession(t, store)
	session.SetIdentity(context.Background(), premiumUser)
	require.Equal(t, entitlement.TierPremium, awaitReady(t, session).Tier)

	t.Run("same identity is a no-op", func(t *testing.T) {
		before := store.readCount()
		session.SetIdentity(context.Background(), premiumUser)
		assert.Equal(t, before, store.readCount())
	})

	t.Run("new identity never inherits the previous tier", func(t *testing.T) {
		session.SetIdentity(context.Background(), uuid.New())
		st := awaitReady(t, session)
		assert.Equal(t, entitlement.TierFree, st.Tier)
	})

	t.Run("logout resolves to free immediately", func(t *testing.T) {
		session.SetIdentity(context.Background(), uuid.Nil)
		st := session.State()
		assert.False(t, st.Loading)
		assert.Equal(t, entitlement.TierFree, st.Tier)
	})
}

func TestSession_LivenessCeiling(t *testing.T) {
	t.Parallel()

	store := &blockingStore{
		release: make(chan struct{}),
		record:  &entitlement.Record{PlanName: "Standard", Status: entitlement.StatusActive},
	}

	session := newTestSession(t, store, svc.WithCeiling(30*time.Millisecond))
	session.SetIdentity(context.Background(), uuid.New())

	// The backend hangs: the loading flag must clear at the ceiling even
	// though no result has arrived, leaving a fail-closed free state.
	require.Eventually(t, func() bool {
		return !session.State().Loading
	}, time.Second, 2*time.Millisecond)
	assert.Equal(t, entitlement.TierFree, session.State().Tier)

	// The fetch was not cancelled; its late result still applies.
	close(store.release)
	require.Eventually(t, func() bool {
		return session.State().Tier == entitlement.TierStandard
	}, time.Second, 2*time.Millisecond)
}

// sequencedStore blocks its first read until released; later reads return
// the record immediately.
type sequencedStore struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
	record  *entitlement.Record
}

func (s *sequencedStore) GetByUser(ctx context.Context, userID uuid.UUID) (*entitlement.Record, error) {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if first {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.record, nil
}

func (s *sequencedStore) Create(ctx context.Context, rec *entitlement.Record) error {
	return errors.New("read-only store")
}

func TestSession_LastWriteWins(t *testing.T) {
	t.Parallel()

	store := &sequencedStore{
		release: make(chan struct{}),
		record:  &entitlement.Record{PlanName: "Premium", Status: entitlement.StatusActive},
	}

	session := newTestSession(t, store)
	userID := uuid.New()
	session.SetIdentity(context.Background(), userID) // first fetch hangs
	session.Refresh(context.Background())             // supersedes it

	st := awaitReady(t, session)
	assert.Equal(t, entitlement.TierPremium, st.Tier)

	// Releasing the superseded fetch must not disturb the applied state.
	close(store.release)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, entitlement.TierPremium, session.State().Tier)
}

func TestSession_WatchRepublishesChanges(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := svc.NewMemoryStore()
	require.NoError(t, store.Create(context.Background(), &entitlement.Record{
		UserID: userID, PlanName: "Standard", Status: entitlement.StatusActive,
	}))

	session := newTestSession(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := session.Watch(ctx)

	session.SetIdentity(context.Background(), userID)

	var seen []entitlement.State
	deadline := time.After(time.Second)
	for len(seen) < 2 {
		select {
		case msg := <-sub.Receive(ctx):
			seen = append(seen, msg.Data)
		case <-deadline:
			t.Fatal("timed out waiting for state broadcasts")
		}
	}

	assert.True(t, seen[0].Loading, "first broadcast announces the pending window")
	last := seen[len(seen)-1]
	assert.False(t, last.Loading)
	assert.Equal(t, entitlement.TierStandard, last.Tier)
}

func TestSession_FollowIdentityStream(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := svc.NewMemoryStore()
	require.NoError(t, store.Create(context.Background(), &entitlement.Record{
		UserID: userID, PlanName: "Premium", Status: entitlement.StatusActive,
	}))

	identities := broadcast.NewMemoryBroadcaster[uuid.UUID](4)
	defer identities.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session := newTestSession(t, store)
	session.Follow(ctx, identities.Subscribe(ctx))

	require.NoError(t, identities.Broadcast(ctx, broadcast.Message[uuid.UUID]{Data: userID}))
	require.Eventually(t, func() bool {
		return session.State().Tier == entitlement.TierPremium
	}, time.Second, 2*time.Millisecond)

	require.NoError(t, identities.Broadcast(ctx, broadcast.Message[uuid.UUID]{Data: uuid.Nil}))
	require.Eventually(t, func() bool {
		st := session.State()
		return st.Tier == entitlement.TierFree && !st.Loading
	}, time.Second, 2*time.Millisecond)
}

// recordingCache is a StateCache with a canned warm entry and a log of Sets.
type recordingCache struct {
	mu     sync.Mutex
	warm   map[uuid.UUID]entitlement.State
	stored map[uuid.UUID]entitlement.State
}

func newRecordingCache() *recordingCache {
	return &recordingCache{
		warm:   make(map[uuid.UUID]entitlement.State),
		stored: make(map[uuid.UUID]entitlement.State),
	}
}

func (c *recordingCache) Get(ctx context.Context, userID uuid.UUID) (entitlement.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.warm[userID]
	return st, ok
}

func (c *recordingCache) Set(ctx context.Context, userID uuid.UUID, st entitlement.State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored[userID] = st
	return nil
}

func (c *recordingCache) Delete(ctx context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stored, userID)
	return nil
}

func (c *recordingCache) lastStored(userID uuid.UUID) (entitlement.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.stored[userID]
	return st, ok
}

func TestSession_StateCache(t *testing.T) {
	t.Parallel()

	t.Run("resolved states are written through", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		store := svc.NewMemoryStore()
		require.NoError(t, store.Create(context.Background(), &entitlement.Record{
			UserID: userID, PlanName: "Standard", Status: entitlement.StatusActive,
		}))

		cache := newRecordingCache()
		session := newTestSession(t, store, svc.WithStateCache(cache))
		session.SetIdentity(context.Background(), userID)
		awaitReady(t, session)

		require.Eventually(t, func() bool {
			st, ok := cache.lastStored(userID)
			return ok && st.Tier == entitlement.TierStandard
		}, time.Second, 2*time.Millisecond)
	})

	t.Run("warm hit skips the pending window, then revalidates", func(t *testing.T) {
		t.Parallel()
		userID := uuid.New()
		// The store says standard now; the cache still remembers premium.
		store := svc.NewMemoryStore()
		require.NoError(t, store.Create(context.Background(), &entitlement.Record{
			UserID: userID, PlanName: "Standard", Status: entitlement.StatusActive,
		}))

		cache := newRecordingCache()
		cache.warm[userID] = entitlement.State{Tier: entitlement.TierPremium, Active: true, Premium: true}

		session := newTestSession(t, store, svc.WithStateCache(cache))
		session.SetIdentity(context.Background(), userID)

		// Synchronous warm paint: no loading flash.
		st := session.State()
		assert.False(t, st.Loading)
		assert.Equal(t, entitlement.TierPremium, st.Tier)

		// Background revalidation lands the fresh tier.
		require.Eventually(t, func() bool {
			return session.State().Tier == entitlement.TierStandard
		}, time.Second, 2*time.Millisecond)
	})
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	session := newTestSession(t, svc.NewMemoryStore())
	require.NoError(t, session.Close())
	require.NoError(t, session.Close())
}
