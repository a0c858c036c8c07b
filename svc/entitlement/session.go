package entitlement

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prepstack/entitlement/pkg/broadcast"
	"github.com/prepstack/entitlement/pkg/entitlement"
	"github.com/prepstack/entitlement/pkg/logger"
)

const defaultCeiling = 10 * time.Second

// Phase is the session lifecycle phase.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Session is the per-identity entitlement cache: the single shared mutable
// resource of the engine. It owns the resolved State, re-derives it on
// identity changes and explicit refreshes, and republishes every applied
// change so gates re-evaluate.
//
// Concurrency model: one writer path (the fetch/resolve cycle) guarded by a
// mutex, many readers taking snapshots. Each cycle carries a generation;
// a completion only applies if no later cycle has applied yet, so
// concurrent refreshes are last-write-wins and a superseded fetch can
// never clobber a newer result. Superseded fetches are also cancelled.
//
// The liveness ceiling is a second, competing completion for the same
// cycle: when it fires first it clears only the loading flag, so the UI is
// never stuck on a spinner; the real fetch result still applies when it
// arrives.
type Session struct {
	fetcher *Fetcher
	log     *slog.Logger
	ceiling time.Duration
	cache   StateCache
	bus     broadcast.Broadcaster[entitlement.State]
	ownBus  bool

	mu           sync.Mutex
	userID       uuid.UUID
	state        entitlement.State
	phase        Phase
	started      bool
	nextGen      uint64 // generation of the most recently started cycle
	appliedGen   uint64 // generation of the most recently applied completion
	cancelFetch  context.CancelFunc
	ceilingTimer *time.Timer
	closed       bool

	done chan struct{}
	wg   sync.WaitGroup
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionLogger sets the logger for absorbed failures and timeouts.
func WithSessionLogger(log *slog.Logger) SessionOption {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCeiling sets the liveness ceiling after which the loading flag
// clears even if the fetch is still in flight.
func WithCeiling(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.ceiling = d
		}
	}
}

// WithStateCache enables write-through caching of resolved states. A cache
// hit warms the first paint after an identity change; the fetch then
// revalidates in the background.
func WithStateCache(cache StateCache) SessionOption {
	return func(s *Session) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithBroadcaster replaces the session-owned broadcaster. The session will
// not close an injected broadcaster.
func WithBroadcaster(bus broadcast.Broadcaster[entitlement.State]) SessionOption {
	return func(s *Session) {
		if bus != nil {
			s.bus = bus
			s.ownBus = false
		}
	}
}

// NewSession creates a Session. Panics if fetcher is nil to fail fast
// during initialization.
func NewSession(fetcher *Fetcher, opts ...SessionOption) *Session {
	if fetcher == nil {
		panic("entitlement: Fetcher is required")
	}

	s := &Session{
		fetcher: fetcher,
		log:     slog.Default(),
		ceiling: defaultCeiling,
		cache:   NoOpCache{},
		bus:     broadcast.NewMemoryBroadcaster[entitlement.State](8),
		ownBus:  true,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetIdentity switches the session to a new authenticated identity and
// starts a fetch/resolve cycle for it. A zero userID (logout or no
// authenticated user) resolves immediately to an inactive free state with
// no store call. Setting the same identity again is a no-op; use Refresh
// to re-read an unchanged identity.
func (s *Session) SetIdentity(ctx context.Context, userID uuid.UUID) {
	s.mu.Lock()
	if s.closed || (s.started && userID == s.userID) {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.userID = userID

	if userID == uuid.Nil {
		s.stopCycleLocked()
		s.nextGen++
		s.appliedGen = s.nextGen
		s.state = entitlement.Resolve(nil)
		s.phase = PhaseReady
		st := s.state
		s.mu.Unlock()
		s.publish(ctx, st)
		return
	}

	// Identity changed: never leak the previous identity's tier. The state
	// resets to free before the new fetch begins.
	s.state = entitlement.State{}

	if warm, ok := s.cache.Get(ctx, userID); ok && !warm.Loading {
		// Warm start: paint the cached state immediately and revalidate in
		// the background without a pending window. At worst a stale read
		// is briefly displayed; the fetch result overwrites it.
		s.state = warm
		s.phase = PhaseReady
		st := s.state
		s.beginCycleLocked(ctx, userID, false)
		s.mu.Unlock()
		s.publish(ctx, st)
		return
	}

	s.beginCycleLocked(ctx, userID, true)
	st := s.state
	s.mu.Unlock()
	s.publish(ctx, st)
}

// Refresh re-enters loading and repeats the fetch/resolve cycle for the
// current identity. Used after activation. With no identity present it does
// nothing: there is nothing to fetch and the state is already a denial.
func (s *Session) Refresh(ctx context.Context) {
	s.mu.Lock()
	if s.closed || !s.started || s.userID == uuid.Nil {
		s.mu.Unlock()
		return
	}
	// Keep the current tier visible during the refresh; only the loading
	// flag changes until the new result lands.
	s.beginCycleLocked(ctx, s.userID, true)
	st := s.state
	s.mu.Unlock()
	s.publish(ctx, st)
}

// State returns a snapshot of the current entitlement state.
func (s *Session) State() entitlement.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// HasAccess reports whether the current state grants access to a feature.
// Returns false while a fetch is pending; gates that must distinguish
// pending from denied should use Decide.
func (s *Session) HasAccess(f entitlement.Feature) bool {
	return s.State().HasAccess(f)
}

// Decide evaluates a feature against the current state.
func (s *Session) Decide(f entitlement.Feature) entitlement.Decision {
	return entitlement.Decide(s.State(), f)
}

// Watch returns a subscriber receiving every applied state change.
func (s *Session) Watch(ctx context.Context) broadcast.Subscriber[entitlement.State] {
	return s.bus.Subscribe(ctx)
}

// Follow consumes an identity-change stream, switching the session
// identity for every received user ID. It returns immediately; consumption
// stops when the context is cancelled, the stream closes, or the session
// is closed.
func (s *Session) Follow(ctx context.Context, identities broadcast.Subscriber[uuid.UUID]) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.done:
				return
			case msg, ok := <-identities.Receive(ctx):
				if !ok {
					return
				}
				s.SetIdentity(ctx, msg.Data)
			}
		}
	}()
}

// Close stops in-flight work and closes the session-owned broadcaster.
// The session must not be used after Close.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopCycleLocked()
	close(s.done)
	s.mu.Unlock()

	s.wg.Wait()
	if s.ownBus {
		return s.bus.Close()
	}
	return nil
}

// beginCycleLocked starts a new fetch/resolve cycle. Caller holds s.mu.
// markLoading controls whether the pending window is visible to gates;
// warm starts revalidate silently.
func (s *Session) beginCycleLocked(ctx context.Context, userID uuid.UUID, markLoading bool) {
	s.stopCycleLocked()

	s.nextGen++
	gen := s.nextGen

	if markLoading {
		s.phase = PhaseLoading
		s.state.Loading = true
		if s.ceiling > 0 {
			s.ceilingTimer = time.AfterFunc(s.ceiling, func() {
				s.ceilingReached(gen)
			})
		}
	}

	// The cycle outlives the triggering request: a navigation away must not
	// abort the refresh the whole session is waiting on.
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelFetch = cancel

	s.wg.Add(1)
	go s.runCycle(fetchCtx, gen, userID)
}

// stopCycleLocked cancels the in-flight fetch and ceiling timer, if any.
// Caller holds s.mu.
func (s *Session) stopCycleLocked() {
	if s.cancelFetch != nil {
		s.cancelFetch()
		s.cancelFetch = nil
	}
	if s.ceilingTimer != nil {
		s.ceilingTimer.Stop()
		s.ceilingTimer = nil
	}
}

func (s *Session) runCycle(ctx context.Context, gen uint64, userID uuid.UUID) {
	defer s.wg.Done()

	rec, err := s.fetcher.Fetch(ctx, userID)
	if err != nil {
		if ctx.Err() != nil {
			// Superseded by a newer cycle; that cycle owns the state now.
			return
		}
		// Read failures are absorbed here: the nil record resolves to an
		// inactive free state, indistinguishable from "not subscribed".
		rec = nil
	}

	s.apply(ctx, gen, userID, entitlement.Resolve(rec))
}

// apply installs a resolved state if no later cycle has applied yet.
func (s *Session) apply(ctx context.Context, gen uint64, userID uuid.UUID, st entitlement.State) {
	s.mu.Lock()
	if s.closed || gen <= s.appliedGen || userID != s.userID {
		s.mu.Unlock()
		return
	}
	s.appliedGen = gen
	s.state = st
	s.phase = PhaseReady
	if s.ceilingTimer != nil {
		s.ceilingTimer.Stop()
		s.ceilingTimer = nil
	}
	s.mu.Unlock()

	if userID != uuid.Nil && !st.Loading {
		if err := s.cache.Set(ctx, userID, st); err != nil {
			s.log.WarnContext(ctx, "failed to cache entitlement state",
				logger.UserID(userID), logger.Error(err))
		}
	}
	s.publish(ctx, st)
}

// ceilingReached clears the loading flag for a cycle whose fetch has not
// resolved within the ceiling. It is a liveness guarantee for the UI, not
// a cancellation: the fetch keeps running and its result still applies.
func (s *Session) ceilingReached(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.nextGen || gen <= s.appliedGen || !s.state.Loading {
		s.mu.Unlock()
		return
	}
	s.state.Loading = false
	s.phase = PhaseReady
	st := s.state
	userID := s.userID
	s.mu.Unlock()

	s.log.Warn("entitlement fetch exceeded liveness ceiling, clearing loading flag",
		logger.UserID(userID),
		logger.Duration(s.ceiling),
	)
	s.publish(context.Background(), st)
}

func (s *Session) publish(ctx context.Context, st entitlement.State) {
	_ = s.bus.Broadcast(ctx, broadcast.Message[entitlement.State]{Data: st})
}
