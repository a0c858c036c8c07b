package entitlement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepstack/entitlement/pkg/entitlement"
	"github.com/prepstack/entitlement/pkg/logger"
)

const (
	defaultFetchTimeout       = 10 * time.Second
	defaultFetchRetryAttempts = 3
	defaultFetchRetryInterval = 200 * time.Millisecond
)

// Fetcher reads the current subscription record for a user. It owns the
// retry/timeout policy for reads and the null-user short circuit; it never
// mutates persisted state.
type Fetcher struct {
	store    SubscriptionStore
	log      *slog.Logger
	timeout  time.Duration
	attempts int
	interval time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetcherLogger sets the logger used for absorbed read failures.
func WithFetcherLogger(log *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if log != nil {
			f.log = log
		}
	}
}

// WithFetchTimeout sets the per-attempt deadline.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithFetchRetry sets the attempt count and base interval between attempts.
func WithFetchRetry(attempts int, interval time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if attempts > 0 {
			f.attempts = attempts
		}
		if interval >= 0 {
			f.interval = interval
		}
	}
}

// NewFetcher creates a Fetcher. Panics if store is nil to fail fast during
// initialization.
func NewFetcher(store SubscriptionStore, opts ...FetcherOption) *Fetcher {
	if store == nil {
		panic("entitlement: SubscriptionStore is required")
	}

	f := &Fetcher{
		store:    store,
		log:      slog.Default(),
		timeout:  defaultFetchTimeout,
		attempts: defaultFetchRetryAttempts,
		interval: defaultFetchRetryInterval,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewFetcherFromConfig creates a Fetcher from an env-loaded Config.
func NewFetcherFromConfig(store SubscriptionStore, cfg Config, opts ...FetcherOption) *Fetcher {
	base := []FetcherOption{
		WithFetchTimeout(cfg.FetchTimeout),
		WithFetchRetry(cfg.FetchRetryAttempts, cfg.FetchRetryInterval),
	}
	return NewFetcher(store, append(base, opts...)...)
}

// Fetch returns the user's most recent subscription record, or nil when the
// user has none.
//
// A zero userID means no authenticated user: the call returns (nil, nil)
// immediately without contacting the store. A missing record is likewise a
// valid (nil, nil) answer and is never retried.
//
// Transport failures are retried with linear backoff; once the attempts are
// exhausted the last error is logged and wrapped in ErrTransportFailure (or
// ErrTimeout when the deadline was the cause). Callers resolve the nil
// record fail-closed to the free tier.
func (f *Fetcher) Fetch(ctx context.Context, userID uuid.UUID) (*entitlement.Record, error) {
	if userID == uuid.Nil {
		return nil, nil
	}

	var lastErr error
	for i := range f.attempts {
		if i > 0 {
			// Linear backoff, same shape as the db connect retry.
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrTransportFailure, ctx.Err())
			case <-time.After(time.Duration(i) * f.interval):
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, f.timeout)
		rec, err := f.store.GetByUser(attemptCtx, userID)
		cancel()

		switch {
		case err == nil:
			return rec, nil
		case errors.Is(err, ErrSubscriptionNotFound):
			return nil, nil
		case ctx.Err() != nil:
			// Parent context gone; retrying is pointless.
			return nil, errors.Join(ErrTransportFailure, ctx.Err())
		default:
			lastErr = err
		}
	}

	wrapped := ErrTransportFailure
	if errors.Is(lastErr, context.DeadlineExceeded) {
		wrapped = ErrTimeout
	}

	f.log.WarnContext(ctx, "subscription fetch failed, failing closed to free",
		logger.UserID(userID),
		logger.RetryCount(f.attempts),
		logger.Error(lastErr),
	)
	return nil, errors.Join(wrapped, lastErr)
}
