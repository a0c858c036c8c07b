package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepstack/entitlement/pkg/entitlement"
	"github.com/prepstack/entitlement/pkg/logger"
	"github.com/prepstack/entitlement/pkg/plans"
)

// Activator is the post-payment activation flow: it resolves a plan
// identifier against the static catalog and writes a new subscription
// record. It knows nothing about the Session; after a successful
// activation the caller is responsible for invoking Session.Refresh, which
// keeps the write path decoupled from the read/cache path.
type Activator struct {
	catalog *plans.Catalog
	store   SubscriptionStore
	log     *slog.Logger
	now     func() time.Time
}

// ActivatorOption configures an Activator.
type ActivatorOption func(*Activator)

// WithActivatorLogger sets the logger for activation outcomes.
func WithActivatorLogger(log *slog.Logger) ActivatorOption {
	return func(a *Activator) {
		if log != nil {
			a.log = log
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) ActivatorOption {
	return func(a *Activator) {
		if now != nil {
			a.now = now
		}
	}
}

// NewActivator creates an Activator. Panics if catalog or store is nil to
// fail fast during initialization.
func NewActivator(catalog *plans.Catalog, store SubscriptionStore, opts ...ActivatorOption) *Activator {
	if catalog == nil {
		panic("entitlement: plan catalog is required")
	}
	if store == nil {
		panic("entitlement: SubscriptionStore is required")
	}

	a := &Activator{
		catalog: catalog,
		store:   store,
		log:     slog.Default(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Activate writes a new active subscription record for the resolved plan.
//
// Preconditions are surfaced as typed, user-displayable errors:
// ErrUnauthenticated when no user is present (the store is never
// contacted), plans.ErrPlanNotFound when the identifier matches nothing in
// the catalog. An unresolvable plan blocks activation entirely; there is
// no fail-closed default to a wrong tier on this path.
//
// Write failures wrap ErrActivationFailed and are never retried here:
// retrying a subscription write risks double activation, so retry must be
// an explicit user action.
func (a *Activator) Activate(ctx context.Context, userID uuid.UUID, planName string) (*entitlement.Record, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	plan, err := a.catalog.ResolveByName(planName)
	if err != nil {
		a.log.InfoContext(ctx, "activation rejected: unknown plan",
			logger.UserID(userID), slog.String("plan", planName))
		return nil, err
	}

	now := a.now()
	rec := &entitlement.Record{
		UserID:    userID,
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		Status:    entitlement.StatusActive,
		StartedAt: now,
		CreatedAt: now,
	}

	if err := a.store.Create(ctx, rec); err != nil {
		a.log.ErrorContext(ctx, "activation write failed",
			logger.UserID(userID), logger.PlanID(plan.ID), logger.Error(err))
		return nil, errors.Join(ErrActivationFailed,
			fmt.Errorf("could not activate plan %q: %w", plan.Name, err))
	}

	a.log.InfoContext(ctx, "plan activated",
		logger.UserID(userID), logger.PlanID(plan.ID))
	return rec, nil
}
