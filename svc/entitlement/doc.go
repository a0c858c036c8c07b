// Package entitlement wires the pure entitlement core into a running
// service: a Fetcher that reads subscription records with retries and
// timeouts, a Session that caches the resolved state per identity and
// keeps the UI live, HTTP gates that render pending/locked/allowed
// content, and an Activator for the post-payment write path.
//
// Typical wiring:
//
//	store := entitlement.NewPGStore(pool)
//	fetcher := entitlement.NewFetcherFromConfig(store, cfg)
//	session := entitlement.NewSession(fetcher,
//		entitlement.WithStateCache(entitlement.NewRedisStateCacheFromConfig(rdb, cfg)))
//	defer session.Close()
//
//	r.With(entitlement.RouteGuard(session, core.FeatureAI, entitlement.GuardConfig{})).
//		Get("/ai", aiHandler)
//
// where core is the pkg/entitlement import.
package entitlement
