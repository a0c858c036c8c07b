// Package entitlement is the pure core of the tiered-subscription
// entitlement engine: it turns a raw subscription record into a normalized
// plan tier, an activity flag, and per-feature allow/deny decisions.
//
// The package performs no I/O and holds no hidden state. Every function is
// deterministic given its inputs, which makes it safe to evaluate on every
// request or render without caching.
//
// # Tiers and features
//
// Plan tiers form a strict order: TierFree < TierStandard < TierPremium.
// Tiers are derived from the free-form plan name on a subscription record
// by lower-casing and trimming it; anything unrecognized maps to TierFree.
// Missing or ambiguous information always resolves toward denial, never
// toward access.
//
// Features are a closed set of identifiers. Access below premium comes from
// a static rule table; premium bypasses the table and grants everything,
// including feature identifiers the table does not know:
//
//	entitlement.HasAccess(entitlement.TierPremium, "anything") // true
//	entitlement.HasAccess(entitlement.TierStandard, entitlement.FeatureRanking) // false
//	entitlement.HasAccess(entitlement.TierFree, entitlement.FeatureAI) // false
//
// # Resolving records
//
// Resolve composes tier derivation and status evaluation into a State,
// the value cached by the session layer and consumed by gates:
//
//	st := entitlement.Resolve(rec)
//	if st.HasAccess(entitlement.FeatureStudyZone) {
//		// render protected content
//	}
//
// A nil record resolves to an inactive free state, so an unauthenticated
// or unsubscribed user needs no special casing downstream.
//
// # Gate decisions
//
// Decide adds the loading tri-state on top of HasAccess. While a fetch is
// outstanding the decision is DecisionPending and gates must render a
// neutral placeholder instead of a denial:
//
//	switch entitlement.Decide(st, feature) {
//	case entitlement.DecisionAllow:
//		// protected content
//	case entitlement.DecisionDeny:
//		// locked placeholder or upgrade prompt
//	default:
//		// pending placeholder
//	}
//
// Access is keyed by tier alone: State.Active is tracked and exposed but
// does not participate in HasAccess. An expired subscription therefore
// retains its tier's access until a newer record supersedes it; see the
// tests for the explicit assertion of that behavior.
package entitlement
