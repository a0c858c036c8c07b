package entitlement

// TierOf derives the normalized plan tier from a subscription record.
// A nil record, an empty plan name, or an unrecognized plan name all
// map to TierFree (fail closed).
func TierOf(rec *Record) PlanTier {
	if rec == nil || rec.PlanName == "" {
		return TierFree
	}
	tier, ok := ParseTier(rec.PlanName)
	if !ok {
		// Unrecognized plan name: free.
		return TierFree
	}
	return tier
}

// IsActive reports whether the record exists and its status is active.
func IsActive(rec *Record) bool {
	return rec.IsActive()
}

// Resolve turns a subscription record into an entitlement state.
// It is pure and deterministic; safe to call on every request.
//
// Note that Active is tracked but never consulted by HasAccess: access is
// keyed by tier alone, so an expired standard subscription keeps its tier's
// access until a newer record supersedes it. Resolve preserves that
// observed behavior rather than second-guessing it.
func Resolve(rec *Record) State {
	tier := TierOf(rec)
	return State{
		Tier:    tier,
		Active:  IsActive(rec),
		Premium: tier == TierPremium,
		Loading: false,
	}
}
