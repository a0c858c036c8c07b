package entitlement

import "strings"

// Feature identifies a gated product capability. The set is closed and
// known at compile time; gate callers pass identifiers, never implementations.
type Feature string

const (
	FeatureTheoretical Feature = "theoretical"
	FeatureStudyZone   Feature = "studyZone"
	FeatureRanking     Feature = "ranking"
	FeatureOneOnOne    Feature = "1x1"
	FeatureAI          Feature = "ai"
	FeatureAnalytics   Feature = "analytics"
	FeatureEscapeRoom  Feature = "escape_room"
	FeatureBattleMode  Feature = "battle_mode"
)

// Features lists every known feature in a stable order.
// Useful for building UI matrices and exhaustive tests.
func Features() []Feature {
	return []Feature{
		FeatureTheoretical,
		FeatureStudyZone,
		FeatureRanking,
		FeatureOneOnOne,
		FeatureAI,
		FeatureAnalytics,
		FeatureEscapeRoom,
		FeatureBattleMode,
	}
}

// PlanTier is the normalized subscription level. Tiers are ordered:
// TierFree < TierStandard < TierPremium.
type PlanTier int

const (
	TierFree PlanTier = iota
	TierStandard
	TierPremium
)

func (t PlanTier) String() string {
	switch t {
	case TierStandard:
		return "standard"
	case TierPremium:
		return "premium"
	default:
		return "free"
	}
}

// AtLeast reports whether the tier is at or above the given tier.
func (t PlanTier) AtLeast(other PlanTier) bool {
	return t >= other
}

// ParseTier normalizes a free-form plan name into a tier.
// Matching is case-insensitive and ignores surrounding whitespace.
// The second return value reports whether the name was recognized.
func ParseTier(name string) (PlanTier, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "free":
		return TierFree, true
	case "standard":
		return TierStandard, true
	case "premium":
		return TierPremium, true
	default:
		return TierFree, false
	}
}

// SubscriptionStatus represents the lifecycle state of a subscription record.
type SubscriptionStatus string

const (
	StatusActive   SubscriptionStatus = "active"
	StatusInactive SubscriptionStatus = "inactive"
	StatusExpired  SubscriptionStatus = "expired"
	StatusCanceled SubscriptionStatus = "canceled"
)

// IsActive reports whether the status grants an active subscription.
// Unknown status strings behave as inactive.
func (s SubscriptionStatus) IsActive() bool {
	return s == StatusActive
}
