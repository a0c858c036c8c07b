package entitlement

// ruleRow holds the access decision for every feature at one tier.
// Rows are constructed with positional literals so that adding a Feature
// field here is a compile error in every row below, not a silent denial.
type ruleRow struct {
	theoretical bool
	studyZone   bool
	ranking     bool
	oneOnOne    bool
	ai          bool
	analytics   bool
	escapeRoom  bool
	battleMode  bool
}

var (
	freeRules     = ruleRow{false, false, false, false, false, false, false, false}
	standardRules = ruleRow{true, true, false, false, true, false, false, false}
)

// rowFor returns the rule row for a tier. Premium has no row: it is
// handled by the bypass in HasAccess before the table is consulted.
// Any tier outside the table falls back to the free row (fail closed).
func rowFor(tier PlanTier) ruleRow {
	switch tier {
	case TierStandard:
		return standardRules
	case TierFree:
		return freeRules
	default:
		// Unknown tier: free rules.
		return freeRules
	}
}

// HasAccess reports whether a plan tier grants access to a feature.
//
// Premium grants every feature unconditionally, including identifiers the
// table has never heard of; the rule table is bypassed entirely. This is
// deliberate: premium is the top of the tier order and the bypass keeps a
// stale table from ever locking out a paying premium user.
//
// For all other tiers the decision comes from the static rule table.
// A feature absent from the table is denied (fail closed).
func HasAccess(tier PlanTier, f Feature) bool {
	if tier == TierPremium {
		return true
	}

	row := rowFor(tier)
	switch f {
	case FeatureTheoretical:
		return row.theoretical
	case FeatureStudyZone:
		return row.studyZone
	case FeatureRanking:
		return row.ranking
	case FeatureOneOnOne:
		return row.oneOnOne
	case FeatureAI:
		return row.ai
	case FeatureAnalytics:
		return row.analytics
	case FeatureEscapeRoom:
		return row.escapeRoom
	case FeatureBattleMode:
		return row.battleMode
	default:
		// Unknown feature: deny.
		return false
	}
}
