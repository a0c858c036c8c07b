package entitlement

// Decision is the tri-state outcome a gate acts on. Pending means a fetch
// is still outstanding and the gate must render a neutral placeholder
// rather than a denial, to avoid a flash of locked content.
type Decision int

const (
	DecisionPending Decision = iota
	DecisionAllow
	DecisionDeny
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionDeny:
		return "deny"
	default:
		return "pending"
	}
}

// Decide evaluates a feature against an entitlement state. Both gate
// variants are pure functions of (feature, state) built on this.
func Decide(st State, f Feature) Decision {
	if st.Loading {
		return DecisionPending
	}
	if st.HasAccess(f) {
		return DecisionAllow
	}
	return DecisionDeny
}
