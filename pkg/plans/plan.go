package plans

import "github.com/prepstack/entitlement/pkg/entitlement"

// Money represents a monetary amount in the smallest currency unit.
// For example, 9.99 EUR is Amount: 999, Currency: "EUR".
type Money struct {
	Amount   int64  `yaml:"amount"`
	Currency string `yaml:"currency"`
}

// BillingInterval represents the billing frequency for a plan.
type BillingInterval string

const (
	IntervalNone    BillingInterval = "none" // free plans with no billing
	IntervalMonthly BillingInterval = "monthly"
	IntervalAnnual  BillingInterval = "annual"
)

// Plan describes one entry in the static plan catalog. The catalog is the
// activation flow's source of truth: a payment redirect comes back with a
// plan name, and the matching Plan's ID is what gets written into the new
// subscription record.
type Plan struct {
	ID          string               `yaml:"id"`   // backend plan id, written into subscription rows
	Name        string               `yaml:"name"` // display name, matched case-insensitively
	Tier        entitlement.PlanTier `yaml:"-"`
	Description string               `yaml:"description"`
	Price       Money                `yaml:"price"`
	Interval    BillingInterval      `yaml:"interval"`
	Public      bool                 `yaml:"public"` // available for self-service selection
}

// IsFree reports whether the plan has no billing attached.
func (p Plan) IsFree() bool {
	return p.Interval == IntervalNone || p.Interval == ""
}
