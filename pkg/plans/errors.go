package plans

import "errors"

var (
	ErrPlanNotFound             = errors.New("plan not found")
	ErrNoPlans                  = errors.New("at least one plan is required")
	ErrFailedToLoadPlans        = errors.New("failed to load plan catalog")
	ErrInvalidPlanConfiguration = errors.New("invalid plan configuration")
)
