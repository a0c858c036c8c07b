package plans

import "context"

// Source defines how plans are loaded into a Catalog.
type Source interface {
	Load(ctx context.Context) (map[string]Plan, error)
}

type inMemSource struct {
	plans map[string]Plan
}

// NewInMemSource returns a Source backed by the given plans.
// Panics if no plans are provided so a misconfigured catalog fails at
// startup rather than denying every activation at runtime.
func NewInMemSource(plans ...Plan) Source {
	if len(plans) < 1 {
		panic("plans: at least one plan is required")
	}
	byID := make(map[string]Plan, len(plans))
	for _, p := range plans {
		byID[p.ID] = p
	}
	return &inMemSource{plans: byID}
}

// Load returns a copy of the plans so callers cannot mutate the source.
func (s *inMemSource) Load(ctx context.Context) (map[string]Plan, error) {
	out := make(map[string]Plan, len(s.plans))
	for id, p := range s.plans {
		out[id] = p
	}
	return out, nil
}
