package plans

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Catalog is an immutable, validated view of the plan catalog. Build one at
// startup and share it freely; all methods are safe for concurrent use.
type Catalog struct {
	byID   map[string]Plan
	byName map[string]Plan // key is the folded display name
}

// NewCatalog loads plans from the source and validates them.
func NewCatalog(ctx context.Context, src Source) (*Catalog, error) {
	if src == nil {
		panic("plans: Source is required")
	}

	loaded, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := validate(loaded); err != nil {
		return nil, err
	}

	byID := make(map[string]Plan, len(loaded))
	byName := make(map[string]Plan, len(loaded))
	for id, p := range loaded {
		byID[id] = p
		byName[foldName(p.Name)] = p
	}

	return &Catalog{byID: byID, byName: byName}, nil
}

// ByID returns the plan with the given backend id.
func (c *Catalog) ByID(id string) (Plan, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// ResolveByName locates a plan by display name. Matching is
// case-insensitive and ignores surrounding whitespace, so the identifier a
// payment redirect carries ("Standard", "standard ") resolves to the same
// plan. Returns ErrPlanNotFound when nothing matches.
func (c *Catalog) ResolveByName(name string) (Plan, error) {
	p, ok := c.byName[foldName(name)]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %q", ErrPlanNotFound, name)
	}
	return p, nil
}

// List returns the public plans ordered by tier, then by name.
func (c *Catalog) List() []Plan {
	out := make([]Plan, 0, len(c.byID))
	for _, p := range c.byID {
		if p.Public {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// validate rejects catalogs that would misbehave at activation time:
// empty catalogs, blank ids or names, id/key mismatches, and two plans
// whose display names collide after folding.
func validate(loaded map[string]Plan) error {
	if len(loaded) == 0 {
		return ErrNoPlans
	}

	seenNames := make(map[string]string, len(loaded))
	for id, p := range loaded {
		if p.ID == "" || p.Name == "" {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %q must have both id and name", id))
		}
		if p.ID != id {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan id mismatch: map key %s != plan.ID %s", id, p.ID))
		}
		folded := foldName(p.Name)
		if prev, dup := seenNames[folded]; dup {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plans %s and %s share the display name %q", prev, id, p.Name))
		}
		seenNames[folded] = id
	}
	return nil
}
