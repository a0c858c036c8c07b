package plans

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/prepstack/entitlement/pkg/entitlement"
)

// yamlPlan mirrors Plan for decoding; the tier arrives as a string and is
// normalized through entitlement.ParseTier during Load.
type yamlPlan struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Tier        string          `yaml:"tier"`
	Description string          `yaml:"description"`
	Price       Money           `yaml:"price"`
	Interval    BillingInterval `yaml:"interval"`
	Public      bool            `yaml:"public"`
}

type yamlFile struct {
	Plans []yamlPlan `yaml:"plans"`
}

type yamlSource struct {
	path string
}

// NewYAMLSource returns a Source that reads the plan catalog from a YAML
// file. The file is read on every Load, so a Catalog rebuild picks up
// edits without a restart.
//
// Expected format:
//
//	plans:
//	  - id: plan_standard_monthly
//	    name: Standard
//	    tier: standard
//	    price: {amount: 999, currency: EUR}
//	    interval: monthly
//	    public: true
func NewYAMLSource(path string) Source {
	return &yamlSource{path: path}
}

func (s *yamlSource) Load(ctx context.Context) (map[string]Plan, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	var file yamlFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	if len(file.Plans) == 0 {
		return nil, errors.Join(ErrFailedToLoadPlans, ErrNoPlans)
	}

	out := make(map[string]Plan, len(file.Plans))
	for _, yp := range file.Plans {
		// Catalog configuration errors block loading entirely; unlike
		// runtime plan-name normalization there is no fail-closed default
		// here, a typoed tier in the catalog must not ship as free.
		tier, ok := entitlement.ParseTier(yp.Tier)
		if !ok {
			return nil, errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has unknown tier %q", yp.ID, yp.Tier))
		}

		out[yp.ID] = Plan{
			ID:          yp.ID,
			Name:        yp.Name,
			Tier:        tier,
			Description: yp.Description,
			Price:       yp.Price,
			Interval:    yp.Interval,
			Public:      yp.Public,
		}
	}

	return out, nil
}
