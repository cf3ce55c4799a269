package quota

import (
	"context"
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlPlan is the on-disk representation of a plan tier.
type yamlPlan struct {
	Code     string           `yaml:"code"`
	Nickname string           `yaml:"nickname"`
	Limits   map[string]int64 `yaml:"limits"`
	Price    struct {
		Amount   int64  `yaml:"amount"`
		Currency string `yaml:"currency"`
	} `yaml:"price"`
	Benefits []string `yaml:"benefits"`
}

// fileSource loads the plan catalog from a YAML file.
type fileSource struct {
	path string
}

// NewFileSource returns a Source that reads plans from a YAML file:
//
//	plans:
//	  - code: free
//	    nickname: Starter
//	    limits:
//	      athletes: 50
//	      academies: 1
//	    price: {amount: 0, currency: USD}
//
// Use -1 as a limit value for unlimited resources.
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

// Load reads and parses the catalog file.
func (s *fileSource) Load(ctx context.Context) (map[PlanCode]Plan, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	var doc struct {
		Plans []yamlPlan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	plans := make(map[PlanCode]Plan, len(doc.Plans))
	for _, yp := range doc.Plans {
		limits := make(map[Resource]int64, len(yp.Limits))
		for res, limit := range yp.Limits {
			limits[Resource(res)] = limit
		}

		code := PlanCode(yp.Code)
		plans[code] = Plan{
			Code:     code,
			Nickname: yp.Nickname,
			Limits:   limits,
			Price:    Money{Amount: yp.Price.Amount, Currency: yp.Price.Currency},
			Benefits: yp.Benefits,
		}
	}

	return plans, nil
}
