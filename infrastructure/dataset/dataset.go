// Package dataset ships the static mock customer collection the current
// dashboard build runs on. It implements the same CustomerSource contract as
// the postgres repository, so the analytics layer is wired identically
// whichever source the config selects.
package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/ljy951110/BRS-prototype-sub000/internal/domain"
)

//go:embed customers.json
var customersJSON []byte

type StaticSource struct {
	customers []*domain.Customer
	byID      map[int64]*domain.Customer
}

// New parses the embedded collection once. Malformed embedded data is a
// build defect and fails startup.
func New() (*StaticSource, error) {
	var customers []*domain.Customer
	if err := json.Unmarshal(customersJSON, &customers); err != nil {
		return nil, fmt.Errorf("dataset: parsing embedded customers: %w", err)
	}

	byID := make(map[int64]*domain.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	return &StaticSource{customers: customers, byID: byID}, nil
}

func (s *StaticSource) ListCustomers() ([]*domain.Customer, error) {
	return s.customers, nil
}

func (s *StaticSource) GetCustomerByID(id int64) (*domain.Customer, error) {
	return s.byID[id], nil
}
