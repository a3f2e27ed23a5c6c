package storage

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"backstage-api/domain"
)

type customerEntity struct {
	aztables.Entity
	Name          string  `json:"Name"`
	Email         string  `json:"Email"`
	Phone         string  `json:"Phone"`
	LifetimeSpend float64 `json:"LifetimeSpend"`
	Notes         string  `json:"Notes"`
}

func (e customerEntity) toCustomer() domain.Customer {
	return domain.Customer{
		ID:            e.RowKey,
		Name:          e.Name,
		Email:         e.Email,
		Phone:         e.Phone,
		LifetimeSpend: e.LifetimeSpend,
		Notes:         e.Notes,
	}
}

func customerToEntity(tenant string, c domain.Customer) customerEntity {
	return customerEntity{
		Entity:        aztables.Entity{PartitionKey: tenant, RowKey: c.ID},
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		LifetimeSpend: c.LifetimeSpend,
		Notes:         c.Notes,
	}
}

// FetchCustomers retrieves every CRM record for the tenant.
func (s *Storage) FetchCustomers(ctx context.Context, tenant string) ([]domain.Customer, error) {
	ents, err := listAll[customerEntity](ctx, s.customers, tenant)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Customer, len(ents))
	for i, ent := range ents {
		out[i] = ent.toCustomer()
	}
	return out, nil
}

// InsertCustomer persists a new CRM record.
func (s *Storage) InsertCustomer(ctx context.Context, tenant string, c domain.Customer) error {
	return addEntity(ctx, s.customers, customerToEntity(tenant, c))
}

// UpdateCustomer replaces the stored record with the given one.
func (s *Storage) UpdateCustomer(ctx context.Context, tenant string, c domain.Customer) error {
	return replaceEntity(ctx, s.customers, customerToEntity(tenant, c))
}

// DeleteCustomer removes a CRM record.
func (s *Storage) DeleteCustomer(ctx context.Context, tenant, id string) error {
	return deleteEntity(ctx, s.customers, tenant, id)
}
