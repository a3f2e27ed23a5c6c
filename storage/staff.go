package storage

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"backstage-api/domain"
)

type staffEntity struct {
	aztables.Entity
	Name       string  `json:"Name"`
	Role       string  `json:"Role"`
	Email      string  `json:"Email"`
	Phone      string  `json:"Phone"`
	HourlyRate float64 `json:"HourlyRate"`
	Shift      string  `json:"Shift"`
}

// FetchStaff retrieves every staff record for the tenant.
func (s *Storage) FetchStaff(ctx context.Context, tenant string) ([]domain.Staff, error) {
	ents, err := listAll[staffEntity](ctx, s.staff, tenant)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Staff, len(ents))
	for i, ent := range ents {
		out[i] = domain.Staff{
			ID:         ent.RowKey,
			Name:       ent.Name,
			Role:       ent.Role,
			Email:      ent.Email,
			Phone:      ent.Phone,
			HourlyRate: ent.HourlyRate,
			Shift:      ent.Shift,
		}
	}
	return out, nil
}

// InsertStaff persists a new staff record.
func (s *Storage) InsertStaff(ctx context.Context, tenant string, rec domain.Staff) error {
	return addEntity(ctx, s.staff, staffEntity{
		Entity:     aztables.Entity{PartitionKey: tenant, RowKey: rec.ID},
		Name:       rec.Name,
		Role:       rec.Role,
		Email:      rec.Email,
		Phone:      rec.Phone,
		HourlyRate: rec.HourlyRate,
		Shift:      rec.Shift,
	})
}

// UpdateStaff replaces the stored record with the given one.
func (s *Storage) UpdateStaff(ctx context.Context, tenant string, rec domain.Staff) error {
	return replaceEntity(ctx, s.staff, staffEntity{
		Entity:     aztables.Entity{PartitionKey: tenant, RowKey: rec.ID},
		Name:       rec.Name,
		Role:       rec.Role,
		Email:      rec.Email,
		Phone:      rec.Phone,
		HourlyRate: rec.HourlyRate,
		Shift:      rec.Shift,
	})
}

// DeleteStaff removes a staff record.
func (s *Storage) DeleteStaff(ctx context.Context, tenant, id string) error {
	return deleteEntity(ctx, s.staff, tenant, id)
}

func addEntity(ctx context.Context, client *aztables.Client, ent any) error {
	data, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	_, err = client.AddEntity(ctx, data, nil)
	return err
}

func replaceEntity(ctx context.Context, client *aztables.Client, ent any) error {
	data, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	opts := &aztables.UpdateEntityOptions{UpdateMode: aztables.UpdateModeReplace}
	if _, err := client.UpdateEntity(ctx, data, opts); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func deleteEntity(ctx context.Context, client *aztables.Client, tenant, id string) error {
	if _, err := client.DeleteEntity(ctx, tenant, id, nil); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
