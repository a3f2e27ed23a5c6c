package storage

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"backstage-api/domain"
)

type inventoryEntity struct {
	aztables.Entity
	Name         string `json:"Name"`
	SKU          string `json:"SKU"`
	Quantity     int    `json:"Quantity"`
	ReorderLevel int    `json:"ReorderLevel"`
	Unit         string `json:"Unit"`
	Location     string `json:"Location"`
}

func inventoryToEntity(tenant string, it domain.InventoryItem) inventoryEntity {
	return inventoryEntity{
		Entity:       aztables.Entity{PartitionKey: tenant, RowKey: it.ID},
		Name:         it.Name,
		SKU:          it.SKU,
		Quantity:     it.Quantity,
		ReorderLevel: it.ReorderLevel,
		Unit:         it.Unit,
		Location:     it.Location,
	}
}

// FetchInventory retrieves every inventory item for the tenant.
func (s *Storage) FetchInventory(ctx context.Context, tenant string) ([]domain.InventoryItem, error) {
	ents, err := listAll[inventoryEntity](ctx, s.inventory, tenant)
	if err != nil {
		return nil, err
	}
	out := make([]domain.InventoryItem, len(ents))
	for i, ent := range ents {
		out[i] = domain.InventoryItem{
			ID:           ent.RowKey,
			Name:         ent.Name,
			SKU:          ent.SKU,
			Quantity:     ent.Quantity,
			ReorderLevel: ent.ReorderLevel,
			Unit:         ent.Unit,
			Location:     ent.Location,
		}
	}
	return out, nil
}

// InsertInventoryItem persists a new inventory item.
func (s *Storage) InsertInventoryItem(ctx context.Context, tenant string, it domain.InventoryItem) error {
	return addEntity(ctx, s.inventory, inventoryToEntity(tenant, it))
}

// UpdateInventoryItem replaces the stored item with the given one.
func (s *Storage) UpdateInventoryItem(ctx context.Context, tenant string, it domain.InventoryItem) error {
	return replaceEntity(ctx, s.inventory, inventoryToEntity(tenant, it))
}

// DeleteInventoryItem removes an inventory item.
func (s *Storage) DeleteInventoryItem(ctx context.Context, tenant, id string) error {
	return deleteEntity(ctx, s.inventory, tenant, id)
}
