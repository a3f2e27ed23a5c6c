package api

import (
	"github.com/labstack/echo/v4"

	"backstage-api/domain"
)

func registerInventory(g *echo.Group, store InventoryStore, auth Authenticator) {
	registerCRUD(g, "/inventory", auth, crudOps[domain.InventoryItem]{
		fetch:  store.FetchInventory,
		insert: store.InsertInventoryItem,
		update: store.UpdateInventoryItem,
		remove: store.DeleteInventoryItem,
		setID:  func(rec *domain.InventoryItem, id string) { rec.ID = id },
		validate: func(rec domain.InventoryItem) string {
			if rec.Name == "" {
				return "name is required"
			}
			if rec.Quantity < 0 {
				return "quantity cannot be negative"
			}
			return ""
		},
	})
}
