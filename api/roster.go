package api

import (
	"github.com/labstack/echo/v4"

	"backstage-api/domain"
)

func registerRoster(g *echo.Group, store RosterStore, auth Authenticator) {
	registerCRUD(g, "/staff", auth, crudOps[domain.Staff]{
		fetch:  store.FetchStaff,
		insert: store.InsertStaff,
		update: store.UpdateStaff,
		remove: store.DeleteStaff,
		setID:  func(rec *domain.Staff, id string) { rec.ID = id },
		validate: func(rec domain.Staff) string {
			if rec.Name == "" {
				return "name is required"
			}
			if rec.Role == "" {
				return "role is required"
			}
			return ""
		},
	})
}
