package api

import (
	"github.com/labstack/echo/v4"

	"backstage-api/domain"
)

func registerDocuments(g *echo.Group, store DocumentStore, auth Authenticator) {
	registerCRUD(g, "/documents", auth, crudOps[domain.Document]{
		fetch:  store.FetchDocuments,
		insert: store.InsertDocument,
		update: store.UpdateDocument,
		remove: store.DeleteDocument,
		setID:  func(rec *domain.Document, id string) { rec.ID = id },
		validate: func(rec domain.Document) string {
			if rec.Name == "" {
				return "name is required"
			}
			return ""
		},
	})
}
