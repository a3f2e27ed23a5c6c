package api

import (
	"github.com/labstack/echo/v4"

	"backstage-api/domain"
)

func registerArtists(g *echo.Group, store ArtistStore, auth Authenticator) {
	registerCRUD(g, "/artists", auth, crudOps[domain.Artist]{
		fetch:  store.FetchArtists,
		insert: store.InsertArtist,
		update: store.UpdateArtist,
		remove: store.DeleteArtist,
		setID:  func(rec *domain.Artist, id string) { rec.ID = id },
		validate: func(rec domain.Artist) string {
			if rec.Name == "" {
				return "name is required"
			}
			if rec.Fee < 0 {
				return "fee cannot be negative"
			}
			return ""
		},
	})
}
