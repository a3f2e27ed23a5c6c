package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// crudOps adapts one back-office store to the shared list/create/update/
// delete handler shape. The page-level UI forms send whole records, so
// updates are full replacements rather than patches.
type crudOps[T any] struct {
	fetch    func(ctx context.Context, tenant string) ([]T, error)
	insert   func(ctx context.Context, tenant string, rec T) error
	update   func(ctx context.Context, tenant string, rec T) error
	remove   func(ctx context.Context, tenant, id string) error
	setID    func(rec *T, id string)
	validate func(rec T) string // non-empty result is the rejection message
	view     func(rec T) any    // optional response mapping for lists
}

func registerCRUD[T any](g *echo.Group, path string, auth Authenticator, ops crudOps[T]) {
	g.GET(path, listEntities(auth, ops))
	g.POST(path, createEntity(auth, ops))
	g.PUT(path+"/:id", updateEntity(auth, ops))
	g.DELETE(path+"/:id", removeEntity(auth, ops))
}

func listEntities[T any](auth Authenticator, ops crudOps[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		tenant, err := auth.TenantFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		records, err := ops.fetch(ctx, tenant)
		if err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		if ops.view == nil {
			return c.JSON(http.StatusOK, records)
		}
		views := make([]any, len(records))
		for i, rec := range records {
			views[i] = ops.view(rec)
		}
		return c.JSON(http.StatusOK, views)
	}
}

func createEntity[T any](auth Authenticator, ops crudOps[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		tenant, err := auth.TenantFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		var rec T
		if err := decodeBody(c, &rec); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if msg := ops.validate(rec); msg != "" {
			return c.String(http.StatusBadRequest, msg)
		}
		ops.setID(&rec, newID())
		if err := ops.insert(ctx, tenant, rec); err != nil {
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusCreated, rec)
	}
}

func updateEntity[T any](auth Authenticator, ops crudOps[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		tenant, err := auth.TenantFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		var rec T
		if err := decodeBody(c, &rec); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if msg := ops.validate(rec); msg != "" {
			return c.String(http.StatusBadRequest, msg)
		}
		ops.setID(&rec, c.Param("id"))
		if err := ops.update(ctx, tenant, rec); err != nil {
			status := storageErrorStatus(err)
			if status == http.StatusInternalServerError {
				c.Logger().Error(err)
			}
			return c.String(status, err.Error())
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func removeEntity[T any](auth Authenticator, ops crudOps[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		tenant, err := auth.TenantFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		if err := ops.remove(ctx, tenant, c.Param("id")); err != nil {
			status := storageErrorStatus(err)
			if status == http.StatusInternalServerError {
				c.Logger().Error(err)
			}
			return c.String(status, err.Error())
		}
		return c.NoContent(http.StatusNoContent)
	}
}
