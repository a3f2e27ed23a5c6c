package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"backstage-api/domain"
)

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, store Storage, auth Authenticator, deduper Deduper, notifier *redis.Client, notifyChannel string, logger *log.Logger) {
	e.GET("/healthz", healthz(store))

	g := e.Group("/api")
	g.GET("/tasks", getTasks(store, auth, logger))
	g.POST("/tasks", createTask(store, auth, deduper))
	g.PATCH("/tasks/:id", updateTask(store, auth, deduper))
	g.DELETE("/tasks/:id", deleteTask(store, auth, deduper))
	g.POST("/tasks/reorder", reorderTasks(store, auth, deduper, logger))

	registerRoster(g, store, auth)
	registerCRM(g, store, auth)
	registerInventory(g, store, auth)
	registerDocuments(g, store, auth)
	registerArtists(g, store, auth)

	initEventPublisher(store, notifier, notifyChannel, logger)
}

type tasksResponse struct {
	Tasks         []domain.Task `json:"tasks"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

func healthz(_ Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getTasks(store TaskStore, auth Authenticator, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newBoardRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
			ctx = spanCtx
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		authStart := time.Now()
		tenant, authErr := auth.TenantFromAuthHeader(c.Request().Header.Get("Authorization"))
		metrics.ObserveAuth(time.Since(authStart))
		if authErr != nil {
			metrics.SetErrorStage("auth")
			err = c.String(http.StatusUnauthorized, authErr.Error())
			return err
		}
		pageToken := c.QueryParam("pageToken")
		metrics.SetPageTokenProvided(pageToken != "")

		pageSizeParam := strings.TrimSpace(c.QueryParam("pageSize"))
		pageSize := 0
		if pageSizeParam != "" {
			var parseErr error
			pageSize, parseErr = strconv.Atoi(pageSizeParam)
			if parseErr != nil || pageSize <= 0 {
				metrics.SetErrorStage("invalid_page_size")
				err = c.String(http.StatusBadRequest, "invalid page size")
				return err
			}
		}

		fetchStart := time.Now()
		tasks, nextToken, fetchErr := store.FetchTasks(ctx, tenant, pageToken, pageSize)
		metrics.ObserveFetch(time.Since(fetchStart))
		if fetchErr != nil {
			var invalidTokenErr InvalidContinuationTokenError
			if errors.As(fetchErr, &invalidTokenErr) {
				metrics.SetErrorStage("invalid_page_token")
				err = c.String(http.StatusBadRequest, "invalid page token")
				return err
			}
			metrics.SetErrorStage("storage")
			c.Logger().Error(fetchErr)
			err = c.String(http.StatusInternalServerError, fetchErr.Error())
			return err
		}
		metrics.SetTasksReturned(len(tasks))
		resp := tasksResponse{Tasks: tasks}
		if nextToken != "" {
			metrics.SetHasNextPage(true)
			resp.NextPageToken = nextToken
		}
		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, resp)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

// storageErrorStatus maps storage failures to response codes.
func storageErrorStatus(err error) int {
	var nf NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// claimIdempotency records the request's Idempotency-Key, when present.
// duplicate means the key was seen before and the mutation must not be
// reapplied. The returned release func rolls the claim back when the
// mutation fails so the client may retry.
func claimIdempotency(c echo.Context, deduper Deduper, tenant string) (release func(), duplicate bool, err error) {
	key := strings.TrimSpace(c.Request().Header.Get("Idempotency-Key"))
	if key == "" || deduper == nil {
		return func() {}, false, nil
	}
	ctx := c.Request().Context()
	added, err := deduper.Add(ctx, tenant, key)
	if err != nil {
		return nil, false, err
	}
	if !added {
		return func() {}, true, nil
	}
	return func() {
		if rerr := deduper.Remove(bg, tenant, key); rerr != nil {
			c.Logger().Errorf("idempotency rollback failed: %v, key: %s, tenant: %s", rerr, key, tenant)
		}
	}, false, nil
}
