package api

import (
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"backstage-api/domain"
)

type createTaskRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      domain.Status `json:"status"`
	Priority    string        `json:"priority"`
	Assignee    string        `json:"assignee"`
	DueDate     string        `json:"dueDate"`
	Tags        []string      `json:"tags"`
}

type taskPatchRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Status      *domain.Status `json:"status"`
	Position    *int           `json:"position"`
	Priority    *string        `json:"priority"`
	Assignee    *string        `json:"assignee"`
	DueDate     *string        `json:"dueDate"`
	Tags        *[]string      `json:"tags"`
}

type reorderResponse struct {
	Applied bool `json:"applied"`
}

func decodeBody(c echo.Context, out any) error {
	lr := io.LimitReader(c.Request().Body, requestBodyMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func createTask(store TaskStore, auth Authenticator, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		tenant, err := auth.TenantFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		var req createTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.Title == "" {
			return c.String(http.StatusBadRequest, "title is required")
		}
		if req.Status == "" {
			req.Status = domain.StatusTodo
		}
		if !req.Status.Valid() {
			return c.String(http.StatusBadRequest, "unknown status")
		}

		release, duplicate, err := claimIdempotency(c, deduper, tenant)
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		if duplicate {
			return c.NoContent(http.StatusAccepted)
		}

		// New cards append at the bottom of their column.
		board, err := store.FetchAllTasks(ctx, tenant)
		if err != nil {
			release()
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}
		task := domain.Task{
			ID:          newID(),
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
			Position:    domain.NextPosition(board, req.Status),
			Priority:    req.Priority,
			Assignee:    req.Assignee,
			DueDate:     req.DueDate,
			Tags:        req.Tags,
		}
		if err := store.InsertTask(ctx, tenant, task); err != nil {
			release()
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}

		queueChangeEvents(tenant, newChangeEvent("task", task.ID, domain.TaskCreated))
		return c.JSON(http.StatusCreated, task)
	}
}

func updateTask(store TaskStore, auth Authenticator, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		tenant, err := auth.TenantFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		id := c.Param("id")

		var req taskPatchRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if req.Status != nil && !req.Status.Valid() {
			return c.String(http.StatusBadRequest, "unknown status")
		}
		upd := domain.TaskUpdate{
			ID:          id,
			Title:       req.Title,
			Description: req.Description,
			Status:      req.Status,
			Position:    req.Position,
			Priority:    req.Priority,
			Assignee:    req.Assignee,
			DueDate:     req.DueDate,
			Tags:        req.Tags,
		}
		if upd.Empty() {
			return c.String(http.StatusBadRequest, "update had no fields")
		}

		release, duplicate, err := claimIdempotency(c, deduper, tenant)
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		if duplicate {
			return c.NoContent(http.StatusAccepted)
		}

		if err := store.UpdateTask(ctx, tenant, upd); err != nil {
			release()
			status := storageErrorStatus(err)
			if status == http.StatusInternalServerError {
				c.Logger().Error(err)
			}
			return c.String(status, err.Error())
		}

		queueChangeEvents(tenant, newChangeEvent("task", id, domain.TaskUpdated))
		return c.NoContent(http.StatusNoContent)
	}
}

func deleteTask(store TaskStore, auth Authenticator, deduper Deduper) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		tenant, err := auth.TenantFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}
		id := c.Param("id")

		release, duplicate, err := claimIdempotency(c, deduper, tenant)
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		if duplicate {
			return c.NoContent(http.StatusAccepted)
		}

		if err := store.DeleteTask(ctx, tenant, id); err != nil {
			release()
			status := storageErrorStatus(err)
			if status == http.StatusInternalServerError {
				c.Logger().Error(err)
			}
			return c.String(status, err.Error())
		}

		queueChangeEvents(tenant, newChangeEvent("task", id, domain.TaskDeleted))
		return c.NoContent(http.StatusNoContent)
	}
}

func reorderTasks(store TaskStore, auth Authenticator, deduper Deduper, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		tenant, err := auth.TenantFromAuthHeader(c.Request().Header.Get("Authorization"))
		if err != nil {
			return c.String(http.StatusUnauthorized, err.Error())
		}

		var drag domain.DragResult
		if err := decodeBody(c, &drag); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if drag.TaskID == "" || !drag.SourceStatus.Valid() || !drag.DestinationStatus.Valid() {
			return c.String(http.StatusBadRequest, "invalid drag result")
		}

		release, duplicate, err := claimIdempotency(c, deduper, tenant)
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		if duplicate {
			return c.JSON(http.StatusAccepted, reorderResponse{Applied: false})
		}

		board, err := store.FetchAllTasks(ctx, tenant)
		if err != nil {
			release()
			c.Logger().Error(err)
			return c.String(http.StatusInternalServerError, err.Error())
		}

		plan := domain.PlanReorder(board, drag)
		switch {
		case plan.NoOp():
			return c.JSON(http.StatusOK, reorderResponse{Applied: false})
		case plan.Move != nil:
			if err := store.MoveTask(ctx, tenant, plan.Move.ID, plan.Move.Status, plan.Move.Position); err != nil {
				release()
				status := storageErrorStatus(err)
				if status == http.StatusInternalServerError {
					c.Logger().Error(err)
				}
				return c.String(status, err.Error())
			}
			queueChangeEvents(tenant, newChangeEvent("task", drag.TaskID, domain.TaskMoved))
		default:
			if err := store.ApplyPositions(ctx, tenant, plan.Reindex); err != nil {
				release()
				status := storageErrorStatus(err)
				if status == http.StatusInternalServerError {
					c.Logger().Error(err)
				}
				return c.String(status, err.Error())
			}
			queueChangeEvents(tenant, newChangeEvent("task", drag.TaskID, domain.TaskReordered))
		}

		logger.WithFields(log.Fields{
			"tenant":      tenant,
			"task":        drag.TaskID,
			"source":      drag.SourceStatus,
			"destination": drag.DestinationStatus,
			"batch_size":  len(plan.Reindex),
		}).Debug("reorder committed")
		return c.JSON(http.StatusOK, reorderResponse{Applied: true})
	}
}
