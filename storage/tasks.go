package storage

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"backstage-api/domain"
)

type taskEntity struct {
	aztables.Entity
	Title       string `json:"Title"`
	Description string `json:"Description"`
	Status      string `json:"Status"`
	Position    int    `json:"Position"`
	Priority    string `json:"Priority"`
	Assignee    string `json:"Assignee"`
	DueDate     string `json:"DueDate"`
	Tags        string `json:"Tags"`
}

func (e taskEntity) toTask() domain.Task {
	t := domain.Task{
		ID:          e.RowKey,
		Title:       e.Title,
		Description: e.Description,
		Status:      domain.Status(e.Status),
		Position:    e.Position,
		Priority:    e.Priority,
		Assignee:    e.Assignee,
		DueDate:     e.DueDate,
	}
	if e.Tags != "" {
		_ = json.Unmarshal([]byte(e.Tags), &t.Tags)
	}
	return t
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(data)
}

// FetchTasks retrieves one page of tasks for the tenant. An empty token
// starts from the beginning; the returned token is empty on the last page.
// A limit of zero falls back to the configured page size.
func (s *Storage) FetchTasks(ctx context.Context, tenant, token string, limit int) ([]domain.Task, string, error) {
	npk, nrk, err := decodePageToken(token)
	if err != nil {
		return nil, "", err
	}
	if limit <= 0 {
		limit = s.taskPageSize
	}
	filter := partitionFilter(tenant)
	top := int32(limit)
	pager := s.tasks.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter:           &filter,
		Top:              &top,
		NextPartitionKey: npk,
		NextRowKey:       nrk,
	})
	tasks := []domain.Task{}
	if !pager.More() {
		return tasks, "", nil
	}
	resp, err := pager.NextPage(ctx)
	if err != nil {
		return nil, "", err
	}
	for _, raw := range resp.Entities {
		var ent taskEntity
		if err := json.Unmarshal(raw, &ent); err != nil {
			return nil, "", err
		}
		tasks = append(tasks, ent.toTask())
	}
	return tasks, encodePageToken(resp.NextPartitionKey, resp.NextRowKey), nil
}

// FetchAllTasks drains every page for the tenant. The reorder path needs the
// whole board to project columns.
func (s *Storage) FetchAllTasks(ctx context.Context, tenant string) ([]domain.Task, error) {
	ents, err := listAll[taskEntity](ctx, s.tasks, tenant)
	if err != nil {
		return nil, err
	}
	tasks := make([]domain.Task, len(ents))
	for i, ent := range ents {
		tasks[i] = ent.toTask()
	}
	return tasks, nil
}

// InsertTask persists a new task.
func (s *Storage) InsertTask(ctx context.Context, tenant string, t domain.Task) error {
	ent := taskEntity{
		Entity:      aztables.Entity{PartitionKey: tenant, RowKey: t.ID},
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Position:    t.Position,
		Priority:    t.Priority,
		Assignee:    t.Assignee,
		DueDate:     t.DueDate,
		Tags:        encodeTags(t.Tags),
	}
	data, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	if _, err := s.tasks.AddEntity(ctx, data, nil); err != nil {
		return err
	}
	return nil
}

// UpdateTask merges the provided fields into the stored task.
func (s *Storage) UpdateTask(ctx context.Context, tenant string, upd domain.TaskUpdate) error {
	fields := map[string]any{
		"PartitionKey": tenant,
		"RowKey":       upd.ID,
	}
	if upd.Title != nil {
		fields["Title"] = *upd.Title
	}
	if upd.Description != nil {
		fields["Description"] = *upd.Description
	}
	if upd.Status != nil {
		fields["Status"] = string(*upd.Status)
	}
	if upd.Position != nil {
		fields["Position"] = *upd.Position
	}
	if upd.Priority != nil {
		fields["Priority"] = *upd.Priority
	}
	if upd.Assignee != nil {
		fields["Assignee"] = *upd.Assignee
	}
	if upd.DueDate != nil {
		fields["DueDate"] = *upd.DueDate
	}
	if upd.Tags != nil {
		fields["Tags"] = encodeTags(*upd.Tags)
	}
	return s.mergeTask(ctx, fields)
}

// ApplyPositions commits a same-column renumbering batch.
func (s *Storage) ApplyPositions(ctx context.Context, tenant string, updates []domain.PositionUpdate) error {
	for _, u := range updates {
		fields := map[string]any{
			"PartitionKey": tenant,
			"RowKey":       u.ID,
			"Position":     u.Position,
		}
		if err := s.mergeTask(ctx, fields); err != nil {
			return err
		}
	}
	return nil
}

// MoveTask relocates a task to another column at the given position.
func (s *Storage) MoveTask(ctx context.Context, tenant, id string, status domain.Status, position int) error {
	fields := map[string]any{
		"PartitionKey": tenant,
		"RowKey":       id,
		"Status":       string(status),
		"Position":     position,
	}
	return s.mergeTask(ctx, fields)
}

func (s *Storage) mergeTask(ctx context.Context, fields map[string]any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	opts := &aztables.UpdateEntityOptions{UpdateMode: aztables.UpdateModeMerge}
	if _, err := s.tasks.UpdateEntity(ctx, data, opts); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// DeleteTask removes a task. Siblings keep their positions; gaps are fine.
func (s *Storage) DeleteTask(ctx context.Context, tenant, id string) error {
	if _, err := s.tasks.DeleteEntity(ctx, tenant, id, nil); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
