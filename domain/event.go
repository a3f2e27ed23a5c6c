package domain

const (
	TaskCreated   = "task-created"
	TaskUpdated   = "task-updated"
	TaskReordered = "task-reordered"
	TaskMoved     = "task-moved"
	TaskDeleted   = "task-deleted"
)

// ChangeEvent notifies downstream consumers that an entity changed.
type ChangeEvent struct {
	ID         string `json:"id"`
	EntityID   string `json:"entityId"`
	EntityType string `json:"entityType"`
	Type       string `json:"type"`
	Timestamp  int64  `json:"timestamp"`
}

// ChangeEnvelope wraps a change event with the tenant it belongs to.
type ChangeEnvelope struct {
	TenantID string      `json:"tenantId"`
	Event    ChangeEvent `json:"event"`
}
