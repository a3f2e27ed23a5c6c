package api

import (
	"context"

	"backstage-api/domain"
)

// TaskStore persists the board.
type TaskStore interface {
	FetchTasks(ctx context.Context, tenant, continuationToken string, limit int) ([]domain.Task, string, error)
	FetchAllTasks(ctx context.Context, tenant string) ([]domain.Task, error)
	InsertTask(ctx context.Context, tenant string, t domain.Task) error
	UpdateTask(ctx context.Context, tenant string, upd domain.TaskUpdate) error
	ApplyPositions(ctx context.Context, tenant string, updates []domain.PositionUpdate) error
	MoveTask(ctx context.Context, tenant, id string, status domain.Status, position int) error
	DeleteTask(ctx context.Context, tenant, id string) error
}

// RosterStore persists staff records.
type RosterStore interface {
	FetchStaff(ctx context.Context, tenant string) ([]domain.Staff, error)
	InsertStaff(ctx context.Context, tenant string, rec domain.Staff) error
	UpdateStaff(ctx context.Context, tenant string, rec domain.Staff) error
	DeleteStaff(ctx context.Context, tenant, id string) error
}

// CRMStore persists customer records.
type CRMStore interface {
	FetchCustomers(ctx context.Context, tenant string) ([]domain.Customer, error)
	InsertCustomer(ctx context.Context, tenant string, c domain.Customer) error
	UpdateCustomer(ctx context.Context, tenant string, c domain.Customer) error
	DeleteCustomer(ctx context.Context, tenant, id string) error
}

// InventoryStore persists stock records.
type InventoryStore interface {
	FetchInventory(ctx context.Context, tenant string) ([]domain.InventoryItem, error)
	InsertInventoryItem(ctx context.Context, tenant string, it domain.InventoryItem) error
	UpdateInventoryItem(ctx context.Context, tenant string, it domain.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, tenant, id string) error
}

// DocumentStore persists document metadata.
type DocumentStore interface {
	FetchDocuments(ctx context.Context, tenant string) ([]domain.Document, error)
	InsertDocument(ctx context.Context, tenant string, d domain.Document) error
	UpdateDocument(ctx context.Context, tenant string, d domain.Document) error
	DeleteDocument(ctx context.Context, tenant, id string) error
}

// ArtistStore persists the artist roster.
type ArtistStore interface {
	FetchArtists(ctx context.Context, tenant string) ([]domain.Artist, error)
	InsertArtist(ctx context.Context, tenant string, a domain.Artist) error
	UpdateArtist(ctx context.Context, tenant string, a domain.Artist) error
	DeleteArtist(ctx context.Context, tenant, id string) error
}

// EventSink forwards change events to downstream consumers.
type EventSink interface {
	EnqueueEvents(ctx context.Context, tenant string, events []domain.ChangeEvent) error
}

// Storage abstracts persistence for handlers.
type Storage interface {
	TaskStore
	RosterStore
	CRMStore
	InventoryStore
	DocumentStore
	ArtistStore
	EventSink
}

// InvalidContinuationTokenError is returned when a supplied pagination token
// is malformed or expired.
type InvalidContinuationTokenError interface {
	error
	InvalidContinuationToken()
}

// NotFoundError is returned when a mutation targets an entity that does not
// exist (deleted or never created).
type NotFoundError interface {
	error
	NotFound()
}

// Authenticator is implemented by types able to extract tenant IDs from headers.
type Authenticator interface {
	TenantFromAuthHeader(string) (string, error)
}

// Deduper prevents processing of duplicate mutations.
type Deduper interface {
	// Add records the idempotency key and returns true if it was newly added.
	Add(ctx context.Context, tenant, key string) (bool, error)
	// Remove deletes a previously added key, used when downstream processing fails.
	Remove(ctx context.Context, tenant, key string) error
}
