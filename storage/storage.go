package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
)

type notFoundError struct{}

func (notFoundError) Error() string { return "entity not found" }
func (notFoundError) NotFound()     {}

// ErrNotFound is returned when the requested entity does not exist. It
// satisfies the API layer's NotFoundError contract.
var ErrNotFound error = notFoundError{}

// Config names the tables and queue backing the service.
type Config struct {
	TasksTable     string
	StaffTable     string
	CustomersTable string
	InventoryTable string
	DocumentsTable string
	ArtistsTable   string
	EventQueue     string
	TaskPageSize   int
}

// Storage provides access to the underlying persistence mechanisms.
type Storage struct {
	svc          *aztables.ServiceClient
	tasks        *aztables.Client
	staff        *aztables.Client
	customers    *aztables.Client
	inventory    *aztables.Client
	documents    *aztables.Client
	artists      *aztables.Client
	eventQueue   *azqueue.QueueClient
	cfg          Config
	taskPageSize int
}

// New creates a Storage instance from the given connection string.
func New(connStr string, cfg Config) (*Storage, error) {
	tablesClientOptions := aztables.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    3,
				TryTimeout:    time.Minute * 3,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 15,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, &tablesClientOptions)
	if err != nil {
		return nil, err
	}
	queueClientOptions := azqueue.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries:    5,
				TryTimeout:    time.Minute * 5,
				RetryDelay:    time.Second * 1,
				MaxRetryDelay: time.Second * 60,
				StatusCodes:   []int{408, 429, 500, 502, 503, 504},
			},
		},
	}
	eq, err := azqueue.NewQueueClientFromConnectionString(connStr, cfg.EventQueue, &queueClientOptions)
	if err != nil {
		return nil, err
	}
	pageSize := cfg.TaskPageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Storage{
		svc:          svc,
		tasks:        svc.NewClient(cfg.TasksTable),
		staff:        svc.NewClient(cfg.StaffTable),
		customers:    svc.NewClient(cfg.CustomersTable),
		inventory:    svc.NewClient(cfg.InventoryTable),
		documents:    svc.NewClient(cfg.DocumentsTable),
		artists:      svc.NewClient(cfg.ArtistsTable),
		eventQueue:   eq,
		cfg:          cfg,
		taskPageSize: pageSize,
	}, nil
}

// EnsureTables provisions the backing tables and the event queue, tolerating
// resources that already exist.
func (s *Storage) EnsureTables(ctx context.Context) error {
	tables := []string{
		s.cfg.TasksTable, s.cfg.StaffTable, s.cfg.CustomersTable,
		s.cfg.InventoryTable, s.cfg.DocumentsTable, s.cfg.ArtistsTable,
	}
	for _, name := range tables {
		if _, err := s.svc.CreateTable(ctx, name, nil); err != nil && !alreadyExists(err) {
			return err
		}
	}
	if _, err := s.eventQueue.Create(ctx, nil); err != nil && !alreadyExists(err) {
		return err
	}
	return nil
}

func alreadyExists(err error) bool {
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	return respErr.StatusCode == http.StatusConflict
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	return respErr.StatusCode == http.StatusNotFound
}

func partitionFilter(tenant string) string {
	return "PartitionKey eq '" + strings.ReplaceAll(tenant, "'", "''") + "'"
}

// listAll drains the pager over a single tenant partition.
func listAll[E any](ctx context.Context, client *aztables.Client, tenant string) ([]E, error) {
	filter := partitionFilter(tenant)
	pager := client.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})
	out := []E{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, raw := range resp.Entities {
			var ent E
			if err := json.Unmarshal(raw, &ent); err != nil {
				return nil, err
			}
			out = append(out, ent)
		}
	}
	return out, nil
}

// invalidPageTokenError satisfies the API layer's
// InvalidContinuationTokenError contract.
type invalidPageTokenError struct{}

func (invalidPageTokenError) Error() string             { return "invalid page token" }
func (invalidPageTokenError) InvalidContinuationToken() {}

type pageToken struct {
	NextPartitionKey string `json:"npk"`
	NextRowKey       string `json:"nrk"`
}

func encodePageToken(npk, nrk *string) string {
	if npk == nil || *npk == "" {
		return ""
	}
	tok := pageToken{NextPartitionKey: *npk}
	if nrk != nil {
		tok.NextRowKey = *nrk
	}
	data, err := json.Marshal(tok)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

func decodePageToken(raw string) (npk, nrk *string, err error) {
	if raw == "" {
		return nil, nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, nil, invalidPageTokenError{}
	}
	var tok pageToken
	if err := json.Unmarshal(data, &tok); err != nil || tok.NextPartitionKey == "" {
		return nil, nil, invalidPageTokenError{}
	}
	return &tok.NextPartitionKey, &tok.NextRowKey, nil
}
