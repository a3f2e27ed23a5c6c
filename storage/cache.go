package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"backstage-api/domain"
)

type taskBackend interface {
	FetchTasks(ctx context.Context, tenant, token string, limit int) ([]domain.Task, string, error)
	FetchAllTasks(ctx context.Context, tenant string) ([]domain.Task, error)
	InsertTask(ctx context.Context, tenant string, t domain.Task) error
	UpdateTask(ctx context.Context, tenant string, upd domain.TaskUpdate) error
	ApplyPositions(ctx context.Context, tenant string, updates []domain.PositionUpdate) error
	MoveTask(ctx context.Context, tenant, id string, status domain.Status, position int) error
	DeleteTask(ctx context.Context, tenant, id string) error
}

// Cache wraps a Storage instance with Redis-backed caching for board reads.
// Every task mutation evicts the tenant's cached board; Redis failures fall
// back to the backing storage without failing the request.
type Cache struct {
	*Storage
	base  taskBackend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching Storage wrapper using the provided Redis client
// and TTL.
func NewCache(base taskBackend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	c := &Cache{
		base:  base,
		redis: client,
		ttl:   ttl,
	}
	if s, ok := base.(*Storage); ok {
		c.Storage = s
	}
	return c
}

type cachedPage struct {
	Tasks         []domain.Task `json:"tasks"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

// FetchTasks serves the default first page from cache when possible. Pages
// addressed by continuation token or an explicit size always hit storage.
func (c *Cache) FetchTasks(ctx context.Context, tenant, token string, limit int) ([]domain.Task, string, error) {
	if token != "" || limit > 0 {
		return c.base.FetchTasks(ctx, tenant, token, limit)
	}
	if page, ok := c.loadPage(ctx, tasksCacheKey(tenant)); ok {
		return page.Tasks, page.NextPageToken, nil
	}
	tasks, next, err := c.base.FetchTasks(ctx, tenant, token, limit)
	if err != nil {
		return nil, "", err
	}
	c.store(ctx, tasksCacheKey(tenant), cachedPage{Tasks: tasks, NextPageToken: next})
	return tasks, next, nil
}

// FetchAllTasks serves the whole board from cache when possible.
func (c *Cache) FetchAllTasks(ctx context.Context, tenant string) ([]domain.Task, error) {
	if page, ok := c.loadPage(ctx, boardCacheKey(tenant)); ok {
		return page.Tasks, nil
	}
	tasks, err := c.base.FetchAllTasks(ctx, tenant)
	if err != nil {
		return nil, err
	}
	c.store(ctx, boardCacheKey(tenant), cachedPage{Tasks: tasks})
	return tasks, nil
}

func (c *Cache) InsertTask(ctx context.Context, tenant string, t domain.Task) error {
	if err := c.base.InsertTask(ctx, tenant, t); err != nil {
		return err
	}
	c.evict(ctx, tenant)
	return nil
}

func (c *Cache) UpdateTask(ctx context.Context, tenant string, upd domain.TaskUpdate) error {
	if err := c.base.UpdateTask(ctx, tenant, upd); err != nil {
		return err
	}
	c.evict(ctx, tenant)
	return nil
}

func (c *Cache) ApplyPositions(ctx context.Context, tenant string, updates []domain.PositionUpdate) error {
	if err := c.base.ApplyPositions(ctx, tenant, updates); err != nil {
		return err
	}
	c.evict(ctx, tenant)
	return nil
}

func (c *Cache) MoveTask(ctx context.Context, tenant, id string, status domain.Status, position int) error {
	if err := c.base.MoveTask(ctx, tenant, id, status, position); err != nil {
		return err
	}
	c.evict(ctx, tenant)
	return nil
}

func (c *Cache) DeleteTask(ctx context.Context, tenant, id string) error {
	if err := c.base.DeleteTask(ctx, tenant, id); err != nil {
		return err
	}
	c.evict(ctx, tenant)
	return nil
}

func (c *Cache) loadPage(ctx context.Context, key string) (cachedPage, bool) {
	if c.redis == nil {
		return cachedPage{}, false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, key).Err()
		}
		return cachedPage{}, false
	}
	var page cachedPage
	if err := json.Unmarshal(data, &page); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return cachedPage{}, false
	}
	return page, true
}

func (c *Cache) store(ctx context.Context, key string, page cachedPage) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context, tenant string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, tasksCacheKey(tenant), boardCacheKey(tenant)).Result()
}

func tasksCacheKey(tenant string) string {
	return "tasks:" + tenant
}

func boardCacheKey(tenant string) string {
	return "board:" + tenant
}
