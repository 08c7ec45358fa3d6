package rows

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/painel-supervisorio/pkg/logger"
	pkgredis "github.com/angelmondragon/painel-supervisorio/pkg/redis"
)

// Cache holds the latest row per table. A hit may carry a nil Record, which
// means the table was empty when last read.
type Cache interface {
	Get(ctx context.Context, table string) (Record, bool)
	Set(ctx context.Context, table string, row Record, ttl time.Duration)
}

type memoryEntry struct {
	row     Record
	expires time.Time
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache returns an empty cache. now defaults to time.Now.
func NewMemoryCache(now func() time.Time) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{entries: map[string]memoryEntry{}, now: now}
}

func (c *MemoryCache) Get(_ context.Context, table string) (Record, bool) {
	c.mu.RLock()
	entry, ok := c.entries[table]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expires) {
		c.mu.Lock()
		if current, still := c.entries[table]; still && current.expires.Equal(entry.expires) {
			delete(c.entries, table)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.row.Clone(), true
}

func (c *MemoryCache) Set(_ context.Context, table string, row Record, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[table] = memoryEntry{row: row.Clone(), expires: c.now().Add(ttl)}
	c.mu.Unlock()
}

// RedisStore is the subset of the redis client the shared cache needs.
type RedisStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	RowKey(table string) string
}

type cachedRow struct {
	Row Record `json:"row"`
}

// RedisCache shares cached rows between replicas. Redis failures are logged
// and behave as misses so the dashboard keeps reading from the source.
type RedisCache struct {
	store RedisStore
	logg  *logger.Logger
}

func NewRedisCache(store RedisStore, logg *logger.Logger) *RedisCache {
	return &RedisCache{store: store, logg: logg}
}

func (c *RedisCache) Get(ctx context.Context, table string) (Record, bool) {
	raw, err := c.store.Get(ctx, c.store.RowKey(table))
	if err != nil {
		if !pkgredis.IsMiss(err) {
			c.warn(ctx, table, "row cache read failed", err)
		}
		return nil, false
	}
	var entry cachedRow
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&entry); err != nil {
		c.warn(ctx, table, "row cache entry unreadable", err)
		return nil, false
	}
	return entry.Row, true
}

func (c *RedisCache) Set(ctx context.Context, table string, row Record, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	payload, err := json.Marshal(cachedRow{Row: row})
	if err != nil {
		c.warn(ctx, table, "row cache entry not encodable", err)
		return
	}
	if err := c.store.Set(ctx, c.store.RowKey(table), string(payload), ttl); err != nil {
		c.warn(ctx, table, "row cache write failed", err)
	}
}

func (c *RedisCache) warn(ctx context.Context, table, msg string, err error) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithTable(ctx, table)
	ctx = c.logg.WithField(ctx, "error", err.Error())
	c.logg.Warn(ctx, msg)
}
