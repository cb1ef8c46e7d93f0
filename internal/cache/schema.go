package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Marga-Ghale/ora-boards-backend/internal/columns"
	"github.com/Marga-Ghale/ora-boards-backend/internal/db"
	"github.com/Marga-Ghale/ora-boards-backend/internal/metrics"
	gocache "github.com/patrickmn/go-cache"
)

const DefaultTTL = 5 * time.Minute

// Loader reads a board's columns from the source of truth.
type Loader func(ctx context.Context, boardID string) ([]*columns.Column, error)

// SchemaCache caches the ordered column list of each board. It uses Redis
// when configured and an in-process cache otherwise.
type SchemaCache struct {
	redis *db.Keyspace
	local *gocache.Cache
	ttl   time.Duration
}

func NewSchemaCache(redis *db.RedisDB, ttl time.Duration) *SchemaCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &SchemaCache{
		local: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
	if redis != nil {
		c.redis = redis.Keyspace("cache")
	}
	return c
}

func schemaKey(boardID string) string {
	return "board_schema:" + boardID
}

// Columns returns the cached schema, calling load on a miss.
func (c *SchemaCache) Columns(ctx context.Context, boardID string, load Loader) ([]*columns.Column, error) {
	if cols, ok := c.get(ctx, boardID); ok {
		metrics.Get().RecordCacheLookup(true)
		return cols, nil
	}
	metrics.Get().RecordCacheLookup(false)

	cols, err := load(ctx, boardID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, boardID, cols)
	return copyColumns(cols), nil
}

// Invalidate drops the board's schema; the next read reloads it.
func (c *SchemaCache) Invalidate(ctx context.Context, boardID string) {
	c.local.Delete(schemaKey(boardID))
	if c.redis == nil {
		return
	}
	if err := c.redis.Delete(ctx, schemaKey(boardID)); err != nil {
		log.Printf("⚠️ [Cache] Failed to invalidate schema for board %s: %v", boardID, err)
	}
}

func (c *SchemaCache) get(ctx context.Context, boardID string) ([]*columns.Column, bool) {
	if c.redis == nil {
		v, ok := c.local.Get(schemaKey(boardID))
		if !ok {
			return nil, false
		}
		return copyColumns(v.([]*columns.Column)), true
	}

	var cols []*columns.Column
	err := c.redis.GetJSON(ctx, schemaKey(boardID), &cols)
	if err == nil {
		return cols, true
	}
	if !errors.Is(err, db.ErrCacheMiss) {
		log.Printf("⚠️ [Cache] Redis read failed for board %s: %v", boardID, err)
	}
	return nil, false
}

func (c *SchemaCache) set(ctx context.Context, boardID string, cols []*columns.Column) {
	if c.redis == nil {
		c.local.Set(schemaKey(boardID), copyColumns(cols), c.ttl)
		return
	}
	if err := c.redis.SetJSON(ctx, schemaKey(boardID), cols, c.ttl); err != nil {
		log.Printf("⚠️ [Cache] Redis write failed for board %s: %v", boardID, err)
	}
}

// copyColumns keeps callers from mutating cached entries. Settings are
// shared; services replace them rather than editing in place.
func copyColumns(cols []*columns.Column) []*columns.Column {
	out := make([]*columns.Column, len(cols))
	for i, col := range cols {
		cp := *col
		out[i] = &cp
	}
	return out
}
