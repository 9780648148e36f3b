package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/classification-service/internal/models"
	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultFrameworkCacheSize = 128
	defaultFrameworkCacheTTL  = 5 * time.Minute
)

// Snapshot is a framework together with its question bank, the unit the
// scoring engine needs.
type Snapshot struct {
	Framework *models.Framework  `json:"framework"`
	Questions []*models.Question `json:"questions"`
}

// SnapshotLoader reads a snapshot from the source of truth.
type SnapshotLoader func(ctx context.Context, tenantID string, frameworkID uint) (*Snapshot, error)

type FrameworkCacheConfig struct {
	MaxSize int
	TTL     time.Duration
}

type snapshotEntry struct {
	snapshot *Snapshot
	storedAt time.Time
}

// FrameworkCache is a two tier read-through cache: an in-process LRU in front
// of an optional shared CacheService in front of the loader.
type FrameworkCache struct {
	local  *lru.Cache[string, snapshotEntry]
	shared CacheService
	load   SnapshotLoader
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewFrameworkCache(shared CacheService, load SnapshotLoader, config FrameworkCacheConfig, logger *slog.Logger) (*FrameworkCache, error) {
	if load == nil {
		return nil, errors.New("framework cache requires a loader")
	}
	if config.MaxSize <= 0 {
		config.MaxSize = defaultFrameworkCacheSize
	}
	if config.TTL <= 0 {
		config.TTL = defaultFrameworkCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	local, err := lru.New[string, snapshotEntry](config.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create framework LRU: %w", err)
	}

	return &FrameworkCache{
		local:  local,
		shared: shared,
		load:   load,
		ttl:    config.TTL,
		logger: logger.With("component", "framework_cache"),
		now:    time.Now,
	}, nil
}

func FrameworkKey(tenantID string, frameworkID uint) string {
	return fmt.Sprintf("framework:%s:%d", tenantID, frameworkID)
}

// Get returns the snapshot, consulting the LRU, then the shared cache, then
// the loader. Shared cache failures degrade to a load.
func (c *FrameworkCache) Get(ctx context.Context, tenantID string, frameworkID uint) (*Snapshot, error) {
	key := FrameworkKey(tenantID, frameworkID)

	if entry, ok := c.local.Get(key); ok {
		if c.now().Sub(entry.storedAt) < c.ttl {
			return entry.snapshot, nil
		}
		c.local.Remove(key)
	}

	if c.shared != nil {
		var snapshot Snapshot
		err := c.shared.Get(ctx, key, &snapshot)
		if err == nil && snapshot.Framework != nil {
			c.local.Add(key, snapshotEntry{snapshot: &snapshot, storedAt: c.now()})
			return &snapshot, nil
		}
		if err != nil && !errors.Is(err, ErrCacheMiss) {
			c.logger.WarnContext(ctx, "Shared cache unavailable, loading from store", "key", key, "error", err)
		}
	}

	snapshot, err := c.load(ctx, tenantID, frameworkID)
	if err != nil {
		return nil, err
	}

	c.local.Add(key, snapshotEntry{snapshot: snapshot, storedAt: c.now()})
	if c.shared != nil {
		if err := c.shared.Set(ctx, key, snapshot, c.ttl); err != nil {
			c.logger.WarnContext(ctx, "Failed to populate shared cache", "key", key, "error", err)
		}
	}
	return snapshot, nil
}

// Invalidate drops a framework from both tiers, e.g. after a question import.
func (c *FrameworkCache) Invalidate(ctx context.Context, tenantID string, frameworkID uint) {
	key := FrameworkKey(tenantID, frameworkID)
	c.local.Remove(key)
	if c.shared != nil {
		if err := c.shared.Delete(ctx, key); err != nil {
			c.logger.WarnContext(ctx, "Failed to invalidate shared cache", "key", key, "error", err)
		}
	}
}

// Len is the number of snapshots held in process.
func (c *FrameworkCache) Len() int {
	return c.local.Len()
}
