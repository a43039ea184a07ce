package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"jargas/internal/domain/registers/stock"
	"jargas/pkg/logger"
)

const (
	keyPrefix          = "jargas:balance:"
	defaultSnapshotTTL = 5 * time.Minute
)

// BalanceCache implements stock.SnapshotCache on Redis.
//
// Pages are keyed by a generation counter: one per project for
// project-scoped filters, one shared for unscoped filters. Invalidating a
// project bumps both, which orphans every page that could contain it. The
// orphans expire with their TTL.
type BalanceCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewBalanceCache creates a balance cache. ttl <= 0 uses five minutes.
func NewBalanceCache(client redis.Cmdable, ttl time.Duration) *BalanceCache {
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	return &BalanceCache{client: client, ttl: ttl}
}

func projectGenKey(projectID int64) string {
	return fmt.Sprintf("%sgen:project:%d", keyPrefix, projectID)
}

const allGenKey = keyPrefix + "gen:all"

func genKey(f stock.BalanceFilter) string {
	if f.ProjectID != nil {
		return projectGenKey(*f.ProjectID)
	}
	return allGenKey
}

func pageKey(f stock.BalanceFilter, stamp string) (string, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)

	scope := "all"
	if f.ProjectID != nil {
		scope = strconv.FormatInt(*f.ProjectID, 10)
	}
	return fmt.Sprintf("%spage:%s:%s:%s", keyPrefix, scope, stamp, hex.EncodeToString(sum[:16])), nil
}

// Load implements stock.SnapshotCache. An empty stamp means Redis could not
// be read and the result must not be stored.
func (c *BalanceCache) Load(ctx context.Context, f stock.BalanceFilter) ([]stock.BalanceSnapshot, string, bool) {
	gen, err := c.client.Get(ctx, genKey(f)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		logger.Warn(ctx, "balance cache generation read failed", "error", err)
		return nil, "", false
	}
	stamp := strconv.FormatInt(gen, 10)

	key, err := pageKey(f, stamp)
	if err != nil {
		return nil, "", false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, stamp, false
	}
	if err != nil {
		logger.Warn(ctx, "balance cache read failed", "key", key, "error", err)
		return nil, stamp, false
	}

	var snaps []stock.BalanceSnapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		logger.Warn(ctx, "balance cache entry corrupted", "key", key, "error", err)
		_ = c.client.Del(ctx, key)
		return nil, stamp, false
	}
	return snaps, stamp, true
}

// Store implements stock.SnapshotCache.
func (c *BalanceCache) Store(ctx context.Context, f stock.BalanceFilter, stamp string, snapshots []stock.BalanceSnapshot) {
	if stamp == "" {
		return
	}
	key, err := pageKey(f, stamp)
	if err != nil {
		return
	}
	data, err := json.Marshal(snapshots)
	if err != nil {
		logger.Warn(ctx, "balance cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "balance cache write failed", "key", key, "error", err)
	}
}

// Invalidate implements stock.Invalidator.
func (c *BalanceCache) Invalidate(ctx context.Context, projectID int64) {
	for _, key := range []string{projectGenKey(projectID), allGenKey} {
		if err := c.client.Incr(ctx, key).Err(); err != nil {
			logger.Error(ctx, "balance cache invalidation failed",
				"project_id", projectID,
				"key", key,
				"error", err,
			)
		}
	}
}

var _ stock.SnapshotCache = (*BalanceCache)(nil)
