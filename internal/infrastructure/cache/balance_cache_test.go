package cache

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jargas/internal/core/types"
	"jargas/internal/domain/registers/stock"
)

// fakeRedis implements the handful of commands the cache issues.
type fakeRedis struct {
	redis.Cmdable

	data map[string]string
	ttls map[string]time.Duration
	down bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

var errDown = errors.New("connection refused")

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.down {
		return redis.NewStringResult("", errDown)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, exp time.Duration) *redis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttls[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (f *fakeRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	n, _ := strconv.ParseInt(f.data[key], 10, 64)
	n++
	f.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func snapshots() []stock.BalanceSnapshot {
	return []stock.BalanceSnapshot{{
		MaterialRef:  stock.MaterialRef{ID: 1, ProjectID: 7, NamaBarang: "Pipa PE 20mm", Satuan: "m"},
		TotalIn:      types.NewQuantity(100),
		CurrentStock: types.MustQuantity("70.25"),
		StockReady:   types.MustQuantity("68.25"),
	}}
}

func TestBalanceCache_StoreThenLoad(t *testing.T) {
	rdb := newFakeRedis()
	c := NewBalanceCache(rdb, time.Minute)
	ctx := context.Background()
	project := int64(7)
	f := stock.BalanceFilter{ProjectID: &project, Search: "pipa"}

	_, stamp, hit := c.Load(ctx, f)
	require.False(t, hit)
	require.Equal(t, "0", stamp)

	c.Store(ctx, f, stamp, snapshots())
	got, _, hit := c.Load(ctx, f)
	require.True(t, hit)
	assert.Equal(t, snapshots(), got)

	for _, ttl := range rdb.ttls {
		assert.Equal(t, time.Minute, ttl)
	}
}

func TestBalanceCache_InvalidateOrphansProjectAndGlobalPages(t *testing.T) {
	c := NewBalanceCache(newFakeRedis(), 0)
	ctx := context.Background()
	project, other := int64(7), int64(8)

	scoped := stock.BalanceFilter{ProjectID: &project}
	unrelated := stock.BalanceFilter{ProjectID: &other}
	global := stock.BalanceFilter{}
	for _, f := range []stock.BalanceFilter{scoped, unrelated, global} {
		_, stamp, _ := c.Load(ctx, f)
		c.Store(ctx, f, stamp, snapshots())
	}

	c.Invalidate(ctx, project)

	_, _, hit := c.Load(ctx, scoped)
	assert.False(t, hit)
	_, _, hit = c.Load(ctx, global)
	assert.False(t, hit)
	_, _, hit = c.Load(ctx, unrelated)
	assert.True(t, hit)
}

func TestBalanceCache_StaleStampIsNeverServed(t *testing.T) {
	c := NewBalanceCache(newFakeRedis(), 0)
	ctx := context.Background()
	project := int64(7)
	f := stock.BalanceFilter{ProjectID: &project}

	_, stamp, _ := c.Load(ctx, f)
	// a write commits while the page is being computed
	c.Invalidate(ctx, project)
	c.Store(ctx, f, stamp, snapshots())

	_, _, hit := c.Load(ctx, f)
	assert.False(t, hit)
}

func TestBalanceCache_RedisDownIsAMiss(t *testing.T) {
	rdb := newFakeRedis()
	rdb.down = true
	c := NewBalanceCache(rdb, 0)

	_, stamp, hit := c.Load(context.Background(), stock.BalanceFilter{})
	assert.False(t, hit)
	assert.Empty(t, stamp)

	c.Store(context.Background(), stock.BalanceFilter{}, stamp, snapshots())
	assert.Empty(t, rdb.data)
}
