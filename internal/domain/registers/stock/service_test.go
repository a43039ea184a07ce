package stock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jargas/internal/core/apperror"
	"jargas/internal/core/tx"
	"jargas/internal/core/types"
)

type fakeRepo struct {
	refs      []MaterialRef
	in        map[int64]types.Quantity
	out       map[int64]types.Quantity
	installed map[int64]types.Quantity
	returns   map[int64]ReturnTotals

	matchCalls int
	sumIDs     []int64
	err        error
}

func (r *fakeRepo) MatchMaterials(ctx context.Context, f BalanceFilter) ([]MaterialRef, error) {
	r.matchCalls++
	return r.refs, r.err
}

func (r *fakeRepo) SumStockIn(ctx context.Context, ids []int64, f BalanceFilter) (map[int64]types.Quantity, error) {
	r.sumIDs = ids
	return r.in, nil
}

func (r *fakeRepo) SumStockOut(ctx context.Context, ids []int64, f BalanceFilter) (map[int64]types.Quantity, error) {
	return r.out, nil
}

func (r *fakeRepo) SumInstalled(ctx context.Context, ids []int64, f BalanceFilter) (map[int64]types.Quantity, error) {
	return r.installed, nil
}

func (r *fakeRepo) SumReturns(ctx context.Context, ids []int64, f BalanceFilter) (map[int64]ReturnTotals, error) {
	return r.returns, nil
}

type memoryCache struct {
	NoopCache
	stored []BalanceSnapshot
	stamp  string
}

func (c *memoryCache) Load(context.Context, BalanceFilter) ([]BalanceSnapshot, string, bool) {
	return c.stored, "g1", c.stored != nil
}

func (c *memoryCache) Store(_ context.Context, _ BalanceFilter, stamp string, snaps []BalanceSnapshot) {
	c.stamp = stamp
	c.stored = snaps
}

func q(units int64) types.Quantity { return types.NewQuantity(units) }

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeSnapshot_ReturnBeforeRelease(t *testing.T) {
	snap := ComputeSnapshot(MaterialRef{ID: 1}, StreamTotals{
		In:        q(100),
		Out:       q(40),
		Terpasang: q(25),
		Returns:   ReturnTotals{Kembali: q(10), KondisiBaik: q(8), KondisiReject: q(2)},
	})

	assert.Equal(t, q(40), snap.KeluarEfektif)
	assert.Equal(t, q(70), snap.CurrentStock)
	assert.Equal(t, q(68), snap.StockReady)
	assert.Equal(t, q(25), snap.TotalTerpasang)
}

func TestComputeSnapshot_ReleasedReturnNotCountedTwice(t *testing.T) {
	// the release issued a new stock-out of 10
	snap := ComputeSnapshot(MaterialRef{ID: 1}, StreamTotals{
		In:      q(100),
		Out:     q(50),
		Returns: ReturnTotals{ReturKeluar: q(10), KondisiReject: q(2)},
	})

	assert.Equal(t, q(40), snap.KeluarEfektif)
	assert.Equal(t, q(60), snap.CurrentStock)
	assert.Equal(t, q(58), snap.StockReady)
}

func TestComputeSnapshot_StockReadyNeverNegative(t *testing.T) {
	snap := ComputeSnapshot(MaterialRef{ID: 1}, StreamTotals{
		In:      q(1),
		Out:     q(5),
		Returns: ReturnTotals{KondisiReject: q(3)},
	})

	assert.Equal(t, q(-4), snap.CurrentStock)
	assert.True(t, snap.StockReady.IsZero())
}

func TestService_GetBalance(t *testing.T) {
	repo := &fakeRepo{
		refs: []MaterialRef{{ID: 2, NamaBarang: "Pipa"}, {ID: 1, NamaBarang: "Klem"}},
		in:   map[int64]types.Quantity{1: q(100), 2: q(5)},
		out:  map[int64]types.Quantity{1: q(40)},
		returns: map[int64]ReturnTotals{
			1: {Kembali: q(10), KondisiReject: q(2)},
		},
	}
	svc := NewService(repo, &tx.MockManager{}, nil)

	snaps, err := svc.GetBalance(context.Background(), BalanceFilter{})
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	assert.Equal(t, []int64{2, 1}, repo.sumIDs)
	assert.Equal(t, "Pipa", snaps[0].NamaBarang)
	assert.Equal(t, q(5), snaps[0].CurrentStock)
	assert.Equal(t, q(70), snaps[1].CurrentStock)
	assert.Equal(t, q(68), snaps[1].StockReady)
	assert.Equal(t, q(75), TotalCurrentStock(snaps))
}

func TestService_GetBalance_NoMatch(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &tx.MockManager{}, nil)

	snaps, err := svc.GetBalance(context.Background(), BalanceFilter{Search: "none"})
	require.NoError(t, err)
	assert.NotNil(t, snaps)
	assert.Empty(t, snaps)
	assert.Nil(t, repo.sumIDs)
}

func TestService_GetBalance_RejectsInvertedRange(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &tx.MockManager{}, nil)

	from := testDate(2025, 2, 1)
	to := testDate(2025, 1, 1)
	_, err := svc.GetBalance(context.Background(), BalanceFilter{DateFrom: &from, DateTo: &to})
	assert.True(t, apperror.IsValidation(err))
	assert.Zero(t, repo.matchCalls)
}

func TestService_GetBalance_UsesCache(t *testing.T) {
	repo := &fakeRepo{refs: []MaterialRef{{ID: 1}}, in: map[int64]types.Quantity{1: q(3)}}
	cache := &memoryCache{}
	svc := NewService(repo, &tx.MockManager{}, cache)

	_, err := svc.GetBalance(context.Background(), BalanceFilter{})
	require.NoError(t, err)
	snaps, err := svc.GetBalance(context.Background(), BalanceFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.matchCalls)
	assert.Equal(t, "g1", cache.stamp)
	assert.Equal(t, q(3), snaps[0].CurrentStock)
}

func TestService_GetBalance_RepoError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&fakeRepo{err: boom}, &tx.MockManager{}, nil)

	_, err := svc.GetBalance(context.Background(), BalanceFilter{})
	assert.ErrorIs(t, err, boom)
}

func TestService_GetMaterialBalance(t *testing.T) {
	svc := NewService(&fakeRepo{}, &tx.MockManager{}, nil)

	_, found, err := svc.GetMaterialBalance(context.Background(), 9, nil)
	require.NoError(t, err)
	assert.False(t, found)
}
