package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambev-sales/sales-service/internal/domain"
)

type fakeKV struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeKV) Get(_ context.Context, key string) *goredis.StringCmd {
	if f.failGet != nil {
		return goredis.NewStringResult("", f.failGet)
	}
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func TestSaleCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newFakeKV()
	cache := NewSaleCache(store, time.Minute)

	sale := domain.NewSale("S-001", "Customer A", "Branch 1")
	sale.CreateSaleDate()
	require.NoError(t, sale.AddItem(domain.NewSaleItem(uuid.Nil, "Beer", 6, decimal.RequireFromString("9.99"))))

	miss, err := cache.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, cache.Set(ctx, sale))
	assert.Equal(t, time.Minute, store.ttls["sale:"+sale.ID.String()])

	hit, err := cache.Get(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, sale.ID, hit.ID)
	assert.True(t, hit.TotalAmount.Equal(sale.TotalAmount))
	require.Len(t, hit.Items, 1)
	assert.True(t, hit.Items[0].Discount.Equal(sale.Items[0].Discount))

	require.NoError(t, cache.Invalidate(ctx, sale.ID))
	gone, err := cache.Get(ctx, sale.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSaleCache_GetError(t *testing.T) {
	store := newFakeKV()
	store.failGet = errors.New("connection reset")

	_, err := NewSaleCache(store, time.Minute).Get(context.Background(), uuid.New())

	assert.ErrorIs(t, err, store.failGet)
}

func TestSaleCache_CorruptEntry(t *testing.T) {
	store := newFakeKV()
	id := uuid.New()
	store.data["sale:"+id.String()] = "{not json"

	_, err := NewSaleCache(store, time.Minute).Get(context.Background(), id)

	assert.Error(t, err)
}
