package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaleItemRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	sales := NewSaleRepository(db, nil, nil)
	repo := NewSaleItemRepository(db, nil, nil)

	sale := newSale(t, item("Beer", 2, 10))
	require.NoError(t, sales.Create(ctx, sale))

	extra := item("Wine", 4, 25)
	extra.SaleID = sale.ID
	require.NoError(t, extra.ApplyDiscount())
	require.NoError(t, repo.Create(ctx, extra))

	t.Run("GetBySaleID keeps order", func(t *testing.T) {
		items, err := repo.GetBySaleID(ctx, sale.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "Beer", items[0].Product)
		assert.Equal(t, extra.ID, items[1].ID)
	})

	t.Run("Update", func(t *testing.T) {
		extra.Cancel()
		require.NoError(t, repo.Update(ctx, extra))

		got, err := repo.GetByID(ctx, extra.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, got.IsCancelled)

		items, err := repo.GetBySaleID(ctx, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, extra.ID, items[1].ID)
	})

	t.Run("Delete", func(t *testing.T) {
		deleted, err := repo.Delete(ctx, extra.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = repo.Delete(ctx, extra.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("GetByID missing", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
