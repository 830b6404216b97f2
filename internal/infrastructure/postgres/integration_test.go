package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pgclient "github.com/ambev-sales/sales-service/pkg/postgres"
	salestesting "github.com/ambev-sales/sales-service/pkg/testing"
)

func TestSaleRepository_Postgres(t *testing.T) {
	salestesting.SkipIfShort(t)

	ctx, cancel := salestesting.CreateTestContext(2 * time.Minute)
	defer cancel()

	container, err := salestesting.NewPostgresContainer(ctx)
	require.NoError(t, err)
	defer container.Close(context.Background())

	db, err := pgclient.Open(ctx, container.Config(), nil)
	require.NoError(t, err)
	defer pgclient.Close(db)
	require.NoError(t, AutoMigrate(db))

	repo := NewSaleRepository(db, nil, nil)
	beer := item("Beer", 10, 15)
	sale := newSale(t, beer, item("Wine", 1, 100))
	require.NoError(t, repo.Create(ctx, sale))

	require.NoError(t, sale.CancelItem(beer.ID))
	require.NoError(t, repo.Update(ctx, sale))

	got, err := repo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Items, 1)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(100)), "total %s", got.TotalAmount)

	deleted, err := repo.Delete(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
