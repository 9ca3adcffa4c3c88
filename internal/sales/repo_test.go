package sales

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
)

func setupSalesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL,
  store_id TEXT NOT NULL,
  staff_id TEXT NOT NULL,
  till_id TEXT,
  items TEXT NOT NULL,
  promotions TEXT NOT NULL,
  voucher TEXT,
  payment TEXT NOT NULL,
  subtotal_before_discounts NUMERIC NOT NULL,
  total_discount NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  created_at DATETIME NOT NULL,
  CONSTRAINT sales_store_order_number_key UNIQUE (store_id, order_number)
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func finalizedSale(t *testing.T) *models.Sale {
	t.Helper()
	sale, err := Finalize(FinalizeInput{
		StoreID: "store-1",
		StaffID: "staff-1",
		Items:   coffeeCart(),
		Payment: PaymentInput{Method: enums.PaymentMethodCash, Tendered: decPtr("80")},
		Now:     saleTime,
	})
	require.NoError(t, err)
	return sale
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sale := finalizedSale(t)
	require.NoError(t, repo.Create(ctx, sale))

	found, err := repo.FindByOrderNumber(ctx, "store-1", sale.OrderNumber)
	require.NoError(t, err)
	require.Equal(t, sale.ID, found.ID)
	require.True(t, found.Total.Equal(dec("75")))
	require.Len(t, found.Items, 1)
	require.Equal(t, "coffee_short", found.Items[0].ID)
	require.Equal(t, enums.PaymentMethodCash, found.Payment.Method)
	require.True(t, found.Payment.Change.Equal(dec("5")))
	require.Nil(t, found.Voucher)

	_, err = repo.FindByOrderNumber(ctx, "store-2", sale.OrderNumber)
	require.ErrorIs(t, err, ErrSaleNotFound)
}

func TestRepositoryCreateDuplicateOrderNumber(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := finalizedSale(t)
	require.NoError(t, repo.Create(ctx, first))

	second := finalizedSale(t)
	second.OrderNumber = first.OrderNumber
	require.ErrorIs(t, repo.Create(ctx, second), ErrDuplicateOrderNumber)
}

func TestRepositoryOrderNumbersAreScopedPerStore(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := finalizedSale(t)
	require.NoError(t, repo.Create(ctx, first))

	other := finalizedSale(t)
	other.StoreID = "store-2"
	other.OrderNumber = first.OrderNumber
	require.NoError(t, repo.Create(ctx, other))

	found, err := repo.FindByOrderNumber(ctx, "store-2", first.OrderNumber)
	require.NoError(t, err)
	require.Equal(t, other.ID, found.ID)
}
