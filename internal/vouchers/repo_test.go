package vouchers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
)

func setupVouchersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	vouchers := `
CREATE TABLE IF NOT EXISTS vouchers (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  active INTEGER NOT NULL DEFAULT 1,
  redeemed INTEGER NOT NULL DEFAULT 0,
  voucher_type TEXT NOT NULL,
  discount_type TEXT,
  discount_value NUMERIC,
  expiration_date DATETIME,
  minimum_purchase NUMERIC,
  applicable_items TEXT,
  max_redemptions INTEGER,
  redemption_count INTEGER NOT NULL DEFAULT 0,
  restricted_to_stores TEXT,
  expire_after_redemption INTEGER NOT NULL DEFAULT 0,
  trigger_item_id TEXT,
  free_item_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	redemptions := `
CREATE TABLE IF NOT EXISTS voucher_redemptions (
  id TEXT PRIMARY KEY,
  voucher_id TEXT NOT NULL,
  sale_id TEXT NOT NULL,
  order_number TEXT NOT NULL,
  store_id TEXT NOT NULL,
  staff_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  redeemed_at DATETIME NOT NULL
);`
	require.NoError(t, db.Exec(vouchers).Error)
	require.NoError(t, db.Exec(redemptions).Error)
	return db
}

func TestRepositoryFindActiveByCode(t *testing.T) {
	db := setupVouchersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	v := fixedVoucher("WELCOME10", "10")
	v.ApplicableItems = []string{"coffee", "tea"}
	require.NoError(t, repo.Create(ctx, v))

	found, err := repo.FindActiveByCode(ctx, "WELCOME10")
	require.NoError(t, err)
	require.Equal(t, v.ID, found.ID)
	require.Equal(t, []string{"coffee", "tea"}, []string(found.ApplicableItems))
	require.True(t, found.DiscountValue.Equal(dec("10")))

	require.NoError(t, db.Model(&models.Voucher{}).Where("id = ?", v.ID).Update("active", false).Error)
	_, err = repo.FindActiveByCode(ctx, "WELCOME10")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryRecordRedemption(t *testing.T) {
	db := setupVouchersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	v := fixedVoucher("TWICE", "10")
	limit := 2
	v.MaxRedemptions = &limit
	require.NoError(t, repo.Create(ctx, v))

	redeem := func() *models.Voucher {
		updated, err := repo.RecordRedemption(ctx, &models.VoucherRedemption{
			ID:          uuid.New(),
			VoucherID:   v.ID,
			SaleID:      uuid.New(),
			OrderNumber: "20261016-120000-" + uuid.NewString()[:6],
			StoreID:     "store-1",
			StaffID:     "staff-1",
			Amount:      dec("10"),
			RedeemedAt:  time.Now().UTC(),
		})
		require.NoError(t, err)
		return updated
	}

	first := redeem()
	require.Equal(t, 1, first.RedemptionCount)
	require.True(t, first.Active)

	second := redeem()
	require.Equal(t, 2, second.RedemptionCount)
	require.False(t, second.Active)
	require.True(t, second.Redeemed)

	var history int64
	require.NoError(t, db.Model(&models.VoucherRedemption{}).Where("voucher_id = ?", v.ID).Count(&history).Error)
	require.Equal(t, int64(2), history)

	var stored models.Voucher
	require.NoError(t, db.First(&stored, "id = ?", v.ID).Error)
	require.False(t, stored.Active)
}

func TestRepositoryRecordRedemptionExpireAfterRedemption(t *testing.T) {
	db := setupVouchersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	v := fixedVoucher("SINGLE", "10")
	v.ExpireAfterRedemption = true
	require.NoError(t, repo.Create(ctx, v))

	updated, err := repo.RecordRedemption(ctx, &models.VoucherRedemption{
		ID:         uuid.New(),
		VoucherID:  v.ID,
		SaleID:     uuid.New(),
		Amount:     dec("10"),
		RedeemedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	require.False(t, updated.Active)
	require.True(t, updated.Redeemed)

	_, err = repo.RecordRedemption(ctx, &models.VoucherRedemption{ID: uuid.New(), VoucherID: uuid.New()})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
