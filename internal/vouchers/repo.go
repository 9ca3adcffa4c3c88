package vouchers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/tillpoint-backend/internal/repo"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
)

// Repository reads vouchers and records redemptions.
type Repository interface {
	FindActiveByCode(ctx context.Context, code string) (*models.Voucher, error)
	Create(ctx context.Context, voucher *models.Voucher) error
	RecordRedemption(ctx context.Context, entry *models.VoucherRedemption) (*models.Voucher, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a voucher repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

// FindActiveByCode looks up an active voucher by its normalized code. It
// returns gorm.ErrRecordNotFound when there is no active match.
func (r *repository) FindActiveByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.DB(ctx).
		Scopes(repo.Active).
		Where("code = ?", code).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) Create(ctx context.Context, voucher *models.Voucher) error {
	return r.DB(ctx).Create(voucher).Error
}

// RecordRedemption increments the redemption count, appends the history entry
// and deactivates the voucher when it is single-use or has hit its limit. The
// increment is not guarded against concurrent redemptions from other tills, so
// the count may briefly exceed max_redemptions.
func (r *repository) RecordRedemption(ctx context.Context, entry *models.VoucherRedemption) (*models.Voucher, error) {
	var updated models.Voucher
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&models.Voucher{}).
			Scopes(repo.ByID(entry.VoucherID)).
			Updates(map[string]any{
				"redemption_count": gorm.Expr("redemption_count + 1"),
				"updated_at":       time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		if err := tx.Scopes(repo.ByID(entry.VoucherID)).First(&updated).Error; err != nil {
			return err
		}
		exhausted := updated.MaxRedemptions != nil && updated.RedemptionCount >= *updated.MaxRedemptions
		if !updated.ExpireAfterRedemption && !exhausted {
			return nil
		}

		updated.Active = false
		updated.Redeemed = true
		return tx.Model(&models.Voucher{}).
			Scopes(repo.ByID(entry.VoucherID)).
			Updates(map[string]any{"active": false, "redeemed": true}).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
