package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
)

// Voucher is a single-code discount instrument as stored. Which of the
// optional columns are populated depends on VoucherType.
type Voucher struct {
	ID                    uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey"`
	Code                  string                     `gorm:"column:code;not null;uniqueIndex"`
	Active                bool                       `gorm:"column:active;not null;default:true"`
	Redeemed              bool                       `gorm:"column:redeemed;not null;default:false"`
	VoucherType           enums.VoucherType          `gorm:"column:voucher_type;type:text;not null"`
	DiscountType          *enums.VoucherDiscountType `gorm:"column:discount_type;type:text"`
	DiscountValue         *decimal.Decimal           `gorm:"column:discount_value;type:numeric(12,2)"`
	ExpirationDate        *time.Time                 `gorm:"column:expiration_date"`
	MinimumPurchase       *decimal.Decimal           `gorm:"column:minimum_purchase;type:numeric(12,2)"`
	ApplicableItems       pq.StringArray             `gorm:"column:applicable_items;type:text[]"`
	MaxRedemptions        *int                       `gorm:"column:max_redemptions"`
	RedemptionCount       int                        `gorm:"column:redemption_count;not null;default:0"`
	RestrictedToStores    pq.StringArray             `gorm:"column:restricted_to_stores;type:text[]"`
	ExpireAfterRedemption bool                       `gorm:"column:expire_after_redemption;not null;default:false"`
	TriggerItemID         *string                    `gorm:"column:trigger_item_id"`
	FreeItemID            *string                    `gorm:"column:free_item_id"`
	CreatedAt             time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Voucher) TableName() string { return "vouchers" }

// VoucherRedemption is one entry of a voucher's redemption history.
type VoucherRedemption struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	VoucherID   uuid.UUID       `gorm:"column:voucher_id;type:uuid;not null"`
	SaleID      uuid.UUID       `gorm:"column:sale_id;type:uuid;not null"`
	OrderNumber string          `gorm:"column:order_number;not null"`
	StoreID     string          `gorm:"column:store_id;not null"`
	StaffID     string          `gorm:"column:staff_id;not null"`
	Amount      decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	RedeemedAt  time.Time       `gorm:"column:redeemed_at;not null"`
}

func (VoucherRedemption) TableName() string { return "voucher_redemptions" }
