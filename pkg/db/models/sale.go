package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/pkg/types"
)

// Sale is the immutable record of a completed checkout. Everything needed to
// rebuild the price breakdown is stored inline.
type Sale struct {
	ID                      uuid.UUID            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderNumber             string               `gorm:"column:order_number;not null;uniqueIndex:sales_store_order_number_key,priority:2" json:"order_number"`
	StoreID                 string               `gorm:"column:store_id;not null;uniqueIndex:sales_store_order_number_key,priority:1" json:"store_id"`
	StaffID                 string               `gorm:"column:staff_id;not null" json:"staff_id"`
	TillID                  string               `gorm:"column:till_id" json:"till_id,omitempty"`
	Items                   types.SaleLines      `gorm:"column:items;type:jsonb;not null" json:"items"`
	Promotions              types.SalePromotions `gorm:"column:promotions;type:jsonb;not null" json:"promotions"`
	Voucher                 *types.SaleVoucher   `gorm:"column:voucher;type:jsonb;serializer:json" json:"voucher,omitempty"`
	Payment                 types.SalePayment    `gorm:"column:payment;type:jsonb;serializer:json;not null" json:"payment"`
	SubtotalBeforeDiscounts decimal.Decimal      `gorm:"column:subtotal_before_discounts;type:numeric(12,2);not null" json:"subtotal_before_discounts"`
	TotalDiscount           decimal.Decimal      `gorm:"column:total_discount;type:numeric(12,2);not null" json:"total_discount"`
	Total                   decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	CreatedAt               time.Time            `gorm:"column:created_at;not null" json:"created_at"`
}

func (Sale) TableName() string { return "sales" }
