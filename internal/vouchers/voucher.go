package vouchers

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
	"github.com/angelmondragon/tillpoint-backend/pkg/types"
)

// Kind is the voucher variant and carries only the fields that variant needs.
type Kind interface {
	Type() enums.VoucherType
}

// PercentageDiscount takes Percent (0-100) off the current total.
type PercentageDiscount struct {
	Percent decimal.Decimal
}

func (PercentageDiscount) Type() enums.VoucherType { return enums.VoucherTypeDiscount }

// FixedDiscount takes Amount off the current total, capped at the total.
type FixedDiscount struct {
	Amount decimal.Decimal
}

func (FixedDiscount) Type() enums.VoucherType { return enums.VoucherTypeDiscount }

// FreeItem gives one unit of ItemID away when it is in the cart.
type FreeItem struct {
	ItemID string
}

func (FreeItem) Type() enums.VoucherType { return enums.VoucherTypeFreeItem }

// BuyXGetY gives one unit of FreeItemID away when both items are in the cart.
type BuyXGetY struct {
	TriggerItemID string
	FreeItemID    string
}

func (BuyXGetY) Type() enums.VoucherType { return enums.VoucherTypeBuyXGetY }

// Voucher is a validated voucher record.
type Voucher struct {
	ID                    string
	Code                  string
	Active                bool
	Redeemed              bool
	ExpiresAt             *time.Time
	MinimumPurchase       *decimal.Decimal
	ApplicableItems       []string
	MaxRedemptions        *int
	RedemptionCount       int
	RestrictedToStores    []string
	ExpireAfterRedemption bool
	Kind                  Kind
}

// DiscountType reports the discount flavour for discount vouchers.
func (v Voucher) DiscountType() enums.VoucherDiscountType {
	switch v.Kind.(type) {
	case PercentageDiscount:
		return enums.VoucherDiscountPercentage
	case FixedDiscount:
		return enums.VoucherDiscountFixed
	default:
		return ""
	}
}

// Exhausted reports whether the redemption limit has been reached.
func (v Voucher) Exhausted() bool {
	return v.MaxRedemptions != nil && v.RedemptionCount >= *v.MaxRedemptions
}

// Outcome is the priced effect of a voucher on the current total.
type Outcome struct {
	Voucher           *Voucher
	DiscountValue     decimal.Decimal
	NewTotal          decimal.Decimal
	Remainder         decimal.Decimal
	ItemizedDiscounts []types.ItemizedDiscount
}

// FullyCovered reports whether the voucher leaves nothing to pay.
func (o Outcome) FullyCovered() bool {
	return !o.Remainder.IsPositive()
}

// NormalizeCode upper-cases and trims a code for lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
