package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/promotions"
	"github.com/angelmondragon/tillpoint-backend/internal/sales"
	"github.com/angelmondragon/tillpoint-backend/internal/vouchers"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
	"github.com/angelmondragon/tillpoint-backend/pkg/types"
)

// QuoteInput is a cart to price, optionally with a voucher code.
type QuoteInput struct {
	StoreID     string
	Items       []cart.LineItem
	VoucherCode string
}

// SaleInput is a cart being paid for at a till.
type SaleInput struct {
	StoreID     string
	StaffID     string
	TillID      string
	Items       []cart.LineItem
	VoucherCode string
	Payment     sales.PaymentInput
}

// VoucherSummary is the priced voucher shown to staff before payment.
type VoucherSummary struct {
	ID                string                    `json:"id"`
	Code              string                    `json:"code"`
	Type              enums.VoucherType         `json:"type"`
	DiscountType      enums.VoucherDiscountType `json:"discount_type,omitempty"`
	DiscountValue     decimal.Decimal           `json:"discount_value"`
	NewTotal          decimal.Decimal           `json:"new_total"`
	Remainder         decimal.Decimal           `json:"remainder"`
	FullyCovered      bool                      `json:"fully_covered"`
	ItemizedDiscounts []types.ItemizedDiscount  `json:"itemized_discounts,omitempty"`
}

// Quote is the priced cart.
type Quote struct {
	Items      []cart.LineItem               `json:"items"`
	Promotions []promotions.AppliedPromotion `json:"promotions"`
	Voucher    *VoucherSummary               `json:"voucher,omitempty"`
	sales.Totals
}

// Result is a completed sale. A non-nil RedemptionErr means the sale was
// recorded but the voucher redemption update did not go through.
type Result struct {
	Sale          *models.Sale
	RedemptionErr error
}

// Degraded reports whether the sale succeeded without its voucher redemption.
func (r *Result) Degraded() bool {
	return r != nil && r.RedemptionErr != nil
}

func newQuote(p *pricing) *Quote {
	applied := p.applied
	if applied == nil {
		applied = []promotions.AppliedPromotion{}
	}
	return &Quote{
		Items:      p.items,
		Promotions: applied,
		Voucher:    newVoucherSummary(p.outcome),
		Totals:     p.totals,
	}
}

func newVoucherSummary(outcome *vouchers.Outcome) *VoucherSummary {
	if outcome == nil || outcome.Voucher == nil {
		return nil
	}
	v := outcome.Voucher
	return &VoucherSummary{
		ID:                v.ID,
		Code:              v.Code,
		Type:              v.Kind.Type(),
		DiscountType:      v.DiscountType(),
		DiscountValue:     outcome.DiscountValue,
		NewTotal:          outcome.NewTotal,
		Remainder:         outcome.Remainder,
		FullyCovered:      outcome.FullyCovered(),
		ItemizedDiscounts: outcome.ItemizedDiscounts,
	}
}
