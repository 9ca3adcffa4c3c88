package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/promotions"
	"github.com/angelmondragon/tillpoint-backend/internal/vouchers"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/money"
	"github.com/angelmondragon/tillpoint-backend/pkg/types"
)

// FinalizeInput is everything needed to build the immutable sale record.
type FinalizeInput struct {
	StoreID     string
	StaffID     string
	TillID      string
	Items       []cart.LineItem
	Promotions  []promotions.AppliedPromotion
	Voucher     *vouchers.Outcome
	Payment     PaymentInput
	OrderNumber string
	Now         time.Time
}

// Totals is the price breakdown shared by quotes and sales.
type Totals struct {
	SubtotalBeforeDiscounts decimal.Decimal `json:"subtotal_before_discounts"`
	TotalDiscount           decimal.Decimal `json:"total_discount"`
	Total                   decimal.Decimal `json:"total"`
}

// ComputeTotals sums line subtotals and promotion savings. A voucher outcome,
// when present, replaces the total with its new total.
func ComputeTotals(items []cart.LineItem, applied []promotions.AppliedPromotion, outcome *vouchers.Outcome) Totals {
	subtotal := money.Zero
	for _, item := range items {
		subtotal = subtotal.Add(money.LineTotal(item.UnitPrice, item.Quantity))
	}
	discount := promotions.TotalSaved(applied)

	total := money.NonNegative(subtotal.Sub(discount))
	if outcome != nil {
		total = outcome.NewTotal
	}
	return Totals{
		SubtotalBeforeDiscounts: subtotal,
		TotalDiscount:           discount,
		Total:                   total,
	}
}

// Finalize validates payment and assembles the sale record. Nothing is
// persisted here.
func Finalize(input FinalizeInput) (*models.Sale, error) {
	if strings.TrimSpace(input.StoreID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if strings.TrimSpace(input.StaffID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, item := range input.Items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	totals := ComputeTotals(input.Items, input.Promotions, input.Voucher)

	payment, err := ValidatePayment(input.Payment, totals.Total, input.Voucher)
	if err != nil {
		return nil, err
	}

	orderNumber := input.OrderNumber
	if orderNumber == "" {
		orderNumber, err = NewOrderNumber(now)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}
	}

	return &models.Sale{
		ID:                      uuid.New(),
		OrderNumber:             orderNumber,
		StoreID:                 strings.TrimSpace(input.StoreID),
		StaffID:                 strings.TrimSpace(input.StaffID),
		TillID:                  strings.TrimSpace(input.TillID),
		Items:                   saleLines(input.Items),
		Promotions:              salePromotions(input.Promotions),
		Voucher:                 saleVoucher(input.Voucher, input.Payment.Method),
		Payment:                 payment,
		SubtotalBeforeDiscounts: totals.SubtotalBeforeDiscounts,
		TotalDiscount:           totals.TotalDiscount,
		Total:                   totals.Total,
		CreatedAt:               now,
	}, nil
}

func saleLines(items []cart.LineItem) types.SaleLines {
	lines := make(types.SaleLines, 0, len(items))
	for _, item := range items {
		lines = append(lines, types.SaleLine{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Category:  item.Category,
			Subtotal:  money.LineTotal(item.UnitPrice, item.Quantity),
		})
	}
	return lines
}

func salePromotions(applied []promotions.AppliedPromotion) types.SalePromotions {
	out := make(types.SalePromotions, 0, len(applied))
	for _, p := range applied {
		out = append(out, types.SalePromotion{
			RuleID:            p.RuleID,
			Name:              p.Name,
			SavedAmount:       p.SavedAmount,
			Applications:      p.Applications,
			MutuallyExclusive: p.MutuallyExclusive,
		})
	}
	return out
}

func saleVoucher(outcome *vouchers.Outcome, method enums.PaymentMethod) *types.SaleVoucher {
	if outcome == nil || outcome.Voucher == nil {
		return nil
	}
	v := outcome.Voucher
	return &types.SaleVoucher{
		ID:                v.ID,
		Code:              v.Code,
		Type:              v.Kind.Type(),
		DiscountType:      v.DiscountType(),
		Value:             outcome.DiscountValue,
		NewTotal:          outcome.NewTotal,
		Remainder:         Remainder(method, outcome),
		ItemizedDiscounts: outcome.ItemizedDiscounts,
	}
}
