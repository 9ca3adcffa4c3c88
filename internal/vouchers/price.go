package vouchers

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/catalog"
	"github.com/angelmondragon/tillpoint-backend/pkg/money"
	"github.com/angelmondragon/tillpoint-backend/pkg/types"
)

// Price computes what v takes off currentTotal, which is the total after
// specials. A free-item voucher whose item is missing validates but has no
// effect.
//
// Percentage vouchers always discount the whole total, even when restricted
// to applicable items; the per-line breakdown is informational only.
func Price(v *Voucher, items []cart.LineItem, currentTotal decimal.Decimal) Outcome {
	total := money.NonNegative(currentTotal)
	outcome := Outcome{Voucher: v, DiscountValue: money.Zero, NewTotal: total}

	switch kind := v.Kind.(type) {
	case PercentageDiscount:
		outcome.DiscountValue = money.Round2(money.Percent(total, kind.Percent))
		if len(v.ApplicableItems) > 0 {
			outcome.ItemizedDiscounts = itemize(items, v.ApplicableItems, kind.Percent)
		}
	case FixedDiscount:
		outcome.DiscountValue = money.Min(total, kind.Amount)
	case FreeItem:
		if line, ok := findLine(items, kind.ItemID); ok {
			outcome.DiscountValue = line.UnitPrice
		}
	case BuyXGetY:
		_, hasTrigger := findLine(items, kind.TriggerItemID)
		free, hasFree := findLine(items, kind.FreeItemID)
		if hasTrigger && hasFree {
			outcome.DiscountValue = free.UnitPrice
		}
	}

	outcome.NewTotal = money.NonNegative(total.Sub(outcome.DiscountValue))
	outcome.Remainder = outcome.NewTotal
	return outcome
}

func itemize(items []cart.LineItem, applicable []string, pct decimal.Decimal) []types.ItemizedDiscount {
	var out []types.ItemizedDiscount
	for _, item := range items {
		if !inList(applicable, item.ID) && !inList(applicable, catalog.ProductIdentity(item.ID)) {
			continue
		}
		lineTotal := money.LineTotal(item.UnitPrice, item.Quantity)
		out = append(out, types.ItemizedDiscount{
			ItemID: item.ID,
			Name:   item.Name,
			Amount: money.Round2(money.Percent(lineTotal, pct)),
		})
	}
	return out
}

func findLine(items []cart.LineItem, id string) (cart.LineItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	for _, item := range items {
		if catalog.ProductIdentity(item.ID) == id {
			return item, true
		}
	}
	return cart.LineItem{}, false
}

func inList(list []string, value string) bool {
	for _, candidate := range list {
		if candidate == value {
			return true
		}
	}
	return false
}
