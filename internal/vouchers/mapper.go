package vouchers

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
	"github.com/angelmondragon/tillpoint-backend/pkg/money"
)

// FromModel converts a stored voucher into a Voucher, rejecting rows whose
// variant fields are missing.
func FromModel(m models.Voucher) (*Voucher, error) {
	kind, err := kindFromModel(m)
	if err != nil {
		return nil, fmt.Errorf("voucher %s: %w", m.ID, err)
	}
	return &Voucher{
		ID:                    m.ID.String(),
		Code:                  NormalizeCode(m.Code),
		Active:                m.Active,
		Redeemed:              m.Redeemed,
		ExpiresAt:             m.ExpirationDate,
		MinimumPurchase:       m.MinimumPurchase,
		ApplicableItems:       cleanList(m.ApplicableItems),
		MaxRedemptions:        m.MaxRedemptions,
		RedemptionCount:       m.RedemptionCount,
		RestrictedToStores:    cleanList(m.RestrictedToStores),
		ExpireAfterRedemption: m.ExpireAfterRedemption,
		Kind:                  kind,
	}, nil
}

func kindFromModel(m models.Voucher) (Kind, error) {
	switch m.VoucherType {
	case enums.VoucherTypeDiscount:
		if m.DiscountType == nil || m.DiscountValue == nil {
			return nil, fmt.Errorf("discount voucher requires discount_type and discount_value")
		}
		if m.DiscountValue.IsNegative() {
			return nil, fmt.Errorf("discount_value must not be negative")
		}
		switch *m.DiscountType {
		case enums.VoucherDiscountPercentage:
			if m.DiscountValue.GreaterThan(money.Hundred) {
				return nil, fmt.Errorf("discount_value %s outside 0-100", m.DiscountValue)
			}
			return PercentageDiscount{Percent: *m.DiscountValue}, nil
		case enums.VoucherDiscountFixed:
			return FixedDiscount{Amount: *m.DiscountValue}, nil
		default:
			return nil, fmt.Errorf("invalid discount type %q", *m.DiscountType)
		}
	case enums.VoucherTypeFreeItem:
		if deref(m.FreeItemID) == "" {
			return nil, fmt.Errorf("free item voucher requires free_item_id")
		}
		return FreeItem{ItemID: deref(m.FreeItemID)}, nil
	case enums.VoucherTypeBuyXGetY:
		if deref(m.TriggerItemID) == "" || deref(m.FreeItemID) == "" {
			return nil, fmt.Errorf("buy x get y voucher requires trigger_item_id and free_item_id")
		}
		return BuyXGetY{TriggerItemID: deref(m.TriggerItemID), FreeItemID: deref(m.FreeItemID)}, nil
	default:
		return nil, fmt.Errorf("invalid voucher type %q", m.VoucherType)
	}
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
