package promotions

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/tillpoint-backend/internal/catalog"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
	"github.com/angelmondragon/tillpoint-backend/pkg/money"
)

// RuleFromModel converts a stored special into a Rule, rejecting rows whose
// discount variant is missing the field it needs.
func RuleFromModel(m models.Special) (Rule, error) {
	if !m.TriggerType.IsValid() {
		return Rule{}, fmt.Errorf("special %s: invalid trigger type %q", m.ID, m.TriggerType)
	}
	if !m.RewardType.IsValid() {
		return Rule{}, fmt.Errorf("special %s: invalid reward type %q", m.ID, m.RewardType)
	}

	discount, err := discountFromModel(m)
	if err != nil {
		return Rule{}, fmt.Errorf("special %s: %w", m.ID, err)
	}

	return Rule{
		ID:                m.ID.String(),
		Name:              m.Name,
		Active:            m.Active,
		MutuallyExclusive: m.MutuallyExclusive,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		Trigger: Requirement{
			Descriptor: catalog.Descriptor{Type: m.TriggerType, TargetID: m.TriggerTargetID, Size: deref(m.TriggerSize)},
			Quantity:   m.TriggerQuantity,
		},
		Reward: Requirement{
			Descriptor: catalog.Descriptor{Type: m.RewardType, TargetID: m.RewardTargetID, Size: deref(m.RewardSize)},
			Quantity:   m.RewardQuantity,
		},
		Discount: discount,
	}, nil
}

func discountFromModel(m models.Special) (Discount, error) {
	switch m.DiscountType {
	case enums.DiscountTypeFree:
		return FreeReward{}, nil
	case enums.DiscountTypePercentage:
		if m.DiscountValue == nil {
			return nil, fmt.Errorf("percentage discount requires discount_value")
		}
		if m.DiscountValue.IsNegative() || m.DiscountValue.GreaterThan(money.Hundred) {
			return nil, fmt.Errorf("discount_value %s outside 0-100", m.DiscountValue)
		}
		return PercentageOff{Percent: *m.DiscountValue}, nil
	case enums.DiscountTypeFixed:
		if m.FixedDiscountAmount == nil {
			return nil, fmt.Errorf("fixed discount requires fixed_discount_amount")
		}
		if m.FixedDiscountAmount.IsNegative() {
			return nil, fmt.Errorf("fixed_discount_amount must not be negative")
		}
		return FixedOff{Amount: *m.FixedDiscountAmount}, nil
	default:
		return nil, fmt.Errorf("invalid discount type %q", m.DiscountType)
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
