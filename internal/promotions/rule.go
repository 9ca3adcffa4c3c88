package promotions

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/internal/catalog"
	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
	"github.com/angelmondragon/tillpoint-backend/pkg/money"
)

// Requirement is one side of a special: what to match and how many units.
type Requirement struct {
	catalog.Descriptor
	Quantity int `json:"quantity"`
}

// units returns the configured quantity, treating anything below 1 as 1.
func (r Requirement) units() int {
	if r.Quantity < 1 {
		return 1
	}
	return r.Quantity
}

// Discount is the reward variant of a special.
type Discount interface {
	Type() enums.DiscountType
	// perApplication is the saving for one firing given the reward line price.
	perApplication(price decimal.Decimal, rewardQty int) decimal.Decimal
}

// FreeReward gives the reward units away.
type FreeReward struct{}

func (FreeReward) Type() enums.DiscountType { return enums.DiscountTypeFree }

func (FreeReward) perApplication(price decimal.Decimal, rewardQty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(rewardQty)))
}

// PercentageOff takes Percent (0-100) off the reward units.
type PercentageOff struct {
	Percent decimal.Decimal
}

func (PercentageOff) Type() enums.DiscountType { return enums.DiscountTypePercentage }

func (p PercentageOff) perApplication(price decimal.Decimal, rewardQty int) decimal.Decimal {
	return money.Percent(price.Mul(decimal.NewFromInt(int64(rewardQty))), p.Percent)
}

// FixedOff takes a fixed amount off the reward units, capped at their price.
type FixedOff struct {
	Amount decimal.Decimal
}

func (FixedOff) Type() enums.DiscountType { return enums.DiscountTypeFixed }

func (f FixedOff) perApplication(price decimal.Decimal, rewardQty int) decimal.Decimal {
	return money.Min(price.Mul(decimal.NewFromInt(int64(rewardQty))), f.Amount)
}

// Rule is an evaluated special. StartDate and EndDate are inclusive and
// compared by calendar date only.
type Rule struct {
	ID                string
	Name              string
	Active            bool
	MutuallyExclusive bool
	StartDate         *time.Time
	EndDate           *time.Time
	Trigger           Requirement
	Reward            Requirement
	Discount          Discount
}

// ValidOn reports whether the rule is active and today falls in its window.
func (r Rule) ValidOn(today time.Time) bool {
	if !r.Active {
		return false
	}
	day := dateOnly(today)
	if r.StartDate != nil && day.Before(dateOnly(*r.StartDate)) {
		return false
	}
	if r.EndDate != nil && day.After(dateOnly(*r.EndDate)) {
		return false
	}
	return true
}

// SelfReferential reports whether trigger and reward resolve to the same lines.
func (r Rule) SelfReferential() bool {
	return r.Trigger.SameTarget(r.Reward.Descriptor)
}

// AppliedPromotion is one special that fired against the cart.
type AppliedPromotion struct {
	RuleID            string          `json:"rule_id"`
	Name              string          `json:"name"`
	SavedAmount       decimal.Decimal `json:"saved_amount"`
	Applications      int             `json:"applications"`
	MutuallyExclusive bool            `json:"mutually_exclusive"`
}

// TotalSaved sums the saved amounts.
func TotalSaved(applied []AppliedPromotion) decimal.Decimal {
	total := money.Zero
	for _, promo := range applied {
		total = total.Add(promo.SavedAmount)
	}
	return total
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
