package promotions

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
)

// RuleView is the wire shape of a special shown on the till.
type RuleView struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	MutuallyExclusive   bool               `json:"mutually_exclusive"`
	StartDate           *string            `json:"start_date,omitempty"`
	EndDate             *string            `json:"end_date,omitempty"`
	Trigger             Requirement        `json:"trigger"`
	Reward              Requirement        `json:"reward"`
	DiscountType        enums.DiscountType `json:"discount_type"`
	DiscountValue       *decimal.Decimal   `json:"discount_value,omitempty"`
	FixedDiscountAmount *decimal.Decimal   `json:"fixed_discount_amount,omitempty"`
}

// View flattens the rule for display.
func (r Rule) View() RuleView {
	view := RuleView{
		ID:                r.ID,
		Name:              r.Name,
		MutuallyExclusive: r.MutuallyExclusive,
		StartDate:         formatDate(r.StartDate),
		EndDate:           formatDate(r.EndDate),
		Trigger:           r.Trigger,
		Reward:            r.Reward,
	}
	switch d := r.Discount.(type) {
	case FreeReward:
		view.DiscountType = d.Type()
	case PercentageOff:
		view.DiscountType = d.Type()
		view.DiscountValue = &d.Percent
	case FixedOff:
		view.DiscountType = d.Type()
		view.FixedDiscountAmount = &d.Amount
	}
	return view
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.DateOnly)
	return &formatted
}
