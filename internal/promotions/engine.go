package promotions

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/catalog"
	"github.com/angelmondragon/tillpoint-backend/pkg/money"
)

// Evaluate selects the specials that apply to items on today and computes what
// each saves. It is pure: the same inputs always produce the same output.
//
// Stackable rules are considered first, in their given order, followed by the
// mutually exclusive ones. An exclusive rule only applies when nothing else
// has, and once it applies nothing further is considered.
func Evaluate(items []cart.LineItem, rules []Rule, today time.Time) []AppliedPromotion {
	candidates := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		if rule.Discount == nil || !rule.ValidOn(today) {
			continue
		}
		candidates = append(candidates, rule)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return !candidates[i].MutuallyExclusive && candidates[j].MutuallyExclusive
	})

	applied := make([]AppliedPromotion, 0, len(candidates))
	exclusiveApplied := false
	for _, rule := range candidates {
		if exclusiveApplied || (rule.MutuallyExclusive && len(applied) > 0) {
			continue
		}
		promo, ok := apply(items, rule)
		if !ok {
			continue
		}
		applied = append(applied, promo)
		if rule.MutuallyExclusive {
			exclusiveApplied = true
		}
	}
	return applied
}

func apply(items []cart.LineItem, rule Rule) (AppliedPromotion, bool) {
	triggerQty := rule.Trigger.units()
	rewardQty := rule.Reward.units()

	triggerLines := catalog.MatchItems(items, rule.Trigger.Descriptor)
	totalTrigger := catalog.TotalQuantity(triggerLines)
	if totalTrigger < triggerQty {
		return AppliedPromotion{}, false
	}

	var (
		applications int
		priceLines   []cart.LineItem
	)
	if rule.SelfReferential() {
		applications = totalTrigger / (triggerQty + rewardQty)
		priceLines = triggerLines
	} else {
		rewardLines := catalog.MatchItems(items, rule.Reward.Descriptor)
		applications = min(totalTrigger/triggerQty, catalog.TotalQuantity(rewardLines)/rewardQty)
		priceLines = rewardLines
	}
	if applications <= 0 || len(priceLines) == 0 {
		return AppliedPromotion{}, false
	}

	perApplication := rule.Discount.perApplication(priceLines[0].UnitPrice, rewardQty)
	saved := money.Round2(perApplication.Mul(decimal.NewFromInt(int64(applications))))
	if !saved.IsPositive() {
		return AppliedPromotion{}, false
	}

	return AppliedPromotion{
		RuleID:            rule.ID,
		Name:              rule.Name,
		SavedAmount:       saved,
		Applications:      applications,
		MutuallyExclusive: rule.MutuallyExclusive,
	}, true
}
