package promotions

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
)

type evaluationRecorder interface {
	ObservePricing(time.Duration)
}

// Service evaluates specials against carts using the live rule feed.
type Service interface {
	Evaluate(ctx context.Context, items []cart.LineItem, today time.Time) ([]AppliedPromotion, error)
	ActiveRules(ctx context.Context, today time.Time) ([]Rule, error)
}

type service struct {
	feed     RuleFeed
	recorder evaluationRecorder
}

// NewService builds a promotions service. recorder may be nil.
func NewService(feed RuleFeed, recorder evaluationRecorder) (Service, error) {
	if feed == nil {
		return nil, errors.New("rule feed required")
	}
	return &service{feed: feed, recorder: recorder}, nil
}

// Evaluate loads the current snapshot and runs Evaluate over it. An empty
// snapshot simply yields no promotions; a feed failure is a dependency error
// so a sale is never recorded without the specials it qualified for.
func (s *service) Evaluate(ctx context.Context, items []cart.LineItem, today time.Time) ([]AppliedPromotion, error) {
	rules, err := s.feed.Rules(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load specials")
	}

	started := time.Now()
	applied := Evaluate(items, rules, today)
	if s.recorder != nil {
		s.recorder.ObservePricing(time.Since(started))
	}
	return applied, nil
}

// ActiveRules returns the specials valid on today, in evaluation order.
func (s *service) ActiveRules(ctx context.Context, today time.Time) ([]Rule, error) {
	rules, err := s.feed.Rules(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load specials")
	}
	stackable := make([]Rule, 0, len(rules))
	exclusive := make([]Rule, 0)
	for _, rule := range rules {
		if rule.Discount == nil || !rule.ValidOn(today) {
			continue
		}
		if rule.MutuallyExclusive {
			exclusive = append(exclusive, rule)
			continue
		}
		stackable = append(stackable, rule)
	}
	return append(stackable, exclusive...), nil
}
