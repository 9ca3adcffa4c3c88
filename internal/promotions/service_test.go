package promotions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
)

type recorderStub struct {
	observed int
}

func (r *recorderStub) ObservePricing(time.Duration) {
	r.observed++
}

func TestServiceEvaluate(t *testing.T) {
	t.Parallel()

	recorder := &recorderStub{}
	feed := RuleFeedFunc(func(context.Context) ([]Rule, error) {
		return []Rule{buyTwoGetOne("coffee_short")}, nil
	})
	svc, err := NewService(feed, recorder)
	require.NoError(t, err)

	applied, err := svc.Evaluate(context.Background(), []cart.LineItem{coffee(3)}, today)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	require.Equal(t, 1, recorder.observed)
}

func TestServiceEvaluateBeforeRulesLoad(t *testing.T) {
	t.Parallel()

	svc, err := NewService(RuleFeedFunc(func(context.Context) ([]Rule, error) { return nil, nil }), nil)
	require.NoError(t, err)

	applied, err := svc.Evaluate(context.Background(), []cart.LineItem{coffee(3)}, today)
	require.NoError(t, err)
	require.Empty(t, applied)
}

func TestServiceFeedFailureIsDependencyError(t *testing.T) {
	t.Parallel()

	svc, err := NewService(RuleFeedFunc(func(context.Context) ([]Rule, error) {
		return nil, errors.New("timeout")
	}), nil)
	require.NoError(t, err)

	_, err = svc.Evaluate(context.Background(), []cart.LineItem{coffee(3)}, today)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))

	_, err = svc.ActiveRules(context.Background(), today)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestServiceActiveRulesOrdersExclusiveLast(t *testing.T) {
	t.Parallel()

	exclusive := buyTwoGetOne("tea")
	exclusive.ID = "exclusive"
	exclusive.MutuallyExclusive = true
	inactive := buyTwoGetOne("scone")
	inactive.Active = false
	stackable := buyTwoGetOne("coffee_short")

	svc, err := NewService(RuleFeedFunc(func(context.Context) ([]Rule, error) {
		return []Rule{exclusive, inactive, stackable}, nil
	}), nil)
	require.NoError(t, err)

	rules, err := svc.ActiveRules(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	require.Equal(t, stackable.ID, rules[0].ID)
	require.Equal(t, "exclusive", rules[1].ID)

	view := rules[0].View()
	require.Equal(t, "free", view.DiscountType.String())
	require.Nil(t, view.DiscountValue)

	_, err = NewService(nil, nil)
	require.Error(t, err)
}
