package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/catalog"
	"github.com/angelmondragon/tillpoint-backend/internal/promotions"
	"github.com/angelmondragon/tillpoint-backend/internal/sales"
	"github.com/angelmondragon/tillpoint-backend/internal/vouchers"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

const voucherID = "5f0c1d7e-8a2b-4c3d-9e4f-a1b2c3d4e5f6"

var fixedNow = time.Date(2026, time.October, 16, 8, 15, 0, 0, time.UTC)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

type stubVouchers struct {
	validateFn func(ctx context.Context, input vouchers.ValidationInput) (*vouchers.Voucher, error)
	redeemErr  error
	redeemed   []vouchers.Redemption
	validated  []vouchers.ValidationInput
}

func (s *stubVouchers) Validate(ctx context.Context, input vouchers.ValidationInput) (*vouchers.Voucher, error) {
	s.validated = append(s.validated, input)
	if s.validateFn == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher code is invalid, expired or deactivated")
	}
	return s.validateFn(ctx, input)
}

func (s *stubVouchers) Redeem(_ context.Context, _ *vouchers.Voucher, redemption vouchers.Redemption) error {
	s.redeemed = append(s.redeemed, redemption)
	return s.redeemErr
}

type memorySales struct {
	createErr error
	created   []*models.Sale
}

func (m *memorySales) Create(_ context.Context, sale *models.Sale) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, sale)
	return nil
}

func (m *memorySales) FindByOrderNumber(_ context.Context, storeID, orderNumber string) (*models.Sale, error) {
	for _, sale := range m.created {
		if sale.StoreID == storeID && sale.OrderNumber == orderNumber {
			return sale, nil
		}
	}
	return nil, sales.ErrSaleNotFound
}

type recorderStub struct {
	completed   []string
	applied     []string
	redemptions int
}

func (r *recorderStub) IncSaleCompleted(method string)  { r.completed = append(r.completed, method) }
func (r *recorderStub) IncPromotionApplied(rule string) { r.applied = append(r.applied, rule) }
func (r *recorderStub) IncRedemptionFailure()           { r.redemptions++ }

func buyTwoGetOneRule() promotions.Rule {
	coffee := catalog.Descriptor{Type: enums.TargetTypeProduct, TargetID: "coffee"}
	return promotions.Rule{
		ID:       "rule-b2g1",
		Name:     "Coffee buy 2 get 1",
		Active:   true,
		Trigger:  promotions.Requirement{Descriptor: coffee, Quantity: 2},
		Reward:   promotions.Requirement{Descriptor: coffee, Quantity: 1},
		Discount: promotions.FreeReward{},
	}
}

func coffeeItems() []cart.LineItem {
	return []cart.LineItem{{ID: "coffee_short", Name: "Coffee", UnitPrice: dec("25.00"), Quantity: 3}}
}

func fixedTenVoucher() *vouchers.Voucher {
	return &vouchers.Voucher{ID: voucherID, Code: "TEN", Active: true, Kind: vouchers.FixedDiscount{Amount: dec("10")}}
}

type fixture struct {
	svc      Service
	vouchers *stubVouchers
	sales    *memorySales
	metrics  *recorderStub
	logs     *bytes.Buffer
}

func newFixture(t *testing.T, rules ...promotions.Rule) *fixture {
	t.Helper()

	feed := promotions.RuleFeedFunc(func(context.Context) ([]promotions.Rule, error) { return rules, nil })
	promoSvc, err := promotions.NewService(feed, nil)
	require.NoError(t, err)

	f := &fixture{
		vouchers: &stubVouchers{},
		sales:    &memorySales{},
		metrics:  &recorderStub{},
		logs:     &bytes.Buffer{},
	}
	f.svc, err = NewService(promoSvc, f.vouchers, f.sales, Config{
		Location: time.UTC,
		Clock:    func() time.Time { return fixedNow },
		Metrics:  f.metrics,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: f.logs}),
	})
	require.NoError(t, err)
	return f
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, &stubVouchers{}, &memorySales{}, Config{})
	require.Error(t, err)
}

func TestCompleteBuyTwoGetOneEndToEnd(t *testing.T) {
	t.Parallel()

	f := newFixture(t, buyTwoGetOneRule())
	result, err := f.svc.Complete(context.Background(), SaleInput{
		StoreID: "store-1",
		StaffID: "staff-7",
		TillID:  "till-1",
		Items:   coffeeItems(),
		Payment: sales.PaymentInput{Method: enums.PaymentMethodCash, Tendered: decPtr("50")},
	})
	require.NoError(t, err)
	require.False(t, result.Degraded())

	sale := result.Sale
	require.True(t, sale.SubtotalBeforeDiscounts.Equal(dec("75.00")))
	require.True(t, sale.TotalDiscount.Equal(dec("25.00")))
	require.True(t, sale.Total.Equal(dec("50.00")))
	require.Len(t, sale.Promotions, 1)
	require.Equal(t, 1, sale.Promotions[0].Applications)
	require.Len(t, f.sales.created, 1)

	assert.Equal(t, []string{"cash"}, f.metrics.completed)
	assert.Equal(t, []string{"Coffee buy 2 get 1"}, f.metrics.applied)
	assert.Contains(t, f.logs.String(), "sale.completed")
	assert.Empty(t, f.vouchers.redeemed)
}

func TestCompleteVoucherStacksOnPromotions(t *testing.T) {
	t.Parallel()

	f := newFixture(t, buyTwoGetOneRule())
	f.vouchers.validateFn = func(_ context.Context, input vouchers.ValidationInput) (*vouchers.Voucher, error) {
		require.True(t, input.CurrentTotal.Equal(dec("50.00")))
		return fixedTenVoucher(), nil
	}

	result, err := f.svc.Complete(context.Background(), SaleInput{
		StoreID:     "store-1",
		StaffID:     "staff-7",
		Items:       coffeeItems(),
		VoucherCode: "ten",
		Payment:     sales.PaymentInput{Method: enums.PaymentMethodCard},
	})
	require.NoError(t, err)

	sale := result.Sale
	require.True(t, sale.Total.Equal(dec("40.00")))
	require.NotNil(t, sale.Voucher)
	require.True(t, sale.Voucher.NewTotal.Equal(dec("40.00")))
	require.True(t, sale.Voucher.Remainder.IsZero())
	require.Nil(t, sale.Payment.Secondary)

	require.Len(t, f.vouchers.redeemed, 1)
	redemption := f.vouchers.redeemed[0]
	require.Equal(t, sale.ID, redemption.SaleID)
	require.Equal(t, sale.OrderNumber, redemption.OrderNumber)
	require.True(t, redemption.Amount.Equal(dec("10")))
}

func TestCompleteRedemptionFailureIsDegraded(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.vouchers.validateFn = func(context.Context, vouchers.ValidationInput) (*vouchers.Voucher, error) {
		return fixedTenVoucher(), nil
	}
	f.vouchers.redeemErr = errors.New("connection reset")

	result, err := f.svc.Complete(context.Background(), SaleInput{
		StoreID:     "store-1",
		StaffID:     "staff-7",
		Items:       coffeeItems(),
		VoucherCode: "TEN",
		Payment:     sales.PaymentInput{Method: enums.PaymentMethodCard},
	})
	require.NoError(t, err)
	require.True(t, result.Degraded())
	require.Len(t, f.sales.created, 1)
	require.Equal(t, 1, f.metrics.redemptions)

	var failure map[string]any
	for _, line := range strings.Split(strings.TrimSpace(f.logs.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] == "voucher.redemption_failed" {
			failure = entry
		}
	}
	require.NotNil(t, failure)
	require.Equal(t, voucherID, failure["voucher_id"])
	require.Equal(t, result.Sale.OrderNumber, failure["order_number"])
}

func TestCompleteFailsClosedBeforeWriting(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.vouchers.validateFn = func(context.Context, vouchers.ValidationInput) (*vouchers.Voucher, error) {
		return fixedTenVoucher(), nil
	}

	_, err := f.svc.Complete(context.Background(), SaleInput{
		StoreID: "store-1",
		StaffID: "staff-7",
		Items:   coffeeItems(),
		Payment: sales.PaymentInput{Method: enums.PaymentMethodCash, Tendered: decPtr("20")},
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInsufficientPayment))

	f.vouchers.validateFn = func(context.Context, vouchers.ValidationInput) (*vouchers.Voucher, error) {
		return nil, pkgerrors.New(pkgerrors.CodeIneligible, "voucher has already been redeemed")
	}
	_, err = f.svc.Complete(context.Background(), SaleInput{
		StoreID:     "store-1",
		StaffID:     "staff-7",
		Items:       coffeeItems(),
		VoucherCode: "TEN",
		Payment:     sales.PaymentInput{Method: enums.PaymentMethodCard},
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeIneligible))

	require.Empty(t, f.sales.created)
	require.Empty(t, f.vouchers.redeemed)
}

func TestCompleteValidatesVoucherAgainstFreshRead(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	expired := false
	f.vouchers.validateFn = func(context.Context, vouchers.ValidationInput) (*vouchers.Voucher, error) {
		if expired {
			return nil, pkgerrors.New(pkgerrors.CodeIneligible, "voucher expired on 16 Oct 2026").
				WithDetails(map[string]any{"reason": enums.IneligibleExpired})
		}
		return fixedTenVoucher(), nil
	}

	quote, err := f.svc.Quote(context.Background(), QuoteInput{StoreID: "store-1", Items: coffeeItems(), VoucherCode: "TEN"})
	require.NoError(t, err)
	require.NotNil(t, quote)

	expired = true
	_, err = f.svc.Complete(context.Background(), SaleInput{
		StoreID:     "store-1",
		StaffID:     "staff-7",
		Items:       coffeeItems(),
		VoucherCode: "TEN",
		Payment:     sales.PaymentInput{Method: enums.PaymentMethodCard},
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeIneligible))
	require.Len(t, f.vouchers.validated, 2)
	require.Equal(t, fixedNow, f.vouchers.validated[1].Now)
	require.Empty(t, f.sales.created)
	require.Empty(t, f.vouchers.redeemed)
}

func TestCompleteMapsPersistenceErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	input := SaleInput{
		StoreID: "store-1",
		StaffID: "staff-7",
		Items:   coffeeItems(),
		Payment: sales.PaymentInput{Method: enums.PaymentMethodCard},
	}

	f.sales.createErr = errors.New("disk full")
	_, err := f.svc.Complete(context.Background(), input)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
	require.Equal(t, "processing failed, retry", pkgerrors.As(err).Message())

	f.sales.createErr = sales.ErrDuplicateOrderNumber
	_, err = f.svc.Complete(context.Background(), input)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestCompleteSurfacesRuleFeedFailure(t *testing.T) {
	t.Parallel()

	feed := promotions.RuleFeedFunc(func(context.Context) ([]promotions.Rule, error) {
		return nil, errors.New("specials table unavailable")
	})
	promoSvc, err := promotions.NewService(feed, nil)
	require.NoError(t, err)
	repo := &memorySales{}
	svc, err := NewService(promoSvc, &stubVouchers{}, repo, Config{})
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), SaleInput{
		StoreID: "store-1",
		StaffID: "staff-7",
		Items:   coffeeItems(),
		Payment: sales.PaymentInput{Method: enums.PaymentMethodCard},
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
	require.Empty(t, repo.created)
}

func TestQuoteWithVoucher(t *testing.T) {
	t.Parallel()

	f := newFixture(t, buyTwoGetOneRule())
	f.vouchers.validateFn = func(context.Context, vouchers.ValidationInput) (*vouchers.Voucher, error) {
		return fixedTenVoucher(), nil
	}

	quote, err := f.svc.Quote(context.Background(), QuoteInput{StoreID: "store-1", Items: coffeeItems(), VoucherCode: "TEN"})
	require.NoError(t, err)
	require.True(t, quote.SubtotalBeforeDiscounts.Equal(dec("75.00")))
	require.True(t, quote.TotalDiscount.Equal(dec("25.00")))
	require.True(t, quote.Total.Equal(dec("40.00")))
	require.NotNil(t, quote.Voucher)
	require.True(t, quote.Voucher.DiscountValue.Equal(dec("10")))
	require.False(t, quote.Voucher.FullyCovered)
	require.Empty(t, f.sales.created)
}

func TestQuoteMergesDuplicateLines(t *testing.T) {
	t.Parallel()

	f := newFixture(t, buyTwoGetOneRule())
	items := []cart.LineItem{
		{ID: "coffee_short", UnitPrice: dec("25.00"), Quantity: 2},
		{ID: "coffee_short", UnitPrice: dec("25.00"), Quantity: 1},
	}
	quote, err := f.svc.Quote(context.Background(), QuoteInput{StoreID: "store-1", Items: items})
	require.NoError(t, err)
	require.Len(t, quote.Items, 1)
	require.Equal(t, 3, quote.Items[0].Quantity)
	require.True(t, quote.Total.Equal(dec("50.00")))
	require.Nil(t, quote.Voucher)
}

func TestValidateVoucherRequiresCode(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.ValidateVoucher(context.Background(), QuoteInput{StoreID: "store-1", Items: coffeeItems()})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.ValidateVoucher(context.Background(), QuoteInput{StoreID: "store-1", Items: coffeeItems(), VoucherCode: "NOPE"})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestFindSale(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	result, err := f.svc.Complete(context.Background(), SaleInput{
		StoreID: "store-1",
		StaffID: "staff-7",
		Items:   coffeeItems(),
		Payment: sales.PaymentInput{Method: enums.PaymentMethodSnapScan},
	})
	require.NoError(t, err)

	found, err := f.svc.FindSale(context.Background(), "store-1", result.Sale.OrderNumber)
	require.NoError(t, err)
	require.Equal(t, result.Sale.ID, found.ID)

	_, err = f.svc.FindSale(context.Background(), "store-1", "20260101-000000-AAAAAA")
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
