package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/promotions"
	"github.com/angelmondragon/tillpoint-backend/internal/sales"
	"github.com/angelmondragon/tillpoint-backend/internal/vouchers"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

type saleRecorder interface {
	IncSaleCompleted(paymentMethod string)
	IncPromotionApplied(rule string)
	IncRedemptionFailure()
}

type nopRecorder struct{}

func (nopRecorder) IncSaleCompleted(string)    {}
func (nopRecorder) IncPromotionApplied(string) {}
func (nopRecorder) IncRedemptionFailure()      {}

// Service prices carts and completes sales at the till.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*Quote, error)
	ValidateVoucher(ctx context.Context, input QuoteInput) (*VoucherSummary, error)
	Complete(ctx context.Context, input SaleInput) (*Result, error)
	FindSale(ctx context.Context, storeID, orderNumber string) (*models.Sale, error)
}

// Config carries the optional collaborators of the checkout service.
type Config struct {
	Location *time.Location
	Clock    func() time.Time
	Metrics  saleRecorder
	Logger   *logger.Logger
}

type service struct {
	promotions promotions.Service
	vouchers   vouchers.Service
	sales      sales.Repository
	location   *time.Location
	clock      func() time.Time
	metrics    saleRecorder
	logg       *logger.Logger
}

// NewService builds the checkout service.
func NewService(promos promotions.Service, voucherSvc vouchers.Service, salesRepo sales.Repository, cfg Config) (Service, error) {
	if promos == nil {
		return nil, fmt.Errorf("promotions service required")
	}
	if voucherSvc == nil {
		return nil, fmt.Errorf("voucher service required")
	}
	if salesRepo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Metrics == nil {
		cfg.Metrics = nopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return &service{
		promotions: promos,
		vouchers:   voucherSvc,
		sales:      salesRepo,
		location:   cfg.Location,
		clock:      cfg.Clock,
		metrics:    cfg.Metrics,
		logg:       cfg.Logger,
	}, nil
}

// pricing is the shared result of running promotions and an optional voucher.
type pricing struct {
	items   []cart.LineItem
	applied []promotions.AppliedPromotion
	totals  sales.Totals
	voucher *vouchers.Voucher
	outcome *vouchers.Outcome
}

func (s *service) price(ctx context.Context, storeID string, lines []cart.LineItem, code string, now time.Time) (*pricing, error) {
	if strings.TrimSpace(storeID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	c, err := cart.FromItems(lines)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	items := c.Items()

	applied, err := s.promotions.Evaluate(ctx, items, now.In(s.location))
	if err != nil {
		return nil, err
	}

	p := &pricing{items: items, applied: applied}
	p.totals = sales.ComputeTotals(items, applied, nil)

	if strings.TrimSpace(code) == "" {
		return p, nil
	}

	v, err := s.vouchers.Validate(ctx, vouchers.ValidationInput{
		Code:         code,
		Items:        items,
		CurrentTotal: p.totals.Total,
		StoreID:      storeID,
		Now:          now,
	})
	if err != nil {
		return nil, err
	}
	outcome := vouchers.Price(v, items, p.totals.Total)
	p.voucher = v
	p.outcome = &outcome
	p.totals = sales.ComputeTotals(items, applied, p.outcome)
	return p, nil
}

// Quote prices the cart without writing anything.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*Quote, error) {
	p, err := s.price(ctx, input.StoreID, input.Items, input.VoucherCode, s.clock())
	if err != nil {
		return nil, err
	}
	return newQuote(p), nil
}

// ValidateVoucher checks a code against the promotion-discounted cart.
func (s *service) ValidateVoucher(ctx context.Context, input QuoteInput) (*VoucherSummary, error) {
	if strings.TrimSpace(input.VoucherCode) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher code is required")
	}
	p, err := s.price(ctx, input.StoreID, input.Items, input.VoucherCode, s.clock())
	if err != nil {
		return nil, err
	}
	return newVoucherSummary(p.outcome), nil
}

// Complete validates, prices and writes the sale, then redeems the voucher.
// The voucher is validated again against a fresh read at commit, since no
// quote state is held between requests. The redemption is best effort: its
// failure is reported on the result and never undoes the sale.
func (s *service) Complete(ctx context.Context, input SaleInput) (*Result, error) {
	now := s.clock()
	p, err := s.price(ctx, input.StoreID, input.Items, input.VoucherCode, now)
	if err != nil {
		return nil, err
	}

	sale, err := sales.Finalize(sales.FinalizeInput{
		StoreID:    input.StoreID,
		StaffID:    input.StaffID,
		TillID:     input.TillID,
		Items:      p.items,
		Promotions: p.applied,
		Voucher:    p.outcome,
		Payment:    input.Payment,
		Now:        now,
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithStoreID(ctx, sale.StoreID)
	ctx = s.logg.WithStaffID(ctx, sale.StaffID)
	ctx = s.logg.WithOrderNumber(ctx, sale.OrderNumber)

	if err := s.sales.Create(ctx, sale); err != nil {
		if errors.Is(err, sales.ErrDuplicateOrderNumber) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already recorded")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "processing failed, retry")
	}

	s.metrics.IncSaleCompleted(string(sale.Payment.Method))
	for _, promo := range p.applied {
		s.metrics.IncPromotionApplied(promo.Name)
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"sale_id":        sale.ID.String(),
		"total":          sale.Total,
		"total_discount": sale.TotalDiscount,
		"payment_method": sale.Payment.Method,
	}), "sale.completed")

	result := &Result{Sale: sale}
	if p.voucher == nil {
		return result, nil
	}

	err = s.vouchers.Redeem(ctx, p.voucher, vouchers.Redemption{
		SaleID:      sale.ID,
		OrderNumber: sale.OrderNumber,
		StoreID:     sale.StoreID,
		StaffID:     sale.StaffID,
		Amount:      p.outcome.DiscountValue,
		RedeemedAt:  now.UTC(),
	})
	if err != nil {
		result.RedemptionErr = err
		s.metrics.IncRedemptionFailure()
		s.logg.Error(s.logg.WithFields(ctx, map[string]any{
			"voucher_id":   p.voucher.ID,
			"voucher_code": p.voucher.Code,
		}), "voucher.redemption_failed", err)
	}
	return result, nil
}

// FindSale loads a recorded sale for receipt reprints.
func (s *service) FindSale(ctx context.Context, storeID, orderNumber string) (*models.Sale, error) {
	if strings.TrimSpace(storeID) == "" || strings.TrimSpace(orderNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id and order number are required")
	}
	sale, err := s.sales.FindByOrderNumber(ctx, storeID, orderNumber)
	if err != nil {
		if errors.Is(err, sales.ErrSaleNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
	}
	return sale, nil
}
