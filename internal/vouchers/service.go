package vouchers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/catalog"
	"github.com/angelmondragon/tillpoint-backend/pkg/db/models"
	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
)

const expiryDateLayout = "02 Jan 2006"

// ValidationInput carries everything eligibility depends on.
type ValidationInput struct {
	Code         string
	Items        []cart.LineItem
	CurrentTotal decimal.Decimal
	StoreID      string
	Now          time.Time
}

// Redemption describes the sale a voucher was redeemed against.
type Redemption struct {
	SaleID      uuid.UUID
	OrderNumber string
	StoreID     string
	StaffID     string
	Amount      decimal.Decimal
	RedeemedAt  time.Time
}

// Resolver validates voucher codes.
type Resolver interface {
	Validate(ctx context.Context, input ValidationInput) (*Voucher, error)
}

// Redeemer records a redemption once a sale has been written.
type Redeemer interface {
	Redeem(ctx context.Context, v *Voucher, redemption Redemption) error
}

// Service resolves and redeems vouchers.
type Service interface {
	Resolver
	Redeemer
}

type service struct {
	repo Repository
}

// NewService builds a voucher service backed by repo.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("voucher repository required")
	}
	return &service{repo: repo}, nil
}

// Validate runs the eligibility checks in order and stops at the first failure.
func (s *service) Validate(ctx context.Context, input ValidationInput) (*Voucher, error) {
	code := NormalizeCode(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher code is required")
	}

	record, err := s.repo.FindActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher code is invalid, expired or deactivated")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup voucher")
	}

	v, err := FromModel(*record)
	if err != nil {
		return nil, ineligible(enums.IneligibleMisconfigured, "voucher is misconfigured", nil)
	}

	if err := checkEligibility(v, input); err != nil {
		return nil, err
	}
	return v, nil
}

func checkEligibility(v *Voucher, input ValidationInput) error {
	if v.Redeemed {
		return ineligible(enums.IneligibleRedeemed, "voucher has already been redeemed", nil)
	}
	if v.ExpiresAt != nil && v.ExpiresAt.Before(input.Now) {
		return ineligible(enums.IneligibleExpired,
			fmt.Sprintf("voucher expired on %s", v.ExpiresAt.Format(expiryDateLayout)),
			map[string]any{"expired_at": v.ExpiresAt.UTC().Format(time.RFC3339)})
	}
	if v.MinimumPurchase != nil && input.CurrentTotal.LessThan(*v.MinimumPurchase) {
		return ineligible(enums.IneligibleMinimumPurchase,
			fmt.Sprintf("a minimum purchase of %s is required", v.MinimumPurchase.StringFixed(2)),
			map[string]any{"minimum_purchase": *v.MinimumPurchase})
	}
	if len(v.ApplicableItems) > 0 && !cartHasApplicableItem(input.Items, v.ApplicableItems) {
		return ineligible(enums.IneligibleNoApplicableItems,
			"voucher does not apply to any item in the cart",
			map[string]any{"applicable_items": v.ApplicableItems})
	}
	if v.Exhausted() {
		return ineligible(enums.IneligibleMaxRedemptions, "voucher has reached its redemption limit", nil)
	}
	if len(v.RestrictedToStores) > 0 && !inList(v.RestrictedToStores, strings.TrimSpace(input.StoreID)) {
		return ineligible(enums.IneligibleStoreRestricted, "voucher is not valid at this store", nil)
	}
	return nil
}

// Redeem increments the voucher's redemption count and appends a history entry.
func (s *service) Redeem(ctx context.Context, v *Voucher, redemption Redemption) error {
	if v == nil {
		return errors.New("voucher required")
	}
	voucherID, err := uuid.Parse(v.ID)
	if err != nil {
		return fmt.Errorf("invalid voucher id %q: %w", v.ID, err)
	}
	entry := &models.VoucherRedemption{
		ID:          uuid.New(),
		VoucherID:   voucherID,
		SaleID:      redemption.SaleID,
		OrderNumber: redemption.OrderNumber,
		StoreID:     redemption.StoreID,
		StaffID:     redemption.StaffID,
		Amount:      redemption.Amount,
		RedeemedAt:  redemption.RedeemedAt,
	}
	if _, err := s.repo.RecordRedemption(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record voucher redemption")
	}
	return nil
}

func ineligible(reason enums.IneligibleReason, message string, extra map[string]any) error {
	details := map[string]any{"reason": reason}
	for k, v := range extra {
		details[k] = v
	}
	return pkgerrors.New(pkgerrors.CodeIneligible, message).WithDetails(details)
}

func cartHasApplicableItem(items []cart.LineItem, applicable []string) bool {
	for _, item := range items {
		if inList(applicable, item.ID) || inList(applicable, catalog.ProductIdentity(item.ID)) {
			return true
		}
	}
	return false
}
