package sales

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/internal/vouchers"
	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
	"github.com/angelmondragon/tillpoint-backend/pkg/money"
	"github.com/angelmondragon/tillpoint-backend/pkg/types"
)

// PaymentInput is the tender captured at the till.
type PaymentInput struct {
	Method    enums.PaymentMethod `json:"method" validate:"required"`
	Tendered  *decimal.Decimal    `json:"tendered,omitempty"`
	Secondary *SecondaryInput     `json:"secondary,omitempty"`
}

// SecondaryInput settles what a voucher payment left uncovered.
type SecondaryInput struct {
	Method   enums.PaymentMethod `json:"method" validate:"required"`
	Tendered *decimal.Decimal    `json:"tendered,omitempty"`
}

// Remainder is what is still owed after the primary payment. Only a voucher
// payment can leave a remainder: its outcome's remainder. Any other primary
// method settles the whole total.
func Remainder(method enums.PaymentMethod, outcome *vouchers.Outcome) decimal.Decimal {
	if method != enums.PaymentMethodVoucher || outcome == nil {
		return money.Zero
	}
	return money.NonNegative(outcome.Remainder)
}

// ValidatePayment checks the tender against the total and returns the payment
// block stored on the sale. Every failure happens before anything is written.
func ValidatePayment(input PaymentInput, total decimal.Decimal, outcome *vouchers.Outcome) (types.SalePayment, error) {
	if input.Method == "" {
		return types.SalePayment{}, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}
	if !input.Method.IsValid() {
		return types.SalePayment{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported payment method %q", input.Method)
	}

	payment := types.SalePayment{Method: input.Method}

	if input.Method == enums.PaymentMethodVoucher {
		if outcome == nil || outcome.Voucher == nil {
			return types.SalePayment{}, pkgerrors.New(pkgerrors.CodeValidation, "voucher payment requires a validated voucher")
		}
		remainder := Remainder(input.Method, outcome)
		if !remainder.IsPositive() {
			if input.Secondary != nil {
				return types.SalePayment{}, pkgerrors.New(pkgerrors.CodeValidation, "voucher covers the full total; no secondary payment expected")
			}
			return payment, nil
		}
		secondary, err := validateSecondary(input.Secondary, remainder)
		if err != nil {
			return types.SalePayment{}, err
		}
		payment.Secondary = secondary
		return payment, nil
	}

	if input.Secondary != nil {
		return types.SalePayment{}, pkgerrors.New(pkgerrors.CodeValidation, "secondary payment is only allowed for a voucher remainder")
	}
	if input.Method == enums.PaymentMethodCash {
		tendered, change, err := settleCash(input.Tendered, total)
		if err != nil {
			return types.SalePayment{}, err
		}
		payment.Tendered = &tendered
		payment.Change = &change
	}
	return payment, nil
}

func validateSecondary(input *SecondaryInput, remainder decimal.Decimal) (*types.SecondaryPayment, error) {
	if input == nil || input.Method == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a secondary payment method is required for the remaining balance").
			WithDetails(map[string]any{"remainder": remainder})
	}
	if input.Method == enums.PaymentMethodVoucher {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vouchers cannot be stacked; choose another method for the remaining balance")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported payment method %q", input.Method)
	}

	secondary := &types.SecondaryPayment{Method: input.Method, Amount: remainder}
	if input.Method == enums.PaymentMethodCash {
		tendered, change, err := settleCash(input.Tendered, remainder)
		if err != nil {
			return nil, err
		}
		secondary.Tendered = &tendered
		secondary.Change = &change
	}
	return secondary, nil
}

func settleCash(tendered *decimal.Decimal, due decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if tendered == nil {
		return decimal.Decimal{}, decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "cash tendered amount is required")
	}
	amount := money.Round2(*tendered)
	due = money.Round2(due)
	if !money.AtLeast(amount, due) {
		return decimal.Decimal{}, decimal.Decimal{}, pkgerrors.Newf(pkgerrors.CodeInsufficientPayment,
			"tendered %s is less than the amount due %s", amount.StringFixed(2), due.StringFixed(2)).
			WithDetails(map[string]any{"tendered": amount, "due": due, "shortfall": due.Sub(amount)})
	}
	return amount, amount.Sub(due), nil
}
