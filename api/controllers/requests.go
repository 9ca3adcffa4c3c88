package controllers

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tillpoint-backend/api/validators"
	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/sales"
	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
)

const maxIdentifierLength = 64

type lineItemRequest struct {
	ID        string          `json:"id" validate:"required,max=128"`
	Name      string          `json:"name" validate:"max=256"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Quantity  int             `json:"quantity" validate:"min=1"`
	Size      string          `json:"size,omitempty"`
	Category  string          `json:"category,omitempty"`
}

type quoteRequest struct {
	Items       []lineItemRequest `json:"items" validate:"required,min=1,dive"`
	VoucherCode string            `json:"voucher_code,omitempty" validate:"max=64"`
}

type voucherValidateRequest struct {
	Code  string            `json:"code" validate:"required,max=64"`
	Items []lineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type paymentRequest struct {
	Method    string                   `json:"method" validate:"required,oneof=cash card snapscan voucher"`
	Tendered  *decimal.Decimal         `json:"tendered,omitempty"`
	Secondary *secondaryPaymentRequest `json:"secondary,omitempty"`
}

type secondaryPaymentRequest struct {
	Method   string           `json:"method" validate:"required,oneof=cash card snapscan voucher"`
	Tendered *decimal.Decimal `json:"tendered,omitempty"`
}

type saleRequest struct {
	StaffID     string            `json:"staff_id" validate:"required,max=64"`
	TillID      string            `json:"till_id,omitempty" validate:"max=64"`
	Items       []lineItemRequest `json:"items" validate:"required,min=1,dive"`
	VoucherCode string            `json:"voucher_code,omitempty" validate:"max=64"`
	Payment     paymentRequest    `json:"payment"`
}

func toLineItems(items []lineItemRequest) []cart.LineItem {
	out := make([]cart.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, cart.LineItem{
			ID:        strings.TrimSpace(item.ID),
			Name:      strings.TrimSpace(item.Name),
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Size:      strings.TrimSpace(item.Size),
			Category:  strings.TrimSpace(item.Category),
		})
	}
	return out
}

func (p paymentRequest) toInput() sales.PaymentInput {
	input := sales.PaymentInput{
		Method:   enums.PaymentMethod(p.Method),
		Tendered: p.Tendered,
	}
	if p.Secondary != nil {
		input.Secondary = &sales.SecondaryInput{
			Method:   enums.PaymentMethod(p.Secondary.Method),
			Tendered: p.Secondary.Tendered,
		}
	}
	return input
}

func tillID(body, header string) string {
	if id := validators.SanitizeString(body, maxIdentifierLength); id != "" {
		return id
	}
	return validators.SanitizeString(header, maxIdentifierLength)
}
