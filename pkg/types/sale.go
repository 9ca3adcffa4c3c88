package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// SaleLine is the denormalized copy of a cart line stored on a sale.
type SaleLine struct {
	ID        string          `json:"id" bson:"id"`
	Name      string          `json:"name" bson:"name"`
	UnitPrice decimal.Decimal `json:"unit_price" bson:"unit_price"`
	Quantity  int             `json:"quantity" bson:"quantity"`
	Size      string          `json:"size,omitempty" bson:"size,omitempty"`
	Category  string          `json:"category,omitempty" bson:"category,omitempty"`
	Subtotal  decimal.Decimal `json:"subtotal" bson:"subtotal"`
}

// SaleLines is persisted as JSONB.
type SaleLines []SaleLine

// Value serializes the lines to JSON.
func (s SaleLines) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan decodes JSONB into the line slice.
func (s *SaleLines) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded SaleLines
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// SalePromotion records one applied special and what it saved.
type SalePromotion struct {
	RuleID            string          `json:"rule_id" bson:"rule_id"`
	Name              string          `json:"name" bson:"name"`
	SavedAmount       decimal.Decimal `json:"saved_amount" bson:"saved_amount"`
	Applications      int             `json:"applications" bson:"applications"`
	MutuallyExclusive bool            `json:"mutually_exclusive" bson:"mutually_exclusive"`
}

// SalePromotions is persisted as JSONB.
type SalePromotions []SalePromotion

// Value serializes the promotions to JSON.
func (s SalePromotions) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan decodes JSONB into the promotion slice.
func (s *SalePromotions) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded SalePromotions
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}

// ItemizedDiscount is a display-only per-line share of a voucher discount.
type ItemizedDiscount struct {
	ItemID string          `json:"item_id" bson:"item_id"`
	Name   string          `json:"name" bson:"name"`
	Amount decimal.Decimal `json:"amount" bson:"amount"`
}

// SaleVoucher captures the voucher applied to a sale and its computed value.
type SaleVoucher struct {
	ID                string                    `json:"id" bson:"id"`
	Code              string                    `json:"code" bson:"code"`
	Type              enums.VoucherType         `json:"type" bson:"type"`
	DiscountType      enums.VoucherDiscountType `json:"discount_type,omitempty" bson:"discount_type,omitempty"`
	Value             decimal.Decimal           `json:"value" bson:"value"`
	NewTotal          decimal.Decimal           `json:"new_total" bson:"new_total"`
	Remainder         decimal.Decimal           `json:"remainder" bson:"remainder"`
	ItemizedDiscounts []ItemizedDiscount        `json:"itemized_discounts,omitempty" bson:"itemized_discounts,omitempty"`
}

// SecondaryPayment settles the remainder a voucher did not cover.
type SecondaryPayment struct {
	Method   enums.PaymentMethod `json:"method" bson:"method"`
	Amount   decimal.Decimal     `json:"amount" bson:"amount"`
	Tendered *decimal.Decimal    `json:"tendered,omitempty" bson:"tendered,omitempty"`
	Change   *decimal.Decimal    `json:"change,omitempty" bson:"change,omitempty"`
}

// SalePayment describes how the sale was settled.
type SalePayment struct {
	Method    enums.PaymentMethod `json:"method" bson:"method"`
	Tendered  *decimal.Decimal    `json:"tendered,omitempty" bson:"tendered,omitempty"`
	Change    *decimal.Decimal    `json:"change,omitempty" bson:"change,omitempty"`
	Secondary *SecondaryPayment   `json:"secondary,omitempty" bson:"secondary,omitempty"`
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
