package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
)

// LineItem is one cart entry. ID is either a product id or a
// product+variety composite such as "coffee_short".
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size,omitempty"`
	Category  string          `json:"category,omitempty"`
}

// Validate checks the invariants every line must hold.
func (l LineItem) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if l.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive").
			WithDetails(map[string]any{"item_id": l.ID})
	}
	if l.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "item unit price must not be negative").
			WithDetails(map[string]any{"item_id": l.ID})
	}
	return nil
}

// Cart is the explicit, session-owned list of lines passed into pricing.
// It is not safe for concurrent use; a till works one cart at a time.
type Cart struct {
	items []LineItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// FromItems builds a cart from already collected lines, merging duplicate ids.
func FromItems(items []LineItem) (*Cart, error) {
	c := New()
	for _, item := range items {
		if err := c.Add(item); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends item, or bumps the quantity of an existing line with the same id.
// A line with the same id must carry the same unit price.
func (c *Cart) Add(item LineItem) error {
	item.ID = strings.TrimSpace(item.ID)
	if err := item.Validate(); err != nil {
		return err
	}
	if idx := c.indexOf(item.ID); idx >= 0 {
		if existing := c.items[idx].UnitPrice; !existing.Equal(item.UnitPrice) {
			return pkgerrors.New(pkgerrors.CodeValidation, "item listed twice with different unit prices").
				WithDetails(map[string]any{
					"item_id":    item.ID,
					"unit_price": existing.StringFixed(2),
					"conflict":   item.UnitPrice.StringFixed(2),
				})
		}
		c.items[idx].Quantity += item.Quantity
		return nil
	}
	c.items = append(c.items, item)
	return nil
}

// Increment raises the quantity of the line by one.
func (c *Cart) Increment(id string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}
	c.items[idx].Quantity++
	return nil
}

// Decrement lowers the quantity by one and drops the line when it reaches zero.
func (c *Cart) Decrement(id string) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}
	if c.items[idx].Quantity <= 1 {
		c.removeAt(idx)
		return nil
	}
	c.items[idx].Quantity--
	return nil
}

// SetQuantity overwrites the quantity; zero or below removes the line.
func (c *Cart) SetQuantity(id string, quantity int) error {
	idx := c.indexOf(id)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}
	if quantity <= 0 {
		c.removeAt(idx)
		return nil
	}
	c.items[idx].Quantity = quantity
	return nil
}

// Remove drops the line entirely. Removing an absent id is a no-op.
func (c *Cart) Remove(id string) {
	if idx := c.indexOf(id); idx >= 0 {
		c.removeAt(idx)
	}
}

// Clear empties the cart after checkout completes.
func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) indexOf(id string) int {
	id = strings.TrimSpace(id)
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(idx int) {
	c.items = append(c.items[:idx], c.items[idx+1:]...)
}
