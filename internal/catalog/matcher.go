// Package catalog resolves promotion descriptors against cart lines.
package catalog

import (
	"strings"

	"github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/pkg/enums"
)

// VarietySeparator splits a composite line id into product and variety.
const VarietySeparator = "_"

// Descriptor points a trigger or reward at a product or a category,
// optionally narrowed to one size.
type Descriptor struct {
	Type     enums.TargetType `json:"type"`
	TargetID string           `json:"target_id"`
	Size     string           `json:"size,omitempty"`
}

// SameTarget reports whether two descriptors resolve to the identical line set.
func (d Descriptor) SameTarget(other Descriptor) bool {
	return d.Type == other.Type &&
		d.TargetID == other.TargetID &&
		strings.EqualFold(strings.TrimSpace(d.Size), strings.TrimSpace(other.Size))
}

// ProductIdentity returns the product part of a composite line id.
func ProductIdentity(id string) string {
	if idx := strings.Index(id, VarietySeparator); idx > 0 {
		return id[:idx]
	}
	return id
}

// EffectiveSize prefers the explicit size and falls back to the id suffix.
func EffectiveSize(item cart.LineItem) string {
	if size := strings.TrimSpace(item.Size); size != "" {
		return size
	}
	if idx := strings.Index(item.ID, VarietySeparator); idx > 0 && idx < len(item.ID)-1 {
		return item.ID[idx+1:]
	}
	return ""
}

// MatchItems returns the lines selected by d in cart order. No match yields an
// empty slice.
func MatchItems(items []cart.LineItem, d Descriptor) []cart.LineItem {
	size := strings.TrimSpace(d.Size)
	matched := make([]cart.LineItem, 0, len(items))
	for _, item := range items {
		if !matchesTarget(item, d) {
			continue
		}
		if size != "" && !strings.EqualFold(EffectiveSize(item), size) {
			continue
		}
		matched = append(matched, item)
	}
	return matched
}

// TotalQuantity sums the quantity across lines.
func TotalQuantity(items []cart.LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

func matchesTarget(item cart.LineItem, d Descriptor) bool {
	switch d.Type {
	case enums.TargetTypeProduct:
		return item.ID == d.TargetID || ProductIdentity(item.ID) == d.TargetID
	case enums.TargetTypeCategory:
		return item.Category != "" && item.Category == d.TargetID
	default:
		return false
	}
}
