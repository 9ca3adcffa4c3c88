package enums

// DiscountType describes how a special discounts its reward units.
type DiscountType string

const (
	DiscountTypeFree       DiscountType = "free"
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

var discountTypes = []DiscountType{DiscountTypeFree, DiscountTypePercentage, DiscountTypeFixed}

func (d DiscountType) String() string { return string(d) }

func (d DiscountType) IsValid() bool { return valid(discountTypes, d) }

func ParseDiscountType(value string) (DiscountType, error) {
	return parse(discountTypes, "discount type", value)
}
