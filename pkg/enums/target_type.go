package enums

// TargetType selects whether a promotion descriptor points at a product or a category.
type TargetType string

const (
	TargetTypeProduct  TargetType = "product"
	TargetTypeCategory TargetType = "category"
)

var targetTypes = []TargetType{TargetTypeProduct, TargetTypeCategory}

func (t TargetType) String() string { return string(t) }

func (t TargetType) IsValid() bool { return valid(targetTypes, t) }

func ParseTargetType(value string) (TargetType, error) {
	return parse(targetTypes, "target type", value)
}
