package enums

// VoucherType identifies the voucher variant. Values match the stored
// camelCase spelling.
type VoucherType string

const (
	VoucherTypeDiscount VoucherType = "discount"
	VoucherTypeFreeItem VoucherType = "freeItem"
	VoucherTypeBuyXGetY VoucherType = "buyXGetY"
)

var voucherTypes = []VoucherType{VoucherTypeDiscount, VoucherTypeFreeItem, VoucherTypeBuyXGetY}

func (v VoucherType) String() string { return string(v) }

func (v VoucherType) IsValid() bool { return valid(voucherTypes, v) }

func ParseVoucherType(value string) (VoucherType, error) {
	return parse(voucherTypes, "voucher type", value)
}

// VoucherDiscountType applies to discount vouchers only.
type VoucherDiscountType string

const (
	VoucherDiscountPercentage VoucherDiscountType = "percentage"
	VoucherDiscountFixed      VoucherDiscountType = "fixed"
)

var voucherDiscountTypes = []VoucherDiscountType{VoucherDiscountPercentage, VoucherDiscountFixed}

func (v VoucherDiscountType) String() string { return string(v) }

func (v VoucherDiscountType) IsValid() bool { return valid(voucherDiscountTypes, v) }

func ParseVoucherDiscountType(value string) (VoucherDiscountType, error) {
	return parse(voucherDiscountTypes, "voucher discount type", value)
}
