package enums

// PaymentMethod is how a customer settles a sale at the till. Only a voucher
// payment can leave a remainder for a secondary method.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodSnapScan PaymentMethod = "snapscan"
	PaymentMethodVoucher  PaymentMethod = "voucher"
)

var paymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodSnapScan,
	PaymentMethodVoucher,
}

func (p PaymentMethod) String() string { return string(p) }

func (p PaymentMethod) IsValid() bool { return valid(paymentMethods, p) }

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	return parse(paymentMethods, "payment method", value)
}
