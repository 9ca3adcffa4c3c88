package enums

// IneligibleReason is attached to INELIGIBLE errors so tills can render a specific message.
type IneligibleReason string

const (
	IneligibleRedeemed          IneligibleReason = "redeemed"
	IneligibleExpired           IneligibleReason = "expired"
	IneligibleMinimumPurchase   IneligibleReason = "minimum_purchase"
	IneligibleNoApplicableItems IneligibleReason = "no_applicable_items"
	IneligibleMaxRedemptions    IneligibleReason = "max_redemptions"
	IneligibleStoreRestricted   IneligibleReason = "store_restricted"
	IneligibleMisconfigured     IneligibleReason = "misconfigured"
)

// String implements fmt.Stringer.
func (r IneligibleReason) String() string {
	return string(r)
}
