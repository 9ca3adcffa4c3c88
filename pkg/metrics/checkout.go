package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records pricing and sale completion activity.
type CheckoutMetrics struct {
	salesCompleted     *prometheus.CounterVec
	promotionsApplied  *prometheus.CounterVec
	redemptionFailures prometheus.Counter
	pricingDuration    prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	salesCompleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sales_completed_total",
		Help: "Sales written, by primary payment method.",
	}, []string{"payment_method"})
	promotionsApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "promotions_applied_total",
		Help: "Specials applied to completed sales.",
	}, []string{"rule"})
	redemptionFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "voucher_redemption_failures_total",
		Help: "Voucher redemption updates that failed after the sale was written.",
	})
	pricingDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_evaluation_seconds",
		Help:    "Duration of promotion evaluation passes in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	})
	reg.MustRegister(salesCompleted, promotionsApplied, redemptionFailures, pricingDuration)
	return &CheckoutMetrics{
		salesCompleted:     salesCompleted,
		promotionsApplied:  promotionsApplied,
		redemptionFailures: redemptionFailures,
		pricingDuration:    pricingDuration,
	}
}

// IncSaleCompleted counts a written sale.
func (c *CheckoutMetrics) IncSaleCompleted(paymentMethod string) {
	if c == nil || c.salesCompleted == nil {
		return
	}
	c.salesCompleted.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncPromotionApplied counts one applied special on a completed sale.
func (c *CheckoutMetrics) IncPromotionApplied(rule string) {
	if c == nil || c.promotionsApplied == nil {
		return
	}
	c.promotionsApplied.WithLabelValues(normalizeLabel(rule)).Inc()
}

// IncRedemptionFailure counts a voucher update that failed after the sale write.
func (c *CheckoutMetrics) IncRedemptionFailure() {
	if c == nil || c.redemptionFailures == nil {
		return
	}
	c.redemptionFailures.Inc()
}

// ObservePricing records the duration of one evaluation pass.
func (c *CheckoutMetrics) ObservePricing(duration time.Duration) {
	if c == nil || c.pricingDuration == nil {
		return
	}
	c.pricingDuration.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
