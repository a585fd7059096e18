package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records pricing-engine activity.
type PricingMetrics struct {
	quotes            prometheus.Counter
	quoteDuration     *prometheus.HistogramVec
	voucherRejections *prometheus.CounterVec
	settlements       *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	quotes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_quotes_total",
		Help: "Pricing passes computed across all call paths.",
	})
	quoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pricing_quote_duration_seconds",
		Help:    "Duration of pricing passes in seconds, by call path.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
	voucherRejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_voucher_rejections_total",
		Help: "Vouchers excluded from pricing, by reason.",
	}, []string{"reason"})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_settlements_total",
		Help: "Order settlements, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(quotes, quoteDuration, voucherRejections, settlements)
	return &PricingMetrics{
		quotes:            quotes,
		quoteDuration:     quoteDuration,
		voucherRejections: voucherRejections,
		settlements:       settlements,
	}
}

// IncQuote counts one pricing pass.
func (p *PricingMetrics) IncQuote() {
	if p == nil || p.quotes == nil {
		return
	}
	p.quotes.Inc()
}

// ObserveQuoteDuration records how long a pricing pass took on the named
// call path.
func (p *PricingMetrics) ObserveQuoteDuration(path string, duration time.Duration) {
	if p == nil || p.quoteDuration == nil {
		return
	}
	p.quoteDuration.WithLabelValues(normalizeLabel(path)).Observe(duration.Seconds())
}

// IncVoucherRejection counts a voucher excluded for the given reason.
func (p *PricingMetrics) IncVoucherRejection(reason string) {
	if p == nil || p.voucherRejections == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	p.voucherRejections.WithLabelValues(reason).Inc()
}

// IncSettlement counts a settlement attempt by outcome.
func (p *PricingMetrics) IncSettlement(outcome string) {
	if p == nil || p.settlements == nil {
		return
	}
	p.settlements.WithLabelValues(outcome).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
