package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// DiscountOffersTotal counts discount offers evaluated against a cart by kind and outcome.
	DiscountOffersTotal *prometheus.CounterVec
	// ReceiptsIssuedTotal counts receipts produced by checkout.
	ReceiptsIssuedTotal prometheus.Counter
	// ReceiptGrandTotal records the grand total of issued receipts.
	ReceiptGrandTotal prometheus.Histogram
	// ReceiptLines records the number of lines on issued receipts.
	ReceiptLines prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers cart Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		DiscountOffersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_offers_total",
			Help:      "Count of discount offers evaluated by kind and outcome.",
		}, []string{"kind", "status"})
		ReceiptsIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipts_issued_total",
			Help:      "Total number of receipts issued at checkout.",
		})
		ReceiptGrandTotal = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "receipt_grand_total",
			Help:      "Grand total of issued receipts in currency units.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		})
		ReceiptLines = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "receipt_lines",
			Help:      "Number of lines on issued receipts.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		})

		mustRegisterCollector(reg, DiscountOffersTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DiscountOffersTotal = v
			}
		})
		mustRegisterCollector(reg, ReceiptsIssuedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				ReceiptsIssuedTotal = v
			}
		})
		mustRegisterCollector(reg, ReceiptGrandTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				ReceiptGrandTotal = v
			}
		})
		mustRegisterCollector(reg, ReceiptLines, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				ReceiptLines = v
			}
		})
	})
}

// RecordDiscountOffer increments the offer counter when domain metrics are registered.
func RecordDiscountOffer(kind, status string) {
	if DiscountOffersTotal == nil {
		return
	}
	if kind == "" {
		kind = "unknown"
	}
	DiscountOffersTotal.WithLabelValues(kind, status).Inc()
}

// RecordReceipt observes an issued receipt when domain metrics are registered.
func RecordReceipt(grandTotal float64, lines int) {
	if ReceiptsIssuedTotal == nil {
		return
	}
	ReceiptsIssuedTotal.Inc()
	ReceiptGrandTotal.Observe(grandTotal)
	ReceiptLines.Observe(float64(lines))
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register metric: %w", err))
	}
}
