package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	domainOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketing_operations_total",
			Help: "Total domain operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	purchaseAmount = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticketing_purchase_amount",
			Help:    "Ticket price at purchase time",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	upcomingEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketing_upcoming_events",
			Help: "Upcoming events seen by the last listing scan",
		},
	)
)

// Track domain operations
func TrackOperation(operation, outcome string) {
	domainOperations.WithLabelValues(operation, outcome).Inc()
}

// Track the captured ticket price of a completed purchase
func TrackPurchaseAmount(price decimal.Decimal) {
	f, _ := price.Float64()
	purchaseAmount.Observe(f)
}

// Track the size of the most recent upcoming-events scan
func TrackUpcomingEvents(n int) {
	upcomingEvents.Set(float64(n))
}
