package metric

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuotesTotal counts allocation quotes by whether the public price had to cover part of the quantity
	QuotesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compras",
		Subsystem: "pricing",
		Name:      "quotes_total",
		Help:      "Allocation quotes served",
	}, []string{"fulfillment"}) // tiers / partial_public / public

	// PublicUnitsTotal counts units priced at the public price because supplier stock ran out
	PublicUnitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "compras",
		Subsystem: "pricing",
		Name:      "public_units_total",
		Help:      "Units charged at the public price",
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compras",
		Subsystem: "orders",
		Name:      "transitions_total",
		Help:      "Order status transitions",
	}, []string{"to"})

	CounterOffersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compras",
		Subsystem: "counter_offers",
		Name:      "total",
		Help:      "Counter-offers by resulting status",
	}, []string{"status"}) // pending / accepted / rejected / expired

	PriceListRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compras",
		Subsystem: "price_lists",
		Name:      "rows_total",
		Help:      "Supplier price list rows processed",
	}, []string{"result"}) // upserted / skipped

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "compras",
		Subsystem: "cache",
		Name:      "catalog_lookups_total",
		Help:      "Catalog cache lookups",
	}, []string{"result"}) // hit / miss

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "compras",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})
)

// ObserveRequest records one HTTP request
func ObserveRequest(method string, d time.Duration, status int) {
	RequestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveQuote records the fulfillment mix of an allocation
func ObserveQuote(quantity, publicUnits int) {
	switch {
	case quantity <= 0:
		return
	case publicUnits == 0:
		QuotesTotal.WithLabelValues("tiers").Inc()
	case publicUnits < quantity:
		QuotesTotal.WithLabelValues("partial_public").Inc()
	default:
		QuotesTotal.WithLabelValues("public").Inc()
	}
	PublicUnitsTotal.Add(float64(publicUnits))
}
