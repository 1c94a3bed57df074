// internal/book/metrics.go
package book

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	tradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curve_engine_trades_total",
			Help: "Total number of trades processed",
		},
		[]string{"direction", "status"},
	)
	tradeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curve_engine_trade_duration_seconds",
			Help:    "Duration of the quote/apply/commit pipeline",
			Buckets: prometheus.ExponentialBuckets(0.000001, 10, 8),
		},
	)
	completionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "curve_engine_completions_total",
			Help: "Curves that crossed their graduation threshold",
		},
	)
	curvesLaunched = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "curve_engine_curves_launched_total",
			Help: "Curves registered with the book",
		},
	)
)

func init() {
	prometheus.MustRegister(tradesTotal)
	prometheus.MustRegister(tradeDuration)
	prometheus.MustRegister(completionsTotal)
	prometheus.MustRegister(curvesLaunched)
}

func observeTrade(direction string, start time.Time, err error) {
	tradeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		tradesTotal.WithLabelValues(direction, "failed").Inc()
	} else {
		tradesTotal.WithLabelValues(direction, "success").Inc()
	}
}
