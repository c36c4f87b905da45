package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transaction outcomes recorded on stock_transactions_total.
const (
	OutcomeCommitted    = "committed"
	OutcomeInsufficient = "insufficient_stock"
	OutcomeInvalid      = "invalid"
	OutcomeNotFound     = "not_found"
	OutcomeFailed       = "failed"
)

// LedgerMetrics holds the Prometheus collectors of the ledger write path.
// A nil *LedgerMetrics records nothing.
type LedgerMetrics struct {
	transactions  *prometheus.CounterVec
	applyDuration *prometheus.HistogramVec
	productsTotal prometheus.Counter
}

func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	m := &LedgerMetrics{
		transactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stock_ledger",
			Name:      "stock_transactions_total",
			Help:      "Stock transaction requests by type and outcome.",
		}, []string{"type", "outcome"}),
		applyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stock_ledger",
			Name:      "apply_duration_seconds",
			Help:      "Time spent applying a stock transaction, including rejections.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
		productsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stock_ledger",
			Name:      "products_created_total",
			Help:      "Products created through the catalog.",
		}),
	}
	reg.MustRegister(m.transactions, m.applyDuration, m.productsTotal)
	return m
}

func (m *LedgerMetrics) ObserveTransaction(txType, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.transactions.WithLabelValues(txType, outcome).Inc()
	m.applyDuration.WithLabelValues(txType).Observe(elapsed.Seconds())
}

func (m *LedgerMetrics) ProductCreated() {
	if m == nil {
		return
	}
	m.productsTotal.Inc()
}

// Handler exposes the collectors of g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
