package trade

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Buy outcomes reported on the metrics label and the span status text.
const (
	outcomeSuccess            = "success"
	outcomeShopNotFound       = "shop_not_found"
	outcomeOwnPurchase        = "own_purchase"
	outcomeOutOfStock         = "out_of_stock"
	outcomeInsufficientFunds  = "insufficient_funds"
	outcomeWithdrawFailed     = "withdraw_failed"
	outcomeOwnerDepositFailed = "owner_deposit_failed"
	outcomeStockDiscrepancy   = "stock_discrepancy"
	outcomeCompensationFailed = "compensation_failed"
)

// Metrics covers the purchase path. A nil *Metrics records nothing.
type Metrics struct {
	buys        *prometheus.CounterVec
	buyDuration prometheus.Histogram
	volume      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		buys: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shop_buy_total",
			Help: "Buy attempts by outcome.",
		}, []string{"outcome"}),
		buyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shop_buy_duration_seconds",
			Help:    "End-to-end duration of buy attempts.",
			Buckets: prometheus.DefBuckets,
		}),
		volume: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shop_buy_volume_currency_total",
			Help: "Total currency moved by successful buys.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.buys, m.buyDuration, m.volume)
	}
	return m
}

func (m *Metrics) ObserveBuy(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.buys.WithLabelValues(outcome).Inc()
	m.buyDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveVolume(amount float64) {
	if m == nil {
		return
	}
	m.volume.Add(amount)
}
