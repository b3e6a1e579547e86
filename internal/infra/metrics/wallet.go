package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(walletCallLatencyMs, walletBatchesMinted) }

var (
	walletCallLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_call_latency_ms",
			Help:    "Wallet API call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"op", "success"},
	)

	walletBatchesMinted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_batches_minted_total",
			Help: "Voucher batches minted against the wallet backend by kind.",
		},
		[]string{"kind"},
	)
)

func ObserveWalletCall(op string, latencyMs int64, success bool) {
	walletCallLatencyMs.WithLabelValues(norm(op), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func IncBatchMinted(kind string) {
	walletBatchesMinted.WithLabelValues(norm(kind)).Inc()
}
