package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(voucherPoolSize) }

var voucherPoolSize = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "voucher_pool_size",
		Help: "Current unassigned voucher pool size by kind.",
	},
	[]string{"kind"}, // 'normal', 'bonus'
)

func SetPoolSize(kind string, n int) {
	voucherPoolSize.WithLabelValues(norm(kind)).Set(float64(n))
}
