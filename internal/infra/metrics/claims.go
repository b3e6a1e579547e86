package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(claimsTotal, bonusWinsTotal, vouchersSentTotal) }

var (
	claimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voucher_claims_total",
			Help: "Claim attempts by outcome (granted/duplicate/failed).",
		},
		[]string{"outcome"},
	)

	bonusWinsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "voucher_bonus_wins_total",
			Help: "Number of lucky bonus vouchers granted.",
		},
	)

	vouchersSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vouchers_sent_total",
			Help: "Vouchers delivered to users by kind (normal/bonus).",
		},
		[]string{"kind"},
	)
)

func IncClaim(outcome string) {
	claimsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncBonusWin() {
	bonusWinsTotal.Inc()
}

func IncVoucherSent(kind string) {
	vouchersSentTotal.WithLabelValues(norm(kind)).Inc()
}
