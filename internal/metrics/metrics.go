package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agent_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_logins_total",
			Help: "Total number of agent login attempts.",
		},
		[]string{"result"},
	)

	TokenRenewalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_token_renewals_total",
			Help: "Total number of sliding token renewals.",
		},
		[]string{"result"},
	)

	BalanceAdjustmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agent_balance_adjustments_total",
			Help: "Total number of member balance adjustments.",
		},
		[]string{"type", "result"},
	)
)

// MustRegister registers every collector with reg. Collectors count even
// when never registered, so tests do not need to call it.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		LoginsTotal,
		TokenRenewalsTotal,
		BalanceAdjustmentsTotal,
	)
}

// Result maps an error to the label used by the outcome counters.
func Result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
