package gitden

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gitden_client",
			Name:      "requests_total",
			Help:      "API operations attempted, by operation.",
		},
		[]string{"op"},
	)

	requestFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gitden_client",
			Name:      "request_failures_total",
			Help:      "API operations that returned an error, by operation and kind.",
		},
		[]string{"op", "kind"},
	)
)

// observe records one attempted operation and, on failure, its error kind.
func observe(op string, err error) {
	requestsTotal.WithLabelValues(op).Inc()
	if err != nil {
		requestFailuresTotal.WithLabelValues(op, KindOf(err).String()).Inc()
	}
}
