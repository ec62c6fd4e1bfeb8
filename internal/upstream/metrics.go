package upstream

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Outbound platform calls by platform, operation and HTTP status.",
	}, []string{"platform", "op", "code"})

	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Latency of outbound platform calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"platform", "op"})
)

func observe(platform, op string, code int, d time.Duration) {
	callsTotal.WithLabelValues(platform, op, statusLabel(code)).Inc()
	callDuration.WithLabelValues(platform, op).Observe(d.Seconds())
}
