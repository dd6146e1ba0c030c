package adminapi

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK        = "ok"
	outcomeUpstream  = "upstream_error"
	outcomeTransport = "transport_error"
)

var (
	callsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "console",
		Subsystem: "backend",
		Name:      "requests_total",
		Help:      "Backend requests issued by the console, by outcome.",
	}, []string{"method", "family", "outcome"})

	callDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "console",
		Subsystem: "backend",
		Name:      "request_duration_seconds",
		Help:      "Backend request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "family"})
)

func observeCall(method, family, outcome string, start time.Time) {
	callsTotal.WithLabelValues(method, family, outcome).Inc()
	callDuration.WithLabelValues(method, family).Observe(time.Since(start).Seconds())
}

// endpointFamily keeps metric cardinality bounded: "/admin/api/trips/42/days" -> "admin_trips".
func endpointFamily(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(segments) >= 3 && segments[0] == "admin" && segments[1] == "api":
		return "admin_" + segments[2]
	case len(segments) >= 2 && segments[0] == "api":
		return "public_" + segments[1]
	default:
		return "other"
	}
}
