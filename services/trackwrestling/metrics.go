package trackwrestling

import (
	"errors"
	tw "trackwrestling-backend/lib/scrapers/trackwrestling"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	parseFailures *prometheus.CounterVec
}

func newMetrics() metrics {
	registry := prometheus.NewRegistry()
	m := metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trackwrestling_requests_total",
			Help: "Requests served, by route.",
		}, []string{"route"}),
		parseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trackwrestling_parse_failures_total",
			Help: "Upstream pages that could not be parsed, by error kind.",
		}, []string{"kind"}),
	}
	registry.MustRegister(
		m.requests,
		m.parseFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// parseFailureKind returns the metric label for a parse error, ok is false
// for errors that are not parse failures.
func parseFailureKind(err error) (kind string, ok bool) {
	var notFound *tw.PayloadNotFoundError
	var empty *tw.EmptyPayloadError
	var malformed *tw.MalformedRecordError
	switch {
	case errors.As(err, &malformed):
		return "malformed_record", true
	case errors.As(err, &empty):
		return "empty_payload", true
	case errors.As(err, &notFound):
		return "payload_not_found", true
	}
	return "", false
}
