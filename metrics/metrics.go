// Package metrics exposes the process counters served on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector of this service.
var Registry = prometheus.NewRegistry()

var (
	// StorageFailures counts persistence failures that were logged and swallowed.
	StorageFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invoice",
		Name:      "storage_failures_total",
		Help:      "Persistence operations that failed and degraded to in-memory state.",
	}, []string{"op"})

	// Exports counts PDF exports by result: ok, failed, busy.
	Exports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "invoice",
		Name:      "exports_total",
		Help:      "PDF export attempts by result.",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(
		StorageFailures,
		Exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
