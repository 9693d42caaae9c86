package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/questx-lab/agora/internal/common"
)

// NewHandler serves the metrics of common on a dedicated registry, alongside
// the Go runtime and process collectors.
func NewHandler() http.Handler {
	registry := prometheus.NewRegistry()

	// default collectors
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	for _, counter := range common.PromCounters {
		registry.MustRegister(counter)
	}

	for _, gauge := range common.PromGauges {
		registry.MustRegister(gauge)
	}

	for _, histogram := range common.PromHistograms {
		registry.MustRegister(histogram)
	}

	for _, summary := range common.PromSummaries {
		registry.MustRegister(summary)
	}

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
