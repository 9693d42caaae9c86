package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	StatsUpdateTotal           = "stats_updates_total"
	NotificationTotal          = "notifications_total"
	WebsocketSessions          = "websocket_sessions"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{
		WebsocketSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: WebsocketSessions,
			Help: "Number of open notification websocket sessions",
		}, []string{"server"}),
	}

	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"path", "status_code"}),
		StatsUpdateTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: StatsUpdateTotal,
			Help: "Count of stats row updates applied by the counter engine",
		}, []string{"table"}),
		NotificationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: NotificationTotal,
			Help: "Count of dispatched notifications",
		}, []string{"type", "status"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"path", "status_code"}),
	}

	PromSummaries = map[string]*prometheus.SummaryVec{}
)
