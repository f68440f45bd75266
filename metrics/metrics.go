// Package metrics holds the prometheus collectors of the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	ChangesPublished    *prometheus.CounterVec
	FeedSubscribers     *prometheus.GaugeVec
	FeedDropped         *prometheus.CounterVec
	PushDeliveries      *prometheus.CounterVec
	EmailDeliveries     *prometheus.CounterVec
	BackgroundFailures  prometheus.Counter
	HTTPRequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ChangesPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "koligo",
			Name:      "changes_published_total",
			Help:      "Row changes published to the change-feed broker.",
		}, []string{"table", "kind"}),
		FeedSubscribers: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "koligo",
			Name:      "feed_subscribers",
			Help:      "Open change-feed subscriptions.",
		}, []string{"table", "transport"}),
		FeedDropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "koligo",
			Name:      "feed_dropped_total",
			Help:      "Changes dropped because a subscriber was too slow.",
		}, []string{"table"}),
		PushDeliveries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "koligo",
			Name:      "push_deliveries_total",
			Help:      "Web push deliveries by result.",
		}, []string{"result"}),
		EmailDeliveries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "koligo",
			Name:      "email_deliveries_total",
			Help:      "Notification emails by result.",
		}, []string{"result"}),
		BackgroundFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "koligo",
			Name:      "background_failures_total",
			Help:      "Failed background fan-out tasks.",
		}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "koligo",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
