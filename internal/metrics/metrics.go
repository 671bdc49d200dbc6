// Package metrics holds the Prometheus collectors served on /metrics.
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"draperads/internal/events"
)

var (
	Registry = prometheus.NewRegistry()

	AdsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "draperads",
			Name:      "ads_published_total",
			Help:      "Publish attempts by outcome",
		},
		[]string{"outcome"},
	)

	MediaUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "draperads",
			Name:      "media_uploads_total",
			Help:      "Accepted uploads by media kind",
		},
		[]string{"kind"},
	)

	Suggestions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "draperads",
			Name:      "copy_suggestions_total",
			Help:      "Copy suggestion results by status",
		},
		[]string{"status"},
	)

	DomainEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "draperads",
			Name:      "events_total",
			Help:      "Domain events emitted, by name",
		},
		[]string{"event"},
	)

	SessionsPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "draperads",
			Name:      "sessions_pruned_total",
			Help:      "Expired sessions removed",
		},
	)
)

func init() {
	Registry.MustRegister(
		AdsPublished,
		MediaUploads,
		Suggestions,
		DomainEvents,
		SessionsPruned,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// TrackEvents counts every emission of names on bus until the returned
// func is called.
func TrackEvents(bus *events.EventBus, names ...string) func() {
	offs := make([]func(), 0, len(names))
	for _, name := range names {
		counter := DomainEvents.WithLabelValues(name)
		offs = append(offs, bus.On(name, func(interface{}) { counter.Inc() }))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}
