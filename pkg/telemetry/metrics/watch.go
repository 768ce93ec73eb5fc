package metrics

import (
	"mercator-hq/ganymede/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// WatchMetrics tracks watch-mode activity.
//
// Metrics:
//   - ganymede_gdl_reloads_total: Total grammar reloads by result
//   - ganymede_gdl_watch_events_total: Total filesystem events by operation
type WatchMetrics struct {
	reloadsTotal *prometheus.CounterVec
	eventsTotal  *prometheus.CounterVec
}

// NewWatchMetrics creates and registers watch metrics with the provided registry.
func NewWatchMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *WatchMetrics {
	wm := &WatchMetrics{
		reloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "reloads_total",
				Help:      "Total number of watch-triggered grammar reloads by result",
			},
			[]string{"result"},
		),

		eventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "watch_events_total",
				Help:      "Total number of filesystem events observed in watch mode",
			},
			[]string{"op"},
		),
	}

	registry.MustRegister(
		wm.reloadsTotal,
		wm.eventsTotal,
	)

	return wm
}

// RecordReload records a reload outcome ("ok" or "error").
func (wm *WatchMetrics) RecordReload(result string) {
	wm.reloadsTotal.WithLabelValues(result).Inc()
}

// RecordEvent records a filesystem event by operation name.
func (wm *WatchMetrics) RecordEvent(op string) {
	wm.eventsTotal.WithLabelValues(op).Inc()
}
