package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config names the exported metrics.
type Config struct {
	Namespace string
	Subsystem string
}

// Telemetry records override events as Prometheus counters. It satisfies the
// Telemetry interfaces of the overrides and commands packages.
type Telemetry struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	fields   *prometheus.CounterVec
}

// New builds a Telemetry with its own registry.
func New(cfg Config) *Telemetry {
	if cfg.Namespace == "" {
		cfg.Namespace = "overrides"
	}
	reg := prometheus.NewRegistry()
	t := &Telemetry{
		registry: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "events_total",
			Help:      "Override editor events by name and category",
		}, []string{"event", "category"}),
		fields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "saved_fields_total",
			Help:      "Override fields submitted by successful saves",
		}, []string{"category"}),
	}
	reg.MustRegister(t.events, t.fields)
	return t
}

// Record counts the event. Payloads carrying "category" label the counter;
// "overrides.save" payloads also add their "fields" count.
func (t *Telemetry) Record(_ context.Context, event string, payload map[string]any) {
	category := labelValue(payload["category"])
	t.events.WithLabelValues(event, category).Inc()
	if event != "overrides.save" {
		return
	}
	if n, ok := payload["fields"].(int); ok && n > 0 {
		t.fields.WithLabelValues(category).Add(float64(n))
	}
}

// Registry exposes the underlying registry.
func (t *Telemetry) Registry() *prometheus.Registry {
	return t.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

func labelValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		return fmt.Sprint(value)
	}
}
