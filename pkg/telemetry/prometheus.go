package telemetry

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusTelemetry counts events by name.
type PrometheusTelemetry struct {
	events *prometheus.CounterVec
}

// NewPrometheusTelemetry registers the event counter on reg. A nil reg uses
// the default registerer.
func NewPrometheusTelemetry(reg prometheus.Registerer) (*PrometheusTelemetry, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "layout",
			Name:      "events_total",
			Help:      "Layout engine events by name.",
		},
		[]string{"event"},
	)
	if err := reg.Register(events); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, errors.New("telemetry: dashboard_layout_events_total is registered with a different collector type")
		}
		events = existing
	}
	return &PrometheusTelemetry{events: events}, nil
}

// Record increments the counter for event.
func (p *PrometheusTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	p.events.WithLabelValues(event).Inc()
}

// Collector exposes the underlying counter.
func (p *PrometheusTelemetry) Collector() *prometheus.CounterVec {
	return p.events
}
