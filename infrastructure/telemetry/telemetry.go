// Package telemetry records synchronisation outcomes. Individual outcomes
// are observable only here, not through a user-facing API: every event is a
// structured log record and a prometheus counter increment.
package telemetry

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records named telemetry events with string attributes.
type Recorder interface {
	Event(ctx context.Context, name string, attrs map[string]string)
}

// Prometheus is the production Recorder: slog plus a counter per event name.
type Prometheus struct {
	logger *slog.Logger
	events *prometheus.CounterVec
}

// New creates a Prometheus recorder registered on reg.
func New(logger *slog.Logger, reg prometheus.Registerer) *Prometheus {
	if logger == nil {
		logger = slog.Default()
	}
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contactsync",
			Name:      "telemetry_events_total",
			Help:      "Total telemetry events by event name",
		},
		[]string{"event"},
	)
	if reg != nil {
		reg.MustRegister(events)
	}
	return &Prometheus{logger: logger, events: events}
}

// Event implements Recorder.
func (p *Prometheus) Event(ctx context.Context, name string, attrs map[string]string) {
	p.events.WithLabelValues(name).Inc()

	args := make([]any, 0, 2+2*len(attrs))
	args = append(args, slog.String("event", name))
	for k, v := range attrs {
		args = append(args, slog.String(k, v))
	}
	p.logger.InfoContext(ctx, "telemetry", args...)
}

// Noop is a Recorder that discards everything.
type Noop struct{}

// Event implements Recorder.
func (Noop) Event(context.Context, string, map[string]string) {}
