package sync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/event"
)

// Reconciler handles structural events by rebuilding a prisoner's
// relationship subtree wholesale.
type Reconciler interface {
	Merge(ctx context.Context, m event.Merge) error
	BookingReceived(ctx context.Context, b event.BookingReceived) error
	BookingMoved(ctx context.Context, b event.BookingMoved) error
}

// Router classifies inbound envelopes and dispatches them to the right kind
// handler or to the reconciliation engine. Unknown event types are logged and
// dropped so the transport acknowledges them.
type Router struct {
	registry   *Registry
	reconciler Reconciler
	logger     *slog.Logger
}

// NewRouter creates a Router over the given registry and reconciler.
func NewRouter(registry *Registry, reconciler Reconciler, logger *slog.Logger) *Router {
	return &Router{
		registry:   registry,
		reconciler: reconciler,
		logger:     logger.With(slog.String("component", "router")),
	}
}

// Dispatch routes one envelope. Errors propagate to the transport for
// redelivery; a nil return acknowledges the event.
func (r *Router) Dispatch(ctx context.Context, env event.Envelope) error {
	switch event.Classify(env.EventType) {
	case event.ClassChange:
		ch, ok := env.Change()
		if !ok {
			return fmt.Errorf("event %q classified as change but did not decode", env.EventType)
		}
		handler := r.registry.Handler(ch.Kind)
		if handler == nil {
			return fmt.Errorf("no handler for kind %s", ch.Kind)
		}
		return handler.Handle(ctx, ch)
	case event.ClassMerge:
		return r.reconciler.Merge(ctx, env.Merge())
	case event.ClassBookingReceived:
		return r.reconciler.BookingReceived(ctx, env.BookingReceived())
	case event.ClassBookingMoved:
		return r.reconciler.BookingMoved(ctx, env.BookingMoved())
	default:
		r.logger.WarnContext(ctx, "unknown event type, dropping",
			slog.String("event_type", env.EventType))
		return nil
	}
}
