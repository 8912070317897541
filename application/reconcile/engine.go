// Package reconcile rebuilds a prisoner's relationship subtree after the
// structural events that can reshuffle ownership wholesale: record merges and
// booking movements. Per-entity sync cannot express these, so the engine
// replaces the whole subtree and mirrors the destination-computed diff into
// the mapping service.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/event"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/mapping"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/telemetry"
)

// Telemetry event names.
const (
	eventMerged          = "reconcile_merge"
	eventBookingReceived = "reconcile_booking_received"
	eventBookingMoved    = "reconcile_booking_moved"
)

// Engine applies structural events. Source fetch and destination
// replace/reset run exactly once per triggering event; only the mapping
// replace step is retried, inside the mapping client.
type Engine struct {
	source      contact.Source
	destination contact.Destination
	mappings    mapping.Client
	recorder    telemetry.Recorder
	logger      *slog.Logger
}

// NewEngine creates an Engine.
func NewEngine(
	source contact.Source,
	destination contact.Destination,
	mappings mapping.Client,
	recorder telemetry.Recorder,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		source:      source,
		destination: destination,
		mappings:    mappings,
		recorder:    recorder,
		logger:      logger.With(slog.String("component", "reconcile")),
	}
}

// Merge rebuilds the retained prisoner's relationships after two records were
// consolidated. The removed number's stale destination rows come back in the
// diff and their mappings are retired in the same replace call.
func (e *Engine) Merge(ctx context.Context, m event.Merge) error {
	rels, err := e.source.GetRelationships(ctx, m.RetainedPrisoner)
	if err != nil {
		return fmt.Errorf("merge %s<-%s: fetch relationships: %w", m.RetainedPrisoner, m.RemovedPrisoner, err)
	}

	diff, err := e.destination.ReplaceMerged(ctx, m.RetainedPrisoner, m.RemovedPrisoner, rels)
	if err != nil {
		return fmt.Errorf("merge %s<-%s: replace: %w", m.RetainedPrisoner, m.RemovedPrisoner, err)
	}

	if err := e.applyDiff(ctx, m.RetainedPrisoner, diff); err != nil {
		return fmt.Errorf("merge %s<-%s: %w", m.RetainedPrisoner, m.RemovedPrisoner, err)
	}

	e.record(ctx, eventMerged, m.RetainedPrisoner, diff)
	return nil
}

// BookingReceived resets one prisoner's relationships to the current source
// truth, covering new admissions and in-place booking-term switches.
func (e *Engine) BookingReceived(ctx context.Context, b event.BookingReceived) error {
	if err := e.reset(ctx, b.PrisonerNumber, eventBookingReceived); err != nil {
		return fmt.Errorf("booking received %s: %w", b.PrisonerNumber, err)
	}
	return nil
}

// BookingMoved reconciles both sides of a booking transfer. The FROM prisoner
// is always reconciled; the TO prisoner only when the source reports the
// record in active use, since a transfer onto an inactive record carries no
// relationship data worth rebuilding yet.
func (e *Engine) BookingMoved(ctx context.Context, b event.BookingMoved) error {
	if err := e.reset(ctx, b.FromPrisoner, eventBookingMoved); err != nil {
		return fmt.Errorf("booking moved %s->%s: from side: %w", b.FromPrisoner, b.ToPrisoner, err)
	}

	status, err := e.source.GetPrisonerStatus(ctx, b.ToPrisoner)
	if err != nil {
		return fmt.Errorf("booking moved %s->%s: status: %w", b.FromPrisoner, b.ToPrisoner, err)
	}
	if !status.Active {
		e.logger.InfoContext(ctx, "to-side prisoner inactive, skipping reconcile",
			slog.String("prisoner", b.ToPrisoner),
			slog.Int64("booking_id", b.BookingID))
		return nil
	}

	if err := e.reset(ctx, b.ToPrisoner, eventBookingMoved); err != nil {
		return fmt.Errorf("booking moved %s->%s: to side: %w", b.FromPrisoner, b.ToPrisoner, err)
	}
	return nil
}

func (e *Engine) reset(ctx context.Context, prisonerNumber, telemetryEvent string) error {
	rels, err := e.source.GetRelationships(ctx, prisonerNumber)
	if err != nil {
		return fmt.Errorf("fetch relationships: %w", err)
	}

	diff, err := e.destination.Reset(ctx, prisonerNumber, rels)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}

	if err := e.applyDiff(ctx, prisonerNumber, diff); err != nil {
		return err
	}

	e.record(ctx, telemetryEvent, prisonerNumber, diff)
	return nil
}

// applyDiff mirrors a destination-computed relationship diff into the mapping
// service in a single replace call: created pairs become NOMIS_CREATED
// mappings, removed destination ids are retired at both nesting levels.
func (e *Engine) applyDiff(ctx context.Context, owner string, diff contact.RelationshipDiff) error {
	add := make([]mapping.Mapping, 0, diff.AddedMappings())
	for _, c := range diff.Created {
		add = append(add, mapping.Mapping{
			Source:        mapping.ContactKey(c.ContactID),
			DestinationID: c.DestinationID,
			Type:          mapping.TypeNomisCreated,
		})
		for _, r := range c.Restrictions {
			add = append(add, mapping.Mapping{
				Source:        mapping.ContactRestrictionKey(r.NomisID),
				DestinationID: r.DestinationID,
				Type:          mapping.TypeNomisCreated,
			})
		}
	}

	remove := make([]contact.DestinationID, 0, diff.RemovedMappings())
	for _, r := range diff.Removed {
		remove = append(remove, r.ContactIDs...)
		remove = append(remove, r.RestrictionIDs...)
	}

	if err := e.mappings.ReplaceForOwner(ctx, owner, add, remove); err != nil {
		return fmt.Errorf("replace mappings: %w", err)
	}
	return nil
}

func (e *Engine) record(ctx context.Context, name, owner string, diff contact.RelationshipDiff) {
	e.recorder.Event(ctx, name, map[string]string{
		"prisoner": owner,
		"added":    strconv.Itoa(diff.AddedMappings()),
		"removed":  strconv.Itoa(diff.RemovedMappings()),
	})
}
