// Package sync contains the per-kind synchronisation handlers that keep the
// destination system consistent with source change events, plus the router
// that dispatches decoded events to them.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/event"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/mapping"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/httpclient"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/telemetry"
)

// Structural anomalies. Both mean the mapping state does not match what the
// event implies; they are escalated, never swallowed, so the transport
// redelivers and operators see the failure.
var (
	// ErrMappingMissing reports an update event for an entity that has no
	// mapping, meaning the create was never synchronised.
	ErrMappingMissing = errors.New("expected mapping missing")

	// ErrParentMappingMissing reports a child create whose owning parent has
	// no mapping yet. Usually a transient ordering gap: the parent's create
	// event is still in flight, and redelivery resolves it.
	ErrParentMappingMissing = errors.New("parent mapping missing")
)

// Telemetry event names emitted by the handlers.
const (
	eventSynced               = "sync_applied"
	eventSkippedEcho          = "sync_skipped_echo"
	eventIgnored              = "sync_ignored"
	eventDuplicateMapping     = "sync_duplicate_mapping"
	eventDuplicateDestination = "sync_duplicate_destination"
)

// operations is the kind-specific half of a handler: how to derive the
// mapping key, where the parent mapping lives, and the source-fetch plus
// destination-write closures for each change operation.
type operations struct {
	kind contact.Kind

	key func(ch event.Change) mapping.SourceKey

	// parent returns the mapping key of the owning parent for child kinds.
	// Root kinds leave it nil.
	parent func(ch event.Change) mapping.SourceKey

	create func(ctx context.Context, ch event.Change, parentID contact.DestinationID) (contact.DestinationID, error)
	update func(ctx context.Context, ch event.Change, id contact.DestinationID) error
	remove func(ctx context.Context, ch event.Change, id contact.DestinationID) error
}

// Handler applies one kind's change events to the destination and the
// mapping service. All three operations are idempotent under redelivery.
type Handler struct {
	ops      operations
	mappings mapping.Client
	recorder telemetry.Recorder
	logger   *slog.Logger
}

// NewHandler creates a Handler for one entity kind.
func NewHandler(ops operations, mappings mapping.Client, recorder telemetry.Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		ops:      ops,
		mappings: mappings,
		recorder: recorder,
		logger:   logger.With(slog.String("kind", string(ops.kind))),
	}
}

// Handle applies a single change event. Echo events (writes this engine
// caused downstream) are skipped before any collaborator is touched.
func (h *Handler) Handle(ctx context.Context, ch event.Change) error {
	if ch.Origin == event.OriginDPS {
		h.record(ctx, eventSkippedEcho, ch, nil)
		return nil
	}

	switch ch.Op {
	case event.OpCreated:
		return h.created(ctx, ch)
	case event.OpUpdated:
		return h.updated(ctx, ch)
	case event.OpDeleted:
		return h.deleted(ctx, ch)
	default:
		return fmt.Errorf("unknown change op %q for kind %s", ch.Op, ch.Kind)
	}
}

func (h *Handler) created(ctx context.Context, ch event.Change) error {
	key := h.ops.key(ch)

	// Idempotency guard: an existing mapping means the create already
	// landed, so a redelivered event is a no-op.
	if _, found, err := h.mappings.GetBySource(ctx, key); err != nil {
		return fmt.Errorf("lookup %s: %w", key, err)
	} else if found {
		h.record(ctx, eventIgnored, ch, nil)
		return nil
	}

	var parentID contact.DestinationID
	if h.ops.parent != nil {
		parentKey := h.ops.parent(ch)
		parent, found, err := h.mappings.GetBySource(ctx, parentKey)
		if err != nil {
			return fmt.Errorf("lookup parent %s: %w", parentKey, err)
		}
		if !found {
			return fmt.Errorf("create %s: parent %s: %w", key, parentKey, ErrParentMappingMissing)
		}
		parentID = parent.DestinationID
	}

	destID, err := h.ops.create(ctx, ch, parentID)
	if httpclient.IsConflict(err) {
		// The entity already exists downstream. Terminal: no mapping write,
		// the conflict is surfaced through telemetry only.
		h.record(ctx, eventDuplicateDestination, ch, nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", key, err)
	}

	res, err := h.mappings.Create(ctx, mapping.Mapping{
		Source:        key,
		DestinationID: destID,
		Type:          mapping.TypeNomisCreated,
	})
	if err != nil {
		return fmt.Errorf("create mapping %s: %w", key, err)
	}
	if !res.Created() {
		h.record(ctx, eventDuplicateMapping, ch, map[string]string{
			"existing_dps_id":  res.Conflict.Existing.DestinationID.String(),
			"duplicate_dps_id": res.Conflict.Duplicate.DestinationID.String(),
		})
		h.logger.WarnContext(ctx, "duplicate mapping, destination entity orphaned",
			slog.String("source", key.String()),
			slog.String("existing_dps_id", res.Conflict.Existing.DestinationID.String()),
			slog.String("orphaned_dps_id", destID.String()))
		return nil
	}

	h.record(ctx, eventSynced, ch, map[string]string{"dps_id": destID.String()})
	return nil
}

func (h *Handler) updated(ctx context.Context, ch event.Change) error {
	key := h.ops.key(ch)

	m, found, err := h.mappings.GetBySource(ctx, key)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", key, err)
	}
	if !found {
		return fmt.Errorf("update %s: %w", key, ErrMappingMissing)
	}

	if err := h.ops.update(ctx, ch, m.DestinationID); err != nil {
		return fmt.Errorf("update %s: %w", key, err)
	}

	h.record(ctx, eventSynced, ch, map[string]string{"dps_id": m.DestinationID.String()})
	return nil
}

func (h *Handler) deleted(ctx context.Context, ch event.Change) error {
	key := h.ops.key(ch)

	m, found, err := h.mappings.GetBySource(ctx, key)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", key, err)
	}
	if !found {
		h.record(ctx, eventIgnored, ch, nil)
		return nil
	}

	// Destination first, mapping second: if the mapping delete fails the
	// redelivered event still finds the mapping and retries both steps. A
	// 404 from the destination means the first attempt got that far.
	if err := h.ops.remove(ctx, ch, m.DestinationID); err != nil && !httpclient.IsNotFound(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	if err := h.mappings.DeleteBySource(ctx, key); err != nil {
		return fmt.Errorf("delete mapping %s: %w", key, err)
	}

	h.record(ctx, eventSynced, ch, map[string]string{"dps_id": m.DestinationID.String()})
	return nil
}

func (h *Handler) record(ctx context.Context, name string, ch event.Change, extra map[string]string) {
	attrs := map[string]string{
		"kind":      string(ch.Kind),
		"op":        string(ch.Op),
		"entity_id": strconv.FormatInt(ch.EntityID, 10),
	}
	if ch.Kind.SequenceKeyed() {
		attrs["sequence"] = strconv.FormatInt(ch.Sequence, 10)
	}
	for k, v := range extra {
		attrs[k] = v
	}
	h.recorder.Event(ctx, name, attrs)
}
