package mapping

import (
	"context"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
)

// Client is the typed façade over the mapping service. Implementations retry
// transient failures internally on the mutating calls (create, create-graph,
// replace, delete), which are idempotent given the same destination id; a
// duplicate conflict is surfaced as a CreateResult value and never retried.
type Client interface {
	// GetBySource returns the mapping for a source key, or found == false
	// when no mapping exists.
	GetBySource(ctx context.Context, key SourceKey) (Mapping, bool, error)

	// Create persists a single mapping.
	Create(ctx context.Context, m Mapping) (CreateResult, error)

	// DeleteBySource removes the mapping for a source key. Deleting an
	// absent mapping is not an error.
	DeleteBySource(ctx context.Context, key SourceKey) error

	// CreateGraph persists the full mapping tree for one migrated person in
	// a single call.
	CreateGraph(ctx context.Context, g Graph) (CreateResult, error)

	// ReplaceForOwner atomically adds one set of mappings and removes
	// another for a single owner (a prisoner number), mirroring a
	// destination-computed reconciliation diff.
	ReplaceForOwner(ctx context.Context, owner string, add []Mapping, remove []contact.DestinationID) error
}
