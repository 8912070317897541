package sync

import (
	"context"
	"log/slog"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/event"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/mapping"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/telemetry"
)

// Registry holds one handler per entity kind.
type Registry struct {
	handlers map[contact.Kind]*Handler
}

// NewRegistry wires a handler for every kind against the given source,
// destination and mapping collaborators.
func NewRegistry(
	source contact.Source,
	destination contact.Destination,
	mappings mapping.Client,
	recorder telemetry.Recorder,
	logger *slog.Logger,
) *Registry {
	r := &Registry{handlers: make(map[contact.Kind]*Handler)}
	for _, ops := range kindOperations(source, destination) {
		r.handlers[ops.kind] = NewHandler(ops, mappings, recorder, logger)
	}
	return r
}

// Handler returns the handler for a kind, or nil for an unknown kind.
func (r *Registry) Handler(kind contact.Kind) *Handler {
	return r.handlers[kind]
}

// phoneOwner derives the owner discriminator from the event shape: an
// address-owned phone event carries the owning address id.
func phoneOwner(ch event.Change) (contact.PhoneOwner, mapping.SourceKey) {
	if ch.AddressID != 0 {
		return contact.PhoneOwnerAddress, mapping.AddressKey(ch.AddressID)
	}
	return contact.PhoneOwnerPerson, mapping.PersonKey(ch.PersonID)
}

func kindOperations(source contact.Source, destination contact.Destination) []operations {
	return []operations{
		{
			kind: contact.KindPerson,
			key:  func(ch event.Change) mapping.SourceKey { return mapping.PersonKey(ch.EntityID) },
			create: func(ctx context.Context, ch event.Change, _ contact.DestinationID) (contact.DestinationID, error) {
				p, err := source.GetPerson(ctx, ch.EntityID)
				if err != nil {
					return "", err
				}
				return destination.CreatePerson(ctx, p, contact.ResolveProvenance(p.Audit, ""))
			},
			update: func(ctx context.Context, ch event.Change, id contact.DestinationID) error {
				p, err := source.GetPerson(ctx, ch.EntityID)
				if err != nil {
					return err
				}
				return destination.UpdatePerson(ctx, id, p, contact.ResolveProvenance(p.Audit, ""))
			},
			remove: func(ctx context.Context, _ event.Change, id contact.DestinationID) error {
				return destination.DeletePerson(ctx, id)
			},
		},
		{
			kind:   contact.KindAddress,
			key:    func(ch event.Change) mapping.SourceKey { return mapping.AddressKey(ch.EntityID) },
			parent: func(ch event.Change) mapping.SourceKey { return mapping.PersonKey(ch.PersonID) },
			create: func(ctx context.Context, ch event.Change, parentID contact.DestinationID) (contact.DestinationID, error) {
				a, err := source.GetAddress(ctx, ch.PersonID, ch.EntityID)
				if err != nil {
					return "", err
				}
				return destination.CreateAddress(ctx, parentID, a, contact.ResolveProvenance(a.Audit, ""))
			},
			update: func(ctx context.Context, ch event.Change, id contact.DestinationID) error {
				a, err := source.GetAddress(ctx, ch.PersonID, ch.EntityID)
				if err != nil {
					return err
				}
				return destination.UpdateAddress(ctx, id, a, contact.ResolveProvenance(a.Audit, ""))
			},
			remove: func(ctx context.Context, _ event.Change, id contact.DestinationID) error {
				return destination.DeleteAddress(ctx, id)
			},
		},
		{
			kind: contact.KindPhone,
			key:  func(ch event.Change) mapping.SourceKey { return mapping.PhoneKey(ch.EntityID) },
			parent: func(ch event.Change) mapping.SourceKey {
				_, parentKey := phoneOwner(ch)
				return parentKey
			},
			create: func(ctx context.Context, ch event.Change, parentID contact.DestinationID) (contact.DestinationID, error) {
				p, err := source.GetPhone(ctx, ch.PersonID, ch.EntityID)
				if err != nil {
					return "", err
				}
				owner, _ := phoneOwner(ch)
				return destination.CreatePhone(ctx, owner, parentID, p, contact.ResolveProvenance(p.Audit, ""))
			},
			update: func(ctx context.Context, ch event.Change, id contact.DestinationID) error {
				p, err := source.GetPhone(ctx, ch.PersonID, ch.EntityID)
				if err != nil {
					return err
				}
				owner, _ := phoneOwner(ch)
				return destination.UpdatePhone(ctx, owner, id, p, contact.ResolveProvenance(p.Audit, ""))
			},
			remove: func(ctx context.Context, ch event.Change, id contact.DestinationID) error {
				owner, _ := phoneOwner(ch)
				return destination.DeletePhone(ctx, owner, id)
			},
		},
		{
			kind:   contact.KindEmail,
			key:    func(ch event.Change) mapping.SourceKey { return mapping.EmailKey(ch.EntityID) },
			parent: func(ch event.Change) mapping.SourceKey { return mapping.PersonKey(ch.PersonID) },
			create: func(ctx context.Context, ch event.Change, parentID contact.DestinationID) (contact.DestinationID, error) {
				e, err := source.GetEmail(ctx, ch.PersonID, ch.EntityID)
				if err != nil {
					return "", err
				}
				return destination.CreateEmail(ctx, parentID, e, contact.ResolveProvenance(e.Audit, ""))
			},
			update: func(ctx context.Context, ch event.Change, id contact.DestinationID) error {
				e, err := source.GetEmail(ctx, ch.PersonID, ch.EntityID)
				if err != nil {
					return err
				}
				return destination.UpdateEmail(ctx, id, e, contact.ResolveProvenance(e.Audit, ""))
			},
			remove: func(ctx context.Context, _ event.Change, id contact.DestinationID) error {
				return destination.DeleteEmail(ctx, id)
			},
		},
		{
			kind: contact.KindEmployment,
			key: func(ch event.Change) mapping.SourceKey {
				return mapping.EmploymentKey(ch.PersonID, ch.Sequence)
			},
			parent: func(ch event.Change) mapping.SourceKey { return mapping.PersonKey(ch.PersonID) },
			create: func(ctx context.Context, ch event.Change, parentID contact.DestinationID) (contact.DestinationID, error) {
				e, err := source.GetEmployment(ctx, ch.PersonID, ch.Sequence)
				if err != nil {
					return "", err
				}
				return destination.CreateEmployment(ctx, parentID, e, contact.ResolveProvenance(e.Audit, ""))
			},
			update: func(ctx context.Context, ch event.Change, id contact.DestinationID) error {
				e, err := source.GetEmployment(ctx, ch.PersonID, ch.Sequence)
				if err != nil {
					return err
				}
				return destination.UpdateEmployment(ctx, id, e, contact.ResolveProvenance(e.Audit, ""))
			},
			remove: func(ctx context.Context, _ event.Change, id contact.DestinationID) error {
				return destination.DeleteEmployment(ctx, id)
			},
		},
		{
			kind: contact.KindIdentifier,
			key: func(ch event.Change) mapping.SourceKey {
				return mapping.IdentifierKey(ch.PersonID, ch.Sequence)
			},
			parent: func(ch event.Change) mapping.SourceKey { return mapping.PersonKey(ch.PersonID) },
			create: func(ctx context.Context, ch event.Change, parentID contact.DestinationID) (contact.DestinationID, error) {
				i, err := source.GetIdentifier(ctx, ch.PersonID, ch.Sequence)
				if err != nil {
					return "", err
				}
				return destination.CreateIdentifier(ctx, parentID, i, contact.ResolveProvenance(i.Audit, ""))
			},
			update: func(ctx context.Context, ch event.Change, id contact.DestinationID) error {
				i, err := source.GetIdentifier(ctx, ch.PersonID, ch.Sequence)
				if err != nil {
					return err
				}
				return destination.UpdateIdentifier(ctx, id, i, contact.ResolveProvenance(i.Audit, ""))
			},
			remove: func(ctx context.Context, _ event.Change, id contact.DestinationID) error {
				return destination.DeleteIdentifier(ctx, id)
			},
		},
		{
			kind:   contact.KindRestriction,
			key:    func(ch event.Change) mapping.SourceKey { return mapping.RestrictionKey(ch.EntityID) },
			parent: func(ch event.Change) mapping.SourceKey { return mapping.PersonKey(ch.PersonID) },
			create: func(ctx context.Context, ch event.Change, parentID contact.DestinationID) (contact.DestinationID, error) {
				r, err := source.GetRestriction(ctx, ch.PersonID, ch.EntityID)
				if err != nil {
					return "", err
				}
				return destination.CreateRestriction(ctx, parentID, r, contact.ResolveProvenance(r.Audit, r.EnteredBy))
			},
			update: func(ctx context.Context, ch event.Change, id contact.DestinationID) error {
				r, err := source.GetRestriction(ctx, ch.PersonID, ch.EntityID)
				if err != nil {
					return err
				}
				return destination.UpdateRestriction(ctx, id, r, contact.ResolveProvenance(r.Audit, r.EnteredBy))
			},
			remove: func(ctx context.Context, _ event.Change, id contact.DestinationID) error {
				return destination.DeleteRestriction(ctx, id)
			},
		},
		{
			kind:   contact.KindContact,
			key:    func(ch event.Change) mapping.SourceKey { return mapping.ContactKey(ch.EntityID) },
			parent: func(ch event.Change) mapping.SourceKey { return mapping.PersonKey(ch.PersonID) },
			create: func(ctx context.Context, ch event.Change, parentID contact.DestinationID) (contact.DestinationID, error) {
				c, err := source.GetContact(ctx, ch.EntityID)
				if err != nil {
					return "", err
				}
				return destination.CreateContact(ctx, parentID, c, contact.ResolveProvenance(c.Audit, ""))
			},
			update: func(ctx context.Context, ch event.Change, id contact.DestinationID) error {
				c, err := source.GetContact(ctx, ch.EntityID)
				if err != nil {
					return err
				}
				return destination.UpdateContact(ctx, id, c, contact.ResolveProvenance(c.Audit, ""))
			},
			remove: func(ctx context.Context, _ event.Change, id contact.DestinationID) error {
				return destination.DeleteContact(ctx, id)
			},
		},
		{
			kind: contact.KindContactRestriction,
			key: func(ch event.Change) mapping.SourceKey {
				return mapping.ContactRestrictionKey(ch.EntityID)
			},
			parent: func(ch event.Change) mapping.SourceKey { return mapping.ContactKey(ch.ContactID) },
			create: func(ctx context.Context, ch event.Change, parentID contact.DestinationID) (contact.DestinationID, error) {
				r, err := source.GetContactRestriction(ctx, ch.ContactID, ch.EntityID)
				if err != nil {
					return "", err
				}
				return destination.CreateContactRestriction(ctx, parentID, r, contact.ResolveProvenance(r.Audit, r.EnteredBy))
			},
			update: func(ctx context.Context, ch event.Change, id contact.DestinationID) error {
				r, err := source.GetContactRestriction(ctx, ch.ContactID, ch.EntityID)
				if err != nil {
					return err
				}
				return destination.UpdateContactRestriction(ctx, id, r, contact.ResolveProvenance(r.Audit, r.EnteredBy))
			},
			remove: func(ctx context.Context, _ event.Change, id contact.DestinationID) error {
				return destination.DeleteContactRestriction(ctx, id)
			},
		},
	}
}
