package contact

import "context"

// MigratedPair is one migrated child entity: the NOMIS id alongside the
// destination id the bulk migrate call assigned to it.
type MigratedPair struct {
	NomisID       int64
	DestinationID DestinationID
}

// MigratedSequencePair is the sequence-keyed variant of MigratedPair, used
// for employments and identifiers.
type MigratedSequencePair struct {
	Sequence      int64
	DestinationID DestinationID
}

// MigratedAddress carries the destination id for an address together with the
// ids of the phones nested under it.
type MigratedAddress struct {
	NomisID       int64
	DestinationID DestinationID
	Phones        []MigratedPair
}

// MigratedContact carries the destination id for a contact relationship
// together with the ids of its nested contact restrictions.
type MigratedContact struct {
	NomisID       int64
	DestinationID DestinationID
	Restrictions  []MigratedPair
}

// MigrateResult is the tree of destination-assigned ids returned by a bulk
// person-graph migration, mirroring the shape of the submitted graph.
type MigrateResult struct {
	PersonID     DestinationID
	Addresses    []MigratedAddress
	Phones       []MigratedPair
	Emails       []MigratedPair
	Employments  []MigratedSequencePair
	Identifiers  []MigratedSequencePair
	Restrictions []MigratedPair
	Contacts     []MigratedContact
}

// CreatedRelationship is a fresh destination id pair the destination reports
// after a replace or reset, with the pairs for any nested restrictions.
type CreatedRelationship struct {
	ContactID     int64
	DestinationID DestinationID
	Restrictions  []MigratedPair
}

// RemovedRelationships lists the stale destination ids the destination
// removed for one prisoner number, at both nesting levels.
type RemovedRelationships struct {
	PrisonerNumber string
	ContactIDs     []DestinationID
	RestrictionIDs []DestinationID
}

// RelationshipDiff is the authoritative create/remove diff computed by the
// destination during a replace or reset. The reconciliation engine mirrors
// it into the mapping service without recomputing it.
type RelationshipDiff struct {
	Created []CreatedRelationship
	Removed []RemovedRelationships
}

// AddedMappings returns the number of id pairs the diff introduces, counting
// nested restrictions.
func (d RelationshipDiff) AddedMappings() int {
	n := 0
	for _, c := range d.Created {
		n += 1 + len(c.Restrictions)
	}
	return n
}

// RemovedMappings returns the number of destination ids the diff retires.
func (d RelationshipDiff) RemovedMappings() int {
	n := 0
	for _, r := range d.Removed {
		n += len(r.ContactIDs) + len(r.RestrictionIDs)
	}
	return n
}

// Destination is the façade over the DPS personal-relationships API. Create
// calls for child kinds take the destination id of the owning parent, which
// callers resolve through the mapping service first. A create call returns a
// conflict error (see the httpclient package) when the entity already exists
// downstream.
type Destination interface {
	CreatePerson(ctx context.Context, p Person, prov Provenance) (DestinationID, error)
	UpdatePerson(ctx context.Context, id DestinationID, p Person, prov Provenance) error
	DeletePerson(ctx context.Context, id DestinationID) error

	CreateAddress(ctx context.Context, personID DestinationID, a Address, prov Provenance) (DestinationID, error)
	UpdateAddress(ctx context.Context, id DestinationID, a Address, prov Provenance) error
	DeleteAddress(ctx context.Context, id DestinationID) error

	CreatePhone(ctx context.Context, owner PhoneOwner, ownerID DestinationID, p Phone, prov Provenance) (DestinationID, error)
	UpdatePhone(ctx context.Context, owner PhoneOwner, id DestinationID, p Phone, prov Provenance) error
	DeletePhone(ctx context.Context, owner PhoneOwner, id DestinationID) error

	CreateEmail(ctx context.Context, personID DestinationID, e Email, prov Provenance) (DestinationID, error)
	UpdateEmail(ctx context.Context, id DestinationID, e Email, prov Provenance) error
	DeleteEmail(ctx context.Context, id DestinationID) error

	CreateEmployment(ctx context.Context, personID DestinationID, e Employment, prov Provenance) (DestinationID, error)
	UpdateEmployment(ctx context.Context, id DestinationID, e Employment, prov Provenance) error
	DeleteEmployment(ctx context.Context, id DestinationID) error

	CreateIdentifier(ctx context.Context, personID DestinationID, i Identifier, prov Provenance) (DestinationID, error)
	UpdateIdentifier(ctx context.Context, id DestinationID, i Identifier, prov Provenance) error
	DeleteIdentifier(ctx context.Context, id DestinationID) error

	CreateRestriction(ctx context.Context, personID DestinationID, r Restriction, prov Provenance) (DestinationID, error)
	UpdateRestriction(ctx context.Context, id DestinationID, r Restriction, prov Provenance) error
	DeleteRestriction(ctx context.Context, id DestinationID) error

	CreateContact(ctx context.Context, personID DestinationID, c Contact, prov Provenance) (DestinationID, error)
	UpdateContact(ctx context.Context, id DestinationID, c Contact, prov Provenance) error
	DeleteContact(ctx context.Context, id DestinationID) error

	CreateContactRestriction(ctx context.Context, contactID DestinationID, r ContactRestriction, prov Provenance) (DestinationID, error)
	UpdateContactRestriction(ctx context.Context, id DestinationID, r ContactRestriction, prov Provenance) error
	DeleteContactRestriction(ctx context.Context, id DestinationID) error

	MigratePersonGraph(ctx context.Context, p Person) (MigrateResult, error)

	ReplaceMerged(ctx context.Context, retained, removed string, rels RelationshipSet) (RelationshipDiff, error)
	Reset(ctx context.Context, prisonerNumber string, rels RelationshipSet) (RelationshipDiff, error)
}
