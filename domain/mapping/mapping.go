// Package mapping provides the cross-system mapping domain types and the
// client interface for the mapping service, which stores the authoritative
// source-id to destination-id correspondence for every synchronised entity.
package mapping

import (
	"fmt"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
)

// Type records how a mapping came to exist.
type Type string

// Type values.
const (
	TypeMigrated     Type = "MIGRATED"
	TypeNomisCreated Type = "NOMIS_CREATED"
)

// SourceKey identifies a source entity instance: the kind plus its NOMIS id,
// or for sequence-keyed kinds the owning person id and sequence number.
type SourceKey struct {
	Kind     contact.Kind
	ID       int64
	Sequence int64
}

// String renders the key as "KIND:id" or "KIND:person:sequence".
func (k SourceKey) String() string {
	if k.Kind.SequenceKeyed() {
		return fmt.Sprintf("%s:%d:%d", k.Kind, k.ID, k.Sequence)
	}
	return fmt.Sprintf("%s:%d", k.Kind, k.ID)
}

// PersonKey returns the source key for a person.
func PersonKey(personID int64) SourceKey {
	return SourceKey{Kind: contact.KindPerson, ID: personID}
}

// AddressKey returns the source key for an address.
func AddressKey(addressID int64) SourceKey {
	return SourceKey{Kind: contact.KindAddress, ID: addressID}
}

// PhoneKey returns the source key for a phone, person- or address-owned.
func PhoneKey(phoneID int64) SourceKey {
	return SourceKey{Kind: contact.KindPhone, ID: phoneID}
}

// EmailKey returns the source key for an email.
func EmailKey(emailID int64) SourceKey {
	return SourceKey{Kind: contact.KindEmail, ID: emailID}
}

// EmploymentKey returns the composite source key for an employment entry.
func EmploymentKey(personID, sequence int64) SourceKey {
	return SourceKey{Kind: contact.KindEmployment, ID: personID, Sequence: sequence}
}

// IdentifierKey returns the composite source key for an identifier entry.
func IdentifierKey(personID, sequence int64) SourceKey {
	return SourceKey{Kind: contact.KindIdentifier, ID: personID, Sequence: sequence}
}

// RestrictionKey returns the source key for a global restriction.
func RestrictionKey(restrictionID int64) SourceKey {
	return SourceKey{Kind: contact.KindRestriction, ID: restrictionID}
}

// ContactKey returns the source key for a contact relationship.
func ContactKey(contactID int64) SourceKey {
	return SourceKey{Kind: contact.KindContact, ID: contactID}
}

// ContactRestrictionKey returns the source key for a contact restriction.
func ContactRestrictionKey(restrictionID int64) SourceKey {
	return SourceKey{Kind: contact.KindContactRestriction, ID: restrictionID}
}

// Mapping is one authoritative source-to-destination correspondence. The
// mapping service enforces at most one mapping per source key; a mapping is
// created once, deleted once, and never updated in place.
type Mapping struct {
	Source        SourceKey
	DestinationID contact.DestinationID
	Type          Type
	Label         string
}

// Conflict is the structured response the mapping service returns when a
// create would violate the one-mapping-per-source-key constraint. Existing is
// the row already persisted; Duplicate is the rejected submission.
type Conflict struct {
	Existing  Mapping
	Duplicate Mapping
}

// CreateResult is the outcome of a mapping create call. A duplicate conflict
// is an expected race outcome, not an error, so callers are forced to handle
// it as a value.
type CreateResult struct {
	Conflict *Conflict
}

// Created reports whether the mapping was persisted by this call.
func (r CreateResult) Created() bool {
	return r.Conflict == nil
}

// PhoneMapping is a phone mapping tagged with its owner discriminator, used
// inside migration graphs where person- and address-level phones travel in
// one request.
type PhoneMapping struct {
	Mapping
	Owner contact.PhoneOwner
}

// Graph is the full mapping tree for one migrated person, submitted to the
// mapping service in a single call.
type Graph struct {
	Label               string
	Person              Mapping
	Addresses           []Mapping
	Phones              []PhoneMapping
	Emails              []Mapping
	Employments         []Mapping
	Identifiers         []Mapping
	Restrictions        []Mapping
	Contacts            []Mapping
	ContactRestrictions []Mapping
}

// Count returns the total number of mapping rows the graph will persist,
// including the top-level person mapping.
func (g Graph) Count() int {
	return 1 +
		len(g.Addresses) +
		len(g.Phones) +
		len(g.Emails) +
		len(g.Employments) +
		len(g.Identifiers) +
		len(g.Restrictions) +
		len(g.Contacts) +
		len(g.ContactRestrictions)
}
