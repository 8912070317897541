package contact

import "context"

// IDPage is one page of person ids matching a migration filter.
type IDPage struct {
	IDs        []int64
	Page       int
	TotalPages int
	TotalCount int64
}

// MigrationFilter narrows the population a migration run covers. Zero values
// mean "no bound".
type MigrationFilter struct {
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
}

// Source is the read-only façade over the NOMIS personal-relationships API.
// Fetches for sequence-keyed kinds (employments, identifiers) address the
// entry by its owning person and sequence number.
type Source interface {
	GetPerson(ctx context.Context, personID int64) (Person, error)
	GetAddress(ctx context.Context, personID, addressID int64) (Address, error)
	GetPhone(ctx context.Context, personID, phoneID int64) (Phone, error)
	GetEmail(ctx context.Context, personID, emailID int64) (Email, error)
	GetEmployment(ctx context.Context, personID, sequence int64) (Employment, error)
	GetIdentifier(ctx context.Context, personID, sequence int64) (Identifier, error)
	GetRestriction(ctx context.Context, personID, restrictionID int64) (Restriction, error)
	GetContact(ctx context.Context, contactID int64) (Contact, error)
	GetContactRestriction(ctx context.Context, contactID, restrictionID int64) (ContactRestriction, error)

	GetRelationships(ctx context.Context, prisonerNumber string) (RelationshipSet, error)
	GetPrisonerStatus(ctx context.Context, prisonerNumber string) (PrisonerStatus, error)

	GetPersonIDs(ctx context.Context, filter MigrationFilter, page, size int) (IDPage, error)
}
