package contact

import "time"

// Person is the root of the NOMIS personal-relationships tree. GetPerson
// returns the full graph; individual synchronisation handlers use only the
// slice of it relevant to their kind.
type Person struct {
	PersonID    int64
	FirstName   string
	LastName    string
	MiddleName  string
	DateOfBirth *time.Time
	Gender      string
	Title       string
	Language    string
	Staff       bool
	Remitter    bool

	Addresses    []Address
	Phones       []Phone
	Emails       []Email
	Employments  []Employment
	Identifiers  []Identifier
	Restrictions []Restriction
	Contacts     []Contact

	Audit Audit
}

// Address is a postal address owned by a person, optionally with its own
// phone numbers.
type Address struct {
	AddressID  int64
	Type       string
	Flat       string
	Premise    string
	Street     string
	Locality   string
	City       string
	County     string
	Country    string
	Postcode   string
	NoFixed    bool
	Primary    bool
	Mail       bool
	StartDate  *time.Time
	EndDate    *time.Time
	Comment    string
	Phones     []Phone
	Audit      Audit
}

// Phone is a phone number owned by either a person or one of their addresses.
type Phone struct {
	PhoneID   int64
	Type      string
	Number    string
	Extension string
	Audit     Audit
}

// Email is an email address owned by a person.
type Email struct {
	EmailID int64
	Address string
	Audit   Audit
}

// Employment is one entry in a person's sequence-keyed employment list.
type Employment struct {
	Sequence   int64
	EmployerID int64
	Active     bool
	Audit      Audit
}

// Identifier is one entry in a person's sequence-keyed identifier list
// (passport numbers, driving licences and the like).
type Identifier struct {
	Sequence int64
	Type     string
	Value    string
	Issuer   string
	Audit    Audit
}

// Restriction is a global (person-wide) visit restriction. EnteredBy is the
// business actor who recorded the restriction, distinct from the technical
// audit username.
type Restriction struct {
	RestrictionID int64
	Type          string
	Comment       string
	EffectiveDate time.Time
	ExpiryDate    *time.Time
	EnteredBy     string
	Audit         Audit
}

// Contact is the relationship between a person and a prisoner, viewed from
// the person side.
type Contact struct {
	ContactID        int64
	PersonID         int64
	PrisonerNumber   string
	RelationshipType string
	ContactType      string
	Active           bool
	Approved         bool
	NextOfKin        bool
	EmergencyContact bool
	Comment          string
	ExpiryDate       *time.Time
	Restrictions     []ContactRestriction
	Audit            Audit
}

// ContactRestriction is a restriction scoped to a single contact
// relationship rather than the whole person.
type ContactRestriction struct {
	RestrictionID int64
	ContactID     int64
	Type          string
	Comment       string
	EffectiveDate time.Time
	ExpiryDate    *time.Time
	EnteredBy     string
	Audit         Audit
}

// PrisonerRelationship is the same contact concept viewed from the
// custodial-booking side: owned by a prisoner number and booking, not a
// person record.
type PrisonerRelationship struct {
	ContactID        int64
	PersonID         int64
	BookingID        int64
	RelationshipType string
	ContactType      string
	Active           bool
	Approved         bool
	NextOfKin        bool
	EmergencyContact bool
	Comment          string
	ExpiryDate       *time.Time
	Restrictions     []ContactRestriction
	Audit            Audit
}

// RelationshipSet is the full current relationship subtree for one prisoner
// number, as reported by the source system.
type RelationshipSet struct {
	PrisonerNumber string
	Relationships  []PrisonerRelationship
}

// PrisonerStatus is the source system's view of whether a prisoner record is
// currently in use.
type PrisonerStatus struct {
	PrisonerNumber string
	Active         bool
	Location       string
}
