package nomis

import (
	"time"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
)

type auditDTO struct {
	CreateUsername string     `json:"createUsername"`
	CreateDatetime time.Time  `json:"createDatetime"`
	ModifyUsername string     `json:"modifyUsername,omitempty"`
	ModifyDatetime *time.Time `json:"modifyDatetime,omitempty"`
}

func (d auditDTO) toDomain() contact.Audit {
	return contact.Audit{
		CreatedBy:  d.CreateUsername,
		CreatedAt:  d.CreateDatetime,
		ModifiedBy: d.ModifyUsername,
		ModifiedAt: d.ModifyDatetime,
	}
}

type phoneDTO struct {
	PhoneID   int64    `json:"phoneId"`
	Type      string   `json:"type"`
	Number    string   `json:"number"`
	Extension string   `json:"extension,omitempty"`
	Audit     auditDTO `json:"audit"`
}

func (d phoneDTO) toDomain() contact.Phone {
	return contact.Phone{
		PhoneID:   d.PhoneID,
		Type:      d.Type,
		Number:    d.Number,
		Extension: d.Extension,
		Audit:     d.Audit.toDomain(),
	}
}

type addressDTO struct {
	AddressID int64      `json:"addressId"`
	Type      string     `json:"type,omitempty"`
	Flat      string     `json:"flat,omitempty"`
	Premise   string     `json:"premise,omitempty"`
	Street    string     `json:"street,omitempty"`
	Locality  string     `json:"locality,omitempty"`
	City      string     `json:"city,omitempty"`
	County    string     `json:"county,omitempty"`
	Country   string     `json:"country,omitempty"`
	Postcode  string     `json:"postcode,omitempty"`
	NoFixed   bool       `json:"noFixedAddress,omitempty"`
	Primary   bool       `json:"primaryAddress,omitempty"`
	Mail      bool       `json:"mailAddress,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Comment   string     `json:"comment,omitempty"`
	Phones    []phoneDTO `json:"phoneNumbers,omitempty"`
	Audit     auditDTO   `json:"audit"`
}

func (d addressDTO) toDomain() contact.Address {
	a := contact.Address{
		AddressID: d.AddressID,
		Type:      d.Type,
		Flat:      d.Flat,
		Premise:   d.Premise,
		Street:    d.Street,
		Locality:  d.Locality,
		City:      d.City,
		County:    d.County,
		Country:   d.Country,
		Postcode:  d.Postcode,
		NoFixed:   d.NoFixed,
		Primary:   d.Primary,
		Mail:      d.Mail,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		Comment:   d.Comment,
		Audit:     d.Audit.toDomain(),
	}
	for _, p := range d.Phones {
		a.Phones = append(a.Phones, p.toDomain())
	}
	return a
}

type emailDTO struct {
	EmailID int64    `json:"emailAddressId"`
	Address string   `json:"email"`
	Audit   auditDTO `json:"audit"`
}

func (d emailDTO) toDomain() contact.Email {
	return contact.Email{
		EmailID: d.EmailID,
		Address: d.Address,
		Audit:   d.Audit.toDomain(),
	}
}

type employmentDTO struct {
	Sequence   int64    `json:"sequence"`
	EmployerID int64    `json:"employerCorporateId"`
	Active     bool     `json:"active"`
	Audit      auditDTO `json:"audit"`
}

func (d employmentDTO) toDomain() contact.Employment {
	return contact.Employment{
		Sequence:   d.Sequence,
		EmployerID: d.EmployerID,
		Active:     d.Active,
		Audit:      d.Audit.toDomain(),
	}
}

type identifierDTO struct {
	Sequence int64    `json:"sequence"`
	Type     string   `json:"type"`
	Value    string   `json:"identifier"`
	Issuer   string   `json:"issuedAuthority,omitempty"`
	Audit    auditDTO `json:"audit"`
}

func (d identifierDTO) toDomain() contact.Identifier {
	return contact.Identifier{
		Sequence: d.Sequence,
		Type:     d.Type,
		Value:    d.Value,
		Issuer:   d.Issuer,
		Audit:    d.Audit.toDomain(),
	}
}

type restrictionDTO struct {
	RestrictionID int64      `json:"restrictionId"`
	Type          string     `json:"type"`
	Comment       string     `json:"comment,omitempty"`
	EffectiveDate time.Time  `json:"effectiveDate"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	EnteredBy     string     `json:"enteredStaffUsername"`
	Audit         auditDTO   `json:"audit"`
}

func (d restrictionDTO) toDomain() contact.Restriction {
	return contact.Restriction{
		RestrictionID: d.RestrictionID,
		Type:          d.Type,
		Comment:       d.Comment,
		EffectiveDate: d.EffectiveDate,
		ExpiryDate:    d.ExpiryDate,
		EnteredBy:     d.EnteredBy,
		Audit:         d.Audit.toDomain(),
	}
}

type contactRestrictionDTO struct {
	RestrictionID int64      `json:"restrictionId"`
	ContactID     int64      `json:"contactId"`
	Type          string     `json:"type"`
	Comment       string     `json:"comment,omitempty"`
	EffectiveDate time.Time  `json:"effectiveDate"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	EnteredBy     string     `json:"enteredStaffUsername"`
	Audit         auditDTO   `json:"audit"`
}

func (d contactRestrictionDTO) toDomain() contact.ContactRestriction {
	return contact.ContactRestriction{
		RestrictionID: d.RestrictionID,
		ContactID:     d.ContactID,
		Type:          d.Type,
		Comment:       d.Comment,
		EffectiveDate: d.EffectiveDate,
		ExpiryDate:    d.ExpiryDate,
		EnteredBy:     d.EnteredBy,
		Audit:         d.Audit.toDomain(),
	}
}

type contactDTO struct {
	ContactID        int64                   `json:"contactId"`
	PersonID         int64                   `json:"personId"`
	PrisonerNumber   string                  `json:"prisonerNumber"`
	RelationshipType string                  `json:"relationshipType"`
	ContactType      string                  `json:"contactType"`
	Active           bool                    `json:"active"`
	Approved         bool                    `json:"approvedVisitor"`
	NextOfKin        bool                    `json:"nextOfKin"`
	EmergencyContact bool                    `json:"emergencyContact"`
	Comment          string                  `json:"comment,omitempty"`
	ExpiryDate       *time.Time              `json:"expiryDate,omitempty"`
	Restrictions     []contactRestrictionDTO `json:"restrictions,omitempty"`
	Audit            auditDTO                `json:"audit"`
}

func (d contactDTO) toDomain() contact.Contact {
	c := contact.Contact{
		ContactID:        d.ContactID,
		PersonID:         d.PersonID,
		PrisonerNumber:   d.PrisonerNumber,
		RelationshipType: d.RelationshipType,
		ContactType:      d.ContactType,
		Active:           d.Active,
		Approved:         d.Approved,
		NextOfKin:        d.NextOfKin,
		EmergencyContact: d.EmergencyContact,
		Comment:          d.Comment,
		ExpiryDate:       d.ExpiryDate,
		Audit:            d.Audit.toDomain(),
	}
	for _, r := range d.Restrictions {
		c.Restrictions = append(c.Restrictions, r.toDomain())
	}
	return c
}

type personDTO struct {
	PersonID    int64      `json:"personId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	MiddleName  string     `json:"middleName,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Title       string     `json:"title,omitempty"`
	Language    string     `json:"language,omitempty"`
	Staff       bool       `json:"isStaff,omitempty"`
	Remitter    bool       `json:"isRemitter,omitempty"`

	Addresses    []addressDTO     `json:"addresses,omitempty"`
	Phones       []phoneDTO       `json:"phoneNumbers,omitempty"`
	Emails       []emailDTO       `json:"emailAddresses,omitempty"`
	Employments  []employmentDTO  `json:"employments,omitempty"`
	Identifiers  []identifierDTO  `json:"identifiers,omitempty"`
	Restrictions []restrictionDTO `json:"restrictions,omitempty"`
	Contacts     []contactDTO     `json:"contacts,omitempty"`

	Audit auditDTO `json:"audit"`
}

func (d personDTO) toDomain() contact.Person {
	p := contact.Person{
		PersonID:    d.PersonID,
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		MiddleName:  d.MiddleName,
		DateOfBirth: d.DateOfBirth,
		Gender:      d.Gender,
		Title:       d.Title,
		Language:    d.Language,
		Staff:       d.Staff,
		Remitter:    d.Remitter,
		Audit:       d.Audit.toDomain(),
	}
	for _, a := range d.Addresses {
		p.Addresses = append(p.Addresses, a.toDomain())
	}
	for _, ph := range d.Phones {
		p.Phones = append(p.Phones, ph.toDomain())
	}
	for _, e := range d.Emails {
		p.Emails = append(p.Emails, e.toDomain())
	}
	for _, e := range d.Employments {
		p.Employments = append(p.Employments, e.toDomain())
	}
	for _, i := range d.Identifiers {
		p.Identifiers = append(p.Identifiers, i.toDomain())
	}
	for _, r := range d.Restrictions {
		p.Restrictions = append(p.Restrictions, r.toDomain())
	}
	for _, c := range d.Contacts {
		p.Contacts = append(p.Contacts, c.toDomain())
	}
	return p
}

type relationshipDTO struct {
	ContactID        int64                   `json:"contactId"`
	PersonID         int64                   `json:"personId"`
	BookingID        int64                   `json:"bookingId"`
	RelationshipType string                  `json:"relationshipType"`
	ContactType      string                  `json:"contactType"`
	Active           bool                    `json:"active"`
	Approved         bool                    `json:"approvedVisitor"`
	NextOfKin        bool                    `json:"nextOfKin"`
	EmergencyContact bool                    `json:"emergencyContact"`
	Comment          string                  `json:"comment,omitempty"`
	ExpiryDate       *time.Time              `json:"expiryDate,omitempty"`
	Restrictions     []contactRestrictionDTO `json:"restrictions,omitempty"`
	Audit            auditDTO                `json:"audit"`
}

type relationshipSetDTO struct {
	PrisonerNumber string            `json:"prisonerNumber"`
	Relationships  []relationshipDTO `json:"relationships"`
}

func (d relationshipSetDTO) toDomain() contact.RelationshipSet {
	set := contact.RelationshipSet{PrisonerNumber: d.PrisonerNumber}
	for _, r := range d.Relationships {
		rel := contact.PrisonerRelationship{
			ContactID:        r.ContactID,
			PersonID:         r.PersonID,
			BookingID:        r.BookingID,
			RelationshipType: r.RelationshipType,
			ContactType:      r.ContactType,
			Active:           r.Active,
			Approved:         r.Approved,
			NextOfKin:        r.NextOfKin,
			EmergencyContact: r.EmergencyContact,
			Comment:          r.Comment,
			ExpiryDate:       r.ExpiryDate,
			Audit:            r.Audit.toDomain(),
		}
		for _, cr := range r.Restrictions {
			rel.Restrictions = append(rel.Restrictions, cr.toDomain())
		}
		set.Relationships = append(set.Relationships, rel)
	}
	return set
}

type prisonerStatusDTO struct {
	PrisonerNumber string `json:"prisonerNumber"`
	Active         bool   `json:"active"`
	Location       string `json:"location,omitempty"`
}

type idPageDTO struct {
	PersonIDs  []int64 `json:"personIds"`
	Page       int     `json:"page"`
	TotalPages int     `json:"totalPages"`
	TotalCount int64   `json:"totalElements"`
}
