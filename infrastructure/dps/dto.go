package dps

import (
	"time"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
)

// provenanceDTO is the audit trail the destination records for a synced
// entity. The values come from contact.ResolveProvenance, never raw from the
// NOMIS audit row.
type provenanceDTO struct {
	CreatedBy string     `json:"createdBy"`
	CreatedAt time.Time  `json:"createdTime"`
	UpdatedBy string     `json:"updatedBy,omitempty"`
	UpdatedAt *time.Time `json:"updatedTime,omitempty"`
}

func provenance(p contact.Provenance) provenanceDTO {
	return provenanceDTO{
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
		UpdatedBy: p.ModifiedBy,
		UpdatedAt: p.ModifiedAt,
	}
}

// updateDTO is the audit trail for an update call, targeting the updated-by
// pair only.
type updateDTO struct {
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedTime"`
}

func update(p contact.Provenance) updateDTO {
	return updateDTO{UpdatedBy: p.UpdatedBy(), UpdatedAt: p.UpdatedAt()}
}

type createdResponse struct {
	ID contact.DestinationID `json:"id"`
}

type personRequest struct {
	PersonID    int64      `json:"personId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	MiddleName  string     `json:"middleName,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Title       string     `json:"title,omitempty"`
	Language    string     `json:"language,omitempty"`
	Staff       bool       `json:"isStaff,omitempty"`
	provenanceDTO
}

func newPersonRequest(p contact.Person, prov contact.Provenance) personRequest {
	return personRequest{
		PersonID:      p.PersonID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		MiddleName:    p.MiddleName,
		DateOfBirth:   p.DateOfBirth,
		Gender:        p.Gender,
		Title:         p.Title,
		Language:      p.Language,
		Staff:         p.Staff,
		provenanceDTO: provenance(prov),
	}
}

type addressRequest struct {
	PersonID  string     `json:"contactId"`
	Type      string     `json:"addressType,omitempty"`
	Flat      string     `json:"flat,omitempty"`
	Premise   string     `json:"property,omitempty"`
	Street    string     `json:"street,omitempty"`
	Locality  string     `json:"area,omitempty"`
	City      string     `json:"cityCode,omitempty"`
	County    string     `json:"countyCode,omitempty"`
	Country   string     `json:"countryCode,omitempty"`
	Postcode  string     `json:"postcode,omitempty"`
	NoFixed   bool       `json:"noFixedAddress,omitempty"`
	Primary   bool       `json:"primaryAddress,omitempty"`
	Mail      bool       `json:"mailFlag,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Comment   string     `json:"comments,omitempty"`
	provenanceDTO
}

func newAddressRequest(personID contact.DestinationID, a contact.Address, prov contact.Provenance) addressRequest {
	return addressRequest{
		PersonID:      personID.String(),
		Type:          a.Type,
		Flat:          a.Flat,
		Premise:       a.Premise,
		Street:        a.Street,
		Locality:      a.Locality,
		City:          a.City,
		County:        a.County,
		Country:       a.Country,
		Postcode:      a.Postcode,
		NoFixed:       a.NoFixed,
		Primary:       a.Primary,
		Mail:          a.Mail,
		StartDate:     a.StartDate,
		EndDate:       a.EndDate,
		Comment:       a.Comment,
		provenanceDTO: provenance(prov),
	}
}

type phoneRequest struct {
	OwnerID   string `json:"ownerId"`
	Type      string `json:"phoneType"`
	Number    string `json:"phoneNumber"`
	Extension string `json:"extNumber,omitempty"`
	provenanceDTO
}

func newPhoneRequest(ownerID contact.DestinationID, p contact.Phone, prov contact.Provenance) phoneRequest {
	return phoneRequest{
		OwnerID:       ownerID.String(),
		Type:          p.Type,
		Number:        p.Number,
		Extension:     p.Extension,
		provenanceDTO: provenance(prov),
	}
}

type emailRequest struct {
	PersonID string `json:"contactId"`
	Address  string `json:"emailAddress"`
	provenanceDTO
}

type employmentRequest struct {
	PersonID   string `json:"contactId"`
	EmployerID int64  `json:"organisationId"`
	Active     bool   `json:"active"`
	provenanceDTO
}

type identifierRequest struct {
	PersonID string `json:"contactId"`
	Type     string `json:"identityType"`
	Value    string `json:"identityValue"`
	Issuer   string `json:"issuingAuthority,omitempty"`
	provenanceDTO
}

type restrictionRequest struct {
	OwnerID       string     `json:"ownerId"`
	Type          string     `json:"restrictionType"`
	Comment       string     `json:"comments,omitempty"`
	EffectiveDate time.Time  `json:"startDate"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	provenanceDTO
}

type relationshipRequest struct {
	PersonID         string     `json:"contactId"`
	PrisonerNumber   string     `json:"prisonerNumber"`
	RelationshipType string     `json:"relationshipType"`
	ContactType      string     `json:"contactType,omitempty"`
	Active           bool       `json:"active"`
	Approved         bool       `json:"approvedVisitor"`
	NextOfKin        bool       `json:"nextOfKin"`
	EmergencyContact bool       `json:"emergencyContact"`
	Comment          string     `json:"comments,omitempty"`
	ExpiryDate       *time.Time `json:"expiryDate,omitempty"`
	provenanceDTO
}

func newRelationshipRequest(personID contact.DestinationID, c contact.Contact, prov contact.Provenance) relationshipRequest {
	return relationshipRequest{
		PersonID:         personID.String(),
		PrisonerNumber:   c.PrisonerNumber,
		RelationshipType: c.RelationshipType,
		ContactType:      c.ContactType,
		Active:           c.Active,
		Approved:         c.Approved,
		NextOfKin:        c.NextOfKin,
		EmergencyContact: c.EmergencyContact,
		Comment:          c.Comment,
		ExpiryDate:       c.ExpiryDate,
		provenanceDTO:    provenance(prov),
	}
}
