package dps

import (
	"time"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
)

// Bulk migrate request: the full person graph with provenance resolved for
// every node. The destination answers with a mirrored tree of assigned ids.

type migratePhone struct {
	PhoneID int64  `json:"phoneId"`
	Type    string `json:"phoneType"`
	Number  string `json:"phoneNumber"`
	Ext     string `json:"extNumber,omitempty"`
	provenanceDTO
}

type migrateAddress struct {
	AddressID int64          `json:"addressId"`
	Type      string         `json:"addressType,omitempty"`
	Flat      string         `json:"flat,omitempty"`
	Premise   string         `json:"property,omitempty"`
	Street    string         `json:"street,omitempty"`
	Locality  string         `json:"area,omitempty"`
	City      string         `json:"cityCode,omitempty"`
	County    string         `json:"countyCode,omitempty"`
	Country   string         `json:"countryCode,omitempty"`
	Postcode  string         `json:"postcode,omitempty"`
	NoFixed   bool           `json:"noFixedAddress,omitempty"`
	Primary   bool           `json:"primaryAddress,omitempty"`
	Mail      bool           `json:"mailFlag,omitempty"`
	StartDate *time.Time     `json:"startDate,omitempty"`
	EndDate   *time.Time     `json:"endDate,omitempty"`
	Comment   string         `json:"comments,omitempty"`
	Phones    []migratePhone `json:"phoneNumbers,omitempty"`
	provenanceDTO
}

type migrateEmail struct {
	EmailID int64  `json:"emailAddressId"`
	Address string `json:"emailAddress"`
	provenanceDTO
}

type migrateEmployment struct {
	Sequence   int64 `json:"sequence"`
	EmployerID int64 `json:"organisationId"`
	Active     bool  `json:"active"`
	provenanceDTO
}

type migrateIdentifier struct {
	Sequence int64  `json:"sequence"`
	Type     string `json:"identityType"`
	Value    string `json:"identityValue"`
	Issuer   string `json:"issuingAuthority,omitempty"`
	provenanceDTO
}

type migrateRestriction struct {
	RestrictionID int64      `json:"restrictionId"`
	Type          string     `json:"restrictionType"`
	Comment       string     `json:"comments,omitempty"`
	EffectiveDate time.Time  `json:"startDate"`
	ExpiryDate    *time.Time `json:"expiryDate,omitempty"`
	provenanceDTO
}

type migrateRelationship struct {
	ContactID        int64                `json:"contactId"`
	PrisonerNumber   string               `json:"prisonerNumber"`
	RelationshipType string               `json:"relationshipType"`
	ContactType      string               `json:"contactType,omitempty"`
	Active           bool                 `json:"active"`
	Approved         bool                 `json:"approvedVisitor"`
	NextOfKin        bool                 `json:"nextOfKin"`
	EmergencyContact bool                 `json:"emergencyContact"`
	Comment          string               `json:"comments,omitempty"`
	ExpiryDate       *time.Time           `json:"expiryDate,omitempty"`
	Restrictions     []migrateRestriction `json:"restrictions,omitempty"`
	provenanceDTO
}

type migratePersonRequest struct {
	PersonID    int64      `json:"personId"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	MiddleName  string     `json:"middleName,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Title       string     `json:"title,omitempty"`
	Language    string     `json:"language,omitempty"`
	Staff       bool       `json:"isStaff,omitempty"`

	Addresses    []migrateAddress      `json:"addresses,omitempty"`
	Phones       []migratePhone        `json:"phoneNumbers,omitempty"`
	Emails       []migrateEmail        `json:"emailAddresses,omitempty"`
	Employments  []migrateEmployment   `json:"employments,omitempty"`
	Identifiers  []migrateIdentifier   `json:"identifiers,omitempty"`
	Restrictions []migrateRestriction  `json:"restrictions,omitempty"`
	Contacts     []migrateRelationship `json:"contacts,omitempty"`

	provenanceDTO
}

func newMigrateRequest(p contact.Person) migratePersonRequest {
	req := migratePersonRequest{
		PersonID:      p.PersonID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		MiddleName:    p.MiddleName,
		DateOfBirth:   p.DateOfBirth,
		Gender:        p.Gender,
		Title:         p.Title,
		Language:      p.Language,
		Staff:         p.Staff,
		provenanceDTO: provenance(contact.ResolveProvenance(p.Audit, "")),
	}
	for _, a := range p.Addresses {
		ma := migrateAddress{
			AddressID:     a.AddressID,
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
			provenanceDTO: provenance(contact.ResolveProvenance(a.Audit, "")),
		}
		for _, ph := range a.Phones {
			ma.Phones = append(ma.Phones, newMigratePhone(ph))
		}
		req.Addresses = append(req.Addresses, ma)
	}
	for _, ph := range p.Phones {
		req.Phones = append(req.Phones, newMigratePhone(ph))
	}
	for _, e := range p.Emails {
		req.Emails = append(req.Emails, migrateEmail{
			EmailID:       e.EmailID,
			Address:       e.Address,
			provenanceDTO: provenance(contact.ResolveProvenance(e.Audit, "")),
		})
	}
	for _, e := range p.Employments {
		req.Employments = append(req.Employments, migrateEmployment{
			Sequence:      e.Sequence,
			EmployerID:    e.EmployerID,
			Active:        e.Active,
			provenanceDTO: provenance(contact.ResolveProvenance(e.Audit, "")),
		})
	}
	for _, i := range p.Identifiers {
		req.Identifiers = append(req.Identifiers, migrateIdentifier{
			Sequence:      i.Sequence,
			Type:          i.Type,
			Value:         i.Value,
			Issuer:        i.Issuer,
			provenanceDTO: provenance(contact.ResolveProvenance(i.Audit, "")),
		})
	}
	for _, r := range p.Restrictions {
		req.Restrictions = append(req.Restrictions, newMigrateRestriction(
			r.RestrictionID, r.Type, r.Comment, r.EffectiveDate, r.ExpiryDate, r.Audit, r.EnteredBy,
		))
	}
	for _, c := range p.Contacts {
		mc := migrateRelationship{
			ContactID:        c.ContactID,
			PrisonerNumber:   c.PrisonerNumber,
			RelationshipType: c.RelationshipType,
			ContactType:      c.ContactType,
			Active:           c.Active,
			Approved:         c.Approved,
			NextOfKin:        c.NextOfKin,
			EmergencyContact: c.EmergencyContact,
			Comment:          c.Comment,
			ExpiryDate:       c.ExpiryDate,
			provenanceDTO:    provenance(contact.ResolveProvenance(c.Audit, "")),
		}
		for _, cr := range c.Restrictions {
			mc.Restrictions = append(mc.Restrictions, newMigrateRestriction(
				cr.RestrictionID, cr.Type, cr.Comment, cr.EffectiveDate, cr.ExpiryDate, cr.Audit, cr.EnteredBy,
			))
		}
		req.Contacts = append(req.Contacts, mc)
	}
	return req
}

func newMigratePhone(p contact.Phone) migratePhone {
	return migratePhone{
		PhoneID:       p.PhoneID,
		Type:          p.Type,
		Number:        p.Number,
		Ext:           p.Extension,
		provenanceDTO: provenance(contact.ResolveProvenance(p.Audit, "")),
	}
}

func newMigrateRestriction(id int64, typ, comment string, effective time.Time, expiry *time.Time, audit contact.Audit, enteredBy string) migrateRestriction {
	return migrateRestriction{
		RestrictionID: id,
		Type:          typ,
		Comment:       comment,
		EffectiveDate: effective,
		ExpiryDate:    expiry,
		provenanceDTO: provenance(contact.ResolveProvenance(audit, enteredBy)),
	}
}

// Migrate response.

type migratedPairDTO struct {
	NomisID int64                 `json:"nomisId"`
	DpsID   contact.DestinationID `json:"dpsId"`
}

type migratedSequencePairDTO struct {
	Sequence int64                 `json:"sequence"`
	DpsID    contact.DestinationID `json:"dpsId"`
}

type migratedAddressDTO struct {
	NomisID int64                 `json:"nomisId"`
	DpsID   contact.DestinationID `json:"dpsId"`
	Phones  []migratedPairDTO     `json:"phoneNumbers,omitempty"`
}

type migratedContactDTO struct {
	NomisID      int64                 `json:"nomisId"`
	DpsID        contact.DestinationID `json:"dpsId"`
	Restrictions []migratedPairDTO     `json:"restrictions,omitempty"`
}

type migrateResultDTO struct {
	PersonID     contact.DestinationID     `json:"contactId"`
	Addresses    []migratedAddressDTO      `json:"addresses,omitempty"`
	Phones       []migratedPairDTO         `json:"phoneNumbers,omitempty"`
	Emails       []migratedPairDTO         `json:"emailAddresses,omitempty"`
	Employments  []migratedSequencePairDTO `json:"employments,omitempty"`
	Identifiers  []migratedSequencePairDTO `json:"identifiers,omitempty"`
	Restrictions []migratedPairDTO         `json:"restrictions,omitempty"`
	Contacts     []migratedContactDTO      `json:"contacts,omitempty"`
}

func (d migrateResultDTO) toDomain() contact.MigrateResult {
	res := contact.MigrateResult{PersonID: d.PersonID}
	for _, a := range d.Addresses {
		ma := contact.MigratedAddress{NomisID: a.NomisID, DestinationID: a.DpsID}
		for _, p := range a.Phones {
			ma.Phones = append(ma.Phones, contact.MigratedPair{NomisID: p.NomisID, DestinationID: p.DpsID})
		}
		res.Addresses = append(res.Addresses, ma)
	}
	for _, p := range d.Phones {
		res.Phones = append(res.Phones, contact.MigratedPair{NomisID: p.NomisID, DestinationID: p.DpsID})
	}
	for _, e := range d.Emails {
		res.Emails = append(res.Emails, contact.MigratedPair{NomisID: e.NomisID, DestinationID: e.DpsID})
	}
	for _, e := range d.Employments {
		res.Employments = append(res.Employments, contact.MigratedSequencePair{Sequence: e.Sequence, DestinationID: e.DpsID})
	}
	for _, i := range d.Identifiers {
		res.Identifiers = append(res.Identifiers, contact.MigratedSequencePair{Sequence: i.Sequence, DestinationID: i.DpsID})
	}
	for _, r := range d.Restrictions {
		res.Restrictions = append(res.Restrictions, contact.MigratedPair{NomisID: r.NomisID, DestinationID: r.DpsID})
	}
	for _, c := range d.Contacts {
		mc := contact.MigratedContact{NomisID: c.NomisID, DestinationID: c.DpsID}
		for _, r := range c.Restrictions {
			mc.Restrictions = append(mc.Restrictions, contact.MigratedPair{NomisID: r.NomisID, DestinationID: r.DpsID})
		}
		res.Contacts = append(res.Contacts, mc)
	}
	return res
}

// Replace / reset.

type replaceRelationship struct {
	ContactID        int64                `json:"contactId"`
	PersonID         int64                `json:"personId"`
	BookingID        int64                `json:"bookingId"`
	RelationshipType string               `json:"relationshipType"`
	ContactType      string               `json:"contactType,omitempty"`
	Active           bool                 `json:"active"`
	Approved         bool                 `json:"approvedVisitor"`
	NextOfKin        bool                 `json:"nextOfKin"`
	EmergencyContact bool                 `json:"emergencyContact"`
	Comment          string               `json:"comments,omitempty"`
	ExpiryDate       *time.Time           `json:"expiryDate,omitempty"`
	Restrictions     []migrateRestriction `json:"restrictions,omitempty"`
	provenanceDTO
}

func newReplaceRelationships(rels contact.RelationshipSet) []replaceRelationship {
	out := make([]replaceRelationship, 0, len(rels.Relationships))
	for _, r := range rels.Relationships {
		rr := replaceRelationship{
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
			provenanceDTO:    provenance(contact.ResolveProvenance(r.Audit, "")),
		}
		for _, cr := range r.Restrictions {
			rr.Restrictions = append(rr.Restrictions, newMigrateRestriction(
				cr.RestrictionID, cr.Type, cr.Comment, cr.EffectiveDate, cr.ExpiryDate, cr.Audit, cr.EnteredBy,
			))
		}
		out = append(out, rr)
	}
	return out
}

type replaceMergedRequest struct {
	RetainedPrisonerNumber string                `json:"retainedPrisonerNumber"`
	RemovedPrisonerNumber  string                `json:"removedPrisonerNumber"`
	Relationships          []replaceRelationship `json:"relationships"`
}

type resetRequest struct {
	PrisonerNumber string                `json:"prisonerNumber"`
	Relationships  []replaceRelationship `json:"relationships"`
}

type createdRelationshipDTO struct {
	ContactID    int64                 `json:"nomisContactId"`
	DpsID        contact.DestinationID `json:"dpsId"`
	Restrictions []migratedPairDTO     `json:"restrictions,omitempty"`
}

type removedRelationshipsDTO struct {
	PrisonerNumber string                  `json:"prisonerNumber"`
	ContactIDs     []contact.DestinationID `json:"contactIds,omitempty"`
	RestrictionIDs []contact.DestinationID `json:"restrictionIds,omitempty"`
}

type relationshipDiffDTO struct {
	Created []createdRelationshipDTO  `json:"relationshipsCreated,omitempty"`
	Removed []removedRelationshipsDTO `json:"relationshipsRemoved,omitempty"`
}

func (d relationshipDiffDTO) toDomain() contact.RelationshipDiff {
	diff := contact.RelationshipDiff{}
	for _, c := range d.Created {
		cr := contact.CreatedRelationship{ContactID: c.ContactID, DestinationID: c.DpsID}
		for _, r := range c.Restrictions {
			cr.Restrictions = append(cr.Restrictions, contact.MigratedPair{NomisID: r.NomisID, DestinationID: r.DpsID})
		}
		diff.Created = append(diff.Created, cr)
	}
	for _, r := range d.Removed {
		diff.Removed = append(diff.Removed, contact.RemovedRelationships{
			PrisonerNumber: r.PrisonerNumber,
			ContactIDs:     r.ContactIDs,
			RestrictionIDs: r.RestrictionIDs,
		})
	}
	return diff
}
