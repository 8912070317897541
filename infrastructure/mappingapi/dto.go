package mappingapi

import (
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/mapping"
)

type mappingDTO struct {
	EntityKind  string `json:"entityKind"`
	NomisID     int64  `json:"nomisId"`
	Sequence    int64  `json:"sequence,omitempty"`
	DpsID       string `json:"dpsId"`
	MappingType string `json:"mappingType"`
	Label       string `json:"label,omitempty"`
}

func fromDomain(m mapping.Mapping) mappingDTO {
	return mappingDTO{
		EntityKind:  m.Source.Kind.String(),
		NomisID:     m.Source.ID,
		Sequence:    m.Source.Sequence,
		DpsID:       m.DestinationID.String(),
		MappingType: string(m.Type),
		Label:       m.Label,
	}
}

func (d mappingDTO) toDomain() mapping.Mapping {
	return mapping.Mapping{
		Source: mapping.SourceKey{
			Kind:     contact.Kind(d.EntityKind),
			ID:       d.NomisID,
			Sequence: d.Sequence,
		},
		DestinationID: contact.DestinationID(d.DpsID),
		Type:          mapping.Type(d.MappingType),
		Label:         d.Label,
	}
}

type conflictDTO struct {
	Existing  mappingDTO `json:"existing"`
	Duplicate mappingDTO `json:"duplicate"`
}

type phoneMappingDTO struct {
	mappingDTO
	Owner string `json:"owner"`
}

type graphDTO struct {
	Label               string            `json:"label"`
	Person              mappingDTO        `json:"person"`
	Addresses           []mappingDTO      `json:"addresses,omitempty"`
	Phones              []phoneMappingDTO `json:"phones,omitempty"`
	Emails              []mappingDTO      `json:"emails,omitempty"`
	Employments         []mappingDTO      `json:"employments,omitempty"`
	Identifiers         []mappingDTO      `json:"identifiers,omitempty"`
	Restrictions        []mappingDTO      `json:"restrictions,omitempty"`
	Contacts            []mappingDTO      `json:"contacts,omitempty"`
	ContactRestrictions []mappingDTO      `json:"contactRestrictions,omitempty"`
}

func graphFromDomain(g mapping.Graph) graphDTO {
	dto := graphDTO{
		Label:  g.Label,
		Person: fromDomain(g.Person),
	}
	for _, m := range g.Addresses {
		dto.Addresses = append(dto.Addresses, fromDomain(m))
	}
	for _, p := range g.Phones {
		dto.Phones = append(dto.Phones, phoneMappingDTO{
			mappingDTO: fromDomain(p.Mapping),
			Owner:      string(p.Owner),
		})
	}
	for _, m := range g.Emails {
		dto.Emails = append(dto.Emails, fromDomain(m))
	}
	for _, m := range g.Employments {
		dto.Employments = append(dto.Employments, fromDomain(m))
	}
	for _, m := range g.Identifiers {
		dto.Identifiers = append(dto.Identifiers, fromDomain(m))
	}
	for _, m := range g.Restrictions {
		dto.Restrictions = append(dto.Restrictions, fromDomain(m))
	}
	for _, m := range g.Contacts {
		dto.Contacts = append(dto.Contacts, fromDomain(m))
	}
	for _, m := range g.ContactRestrictions {
		dto.ContactRestrictions = append(dto.ContactRestrictions, fromDomain(m))
	}
	return dto
}

type replaceRequest struct {
	Add          []mappingDTO `json:"add"`
	RemoveDpsIDs []string     `json:"removeDpsIds"`
}
