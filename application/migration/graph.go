package migration

import (
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/mapping"
)

// BuildGraph assembles the mapping tree for one migrated person from the
// destination-assigned id tree. Every mapping carries the MIGRATED type and
// the run id as its label, and phone mappings are tagged with their owner
// level since person- and address-phones share a key space.
func BuildGraph(runID string, person contact.Person, result contact.MigrateResult) mapping.Graph {
	g := mapping.Graph{
		Label: runID,
		Person: mapping.Mapping{
			Source:        mapping.PersonKey(person.PersonID),
			DestinationID: result.PersonID,
			Type:          mapping.TypeMigrated,
			Label:         runID,
		},
	}

	migratedMapping := func(key mapping.SourceKey, id contact.DestinationID) mapping.Mapping {
		return mapping.Mapping{Source: key, DestinationID: id, Type: mapping.TypeMigrated, Label: runID}
	}

	for _, a := range result.Addresses {
		g.Addresses = append(g.Addresses, migratedMapping(mapping.AddressKey(a.NomisID), a.DestinationID))
		for _, p := range a.Phones {
			g.Phones = append(g.Phones, mapping.PhoneMapping{
				Mapping: migratedMapping(mapping.PhoneKey(p.NomisID), p.DestinationID),
				Owner:   contact.PhoneOwnerAddress,
			})
		}
	}
	for _, p := range result.Phones {
		g.Phones = append(g.Phones, mapping.PhoneMapping{
			Mapping: migratedMapping(mapping.PhoneKey(p.NomisID), p.DestinationID),
			Owner:   contact.PhoneOwnerPerson,
		})
	}
	for _, e := range result.Emails {
		g.Emails = append(g.Emails, migratedMapping(mapping.EmailKey(e.NomisID), e.DestinationID))
	}
	for _, e := range result.Employments {
		g.Employments = append(g.Employments, migratedMapping(mapping.EmploymentKey(person.PersonID, e.Sequence), e.DestinationID))
	}
	for _, i := range result.Identifiers {
		g.Identifiers = append(g.Identifiers, migratedMapping(mapping.IdentifierKey(person.PersonID, i.Sequence), i.DestinationID))
	}
	for _, r := range result.Restrictions {
		g.Restrictions = append(g.Restrictions, migratedMapping(mapping.RestrictionKey(r.NomisID), r.DestinationID))
	}
	for _, c := range result.Contacts {
		g.Contacts = append(g.Contacts, migratedMapping(mapping.ContactKey(c.NomisID), c.DestinationID))
		for _, r := range c.Restrictions {
			g.ContactRestrictions = append(g.ContactRestrictions, migratedMapping(mapping.ContactRestrictionKey(r.NomisID), r.DestinationID))
		}
	}
	return g
}
