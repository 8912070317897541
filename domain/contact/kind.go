// Package contact provides the personal-relationships domain types shared by the
// synchronisation, migration and reconciliation services: the NOMIS-side entity
// shapes, the audit/provenance rules, and the collaborator interfaces for the
// source (NOMIS) and destination (DPS) systems.
package contact

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies one of the nine synchronised entity kinds.
type Kind string

// Kind values.
const (
	KindPerson             Kind = "PERSON"
	KindAddress            Kind = "ADDRESS"
	KindPhone              Kind = "PHONE"
	KindEmail              Kind = "EMAIL"
	KindEmployment         Kind = "EMPLOYMENT"
	KindIdentifier         Kind = "IDENTIFIER"
	KindRestriction        Kind = "RESTRICTION"
	KindContact            Kind = "CONTACT"
	KindContactRestriction Kind = "CONTACT_RESTRICTION"
)

// Kinds returns every synchronised entity kind.
func Kinds() []Kind {
	return []Kind{
		KindPerson,
		KindAddress,
		KindPhone,
		KindEmail,
		KindEmployment,
		KindIdentifier,
		KindRestriction,
		KindContact,
		KindContactRestriction,
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// SequenceKeyed reports whether instances of this kind are identified by a
// (person, sequence) pair rather than a single NOMIS id. NOMIS models
// employments and identifiers as ordered lists per person.
func (k Kind) SequenceKeyed() bool {
	return k == KindEmployment || k == KindIdentifier
}

// PhoneOwner discriminates person-level phones from address-level phones.
// NOMIS ids for both live in the same sequence, so migrated phone mappings
// carry the owner tag.
type PhoneOwner string

// PhoneOwner values.
const (
	PhoneOwnerPerson  PhoneOwner = "PERSON"
	PhoneOwnerAddress PhoneOwner = "ADDRESS"
)

// DestinationID is an identifier assigned by the destination system. Some
// destination entity kinds use numeric ids and some use opaque strings, so the
// wire value is normalised to a string either way.
type DestinationID string

// UnmarshalJSON accepts both JSON numbers and JSON strings.
func (d *DestinationID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*d = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DestinationID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("destination id: %w", err)
	}
	*d = DestinationID(n.String())
	return nil
}

// Int64 returns the numeric value of the id, or 0 when the id is not numeric.
func (d DestinationID) Int64() int64 {
	n, err := strconv.ParseInt(string(d), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// String returns the string representation of the id.
func (d DestinationID) String() string {
	return string(d)
}
