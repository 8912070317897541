// Package event models the inbound change notifications and structural
// events the engine reacts to. The delivery transport is at-least-once and
// unordered across unrelated owners, so everything here must be safe to
// process twice.
package event

import (
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
)

// Origin identifies the system whose write produced an event.
type Origin string

// Origin values.
const (
	OriginNomis Origin = "NOMIS"
	OriginDPS   Origin = "DPS"
)

// dpsAuditModule is the audit module name the destination system stamps on
// writes this engine caused downstream. Events carrying it are echoes and
// must not be re-synchronised.
const dpsAuditModule = "DPS_SYNCHRONISATION"

// Op is the change operation an event reports.
type Op string

// Op values.
const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

// Envelope is the decoded wire form of an inbound notification. Only the
// fields relevant to the named event type are populated.
type Envelope struct {
	EventType       string `json:"eventType"`
	AuditModuleName string `json:"auditModuleName,omitempty"`

	PersonID      int64 `json:"personId,omitempty"`
	AddressID     int64 `json:"addressId,omitempty"`
	PhoneID       int64 `json:"phoneId,omitempty"`
	EmailID       int64 `json:"emailId,omitempty"`
	Sequence      int64 `json:"sequence,omitempty"`
	RestrictionID int64 `json:"restrictionId,omitempty"`
	ContactID     int64 `json:"contactId,omitempty"`

	PrisonerNumber        string `json:"prisonerNumber,omitempty"`
	RemovedPrisonerNumber string `json:"removedPrisonerNumber,omitempty"`
	FromPrisonerNumber    string `json:"fromPrisonerNumber,omitempty"`
	ToPrisonerNumber      string `json:"toPrisonerNumber,omitempty"`
	BookingID             int64  `json:"bookingId,omitempty"`
	Reason                string `json:"reason,omitempty"`
}

// Origin returns the originating system for the event.
func (e Envelope) Origin() Origin {
	if e.AuditModuleName == dpsAuditModule {
		return OriginDPS
	}
	return OriginNomis
}

// Change is a classified per-entity change notification, ready for a
// synchronisation handler. EntityID is the kind-scoped NOMIS id; Sequence is
// set for sequence-keyed kinds; AddressID and ContactID carry the owning
// parent where the kind has one.
type Change struct {
	Kind      contact.Kind
	Op        Op
	Origin    Origin
	PersonID  int64
	EntityID  int64
	Sequence  int64
	AddressID int64
	ContactID int64
}

// Merge is a structural event reporting two prisoner records consolidated
// into one retained number.
type Merge struct {
	RetainedPrisoner string
	RemovedPrisoner  string
}

// BookingReceived is a structural event reporting a new admission or an
// in-place booking-term switch for one prisoner number.
type BookingReceived struct {
	PrisonerNumber string
	Reason         string
}

// BookingMoved is a structural event reporting a booking transferred from
// one prisoner number to another.
type BookingMoved struct {
	FromPrisoner string
	ToPrisoner   string
	BookingID    int64
}
