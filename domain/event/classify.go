package event

import (
	"strings"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
)

// Structural event types.
const (
	TypePrisonerMerged  = "prisoner.merged"
	TypeBookingMoved    = "prisoner.booking.moved"
	TypeBookingReceived = "prisoner.received"
)

// Class is the coarse classification of an event type.
type Class int

// Class values.
const (
	ClassUnknown Class = iota
	ClassChange
	ClassMerge
	ClassBookingMoved
	ClassBookingReceived
)

var kindsByPrefix = map[string]contact.Kind{
	"PERSON":              contact.KindPerson,
	"ADDRESS":             contact.KindAddress,
	"PHONE":               contact.KindPhone,
	"EMAIL":               contact.KindEmail,
	"EMPLOYMENT":          contact.KindEmployment,
	"IDENTIFIER":          contact.KindIdentifier,
	"RESTRICTION":         contact.KindRestriction,
	"CONTACT":             contact.KindContact,
	"CONTACT_RESTRICTION": contact.KindContactRestriction,
}

var opsBySuffix = map[string]Op{
	"INSERTED": OpCreated,
	"UPDATED":  OpUpdated,
	"DELETED":  OpDeleted,
}

// Classify inspects an event type string and reports whether it is a
// per-entity change ("KIND-INSERTED|UPDATED|DELETED") or one of the
// structural event types. Unknown types return ClassUnknown and are dropped
// by the router.
func Classify(eventType string) Class {
	switch eventType {
	case TypePrisonerMerged:
		return ClassMerge
	case TypeBookingMoved:
		return ClassBookingMoved
	case TypeBookingReceived:
		return ClassBookingReceived
	}
	if _, _, ok := splitChange(eventType); ok {
		return ClassChange
	}
	return ClassUnknown
}

// Change builds the classified change for a per-entity event type, picking
// the kind-scoped entity id out of the envelope. ok is false when the event
// type is not a recognised change.
func (e Envelope) Change() (Change, bool) {
	kind, op, ok := splitChange(e.EventType)
	if !ok {
		return Change{}, false
	}

	c := Change{
		Kind:      kind,
		Op:        op,
		Origin:    e.Origin(),
		PersonID:  e.PersonID,
		AddressID: e.AddressID,
		ContactID: e.ContactID,
	}

	switch kind {
	case contact.KindPerson:
		c.EntityID = e.PersonID
	case contact.KindAddress:
		c.EntityID = e.AddressID
	case contact.KindPhone:
		c.EntityID = e.PhoneID
	case contact.KindEmail:
		c.EntityID = e.EmailID
	case contact.KindEmployment, contact.KindIdentifier:
		c.EntityID = e.PersonID
		c.Sequence = e.Sequence
	case contact.KindRestriction, contact.KindContactRestriction:
		c.EntityID = e.RestrictionID
	case contact.KindContact:
		c.EntityID = e.ContactID
	}

	return c, true
}

// Merge builds the structural merge event from the envelope.
func (e Envelope) Merge() Merge {
	return Merge{
		RetainedPrisoner: e.PrisonerNumber,
		RemovedPrisoner:  e.RemovedPrisonerNumber,
	}
}

// BookingReceived builds the structural booking-received event.
func (e Envelope) BookingReceived() BookingReceived {
	return BookingReceived{
		PrisonerNumber: e.PrisonerNumber,
		Reason:         e.Reason,
	}
}

// BookingMoved builds the structural booking-moved event.
func (e Envelope) BookingMoved() BookingMoved {
	return BookingMoved{
		FromPrisoner: e.FromPrisonerNumber,
		ToPrisoner:   e.ToPrisonerNumber,
		BookingID:    e.BookingID,
	}
}

func splitChange(eventType string) (contact.Kind, Op, bool) {
	idx := strings.LastIndex(eventType, "-")
	if idx <= 0 {
		return "", "", false
	}
	kind, ok := kindsByPrefix[eventType[:idx]]
	if !ok {
		return "", "", false
	}
	op, ok := opsBySuffix[eventType[idx+1:]]
	if !ok {
		return "", "", false
	}
	return kind, op, true
}
