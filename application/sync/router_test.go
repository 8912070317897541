package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/event"
)

type fakeReconciler struct {
	merges   []event.Merge
	received []event.BookingReceived
	moved    []event.BookingMoved
}

func (f *fakeReconciler) Merge(_ context.Context, m event.Merge) error {
	f.merges = append(f.merges, m)
	return nil
}

func (f *fakeReconciler) BookingReceived(_ context.Context, b event.BookingReceived) error {
	f.received = append(f.received, b)
	return nil
}

func (f *fakeReconciler) BookingMoved(_ context.Context, b event.BookingMoved) error {
	f.moved = append(f.moved, b)
	return nil
}

func TestRouter_DispatchesChangeToKindHandler(t *testing.T) {
	maps := newFakeMappings()
	dest := &fakeDestination{}
	registry := newTestRegistry(&fakeSource{person: testPerson()}, dest, maps, &fakeRecorder{})
	router := NewRouter(registry, &fakeReconciler{}, testLogger())

	err := router.Dispatch(context.Background(), event.Envelope{
		EventType: "PERSON-INSERTED",
		PersonID:  10,
	})

	require.NoError(t, err)
	assert.Len(t, maps.created, 1)
}

func TestRouter_DispatchesStructuralEvents(t *testing.T) {
	rec := &fakeReconciler{}
	registry := newTestRegistry(&fakeSource{}, &fakeDestination{}, newFakeMappings(), &fakeRecorder{})
	router := NewRouter(registry, rec, testLogger())

	require.NoError(t, router.Dispatch(context.Background(), event.Envelope{
		EventType:             "prisoner.merged",
		PrisonerNumber:        "A1234BC",
		RemovedPrisonerNumber: "B2345CD",
	}))
	require.NoError(t, router.Dispatch(context.Background(), event.Envelope{
		EventType:      "prisoner.received",
		PrisonerNumber: "A1234BC",
	}))
	require.NoError(t, router.Dispatch(context.Background(), event.Envelope{
		EventType:          "prisoner.booking.moved",
		FromPrisonerNumber: "A1234BC",
		ToPrisonerNumber:   "B2345CD",
	}))

	assert.Len(t, rec.merges, 1)
	assert.Len(t, rec.received, 1)
	assert.Len(t, rec.moved, 1)
}

func TestRouter_DropsUnknownEventTypes(t *testing.T) {
	registry := newTestRegistry(&fakeSource{}, &fakeDestination{}, newFakeMappings(), &fakeRecorder{})
	router := NewRouter(registry, &fakeReconciler{}, testLogger())

	err := router.Dispatch(context.Background(), event.Envelope{EventType: "WIDGET-EXPLODED"})

	assert.NoError(t, err, "unknown event types are dropped so the transport acks them")
}
