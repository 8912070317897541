package sync

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/event"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/mapping"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/httpclient"
)

// The embedded interfaces make unimplemented methods panic, which is the
// desired failure mode: a test reaching an unexpected collaborator call
// should blow up loudly.

type fakeMappings struct {
	mapping.Client
	rows     map[string]mapping.Mapping
	conflict *mapping.Conflict
	created  []mapping.Mapping
	deleted  []string
	calls    []string
}

func newFakeMappings(existing ...mapping.Mapping) *fakeMappings {
	f := &fakeMappings{rows: make(map[string]mapping.Mapping)}
	for _, m := range existing {
		f.rows[m.Source.String()] = m
	}
	return f
}

func (f *fakeMappings) GetBySource(_ context.Context, key mapping.SourceKey) (mapping.Mapping, bool, error) {
	f.calls = append(f.calls, "get "+key.String())
	m, ok := f.rows[key.String()]
	return m, ok, nil
}

func (f *fakeMappings) Create(_ context.Context, m mapping.Mapping) (mapping.CreateResult, error) {
	f.calls = append(f.calls, "create "+m.Source.String())
	if f.conflict != nil {
		return mapping.CreateResult{Conflict: f.conflict}, nil
	}
	f.rows[m.Source.String()] = m
	f.created = append(f.created, m)
	return mapping.CreateResult{}, nil
}

func (f *fakeMappings) DeleteBySource(_ context.Context, key mapping.SourceKey) error {
	f.calls = append(f.calls, "delete "+key.String())
	delete(f.rows, key.String())
	f.deleted = append(f.deleted, key.String())
	return nil
}

type fakeSource struct {
	contact.Source
	person  contact.Person
	address contact.Address
}

func (f *fakeSource) GetPerson(_ context.Context, personID int64) (contact.Person, error) {
	return f.person, nil
}

func (f *fakeSource) GetAddress(_ context.Context, personID, addressID int64) (contact.Address, error) {
	return f.address, nil
}

type fakeDestination struct {
	contact.Destination
	createErr error
	calls     []string
	lastProv  contact.Provenance
	parentID  contact.DestinationID
}

func (f *fakeDestination) CreatePerson(_ context.Context, p contact.Person, prov contact.Provenance) (contact.DestinationID, error) {
	f.calls = append(f.calls, "create person")
	f.lastProv = prov
	if f.createErr != nil {
		return "", f.createErr
	}
	return "900", nil
}

func (f *fakeDestination) UpdatePerson(_ context.Context, id contact.DestinationID, p contact.Person, prov contact.Provenance) error {
	f.calls = append(f.calls, "update person "+id.String())
	return nil
}

func (f *fakeDestination) DeletePerson(_ context.Context, id contact.DestinationID) error {
	f.calls = append(f.calls, "delete person "+id.String())
	return f.createErr
}

func (f *fakeDestination) CreateAddress(_ context.Context, personID contact.DestinationID, a contact.Address, prov contact.Provenance) (contact.DestinationID, error) {
	f.calls = append(f.calls, "create address")
	f.parentID = personID
	return "901", nil
}

type fakeRecorder struct {
	names []string
	attrs []map[string]string
}

func (f *fakeRecorder) Event(_ context.Context, name string, attrs map[string]string) {
	f.names = append(f.names, name)
	f.attrs = append(f.attrs, attrs)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testPerson() contact.Person {
	return contact.Person{
		PersonID:  10,
		FirstName: "June",
		LastName:  "Bloggs",
		Audit:     contact.Audit{CreatedBy: "JSMITH", CreatedAt: time.Now().UTC()},
	}
}

func newTestRegistry(src *fakeSource, dest *fakeDestination, maps *fakeMappings, rec *fakeRecorder) *Registry {
	return NewRegistry(src, dest, maps, rec, testLogger())
}

func TestHandler_SkipsEchoEvents(t *testing.T) {
	maps := newFakeMappings()
	dest := &fakeDestination{}
	rec := &fakeRecorder{}
	registry := newTestRegistry(&fakeSource{}, dest, maps, rec)

	err := registry.Handler(contact.KindPerson).Handle(context.Background(), event.Change{
		Kind:     contact.KindPerson,
		Op:       event.OpCreated,
		Origin:   event.OriginDPS,
		EntityID: 10,
	})

	require.NoError(t, err)
	assert.Empty(t, maps.calls, "no mapping calls for an echo event")
	assert.Empty(t, dest.calls, "no destination calls for an echo event")
	assert.Equal(t, []string{eventSkippedEcho}, rec.names)
}

func TestHandler_Created(t *testing.T) {
	maps := newFakeMappings()
	dest := &fakeDestination{}
	rec := &fakeRecorder{}
	registry := newTestRegistry(&fakeSource{person: testPerson()}, dest, maps, rec)

	err := registry.Handler(contact.KindPerson).Handle(context.Background(), event.Change{
		Kind:     contact.KindPerson,
		Op:       event.OpCreated,
		Origin:   event.OriginNomis,
		PersonID: 10,
		EntityID: 10,
	})

	require.NoError(t, err)
	require.Len(t, maps.created, 1)
	assert.Equal(t, "PERSON:10", maps.created[0].Source.String())
	assert.Equal(t, contact.DestinationID("900"), maps.created[0].DestinationID)
	assert.Equal(t, mapping.TypeNomisCreated, maps.created[0].Type)
	assert.Equal(t, "JSMITH", dest.lastProv.CreatedBy)
	assert.Equal(t, []string{eventSynced}, rec.names)
}

func TestHandler_Created_IgnoredWhenAlreadyMapped(t *testing.T) {
	maps := newFakeMappings(mapping.Mapping{
		Source:        mapping.PersonKey(10),
		DestinationID: "900",
	})
	dest := &fakeDestination{}
	rec := &fakeRecorder{}
	registry := newTestRegistry(&fakeSource{}, dest, maps, rec)

	err := registry.Handler(contact.KindPerson).Handle(context.Background(), event.Change{
		Kind:     contact.KindPerson,
		Op:       event.OpCreated,
		Origin:   event.OriginNomis,
		PersonID: 10,
		EntityID: 10,
	})

	require.NoError(t, err)
	assert.Empty(t, dest.calls, "redelivered create must not touch the destination")
	assert.Equal(t, []string{eventIgnored}, rec.names)
}

func TestHandler_Created_DestinationConflictIsTerminal(t *testing.T) {
	maps := newFakeMappings()
	dest := &fakeDestination{createErr: &httpclient.StatusError{StatusCode: 409}}
	rec := &fakeRecorder{}
	registry := newTestRegistry(&fakeSource{person: testPerson()}, dest, maps, rec)

	err := registry.Handler(contact.KindPerson).Handle(context.Background(), event.Change{
		Kind:     contact.KindPerson,
		Op:       event.OpCreated,
		Origin:   event.OriginNomis,
		PersonID: 10,
		EntityID: 10,
	})

	require.NoError(t, err, "a destination duplicate is terminal success")
	assert.Empty(t, maps.created, "no mapping write after a destination conflict")
	assert.Equal(t, []string{eventDuplicateDestination}, rec.names)
}

func TestHandler_Created_MappingDuplicateIsTerminal(t *testing.T) {
	maps := newFakeMappings()
	maps.conflict = &mapping.Conflict{
		Existing:  mapping.Mapping{Source: mapping.PersonKey(10), DestinationID: "111"},
		Duplicate: mapping.Mapping{Source: mapping.PersonKey(10), DestinationID: "900"},
	}
	dest := &fakeDestination{}
	rec := &fakeRecorder{}
	registry := newTestRegistry(&fakeSource{person: testPerson()}, dest, maps, rec)

	err := registry.Handler(contact.KindPerson).Handle(context.Background(), event.Change{
		Kind:     contact.KindPerson,
		Op:       event.OpCreated,
		Origin:   event.OriginNomis,
		PersonID: 10,
		EntityID: 10,
	})

	require.NoError(t, err)
	require.Equal(t, []string{eventDuplicateMapping}, rec.names)
	assert.Equal(t, "111", rec.attrs[0]["existing_dps_id"])
	assert.Equal(t, "900", rec.attrs[0]["duplicate_dps_id"])
}

func TestHandler_Created_ParentMappingMissing(t *testing.T) {
	maps := newFakeMappings()
	dest := &fakeDestination{}
	registry := newTestRegistry(&fakeSource{}, dest, maps, &fakeRecorder{})

	err := registry.Handler(contact.KindAddress).Handle(context.Background(), event.Change{
		Kind:     contact.KindAddress,
		Op:       event.OpCreated,
		Origin:   event.OriginNomis,
		PersonID: 10,
		EntityID: 20,
	})

	require.ErrorIs(t, err, ErrParentMappingMissing)
	assert.Empty(t, dest.calls, "the destination is untouched until the parent resolves")
}

func TestHandler_Created_ChildUsesParentDestinationID(t *testing.T) {
	maps := newFakeMappings(mapping.Mapping{
		Source:        mapping.PersonKey(10),
		DestinationID: "900",
	})
	dest := &fakeDestination{}
	registry := newTestRegistry(&fakeSource{address: contact.Address{AddressID: 20}}, dest, maps, &fakeRecorder{})

	err := registry.Handler(contact.KindAddress).Handle(context.Background(), event.Change{
		Kind:     contact.KindAddress,
		Op:       event.OpCreated,
		Origin:   event.OriginNomis,
		PersonID: 10,
		EntityID: 20,
	})

	require.NoError(t, err)
	assert.Equal(t, contact.DestinationID("900"), dest.parentID)
}

func TestHandler_Updated_MissingMappingIsAnomaly(t *testing.T) {
	maps := newFakeMappings()
	dest := &fakeDestination{}
	registry := newTestRegistry(&fakeSource{person: testPerson()}, dest, maps, &fakeRecorder{})

	err := registry.Handler(contact.KindPerson).Handle(context.Background(), event.Change{
		Kind:     contact.KindPerson,
		Op:       event.OpUpdated,
		Origin:   event.OriginNomis,
		PersonID: 10,
		EntityID: 10,
	})

	require.ErrorIs(t, err, ErrMappingMissing)
	assert.Empty(t, dest.calls)
}

func TestHandler_Updated(t *testing.T) {
	maps := newFakeMappings(mapping.Mapping{
		Source:        mapping.PersonKey(10),
		DestinationID: "900",
	})
	dest := &fakeDestination{}
	rec := &fakeRecorder{}
	registry := newTestRegistry(&fakeSource{person: testPerson()}, dest, maps, rec)

	err := registry.Handler(contact.KindPerson).Handle(context.Background(), event.Change{
		Kind:     contact.KindPerson,
		Op:       event.OpUpdated,
		Origin:   event.OriginNomis,
		PersonID: 10,
		EntityID: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"update person 900"}, dest.calls)
	assert.Equal(t, []string{eventSynced}, rec.names)
}

func TestHandler_Deleted_IgnoredWhenUnmapped(t *testing.T) {
	maps := newFakeMappings()
	dest := &fakeDestination{}
	rec := &fakeRecorder{}
	registry := newTestRegistry(&fakeSource{}, dest, maps, rec)

	err := registry.Handler(contact.KindPerson).Handle(context.Background(), event.Change{
		Kind:     contact.KindPerson,
		Op:       event.OpDeleted,
		Origin:   event.OriginNomis,
		PersonID: 10,
		EntityID: 10,
	})

	require.NoError(t, err)
	assert.Empty(t, dest.calls)
	assert.Equal(t, []string{eventIgnored}, rec.names)
}

func TestHandler_Deleted_DestinationBeforeMapping(t *testing.T) {
	maps := newFakeMappings(mapping.Mapping{
		Source:        mapping.PersonKey(10),
		DestinationID: "900",
	})
	dest := &fakeDestination{}
	registry := newTestRegistry(&fakeSource{}, dest, maps, &fakeRecorder{})

	err := registry.Handler(contact.KindPerson).Handle(context.Background(), event.Change{
		Kind:     contact.KindPerson,
		Op:       event.OpDeleted,
		Origin:   event.OriginNomis,
		PersonID: 10,
		EntityID: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"delete person 900"}, dest.calls)
	assert.Equal(t, []string{"PERSON:10"}, maps.deleted)
}

func TestHandler_Deleted_ToleratesDestination404(t *testing.T) {
	maps := newFakeMappings(mapping.Mapping{
		Source:        mapping.PersonKey(10),
		DestinationID: "900",
	})
	dest := &fakeDestination{createErr: &httpclient.StatusError{StatusCode: 404}}
	registry := newTestRegistry(&fakeSource{}, dest, maps, &fakeRecorder{})

	err := registry.Handler(contact.KindPerson).Handle(context.Background(), event.Change{
		Kind:     contact.KindPerson,
		Op:       event.OpDeleted,
		Origin:   event.OriginNomis,
		PersonID: 10,
		EntityID: 10,
	})

	require.NoError(t, err, "a destination 404 means a previous attempt already deleted it")
	assert.Equal(t, []string{"PERSON:10"}, maps.deleted, "the mapping delete still runs")
}
