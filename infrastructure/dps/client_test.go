package dps

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/httpclient"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(srv.URL, "test-token", 5*time.Second, logger)
}

func TestCreatePersonReturnsAssignedID(t *testing.T) {
	var gotPath, gotAuth string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 9100})
	}))

	id, err := c.CreatePerson(context.Background(), contact.Person{PersonID: 4100, FirstName: "JANE", LastName: "DOE"}, contact.Provenance{CreatedBy: "OMS_OWNER"})
	require.NoError(t, err)
	assert.Equal(t, contact.DestinationID("9100"), id)
	assert.Equal(t, "/sync/contact", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestCreateRejectsMissingID(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := c.CreatePerson(context.Background(), contact.Person{PersonID: 4100}, contact.Provenance{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id")
}

func TestCreateConflictPassesThrough(t *testing.T) {
	calls := 0
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"existingId": 9100}`))
	}))

	_, err := c.CreatePerson(context.Background(), contact.Person{PersonID: 4100}, contact.Provenance{})
	require.Error(t, err)
	assert.True(t, httpclient.IsConflict(err))
	assert.JSONEq(t, `{"existingId": 9100}`, string(httpclient.ConflictBody(err)))
	// Conflicts are terminal, never replayed.
	assert.Equal(t, 1, calls)
}

func TestPhoneRoutesByOwner(t *testing.T) {
	var paths []string
	var methods []string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		methods = append(methods, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "9200"})
	}))

	ctx := context.Background()
	_, err := c.CreatePhone(ctx, contact.PhoneOwnerPerson, "9100", contact.Phone{PhoneID: 501}, contact.Provenance{})
	require.NoError(t, err)
	_, err = c.CreatePhone(ctx, contact.PhoneOwnerAddress, "9150", contact.Phone{PhoneID: 502}, contact.Provenance{})
	require.NoError(t, err)
	require.NoError(t, c.DeletePhone(ctx, contact.PhoneOwnerAddress, "9200"))

	assert.Equal(t, []string{"/sync/contact-phone", "/sync/contact-address-phone", "/sync/contact-address-phone/9200"}, paths)
	assert.Equal(t, []string{http.MethodPost, http.MethodPost, http.MethodDelete}, methods)
}

func TestMigratePersonGraphDecodesTree(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/migrate/contact", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req migratePersonRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(4100), req.PersonID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"contactId":      9000,
			"phoneNumbers":   []map[string]any{{"nomisId": 501, "dpsId": 9201}},
			"emailAddresses": []map[string]any{{"nomisId": 601, "dpsId": 9301}},
		})
	}))

	res, err := c.MigratePersonGraph(context.Background(), contact.Person{PersonID: 4100, FirstName: "JANE", LastName: "DOE"})
	require.NoError(t, err)
	assert.Equal(t, contact.DestinationID("9000"), res.PersonID)
	require.Len(t, res.Phones, 1)
	assert.Equal(t, contact.DestinationID("9201"), res.Phones[0].DestinationID)
	require.Len(t, res.Emails, 1)
	assert.Equal(t, int64(601), res.Emails[0].NomisID)
}

func TestResetSendsRelationshipsAndDecodesDiff(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/replace/reset", r.URL.Path)

		var req resetRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "A1234BC", req.PrisonerNumber)
		require.Len(t, req.Relationships, 1)
		assert.Equal(t, int64(61), req.Relationships[0].ContactID)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"relationshipsCreated": []map[string]any{{"nomisContactId": 61, "dpsId": 9400}},
			"relationshipsRemoved": []map[string]any{{"prisonerNumber": "A1234BC", "contactIds": []any{9390}}},
		})
	}))

	rels := contact.RelationshipSet{
		PrisonerNumber: "A1234BC",
		Relationships:  []contact.PrisonerRelationship{{ContactID: 61, PersonID: 4100, RelationshipType: "S"}},
	}
	diff, err := c.Reset(context.Background(), "A1234BC", rels)
	require.NoError(t, err)
	require.Len(t, diff.Created, 1)
	assert.Equal(t, contact.DestinationID("9400"), diff.Created[0].DestinationID)
	require.Len(t, diff.Removed, 1)
	assert.Equal(t, []contact.DestinationID{"9390"}, diff.Removed[0].ContactIDs)
}

func TestNewDefaultsNilLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 9100})
	}))
	t.Cleanup(srv.Close)

	var c *Client
	require.NotPanics(t, func() {
		c = New(srv.URL, "test-token", 5*time.Second, nil)
	})

	id, err := c.CreatePerson(context.Background(), contact.Person{PersonID: 4100, FirstName: "JANE", LastName: "DOE"}, contact.Provenance{CreatedBy: "OMS_OWNER"})
	require.NoError(t, err)
	assert.Equal(t, contact.DestinationID("9100"), id)
}
