package mappingapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/mapping"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/httpclient"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	policy := httpclient.RetryPolicy{MaxRetries: 3, InitialDelay: time.Millisecond, BackoffFactor: 2.0}
	return NewClient(httpclient.New(server.URL, "test-token", 5*time.Second, logger), policy, logger)
}

func TestGetBySource(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mappings/PERSON/nomis-id/10", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(mappingDTO{
			EntityKind:  "PERSON",
			NomisID:     10,
			DpsID:       "900",
			MappingType: "NOMIS_CREATED",
		})
	}))

	m, found, err := client.GetBySource(context.Background(), mapping.PersonKey(10))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "900", m.DestinationID.String())
	assert.Equal(t, mapping.TypeNomisCreated, m.Type)
}

func TestGetBySource_SequenceKeyedPath(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mappings/EMPLOYMENT/nomis-person-id/10/sequence/2", r.URL.Path)
		_ = json.NewEncoder(w).Encode(mappingDTO{EntityKind: "EMPLOYMENT", NomisID: 10, Sequence: 2, DpsID: "940"})
	}))

	m, found, err := client.GetBySource(context.Background(), mapping.EmploymentKey(10, 2))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), m.Source.Sequence)
}

func TestGetBySource_NotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, found, err := client.GetBySource(context.Background(), mapping.PersonKey(10))
	require.NoError(t, err, "a missing mapping is not an error")
	assert.False(t, found)
}

func TestCreate_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))

	res, err := client.Create(context.Background(), mapping.Mapping{
		Source:        mapping.PersonKey(10),
		DestinationID: "900",
		Type:          mapping.TypeNomisCreated,
	})
	require.NoError(t, err)
	assert.True(t, res.Created())
	assert.Equal(t, int32(3), calls.Load())
}

func TestCreate_DecodesConflict(t *testing.T) {
	var calls atomic.Int32
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(conflictDTO{
			Existing:  mappingDTO{EntityKind: "PERSON", NomisID: 10, DpsID: "111"},
			Duplicate: mappingDTO{EntityKind: "PERSON", NomisID: 10, DpsID: "900"},
		})
	}))

	res, err := client.Create(context.Background(), mapping.Mapping{
		Source:        mapping.PersonKey(10),
		DestinationID: "900",
	})
	require.NoError(t, err, "a duplicate conflict is a value, not an error")
	require.NotNil(t, res.Conflict)
	assert.Equal(t, "111", res.Conflict.Existing.DestinationID.String())
	assert.Equal(t, "900", res.Conflict.Duplicate.DestinationID.String())
	assert.Equal(t, int32(1), calls.Load(), "conflicts are never retried")
}

func TestDeleteBySource_ToleratesAbsent(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	err := client.DeleteBySource(context.Background(), mapping.PersonKey(10))
	assert.NoError(t, err)
}

func TestCreateGraph_Conflict(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mappings/person-graph", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
	}))

	res, err := client.CreateGraph(context.Background(), mapping.Graph{
		Person: mapping.Mapping{Source: mapping.PersonKey(10), DestinationID: "900"},
	})
	require.NoError(t, err)
	assert.False(t, res.Created(), "an unstructured 409 still reports a duplicate")
}

func TestReplaceForOwner(t *testing.T) {
	var got replaceRequest
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/mappings/prisoner/A1234BC", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))

	err := client.ReplaceForOwner(context.Background(), "A1234BC",
		[]mapping.Mapping{{Source: mapping.ContactKey(60), DestinationID: "970", Type: mapping.TypeNomisCreated}},
		[]contact.DestinationID{"400", "401"},
	)
	require.NoError(t, err)
	require.Len(t, got.Add, 1)
	assert.Equal(t, "CONTACT", got.Add[0].EntityKind)
	assert.Equal(t, []string{"400", "401"}, got.RemoveDpsIDs)
}
