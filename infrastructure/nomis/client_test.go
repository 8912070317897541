package nomis

import (
	"context"
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
	return NewClient(httpclient.New(srv.URL, "test-token", 5*time.Second, logger), logger)
}

func TestGetPersonDecodesFullGraph(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/persons/4100", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"personId": 4100,
			"firstName": "JANE",
			"lastName": "DOE",
			"audit": {"createUsername": "OMS_OWNER", "createDatetime": "2024-03-01T09:00:00Z"},
			"addresses": [{
				"addressId": 88,
				"street": "1 High Street",
				"phoneNumbers": [{"phoneId": 501, "type": "HOME", "number": "0114 000000",
					"audit": {"createUsername": "OMS_OWNER", "createDatetime": "2024-03-01T09:00:00Z"}}],
				"audit": {"createUsername": "OMS_OWNER", "createDatetime": "2024-03-01T09:00:00Z"}
			}],
			"restrictions": [{
				"restrictionId": 71, "type": "BAN",
				"effectiveDate": "2024-03-01T00:00:00Z",
				"enteredStaffUsername": "JSMITH_GEN",
				"audit": {"createUsername": "OMS_OWNER", "createDatetime": "2024-03-01T09:00:00Z"}
			}],
			"contacts": [{
				"contactId": 61, "personId": 4100, "prisonerNumber": "A1234BC",
				"relationshipType": "S", "active": true,
				"audit": {"createUsername": "OMS_OWNER", "createDatetime": "2024-03-01T09:00:00Z"}
			}]
		}`))
	}))

	p, err := c.GetPerson(context.Background(), 4100)
	require.NoError(t, err)
	assert.Equal(t, int64(4100), p.PersonID)
	assert.Equal(t, "JANE", p.FirstName)
	require.Len(t, p.Addresses, 1)
	require.Len(t, p.Addresses[0].Phones, 1)
	assert.Equal(t, int64(501), p.Addresses[0].Phones[0].PhoneID)
	require.Len(t, p.Restrictions, 1)
	assert.Equal(t, "JSMITH_GEN", p.Restrictions[0].EnteredBy)
	require.Len(t, p.Contacts, 1)
	assert.Equal(t, "A1234BC", p.Contacts[0].PrisonerNumber)
	assert.Equal(t, "OMS_OWNER", p.Audit.CreatedBy)
}

func TestGetPersonNotFound(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.GetPerson(context.Background(), 9999)
	require.Error(t, err)
	assert.True(t, httpclient.IsNotFound(err))
}

func TestSequenceKeyedPaths(t *testing.T) {
	var paths []string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sequence": 2, "audit": {"createUsername": "OMS_OWNER", "createDatetime": "2024-03-01T09:00:00Z"}}`))
	}))

	ctx := context.Background()
	emp, err := c.GetEmployment(ctx, 4100, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), emp.Sequence)

	_, err = c.GetIdentifier(ctx, 4100, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"/persons/4100/employment/2", "/persons/4100/identifier/2"}, paths)
}

func TestGetPersonIDsPaging(t *testing.T) {
	var query string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/persons/ids", r.URL.Path)
		query = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"personIds": [4100, 4101], "page": 1, "totalPages": 3, "totalElements": 250}`))
	}))

	filter := contact.MigrationFilter{FromDate: "2024-01-01", ToDate: "2024-06-30"}
	page, err := c.GetPersonIDs(context.Background(), filter, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, []int64{4100, 4101}, page.IDs)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "fromDate=2024-01-01&page=1&size=100&toDate=2024-06-30", query)
}

func TestGetPrisonerStatusEscapesNumber(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/prisoners/A1234BC/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"prisonerNumber": "A1234BC", "active": true, "location": "MDI"}`))
	}))

	status, err := c.GetPrisonerStatus(context.Background(), "A1234BC")
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.Equal(t, "MDI", status.Location)
}
