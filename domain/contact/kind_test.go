package contact

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestinationID_UnmarshalJSON(t *testing.T) {
	var v struct {
		ID DestinationID `json:"id"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"id": 12345}`), &v))
	assert.Equal(t, DestinationID("12345"), v.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id": "a0e1"}`), &v))
	assert.Equal(t, DestinationID("a0e1"), v.ID)
}

func TestDestinationID_Int64(t *testing.T) {
	n, err := DestinationID("42").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = DestinationID("a0e1").Int64()
	assert.Error(t, err)
}

func TestKind_SequenceKeyed(t *testing.T) {
	assert.True(t, KindEmployment.SequenceKeyed())
	assert.True(t, KindIdentifier.SequenceKeyed())
	assert.False(t, KindPerson.SequenceKeyed())
	assert.False(t, KindContactRestriction.SequenceKeyed())
}
