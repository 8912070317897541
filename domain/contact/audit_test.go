package contact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveProvenance_NeverModified_PrefersEnteredBy(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	audit := Audit{CreatedBy: "OMS_BATCH", CreatedAt: created}

	p := ResolveProvenance(audit, "JSMITH")

	assert.Equal(t, "JSMITH", p.CreatedBy)
	assert.Equal(t, created, p.CreatedAt)
	assert.Empty(t, p.ModifiedBy)
	assert.Nil(t, p.ModifiedAt)
}

func TestResolveProvenance_NeverModified_FallsBackToAuditUser(t *testing.T) {
	audit := Audit{CreatedBy: "OMS_BATCH", CreatedAt: time.Now().UTC()}

	p := ResolveProvenance(audit, "")

	assert.Equal(t, "OMS_BATCH", p.CreatedBy)
}

func TestResolveProvenance_Modified_EnteredByBecomesModifier(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	modified := created.Add(48 * time.Hour)
	audit := Audit{
		CreatedBy:  "OMS_BATCH",
		CreatedAt:  created,
		ModifiedBy: "OTHER_BATCH",
		ModifiedAt: &modified,
	}

	p := ResolveProvenance(audit, "JSMITH")

	assert.Equal(t, "OMS_BATCH", p.CreatedBy, "creator stays the technical audit user once modified")
	assert.Equal(t, "JSMITH", p.ModifiedBy)
	assert.Equal(t, &modified, p.ModifiedAt)
}

func TestResolveProvenance_Modified_FallsBackToAuditModifier(t *testing.T) {
	modified := time.Now().UTC()
	audit := Audit{
		CreatedBy:  "CREATOR",
		CreatedAt:  modified.Add(-time.Hour),
		ModifiedBy: "MODIFIER",
		ModifiedAt: &modified,
	}

	p := ResolveProvenance(audit, "")

	assert.Equal(t, "CREATOR", p.CreatedBy)
	assert.Equal(t, "MODIFIER", p.ModifiedBy)
}

func TestProvenance_UpdatedBy(t *testing.T) {
	modified := time.Now().UTC()

	p := Provenance{CreatedBy: "CREATOR", CreatedAt: modified.Add(-time.Hour)}
	assert.Equal(t, "CREATOR", p.UpdatedBy())
	assert.Equal(t, p.CreatedAt, p.UpdatedAt())

	p.ModifiedBy = "MODIFIER"
	p.ModifiedAt = &modified
	assert.Equal(t, "MODIFIER", p.UpdatedBy())
	assert.Equal(t, modified, p.UpdatedAt())
}
