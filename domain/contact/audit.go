package contact

import "time"

// Audit is the technical audit record NOMIS attaches to every row. CreatedBy
// may be a batch or technical user rather than the staff member who actually
// entered the data.
type Audit struct {
	CreatedBy  string
	CreatedAt  time.Time
	ModifiedBy string
	ModifiedAt *time.Time
}

// Modified reports whether the row has ever been modified after creation.
func (a Audit) Modified() bool {
	return a.ModifiedAt != nil
}

// Provenance is the destination-facing view of who created and who last
// changed an entity. It is the output of ResolveProvenance and is what the
// destination system records as its own audit trail.
type Provenance struct {
	CreatedBy  string
	CreatedAt  time.Time
	ModifiedBy string
	ModifiedAt *time.Time
}

// UpdatedBy returns the actor to record on a destination update: the last
// modifier when one exists, otherwise the creator.
func (p Provenance) UpdatedBy() string {
	if p.ModifiedBy != "" {
		return p.ModifiedBy
	}
	return p.CreatedBy
}

// UpdatedAt returns the timestamp to record on a destination update.
func (p Provenance) UpdatedAt() time.Time {
	if p.ModifiedAt != nil {
		return *p.ModifiedAt
	}
	return p.CreatedAt
}

// ResolveProvenance applies the audit-preference rule for restriction-like
// kinds, where enteredBy is the username of the staff member who recorded the
// data and is the authoritative human actor even when the audit row is
// attributed to a batch user.
//
// Never modified: enteredBy becomes the destination creator (the technical
// audit user is only a fallback). Modified: the technical audit already
// supplies the creator correctly, and enteredBy becomes the modifier instead.
//
// Kinds without an entered-by actor pass enteredBy == "" and get the raw
// audit record back.
func ResolveProvenance(audit Audit, enteredBy string) Provenance {
	if audit.Modified() {
		modifiedBy := enteredBy
		if modifiedBy == "" {
			modifiedBy = audit.ModifiedBy
		}
		return Provenance{
			CreatedBy:  audit.CreatedBy,
			CreatedAt:  audit.CreatedAt,
			ModifiedBy: modifiedBy,
			ModifiedAt: audit.ModifiedAt,
		}
	}

	createdBy := enteredBy
	if createdBy == "" {
		createdBy = audit.CreatedBy
	}
	return Provenance{
		CreatedBy: createdBy,
		CreatedAt: audit.CreatedAt,
	}
}
