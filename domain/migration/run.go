// Package migration provides migration-run domain types and the history
// store interface.
package migration

import (
	"context"
	"time"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
)

// Status represents the lifecycle state of a migration run.
type Status string

// Status values.
const (
	StatusStarted   Status = "STARTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusFailed    Status = "FAILED"
)

// IsTerminal reports whether the status is final.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusFailed
}

// Run is one migration run: created when the run starts, mutated only by the
// migration driver, terminal once every paged source id has been attempted.
type Run struct {
	id              string
	filter          contact.MigrationFilter
	status          Status
	recordsMigrated int64
	recordsSkipped  int64
	recordsFailed   int64
	startedAt       time.Time
	completedAt     *time.Time
}

// NewRun creates a Run in the STARTED state.
func NewRun(id string, filter contact.MigrationFilter) Run {
	return Run{
		id:        id,
		filter:    filter,
		status:    StatusStarted,
		startedAt: time.Now().UTC(),
	}
}

// NewRunWithState reconstructs a Run from persisted state (used by the store).
func NewRunWithState(
	id string,
	filter contact.MigrationFilter,
	status Status,
	migrated, skipped, failed int64,
	startedAt time.Time,
	completedAt *time.Time,
) Run {
	return Run{
		id:              id,
		filter:          filter,
		status:          status,
		recordsMigrated: migrated,
		recordsSkipped:  skipped,
		recordsFailed:   failed,
		startedAt:       startedAt,
		completedAt:     completedAt,
	}
}

// ID returns the run identifier.
func (r Run) ID() string { return r.id }

// Filter returns the population filter the run was started with.
func (r Run) Filter() contact.MigrationFilter { return r.filter }

// Status returns the run status.
func (r Run) Status() Status { return r.status }

// RecordsMigrated returns the count of genuinely newly mapped persons.
func (r Run) RecordsMigrated() int64 { return r.recordsMigrated }

// RecordsSkipped returns the count of persons that already had a mapping,
// plus those that hit a migration-time duplicate.
func (r Run) RecordsSkipped() int64 { return r.recordsSkipped }

// RecordsFailed returns the count of persons whose migration failed.
func (r Run) RecordsFailed() int64 { return r.recordsFailed }

// StartedAt returns when the run started.
func (r Run) StartedAt() time.Time { return r.startedAt }

// CompletedAt returns when the run reached a terminal status, or nil.
func (r Run) CompletedAt() *time.Time { return r.completedAt }

// WithCounts returns a copy of the run with the given counters.
func (r Run) WithCounts(migrated, skipped, failed int64) Run {
	r.recordsMigrated = migrated
	r.recordsSkipped = skipped
	r.recordsFailed = failed
	return r
}

// WithStatus returns a copy of the run in the given status, stamping the
// completion time when the status is terminal.
func (r Run) WithStatus(status Status) Run {
	r.status = status
	if status.IsTerminal() && r.completedAt == nil {
		now := time.Now().UTC()
		r.completedAt = &now
	}
	return r
}

// Store persists migration-run history.
type Store interface {
	Save(ctx context.Context, run Run) error
	Get(ctx context.Context, id string) (Run, error)
	List(ctx context.Context) ([]Run, error)
}
