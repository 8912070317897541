package persistence

import (
	"time"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/migration"
)

// RunModel is the database row for one migration run.
type RunModel struct {
	ID              string `gorm:"primaryKey"`
	FilterFrom      string
	FilterTo        string
	Status          string `gorm:"index"`
	RecordsMigrated int64
	RecordsSkipped  int64
	RecordsFailed   int64
	StartedAt       time.Time `gorm:"index"`
	CompletedAt     *time.Time
}

// TableName sets the table name for RunModel.
func (RunModel) TableName() string { return "migration_runs" }

// RunMapper maps between domain Run and persistence RunModel.
type RunMapper struct{}

// ToDomain converts a RunModel to a domain Run.
func (RunMapper) ToDomain(m RunModel) migration.Run {
	return migration.NewRunWithState(
		m.ID,
		contact.MigrationFilter{FromDate: m.FilterFrom, ToDate: m.FilterTo},
		migration.Status(m.Status),
		m.RecordsMigrated,
		m.RecordsSkipped,
		m.RecordsFailed,
		m.StartedAt,
		m.CompletedAt,
	)
}

// ToModel converts a domain Run to a RunModel.
func (RunMapper) ToModel(r migration.Run) RunModel {
	return RunModel{
		ID:              r.ID(),
		FilterFrom:      r.Filter().FromDate,
		FilterTo:        r.Filter().ToDate,
		Status:          string(r.Status()),
		RecordsMigrated: r.RecordsMigrated(),
		RecordsSkipped:  r.RecordsSkipped(),
		RecordsFailed:   r.RecordsFailed(),
		StartedAt:       r.StartedAt(),
		CompletedAt:     r.CompletedAt(),
	}
}
