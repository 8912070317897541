// Package persistence provides database storage implementations.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/migration"
	"github.com/ministryofjustice/hmpps-contacts-sync/internal/database"
)

// RunStore implements migration.Store using GORM.
type RunStore struct {
	db database.Database
}

// NewRunStore creates a RunStore and ensures the schema exists.
func NewRunStore(db database.Database) (RunStore, error) {
	if err := db.GORM().AutoMigrate(&RunModel{}); err != nil {
		return RunStore{}, fmt.Errorf("migrate migration_runs: %w", err)
	}
	return RunStore{db: db}, nil
}

// Save creates or updates a run row.
func (s RunStore) Save(ctx context.Context, run migration.Run) error {
	model := RunMapper{}.ToModel(run)
	if err := s.db.Session(ctx).Save(&model).Error; err != nil {
		return fmt.Errorf("save migration run: %w", err)
	}
	return nil
}

// Get returns the run with the given id, or database.ErrNotFound.
func (s RunStore) Get(ctx context.Context, id string) (migration.Run, error) {
	var model RunModel
	err := s.db.Session(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return migration.Run{}, database.ErrNotFound
	}
	if err != nil {
		return migration.Run{}, fmt.Errorf("get migration run: %w", err)
	}
	return RunMapper{}.ToDomain(model), nil
}

// List returns all runs, newest first.
func (s RunStore) List(ctx context.Context) ([]migration.Run, error) {
	var models []RunModel
	if err := s.db.Session(ctx).Order("started_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list migration runs: %w", err)
	}
	runs := make([]migration.Run, 0, len(models))
	for _, m := range models {
		runs = append(runs, RunMapper{}.ToDomain(m))
	}
	return runs, nil
}

var _ migration.Store = RunStore{}
