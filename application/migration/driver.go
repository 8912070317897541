// Package migration drives bulk initial loads: paging the source population,
// migrating each person graph in one destination call, and recording the
// resulting id tree with the mapping service.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/mapping"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/migration"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/httpclient"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/telemetry"
	"github.com/ministryofjustice/hmpps-contacts-sync/internal/database"
)

// Telemetry event names.
const (
	eventMigrated  = "migration_person_migrated"
	eventSkipped   = "migration_person_skipped"
	eventDuplicate = "migration_person_duplicate"
	eventFailed    = "migration_person_failed"
	eventRunFailed = "migration_run_failed"
)

// ErrRunNotFound reports an unknown run id.
var ErrRunNotFound = errors.New("migration run not found")

// Driver starts, cancels and reports on migration runs. One Driver serves the
// whole process; concurrent runs are allowed but unusual.
type Driver struct {
	source      contact.Source
	destination contact.Destination
	mappings    mapping.Client
	store       migration.Store
	recorder    telemetry.Recorder
	logger      *slog.Logger

	workers   int
	pageSize  int
	pageRetry httpclient.RetryPolicy

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// NewDriver creates a Driver with the given worker and page bounds.
func NewDriver(
	source contact.Source,
	destination contact.Destination,
	mappings mapping.Client,
	store migration.Store,
	recorder telemetry.Recorder,
	logger *slog.Logger,
	workers, pageSize int,
) *Driver {
	if workers < 1 {
		workers = 1
	}
	if pageSize < 1 {
		pageSize = 100
	}
	return &Driver{
		source:      source,
		destination: destination,
		mappings:    mappings,
		store:       store,
		recorder:    recorder,
		logger:      logger.With(slog.String("component", "migration")),
		workers:     workers,
		pageSize:    pageSize,
		pageRetry:   httpclient.DefaultRetryPolicy(),
		cancels:     make(map[string]context.CancelFunc),
	}
}

// Start creates a run and processes it in the background. The returned run is
// in the STARTED state.
func (d *Driver) Start(ctx context.Context, filter contact.MigrationFilter) (migration.Run, error) {
	run := migration.NewRun(uuid.NewString(), filter)
	if err := d.store.Save(ctx, run); err != nil {
		return migration.Run{}, fmt.Errorf("start migration: %w", err)
	}

	// The run outlives the starting request: it gets its own cancellation
	// scope, severed from the request context.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	d.mu.Lock()
	d.cancels[run.ID()] = cancel
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			d.mu.Lock()
			delete(d.cancels, run.ID())
			d.mu.Unlock()
			cancel()
		}()
		d.process(runCtx, run)
	}()

	d.logger.InfoContext(ctx, "migration started",
		slog.String("run_id", run.ID()),
		slog.String("from", filter.FromDate),
		slog.String("to", filter.ToDate))
	return run, nil
}

// Cancel stops dispatch of new items for a run. In-flight items finish and
// are counted; the run lands in the CANCELLED state.
func (d *Driver) Cancel(ctx context.Context, id string) error {
	d.mu.Lock()
	cancel, ok := d.cancels[id]
	d.mu.Unlock()
	if !ok {
		// Not in flight: either unknown or already terminal.
		run, err := d.Get(ctx, id)
		if err != nil {
			return err
		}
		if run.Status().IsTerminal() {
			return nil
		}
		// Persisted as STARTED but no goroutine owns it: an orphan left by
		// an earlier process. Cancelling it just records the terminal state.
		run = run.WithStatus(migration.StatusCancelled)
		if err := d.store.Save(ctx, run); err != nil {
			return fmt.Errorf("cancel run %s: %w", id, err)
		}
		d.logger.InfoContext(ctx, "orphaned run cancelled", slog.String("run_id", id))
		return nil
	}
	cancel()
	return nil
}

// Get returns one run's persisted state.
func (d *Driver) Get(ctx context.Context, id string) (migration.Run, error) {
	run, err := d.store.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return migration.Run{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return migration.Run{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// List returns the run history, newest first.
func (d *Driver) List(ctx context.Context) ([]migration.Run, error) {
	return d.store.List(ctx)
}

// Shutdown cancels dispatch for every in-flight run and waits for them to
// persist a terminal state.
func (d *Driver) Shutdown() {
	d.mu.Lock()
	for _, cancel := range d.cancels {
		cancel()
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Driver) process(ctx context.Context, run migration.Run) {
	var migrated, skipped, failed atomic.Int64

	// Workers keep a cancellation-proof context so an in-flight person
	// finishes both the destination and mapping writes after a cancel.
	itemCtx := context.WithoutCancel(ctx)

	cancelled := false
	abandoned := false
	for page := 0; !cancelled; page++ {
		var ids contact.IDPage
		err := httpclient.Retry(ctx, d.pageRetry, func() error {
			var err error
			ids, err = d.source.GetPersonIDs(ctx, run.Filter(), page, d.pageSize)
			return err
		})
		if err != nil {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			// The population was not fully attempted; the run must not read
			// as COMPLETED.
			d.logger.ErrorContext(ctx, "page fetch failed, run failed",
				slog.String("run_id", run.ID()),
				slog.Int("page", page),
				slog.Any("error", err))
			d.recorder.Event(ctx, eventRunFailed, map[string]string{
				"run_id": run.ID(),
				"page":   strconv.Itoa(page),
			})
			abandoned = true
			break
		}

		g, gctx := errgroup.WithContext(itemCtx)
		g.SetLimit(d.workers)
		for _, personID := range ids.IDs {
			if ctx.Err() != nil {
				cancelled = true
				break
			}
			personID := personID
			g.Go(func() error {
				d.migrateOne(gctx, run.ID(), personID, &migrated, &skipped, &failed)
				return nil
			})
		}
		_ = g.Wait()

		run = run.WithCounts(migrated.Load(), skipped.Load(), failed.Load())
		if err := d.store.Save(itemCtx, run); err != nil {
			d.logger.ErrorContext(ctx, "progress save failed",
				slog.String("run_id", run.ID()), slog.Any("error", err))
		}

		if cancelled || ctx.Err() != nil {
			cancelled = true
			break
		}
		if page+1 >= ids.TotalPages {
			break
		}
	}

	status := migration.StatusCompleted
	switch {
	case cancelled:
		status = migration.StatusCancelled
	case abandoned:
		status = migration.StatusFailed
	}
	run = run.WithCounts(migrated.Load(), skipped.Load(), failed.Load()).WithStatus(status)
	if err := d.store.Save(itemCtx, run); err != nil {
		d.logger.ErrorContext(ctx, "final save failed",
			slog.String("run_id", run.ID()), slog.Any("error", err))
	}

	d.logger.InfoContext(ctx, "migration finished",
		slog.String("run_id", run.ID()),
		slog.String("status", string(status)),
		slog.Int64("migrated", migrated.Load()),
		slog.Int64("skipped", skipped.Load()),
		slog.Int64("failed", failed.Load()))
}

// migrateOne attempts a single person. Only genuinely newly mapped persons
// count as migrated; already-mapped and duplicate outcomes count as skipped.
func (d *Driver) migrateOne(ctx context.Context, runID string, personID int64, migrated, skipped, failed *atomic.Int64) {
	attrs := map[string]string{
		"run_id":    runID,
		"person_id": strconv.FormatInt(personID, 10),
	}

	if _, found, err := d.mappings.GetBySource(ctx, mapping.PersonKey(personID)); err != nil {
		d.fail(ctx, personID, err, failed, attrs)
		return
	} else if found {
		skipped.Add(1)
		d.recorder.Event(ctx, eventSkipped, attrs)
		return
	}

	person, err := d.source.GetPerson(ctx, personID)
	if err != nil {
		d.fail(ctx, personID, err, failed, attrs)
		return
	}

	result, err := d.destination.MigratePersonGraph(ctx, person)
	if err != nil {
		d.fail(ctx, personID, err, failed, attrs)
		return
	}

	graph := BuildGraph(runID, person, result)
	res, err := d.mappings.CreateGraph(ctx, graph)
	if err != nil {
		d.fail(ctx, personID, err, failed, attrs)
		return
	}
	if !res.Created() {
		// Another writer mapped this person between the guard and now.
		skipped.Add(1)
		attrs["existing_dps_id"] = res.Conflict.Existing.DestinationID.String()
		d.recorder.Event(ctx, eventDuplicate, attrs)
		return
	}

	migrated.Add(1)
	attrs["dps_id"] = result.PersonID.String()
	attrs["mappings"] = strconv.Itoa(graph.Count())
	d.recorder.Event(ctx, eventMigrated, attrs)
}

func (d *Driver) fail(ctx context.Context, personID int64, err error, failed *atomic.Int64, attrs map[string]string) {
	failed.Add(1)
	d.recorder.Event(ctx, eventFailed, attrs)
	d.logger.ErrorContext(ctx, "person migration failed",
		slog.Int64("person_id", personID),
		slog.Any("error", err))
}
