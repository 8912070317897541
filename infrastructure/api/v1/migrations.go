// Package v1 provides the v1 control API routes.
package v1

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appmigration "github.com/ministryofjustice/hmpps-contacts-sync/application/migration"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/migration"
)

// MigrationsRouter handles migration-run endpoints.
type MigrationsRouter struct {
	driver *appmigration.Driver
	logger *slog.Logger
}

// NewMigrationsRouter creates a new MigrationsRouter.
func NewMigrationsRouter(driver *appmigration.Driver, logger *slog.Logger) *MigrationsRouter {
	return &MigrationsRouter{driver: driver, logger: logger}
}

// Routes returns the chi router for migration endpoints.
func (r *MigrationsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Start)
	router.Get("/{id}", r.Get)
	router.Post("/{id}/cancel", r.Cancel)

	return router
}

type startRequest struct {
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
}

type runResponse struct {
	ID              string     `json:"id"`
	FromDate        string     `json:"fromDate,omitempty"`
	ToDate          string     `json:"toDate,omitempty"`
	Status          string     `json:"status"`
	RecordsMigrated int64      `json:"recordsMigrated"`
	RecordsSkipped  int64      `json:"recordsSkipped"`
	RecordsFailed   int64      `json:"recordsFailed"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

func runToDTO(run migration.Run) runResponse {
	return runResponse{
		ID:              run.ID(),
		FromDate:        run.Filter().FromDate,
		ToDate:          run.Filter().ToDate,
		Status:          string(run.Status()),
		RecordsMigrated: run.RecordsMigrated(),
		RecordsSkipped:  run.RecordsSkipped(),
		RecordsFailed:   run.RecordsFailed(),
		StartedAt:       run.StartedAt(),
		CompletedAt:     run.CompletedAt(),
	}
}

// Start handles POST /api/v1/migrations.
func (r *MigrationsRouter) Start(w http.ResponseWriter, req *http.Request) {
	var body startRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	run, err := r.driver.Start(req.Context(), contact.MigrationFilter{
		FromDate: body.FromDate,
		ToDate:   body.ToDate,
	})
	if err != nil {
		r.logger.Error("start migration failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not start migration")
		return
	}

	writeJSON(w, http.StatusAccepted, runToDTO(run))
}

// Get handles GET /api/v1/migrations/{id}.
func (r *MigrationsRouter) Get(w http.ResponseWriter, req *http.Request) {
	run, err := r.driver.Get(req.Context(), chi.URLParam(req, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "migration run not found")
		return
	}
	writeJSON(w, http.StatusOK, runToDTO(run))
}

// List handles GET /api/v1/migrations.
func (r *MigrationsRouter) List(w http.ResponseWriter, req *http.Request) {
	runs, err := r.driver.List(req.Context())
	if err != nil {
		r.logger.Error("list migrations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list migrations")
		return
	}

	out := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, runToDTO(run))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

// Cancel handles POST /api/v1/migrations/{id}/cancel.
func (r *MigrationsRouter) Cancel(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")
	if err := r.driver.Cancel(req.Context(), id); err != nil {
		if errors.Is(err, appmigration.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, "migration run not found")
			return
		}
		r.logger.Error("cancel migration failed", "run_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not cancel migration")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
