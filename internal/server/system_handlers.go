package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/database"
	"github.com/elysia/ecocycle/internal/scheduler"
)

// SystemHandlers handles monitoring and operations endpoints
type SystemHandlers struct {
	log       zerolog.Logger
	db        *database.DB
	scheduler *scheduler.Scheduler

	// Set after job registration in main.go
	snapshotJob scheduler.Job
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, db *database.DB, sched *scheduler.Scheduler) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("component", "system_handlers").Logger(),
		db:        db,
		scheduler: sched,
	}
}

// SetSnapshotJob registers the snapshot job for manual triggering
func (h *SystemHandlers) SetSnapshotJob(job scheduler.Job) {
	h.snapshotJob = job
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status        string `json:"status"`
	AuditRunCount int    `json:"audit_run_count"`
	LastAudit     string `json:"last_audit,omitempty"`
	Goroutines    int    `json:"goroutines"`
	AllocMB       uint64 `json:"alloc_mb"`
}

// HandleSystemStatus returns process and audit-history status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var runCount int
	var lastAudit sql.NullString
	err := h.db.Conn().QueryRow(`
		SELECT COUNT(*), MAX(created_at) FROM audit_runs
	`).Scan(&runCount, &lastAudit)
	if err != nil && err != sql.ErrNoRows {
		h.log.Error().Err(err).Msg("Failed to query audit runs")
	}

	response := SystemStatusResponse{
		Status:        "running",
		AuditRunCount: runCount,
		Goroutines:    runtime.NumGoroutine(),
		AllocMB:       m.Alloc / 1024 / 1024,
	}
	if lastAudit.Valid {
		if t, err := time.Parse(time.RFC3339, lastAudit.String); err == nil {
			response.LastAudit = t.Format("2006-01-02 15:04")
		} else {
			response.LastAudit = lastAudit.String
		}
	}

	h.writeJSON(w, response)
}

// HandleJobsStatus returns scheduler job status
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	jobs := h.scheduler.Jobs()
	h.writeJSON(w, map[string]interface{}{
		"total_jobs": len(jobs),
		"jobs":       jobs,
	})
}

// HandleTriggerSnapshot triggers the fleet snapshot job immediately
// POST /api/system/jobs/fleet-snapshot
func (h *SystemHandlers) HandleTriggerSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.snapshotJob == nil {
		h.writeJSON(w, map[string]string{
			"status":  "error",
			"message": "Fleet snapshot job not registered",
		})
		return
	}

	h.log.Info().Msg("Manual fleet snapshot triggered")

	if err := h.scheduler.RunNow(h.snapshotJob); err != nil {
		h.log.Error().Err(err).Msg("Failed to run fleet snapshot")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]string{
		"status":  "success",
		"message": "Fleet snapshot completed",
	})
}

// DatabaseStatsResponse represents database statistics
type DatabaseStatsResponse struct {
	Path        string  `json:"path"`
	SizeMB      float64 `json:"size_mb"`
	AuditRuns   int     `json:"audit_runs"`
	DeviceRows  int     `json:"device_rows"`
	LastChecked string  `json:"last_checked"`
}

// HandleDatabaseStats returns audit database statistics
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	response := DatabaseStatsResponse{
		Path:        h.db.Path(),
		LastChecked: time.Now().Format(time.RFC3339),
	}

	if info, err := os.Stat(h.db.Path()); err == nil {
		response.SizeMB = float64(info.Size()) / 1024 / 1024
	}

	if err := h.db.Conn().QueryRow(`SELECT COUNT(*) FROM audit_runs`).Scan(&response.AuditRuns); err != nil {
		h.log.Error().Err(err).Msg("Failed to count audit runs")
	}
	if err := h.db.Conn().QueryRow(`SELECT COUNT(*) FROM audit_devices`).Scan(&response.DeviceRows); err != nil {
		h.log.Error().Err(err).Msg("Failed to count audit devices")
	}

	h.writeJSON(w, response)
}

// writeJSON writes a JSON response
func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
