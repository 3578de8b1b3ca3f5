package fleet

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/domain"
)

// Repository persists fleet audit runs
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// StoredDevice is one audited device row
type StoredDevice struct {
	DeviceClass      string  `json:"device_class"`
	AgeYears         float64 `json:"age_years"`
	PersonaID        string  `json:"persona_id"`
	Geography        string  `json:"geography"`
	Recommendation   string  `json:"recommendation"`
	CompositeScore   float64 `json:"composite_score"`
	Urgency          string  `json:"urgency"`
	AnnualSavingsEUR float64 `json:"annual_savings_eur"`
	CO2SavingsKg     float64 `json:"co2_savings_kg"`
}

// StoredRun is a persisted audit with its summary and devices
type StoredRun struct {
	Run     domain.AuditRun `json:"run"`
	Summary Summary         `json:"summary"`
	Devices []StoredDevice  `json:"devices,omitempty"`
}

// NewRepository creates a fleet audit repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "fleet").Logger(),
	}
}

// SaveRun stores an audit run, its per-device rows and its summary in
// one transaction and returns the run ID
func (r *Repository) SaveRun(geography string, analyses []DeviceAnalysis, summary Summary) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO audit_runs (geography, device_count, created_at)
		VALUES (?, ?, ?)
	`, geography, len(analyses), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert audit run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO audit_devices (
			run_id, device_class, age_years, persona_id, geography,
			recommendation, composite_score, urgency, annual_savings, co2_savings
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare device insert: %w", err)
	}
	defer stmt.Close()

	for _, an := range analyses {
		_, err := stmt.Exec(
			runID,
			an.Device.Class,
			an.Device.AgeYears,
			an.Device.PersonaID,
			an.Device.Geography,
			string(an.Result.Recommendation),
			an.Result.CompositeScore,
			an.Result.Urgency,
			an.AnnualSavingsEUR,
			an.CO2SavingsKg,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert audit device: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO audit_summaries (
			run_id, keep_count, new_count, refurb_count, high_urgency_count,
			total_savings_eur, total_co2_savings_kg, mean_savings_eur, median_savings_eur
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		summary.KeepCount,
		summary.NewCount,
		summary.RefurbCount,
		summary.HighUrgencyCount,
		summary.TotalSavingsEUR,
		summary.TotalCO2SavingsKg,
		summary.MeanSavingsEUR,
		summary.MedianSavingsEUR,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert audit summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit audit run: %w", err)
	}

	r.log.Info().Int64("run_id", runID).Int("devices", len(analyses)).Msg("Audit run stored")
	return runID, nil
}

// ListRuns returns the most recent audit runs with their summaries,
// newest first
func (r *Repository) ListRuns(limit int) ([]StoredRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`
		SELECT r.id, r.geography, r.device_count, r.created_at,
		       s.keep_count, s.new_count, s.refurb_count, s.high_urgency_count,
		       s.total_savings_eur, s.total_co2_savings_kg, s.mean_savings_eur, s.median_savings_eur
		FROM audit_runs r
		JOIN audit_summaries s ON s.run_id = r.id
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit runs: %w", err)
	}
	defer rows.Close()

	var runs []StoredRun
	for rows.Next() {
		var sr StoredRun
		err := rows.Scan(
			&sr.Run.ID, &sr.Run.Geography, &sr.Run.DeviceCount, &sr.Run.CreatedAt,
			&sr.Summary.KeepCount, &sr.Summary.NewCount, &sr.Summary.RefurbCount,
			&sr.Summary.HighUrgencyCount, &sr.Summary.TotalSavingsEUR,
			&sr.Summary.TotalCO2SavingsKg, &sr.Summary.MeanSavingsEUR, &sr.Summary.MedianSavingsEUR,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit run: %w", err)
		}
		sr.Summary.TotalDevices = sr.Run.DeviceCount
		runs = append(runs, sr)
	}
	return runs, rows.Err()
}

// GetRun loads one audit run with its devices and summary
func (r *Repository) GetRun(runID int64) (*StoredRun, error) {
	var sr StoredRun
	err := r.db.QueryRow(`
		SELECT r.id, r.geography, r.device_count, r.created_at,
		       s.keep_count, s.new_count, s.refurb_count, s.high_urgency_count,
		       s.total_savings_eur, s.total_co2_savings_kg, s.mean_savings_eur, s.median_savings_eur
		FROM audit_runs r
		JOIN audit_summaries s ON s.run_id = r.id
		WHERE r.id = ?
	`, runID).Scan(
		&sr.Run.ID, &sr.Run.Geography, &sr.Run.DeviceCount, &sr.Run.CreatedAt,
		&sr.Summary.KeepCount, &sr.Summary.NewCount, &sr.Summary.RefurbCount,
		&sr.Summary.HighUrgencyCount, &sr.Summary.TotalSavingsEUR,
		&sr.Summary.TotalCO2SavingsKg, &sr.Summary.MeanSavingsEUR, &sr.Summary.MedianSavingsEUR,
	)
	if err == sql.ErrNoRows {
		return nil, domain.NewReferenceNotFound("audit_run", fmt.Sprintf("%d", runID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load audit run: %w", err)
	}
	sr.Summary.TotalDevices = sr.Run.DeviceCount

	rows, err := r.db.Query(`
		SELECT device_class, age_years, persona_id, geography,
		       recommendation, composite_score, urgency, annual_savings, co2_savings
		FROM audit_devices
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit devices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d StoredDevice
		err := rows.Scan(
			&d.DeviceClass, &d.AgeYears, &d.PersonaID, &d.Geography,
			&d.Recommendation, &d.CompositeScore, &d.Urgency,
			&d.AnnualSavingsEUR, &d.CO2SavingsKg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit device: %w", err)
		}
		sr.Devices = append(sr.Devices, d)
	}
	return &sr, rows.Err()
}

// LatestRunDevices returns the devices of the most recent audit run,
// reconstructed as domain devices for re-evaluation. Returns nil when
// no run exists yet.
func (r *Repository) LatestRunDevices() (int64, []domain.Device, error) {
	var runID int64
	err := r.db.QueryRow(`SELECT id FROM audit_runs ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&runID)
	if err == sql.ErrNoRows {
		return 0, nil, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("failed to find latest run: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT device_class, age_years, persona_id, geography
		FROM audit_devices
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query latest run devices: %w", err)
	}
	defer rows.Close()

	var devices []domain.Device
	for rows.Next() {
		var d domain.Device
		if err := rows.Scan(&d.Class, &d.AgeYears, &d.PersonaID, &d.Geography); err != nil {
			return 0, nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return runID, devices, rows.Err()
}
