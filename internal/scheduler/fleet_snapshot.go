package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/elysia/ecocycle/internal/domain"
	"github.com/elysia/ecocycle/internal/events"
	"github.com/elysia/ecocycle/internal/modules/fleet"
)

// FleetSnapshotJob re-audits the most recently stored fleet on a
// schedule. Devices age and reference data can be reloaded, so a stored
// verdict drifts; the nightly re-run keeps the latest summary current.
type FleetSnapshotJob struct {
	analyzer *fleet.Analyzer
	repo     *fleet.Repository
	events   *events.Manager
	weights  domain.ScoringWeights
	timeout  time.Duration
	log      zerolog.Logger
}

// NewFleetSnapshotJob creates the nightly fleet snapshot job
func NewFleetSnapshotJob(
	analyzer *fleet.Analyzer,
	repo *fleet.Repository,
	ev *events.Manager,
	weights domain.ScoringWeights,
	log zerolog.Logger,
) *FleetSnapshotJob {
	return &FleetSnapshotJob{
		analyzer: analyzer,
		repo:     repo,
		events:   ev,
		weights:  weights,
		timeout:  10 * time.Minute,
		log:      log.With().Str("job", "fleet_snapshot").Logger(),
	}
}

// Name returns the job name
func (j *FleetSnapshotJob) Name() string {
	return "fleet_snapshot"
}

// Run re-evaluates the latest stored fleet and persists a fresh run
func (j *FleetSnapshotJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	runID, devices, err := j.repo.LatestRunDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		j.log.Debug().Msg("No stored fleet to snapshot")
		return nil
	}

	analyses, err := j.analyzer.Analyze(ctx, devices, j.weights)
	if err != nil {
		return err
	}
	summary := j.analyzer.Summarize(analyses)

	geography := devices[0].Geography
	newRunID, err := j.repo.SaveRun(geography, analyses, summary)
	if err != nil {
		return err
	}

	j.events.Emit(events.FleetSnapshotRefreshed, "scheduler", map[string]interface{}{
		"source_run_id": runID,
		"run_id":        newRunID,
		"device_count":  len(devices),
	})

	j.log.Info().
		Int64("source_run_id", runID).
		Int64("run_id", newRunID).
		Int("devices", len(devices)).
		Msg("Fleet snapshot refreshed")
	return nil
}
