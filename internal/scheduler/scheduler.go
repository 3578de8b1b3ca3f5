package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// JobStatus is the last known state of a registered job
type JobStatus struct {
	Name      string     `json:"name"`
	Schedule  string     `json:"schedule"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger

	mu   sync.Mutex
	jobs []*jobEntry
}

type jobEntry struct {
	job      Job
	schedule string
	lastRun  time.Time
	lastErr  error
}

// New creates a new scheduler
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob registers a new job with cron schedule
// Schedule examples:
//   - "0 0 3 * * *"        - Daily at 03:00
//   - "@hourly"            - Every hour
//   - "@every 30s"         - Every 30 seconds
func (s *Scheduler) AddJob(schedule string, job Job) error {
	entry := &jobEntry{job: job, schedule: schedule}

	_, err := s.cron.AddFunc(schedule, func() {
		s.runEntry(entry)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.jobs = append(s.jobs, entry)
	s.mu.Unlock()

	s.log.Info().
		Str("schedule", schedule).
		Str("job", job.Name()).
		Msg("Job registered")

	return nil
}

// RunNow executes a job immediately (outside schedule)
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")

	s.mu.Lock()
	var entry *jobEntry
	for _, e := range s.jobs {
		if e.job == job {
			entry = e
			break
		}
	}
	s.mu.Unlock()

	if entry == nil {
		return job.Run()
	}
	s.runEntry(entry)

	s.mu.Lock()
	defer s.mu.Unlock()
	return entry.lastErr
}

// Jobs reports the status of every registered job
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]JobStatus, 0, len(s.jobs))
	for _, e := range s.jobs {
		st := JobStatus{
			Name:     e.job.Name(),
			Schedule: e.schedule,
		}
		if !e.lastRun.IsZero() {
			t := e.lastRun
			st.LastRun = &t
		}
		if e.lastErr != nil {
			st.LastError = e.lastErr.Error()
		}
		statuses = append(statuses, st)
	}
	return statuses
}

func (s *Scheduler) runEntry(entry *jobEntry) {
	s.log.Debug().Str("job", entry.job.Name()).Msg("Running job")

	err := entry.job.Run()

	s.mu.Lock()
	entry.lastRun = time.Now()
	entry.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.log.Error().
			Err(err).
			Str("job", entry.job.Name()).
			Msg("Job failed")
	} else {
		s.log.Debug().Str("job", entry.job.Name()).Msg("Job completed")
	}
}
