package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// expiredCompleter is the reservation housekeeping the scheduler runs
type expiredCompleter interface {
	CompleteExpired(ctx context.Context) (int, error)
}

// JobResult describes one run of the reservation job
type JobResult struct {
	Completed  int       `json:"completed"`
	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`
	Error      string    `json:"error,omitempty"`
	Successful bool      `json:"successful"`
}

// CronService manages scheduled background jobs
type CronService struct {
	cron         *cron.Cron
	reservations expiredCompleter
	schedule     string
	logger       *logrus.Logger

	mu   sync.Mutex // one run at a time, scheduled or manual
	last *JobResult
}

// NewCronService creates a new CronService. schedule uses the six-field
// cron format with seconds.
func NewCronService(reservations expiredCompleter, schedule string, location *time.Location, logger *logrus.Logger) *CronService {
	if location == nil {
		location = time.UTC
	}
	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	return &CronService{
		cron:         c,
		reservations: reservations,
		schedule:     schedule,
		logger:       logger,
	}
}

// Start schedules the jobs and starts the scheduler
func (s *CronService) Start() error {
	// second minute hour day month weekday
	_, err := s.cron.AddFunc(s.schedule, s.completeReservationsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule reservation job: %w", err)
	}

	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

func (s *CronService) completeReservationsJob() {
	s.RunNow(context.Background())
}

// RunNow completes expired reservations and resyncs room status immediately
func (s *CronService) RunNow(ctx context.Context) JobResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := JobResult{StartedAt: time.Now()}
	completed, err := s.reservations.CompleteExpired(ctx)
	result.Completed = completed
	result.DurationMS = time.Since(result.StartedAt).Milliseconds()

	entry := s.logger.WithFields(logrus.Fields{
		"job":       "complete_reservations",
		"completed": completed,
		"duration":  time.Since(result.StartedAt).String(),
	})
	if err != nil {
		result.Error = err.Error()
		entry.WithError(err).Error("Reservation job failed")
	} else {
		result.Successful = true
		entry.Info("Reservation job finished")
	}

	s.last = &result
	return result
}

// Status reports the scheduled entries and the last run
func (s *CronService) Status() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	s.mu.Lock()
	last := s.last
	s.mu.Unlock()

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
		"last_run":  last,
	}
}
