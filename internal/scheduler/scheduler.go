// Package scheduler drives the daily lifecycle with cron. Jobs fire in
// exchange-local time; the cron runner is single-threaded so the
// pre-open, open and post-close hooks never overlap.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/muchen/fenglin/pkg/logger"
)

// Scheduler manages scheduled jobs
// SSOT: 调度管理只在这里
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	jobs    map[string]Job
	names   []string // registration order
	history map[string]*JobHistory
	mu      sync.RWMutex

	maxRetries int
	retryDelay time.Duration
}

// New creates a scheduler firing in the given location. Sequential job
// execution is enforced so a slow pre-open delays the open pass rather
// than racing it.
func New(log *logger.Logger, loc *time.Location) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithChain(cron.DelayIfStillRunning(cron.DiscardLogger)),
		),
		logger:     log,
		jobs:       make(map[string]Job),
		history:    make(map[string]*JobHistory),
		maxRetries: 3,
		retryDelay: 1 * time.Minute,
	}
}

// SetRetry overrides the retry policy. Lifecycle jobs are idempotent
// at the order level, so retrying a failed pass is safe.
func (s *Scheduler) SetRetry(maxRetries int, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxRetries = maxRetries
	s.retryDelay = delay
}

// AddJob registers a job under its cron schedule
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobName := job.Name()
	if _, exists := s.jobs[jobName]; exists {
		return fmt.Errorf("job %s already exists", jobName)
	}

	_, err := s.cron.AddFunc(job.Schedule(), func() {
		s.runJob(job)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", jobName, err)
	}

	s.jobs[jobName] = job
	s.names = append(s.names, jobName)
	s.history[jobName] = &JobHistory{}

	s.logger.WithFields(map[string]interface{}{
		"job":      jobName,
		"schedule": job.Schedule(),
	}).Info("Job added to scheduler")

	return nil
}

// Start starts the cron loop
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop stops the cron loop and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped")
}

// RunJob runs a registered job immediately, outside its schedule
func (s *Scheduler) RunJob(jobName string) error {
	s.mu.RLock()
	job, exists := s.jobs[jobName]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %s not found", jobName)
	}

	s.runJob(job)
	return nil
}

// runJob executes a job with retry
func (s *Scheduler) runJob(job Job) {
	jobName := job.Name()
	startTime := time.Now()

	s.mu.RLock()
	maxRetries, retryDelay := s.maxRetries, s.retryDelay
	s.mu.RUnlock()

	s.logger.WithField("job", jobName).Info("Job started")

	var lastErr error
	var success bool

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := job.Run(context.Background())
		if err == nil {
			success = true
			break
		}

		lastErr = err
		s.logger.WithFields(map[string]interface{}{
			"job":     jobName,
			"attempt": attempt + 1,
			"error":   err.Error(),
		}).Warn("Job execution failed")

		if attempt < maxRetries {
			time.Sleep(retryDelay)
		}
	}

	endTime := time.Now()
	result := JobResult{
		JobName:   jobName,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime),
		Success:   success,
	}
	if !success && lastErr != nil {
		result.Error = lastErr.Error()
	}

	s.mu.Lock()
	if history, exists := s.history[jobName]; exists {
		history.AddResult(result)
	}
	s.mu.Unlock()

	if success {
		s.logger.WithFields(map[string]interface{}{
			"job":      jobName,
			"duration": result.Duration,
		}).Info("Job completed")
	} else {
		s.logger.WithFields(map[string]interface{}{
			"job":      jobName,
			"duration": result.Duration,
			"error":    lastErr.Error(),
		}).Error("Job failed after all retries")
	}
}

// JobNames returns registered job names in registration order
func (s *Scheduler) JobNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...)
}

// JobStats is the per-job execution summary
type JobStats struct {
	JobName      string     `json:"job_name"`
	Schedule     string     `json:"schedule"`
	TotalRuns    int        `json:"total_runs"`
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	SuccessRate  float64    `json:"success_rate"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
}

// Stats returns execution statistics for all jobs
func (s *Scheduler) Stats() map[string]JobStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]JobStats, len(s.history))
	for jobName, history := range s.history {
		failures := history.FailureCount()
		st := JobStats{
			JobName:      jobName,
			Schedule:     s.jobs[jobName].Schedule(),
			TotalRuns:    len(history.Results),
			SuccessCount: len(history.Results) - failures,
			FailureCount: failures,
			SuccessRate:  history.SuccessRate(),
		}
		if latest := history.Latest(); latest != nil {
			st.LastRun = &latest.StartTime
			st.LastError = latest.Error
		}
		stats[jobName] = st
	}
	return stats
}
