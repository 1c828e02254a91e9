package scheduler

import (
	"context"
	"time"
)

// historyCap bounds the per-job result history
const historyCap = 100

// Job is a unit of scheduled work
// SSOT: 定时任务接口只在这里定义
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron expression, seconds field included
	// Example: "0 30 9 * * 1-5" (weekdays at 09:30:00)
	Schedule() string
}

// JobResult is the outcome of one execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory keeps the most recent results of one job
type JobHistory struct {
	Results []JobResult
}

// AddResult appends a result, dropping the oldest past the cap
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > historyCap {
		h.Results = h.Results[len(h.Results)-historyCap:]
	}
}

// Latest returns the most recent result, or nil when never run
func (h *JobHistory) Latest() *JobResult {
	if len(h.Results) == 0 {
		return nil
	}
	return &h.Results[len(h.Results)-1]
}

// SuccessRate returns the fraction of successful runs (0.0 - 1.0)
func (h *JobHistory) SuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}

	successCount := 0
	for _, result := range h.Results {
		if result.Success {
			successCount++
		}
	}
	return float64(successCount) / float64(len(h.Results))
}

// FailureCount returns the number of failed runs
func (h *JobHistory) FailureCount() int {
	failed := 0
	for _, result := range h.Results {
		if !result.Success {
			failed++
		}
	}
	return failed
}
