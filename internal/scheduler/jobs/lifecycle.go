// Package jobs adapts the strategy lifecycle hooks to scheduler jobs.
package jobs

import (
	"context"
	"time"

	"github.com/muchen/fenglin/internal/contracts"
	"github.com/muchen/fenglin/internal/scheduler"
	"github.com/muchen/fenglin/internal/strategyconfig"
)

// lifecycleJob binds one lifecycle hook to a cron schedule. The
// trading day handed to the hook is the fire time in exchange-local
// time, truncated to midnight.
type lifecycleJob struct {
	name     string
	schedule string
	loc      *time.Location
	run      func(ctx context.Context, day time.Time) error
}

func (j *lifecycleJob) Name() string     { return j.name }
func (j *lifecycleJob) Schedule() string { return j.schedule }

func (j *lifecycleJob) Run(ctx context.Context) error {
	now := time.Now().In(j.loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, j.loc)
	return j.run(ctx, day)
}

// PreOpen builds the universe-refresh job
func PreOpen(l contracts.Lifecycle, schedule string, loc *time.Location) scheduler.Job {
	return &lifecycleJob{name: "pre_open", schedule: schedule, loc: loc, run: l.PreOpen}
}

// Open builds the rebalance-pass job
func Open(l contracts.Lifecycle, schedule string, loc *time.Location) scheduler.Job {
	return &lifecycleJob{name: "open", schedule: schedule, loc: loc, run: l.Open}
}

// PostClose builds the fill-report job
func PostClose(l contracts.Lifecycle, schedule string, loc *time.Location) scheduler.Job {
	return &lifecycleJob{name: "post_close", schedule: schedule, loc: loc, run: l.PostClose}
}

// RegisterLifecycle adds the three daily jobs in lifecycle order
func RegisterLifecycle(s *scheduler.Scheduler, l contracts.Lifecycle, sched strategyconfig.Schedule, loc *time.Location) error {
	for _, job := range []scheduler.Job{
		PreOpen(l, sched.PreOpen, loc),
		Open(l, sched.Open, loc),
		PostClose(l, sched.PostClose, loc),
	} {
		if err := s.AddJob(job); err != nil {
			return err
		}
	}
	return nil
}
