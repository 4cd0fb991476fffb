// Package sched drives the periodic settlement work.
package sched

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner is a thin wrapper around robfig/cron that hands every job the
// base context and logs lifecycle. Jobs are not mutually excluded: a slow
// tick can overlap the next one, which is why every tick must be
// idempotent.
type Runner struct {
	cron    *cron.Cron
	log     *zap.Logger
	baseCtx context.Context
}

// NewRunner builds a Runner. Specs use the seconds-field cron syntax.
func NewRunner(log *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(cron.WithSeconds()),
		log:     log,
		baseCtx: baseCtx,
	}
}

// Add schedules a job.
func (r *Runner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		job(r.baseCtx)
	})
}

// Start begins running jobs in their own goroutines.
func (r *Runner) Start() {
	r.log.Info("cron started")
	r.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.log.Info("cron stopped")
}
