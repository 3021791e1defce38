// Package scheduler drives the daily sweeps from cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"shiksha-loan-backend/internal/infrastructure/logger"
)

// Job is a named entry point the scheduler calls.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context)
}

type Scheduler struct {
	c   *cron.Cron
	ctx context.Context
}

// New builds a scheduler on loc (nil means UTC). Jobs see ctx's values but
// not its cancellation: a run in progress finishes and Stop waits for it.
func New(ctx context.Context, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{c: cron.New(cron.WithLocation(loc)), ctx: context.WithoutCancel(ctx)}
}

// Add registers a job. A run that is still going when the next tick fires is
// skipped rather than stacked.
func (s *Scheduler) Add(j Job) error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		s.invoke(j)
	}))
	if _, err := s.c.AddJob(j.Spec, wrapped); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", j.Name, j.Spec, err)
	}
	return nil
}

func (s *Scheduler) invoke(j Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(s.ctx, "scheduled job panicked", zap.String("job", j.Name), zap.Any("panic", r))
		}
	}()
	start := time.Now()
	logger.Info(s.ctx, "scheduled job start", zap.String("job", j.Name))
	j.Run(s.ctx)
	logger.Info(s.ctx, "scheduled job done", zap.String("job", j.Name), zap.Duration("took", time.Since(start)))
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop stops the clock and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}

func (s *Scheduler) Entries() int { return len(s.c.Entries()) }
