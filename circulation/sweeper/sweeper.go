// Package sweeper runs the engine sweeps on cron schedules.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/engine"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// ErrInvalidSchedule is returned by New for a cron spec that does not parse.
var ErrInvalidSchedule = errors.New("invalid sweep schedule")

// Runner runs one named sweep. *engine.Engine implements it.
type Runner interface {
	RunSweep(ctx context.Context, name string) (engine.SweepReport, error)
}

// Schedule maps sweep names to cron specs. An empty spec disables the sweep.
type Schedule map[string]string

// DefaultSchedule returns the production schedule.
func DefaultSchedule() Schedule {
	return Schedule{
		engine.SweepExpiredHolds: "*/15 * * * *",
		engine.SweepPromotions:   "0 * * * *",
		engine.SweepOverdue:      "30 2 * * *",
		engine.SweepReminders:    "*/5 * * * *",
	}
}

// Sweeper owns the cron scheduler. A sweep still running when its next tick fires is skipped.
type Sweeper struct {
	cron    *cron.Cron
	runner  Runner
	logger  shell.ContextualLogger
	timeout time.Duration
}

// New registers one cron job per scheduled sweep. The scheduler is not started.
func New(runner Runner, schedule Schedule, logger shell.ContextualLogger, timeout time.Duration) (*Sweeper, error) {
	adapter := cronLogger{logger: logger}

	s := &Sweeper{
		cron:    cron.New(cron.WithChain(cron.Recover(adapter), cron.SkipIfStillRunning(adapter)), cron.WithLogger(adapter)),
		runner:  runner,
		logger:  logger,
		timeout: timeout,
	}

	for name, spec := range schedule {
		if spec == "" {
			continue
		}

		if _, err := s.cron.AddFunc(spec, s.job(name)); err != nil {
			return nil, errors.Join(ErrInvalidSchedule, fmt.Errorf("sweep %s: %w", name, err))
		}
	}

	return s, nil
}

// Jobs returns the number of scheduled sweeps.
func (s *Sweeper) Jobs() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Sweeper) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running sweeps until ctx is done.
func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sweeper) job(name string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		ctx = shell.WithCorrelationID(ctx, uuid.NewString())

		if _, err := s.runner.RunSweep(ctx, name); err != nil {
			s.logger.ErrorContext(ctx, "scheduled sweep failed", "sweep", name, "error", err.Error())
		}
	}
}

// cronLogger adapts a ContextualLogger to cron.Logger.
type cronLogger struct {
	logger shell.ContextualLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.DebugContext(context.Background(), "cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.ErrorContext(context.Background(), "cron: "+msg, append(keysAndValues, "error", err.Error())...)
}
