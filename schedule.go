package harness

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
)

// ScheduledRunner executes a Runner's suite on a recurring cron schedule.
// It suits long-lived applications that keep the harness mounted and want
// their interaction flows re-verified periodically (for example a kiosk
// or dashboard process re-running its smoke suite every hour).
//
// Runs triggered by overlapping schedules are serialized by the Runner
// itself: a trigger that fires while a run is still in progress is
// skipped with a warning rather than queued.
type ScheduledRunner struct {
	runner *Runner
	logger Logger
	cron   *cron.Cron

	mu      sync.Mutex
	entries map[string]cron.EntryID
	started bool
}

// NewScheduledRunner wraps a runner for scheduled execution.
func NewScheduledRunner(runner *Runner, logger Logger) *ScheduledRunner {
	if logger == nil {
		logger = noopLogger{}
	}
	return &ScheduledRunner{
		runner:  runner,
		logger:  logger,
		cron:    cron.New(),
		entries: make(map[string]cron.EntryID),
	}
}

// Schedule registers a recurring run using a standard cron expression
// (including @every and the other predefined descriptors). The expression
// is validated before registration.
func (s *ScheduledRunner) Schedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, exists := s.entries[spec]; exists {
		s.cron.Remove(entryID)
	}
	entryID, err := s.cron.AddFunc(spec, func() { s.trigger(spec) })
	if err != nil {
		return fmt.Errorf("registering cron schedule %q: %w", spec, err)
	}
	s.entries[spec] = entryID
	s.logger.Info("Scheduled recurring test run", "schedule", spec)
	return nil
}

// Start begins firing scheduled runs.
func (s *ScheduledRunner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.cron.Start()
	s.started = true
}

// Stop ceases scheduling and waits for an in-flight triggered run to
// finish, or for ctx to expire.
func (s *ScheduledRunner) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for scheduled run to finish: %w", ctx.Err())
	}
}

func (s *ScheduledRunner) trigger(spec string) {
	ctx := context.Background()
	s.runner.emit(ctx, EventTypeScheduleTriggered, map[string]any{"schedule": spec})

	report, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, ErrRunInProgress):
		s.logger.Warn("Skipping scheduled run, previous run still in progress", "schedule", spec)
	case err != nil:
		s.logger.Error("Scheduled test run failed", "schedule", spec, "error", err)
	default:
		s.logger.Info("Scheduled test run finished", "schedule", spec, "summary", report.Summary())
	}
}
