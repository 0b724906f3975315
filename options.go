package harness

import (
	"fmt"
	"time"
)

// Default timing bounds for a Runner.
const (
	// DefaultWaitTime bounds both element lookup and case execution.
	DefaultWaitTime = 2 * time.Second
	// DefaultStartDelay is the initial suspend before the first case.
	DefaultStartDelay = 0
)

// Option configures a Runner during construction.
type Option func(*Runner) error

// WithLogger sets the logger used by the Runner and every component it
// constructs. The default discards all output.
func WithLogger(logger Logger) Option {
	return func(r *Runner) error {
		if logger == nil {
			return fmt.Errorf("applying WithLogger: logger is nil")
		}
		r.logger = logger
		return nil
	}
}

// WithHost sets the host-tree collaborator asked for a re-render/state
// reset before each case. The default is NoopHost.
func WithHost(host Host) Option {
	return func(r *Runner) error {
		if host == nil {
			return fmt.Errorf("applying WithHost: %w", ErrHostNil)
		}
		r.host = host
		return nil
	}
}

// WithReporter sets the reporter sink. The default transmits finished
// reports to the companion collector at DefaultCollectorURL.
func WithReporter(reporter Reporter) Option {
	return func(r *Runner) error {
		if reporter == nil {
			return fmt.Errorf("applying WithReporter: %w", ErrReporterNil)
		}
		r.reporter = reporter
		return nil
	}
}

// WithReporterFunc sets a plain completion callback as the reporter sink.
func WithReporterFunc(f func(report *Report)) Option {
	return func(r *Runner) error {
		if f == nil {
			return fmt.Errorf("applying WithReporterFunc: %w", ErrReporterNil)
		}
		r.reporter = ReporterFunc(f)
		return nil
	}
}

// WithWaitTime sets the bound used for element lookup and case execution.
// A case body that does not settle within this bound is recorded as timed
// out and abandoned; it is never forcibly cancelled, so a lingering body
// may still run while later cases execute.
func WithWaitTime(d time.Duration) Option {
	return func(r *Runner) error {
		if d <= 0 {
			return fmt.Errorf("applying WithWaitTime: %w: %s", ErrInvalidWaitTime, d)
		}
		r.waitTime = d
		return nil
	}
}

// WithStartDelay sets an initial suspend before the first case, giving the
// host UI time to settle after its initial mount.
func WithStartDelay(d time.Duration) Option {
	return func(r *Runner) error {
		if d < 0 {
			return fmt.Errorf("applying WithStartDelay: %w: %s", ErrInvalidStartDelay, d)
		}
		r.startDelay = d
		return nil
	}
}

// WithPollInterval sets the delay between registry polls during element
// lookup. The default is DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) error {
		if d <= 0 {
			return fmt.Errorf("applying WithPollInterval: %w: %s", ErrInvalidPollInterval, d)
		}
		r.pollInterval = d
		return nil
	}
}

// WithOnly restricts execution to cases whose description contains one of
// the given filters. Non-matching cases are reported as skipped, not
// omitted, so totals still reflect every declared case.
func WithOnly(filters ...string) Option {
	return func(r *Runner) error {
		r.only = append(r.only, filters...)
		return nil
	}
}

// WithPersistentStore sets the host's persistence mechanism. The store is
// only touched when clearing is also enabled via WithClearPersistentStore.
func WithPersistentStore(store PersistentStore) Option {
	return func(r *Runner) error {
		if store == nil {
			return fmt.Errorf("applying WithPersistentStore: %w", ErrStoreNil)
		}
		r.store = store
		return nil
	}
}

// WithClearPersistentStore enables clearing the persistent store before
// each case. Clear failures are logged warnings, never fatal.
func WithClearPersistentStore() Option {
	return func(r *Runner) error {
		r.clearStore = true
		return nil
	}
}
