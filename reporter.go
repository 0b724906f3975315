package harness

import (
	"context"
	"errors"
)

// Reporter consumes the outcome of a test run. It is a single capability
// interface covering both delivery modes: a completion-only sink ignores
// the incremental calls, a realtime sink acts on each one.
//
// The Runner calls OnStart before the first case, OnTestResult after each
// case, and OnComplete exactly once at the end (also on a best-effort
// basis when a harness fault aborts the run, with whatever partial report
// was accumulated). Errors returned from OnTestResult and OnComplete are
// logged by the Runner, never propagated to the test run.
type Reporter interface {
	// OnStart is called once, after the start delay and before case 1.
	OnStart(ctx context.Context)

	// OnTestResult is called with each result as soon as it is recorded.
	OnTestResult(ctx context.Context, result Result) error

	// OnComplete is called exactly once with the finished report.
	OnComplete(ctx context.Context, report *Report) error
}

// ReporterFunc adapts a plain completion callback to the Reporter
// interface. The incremental calls are no-ops.
type ReporterFunc func(report *Report)

// OnStart implements Reporter as a no-op.
func (f ReporterFunc) OnStart(context.Context) {}

// OnTestResult implements Reporter as a no-op.
func (f ReporterFunc) OnTestResult(context.Context, Result) error { return nil }

// OnComplete implements Reporter by calling the function.
func (f ReporterFunc) OnComplete(_ context.Context, report *Report) error {
	f(report)
	return nil
}

// LogReporter writes run progress and the final summary to a Logger.
type LogReporter struct {
	logger Logger
}

// NewLogReporter creates a reporter that logs each result and the final
// summary through the given logger.
func NewLogReporter(logger Logger) *LogReporter {
	if logger == nil {
		logger = noopLogger{}
	}
	return &LogReporter{logger: logger}
}

// OnStart implements Reporter.
func (l *LogReporter) OnStart(context.Context) {
	l.logger.Info("Test run started")
}

// OnTestResult implements Reporter.
func (l *LogReporter) OnTestResult(_ context.Context, result Result) error {
	switch result.Status {
	case StatusPassed, StatusSkipped:
		l.logger.Info("Test case finished",
			"description", result.Description, "status", result.Status,
			"durationMs", result.DurationMs)
	default:
		l.logger.Error("Test case finished",
			"description", result.Description, "status", result.Status,
			"error", result.Error, "durationMs", result.DurationMs)
	}
	return nil
}

// OnComplete implements Reporter.
func (l *LogReporter) OnComplete(_ context.Context, report *Report) error {
	l.logger.Info("Test run completed", "runId", report.RunID, "summary", report.Summary())
	return nil
}

// MultiReporter fans out every call to a list of reporters. Errors from
// individual reporters are collected and returned joined, but one
// reporter's failure never stops delivery to the others.
type MultiReporter []Reporter

// OnStart implements Reporter.
func (m MultiReporter) OnStart(ctx context.Context) {
	for _, reporter := range m {
		reporter.OnStart(ctx)
	}
}

// OnTestResult implements Reporter.
func (m MultiReporter) OnTestResult(ctx context.Context, result Result) error {
	var errs []error
	for _, reporter := range m {
		if err := reporter.OnTestResult(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OnComplete implements Reporter.
func (m MultiReporter) OnComplete(ctx context.Context, report *Report) error {
	var errs []error
	for _, reporter := range m {
		if err := reporter.OnComplete(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
