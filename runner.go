// Package harness is an in-process integration-test harness for live UI
// trees. Applications register their interactive elements with an
// ElementRegistry as they mount and unmount; specification functions
// declare named test cases against a Scope; a Runner executes every case
// strictly in sequence against the running UI and hands the structured
// pass/fail report to a Reporter sink.
//
// Basic usage:
//
//	registry := harness.NewElementRegistry(logger)
//	// hand registry to the host tree's mount/unmount hooks, then:
//	runner, err := harness.New(registry,
//		harness.WithLogger(logger),
//		harness.WithHost(host),
//	)
//	runner.AddSpec(func(s *harness.Scope) error {
//		return s.Describe("submits the login form", func(ctx context.Context) error {
//			if err := s.FillIn(ctx, "login-email", "a@b.c"); err != nil {
//				return err
//			}
//			return s.Press(ctx, "submit-button")
//		})
//	})
//	report, err := runner.Run(ctx)
package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Runner executes every declared test case strictly in sequence against a
// live UI tree and produces exactly one Report per run.
//
// UI elements are a shared, globally-mutable resource, so cases never run
// concurrently with each other: specs execute in registration order, cases
// within a spec in declaration order, and the report preserves that same
// global order regardless of individual durations.
//
// Each case body is raced against the configured wait time. A body that
// does not settle in time is recorded as timed out and abandoned: the
// harness stops waiting on it but does not cancel its asynchronous work.
// A still-running abandoned body may therefore interact with the UI while
// later cases execute; keep case bodies well within the wait time to
// avoid that crosstalk.
type Runner struct {
	registry     *ElementRegistry
	host         Host
	store        PersistentStore
	clearStore   bool
	reporter     Reporter
	logger       Logger
	waitTime     time.Duration
	startDelay   time.Duration
	pollInterval time.Duration
	only         []string
	specs        []Spec
	observers    observerSet

	mu      sync.Mutex
	running bool
}

// New creates a Runner bound to the given element registry. Options
// configure timing bounds, the reporter sink, the host collaborator, and
// the persistent store; unset options keep their documented defaults. The
// default reporter transmits finished reports to the companion collector
// at DefaultCollectorURL.
func New(registry *ElementRegistry, opts ...Option) (*Runner, error) {
	if registry == nil {
		return nil, ErrRegistryNil
	}

	r := &Runner{
		registry:     registry,
		host:         NoopHost{},
		logger:       noopLogger{},
		waitTime:     DefaultWaitTime,
		startDelay:   DefaultStartDelay,
		pollInterval: DefaultPollInterval,
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("failed to apply runner option: %w", err)
		}
	}

	if r.clearStore && r.store == nil {
		return nil, fmt.Errorf("store clearing enabled: %w", ErrStoreNil)
	}
	if r.reporter == nil {
		r.reporter = NewCollectorReporter("", r.logger)
	}
	return r, nil
}

// Registry returns the element registry this runner looks elements up in.
func (r *Runner) Registry() *ElementRegistry {
	return r.registry
}

// AddSpec registers a specification function. Specs are invoked in the
// order they were added, each with a fresh Scope, at the start of every
// run. Safe to call concurrently with Run: a run already collecting its
// plan is unaffected, the new spec joins the next run.
func (r *Runner) AddSpec(spec Spec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs = append(r.specs, spec)
}

// RegisterObserver adds an observer for harness lifecycle events,
// optionally filtered to the given event types. An empty filter receives
// all events.
func (r *Runner) RegisterObserver(observer Observer, eventTypes ...string) error {
	return r.observers.register(observer, eventTypes...)
}

// UnregisterObserver removes a previously registered observer. It is
// idempotent.
func (r *Runner) UnregisterObserver(observer Observer) {
	r.observers.unregister(observer)
}

// plannedCase is one flattened test case tagged with its origin.
type plannedCase struct {
	description string
	body        CaseFunc
	suiteIndex  int
	caseIndex   int
}

// Run executes all declared test cases and returns the finished report.
//
// The run proceeds as follows: suspend for the start delay; invoke every
// spec with a fresh Scope to collect cases; then, for each case in order,
// request a host re-render (and persistent-store clear when enabled) and
// race the body against the wait time. Cases excluded by the only-filter
// are reported as skipped. The report is handed to the reporter sink
// exactly once at the end.
//
// A failing or timing-out case never aborts the run. Only a harness fault
// (spec registration failing, the host rejecting a re-render, or context
// cancellation) does, and even then delivery of the partial report is
// attempted before the fault is returned.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrRunInProgress
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	if r.startDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.startDelay):
		}
	}

	report := newReport()

	plan, err := r.collect()
	if err != nil {
		r.abort(ctx, report, err)
		return report, err
	}

	r.logger.Info("Test run starting", "runId", report.RunID, "cases", len(plan))
	r.reporter.OnStart(ctx)
	r.emit(ctx, EventTypeRunStarted, map[string]any{
		"runId": report.RunID,
		"cases": len(plan),
	})

	for _, pc := range plan {
		if !r.selected(pc.description) {
			r.record(ctx, report, Result{
				Description: pc.description,
				SuiteIndex:  pc.suiteIndex,
				CaseIndex:   pc.caseIndex,
				Status:      StatusSkipped,
			})
			continue
		}

		if err := r.prepare(ctx); err != nil {
			fault := fmt.Errorf("%w: preparing case %q: %w", ErrHarnessFault, pc.description, err)
			r.abort(ctx, report, fault)
			return report, fault
		}

		r.emit(ctx, EventTypeCaseStarted, map[string]any{
			"description": pc.description,
			"suiteIndex":  pc.suiteIndex,
			"caseIndex":   pc.caseIndex,
		})
		result, err := r.execute(ctx, pc)
		r.record(ctx, report, result)
		if err != nil {
			r.abort(ctx, report, err)
			return report, err
		}
	}

	r.finalize(ctx, report)
	r.emit(ctx, EventTypeRunCompleted, report)
	r.logger.Info("Test run completed", "runId", report.RunID, "summary", report.Summary())
	return report, nil
}

// collect invokes every spec with a fresh scope and flattens the declared
// cases into one ordered plan. A spec returning an error is a harness
// fault: the case list would be incomplete, so the run cannot proceed.
func (r *Runner) collect() ([]plannedCase, error) {
	r.mu.Lock()
	specs := slices.Clone(r.specs)
	r.mu.Unlock()

	var plan []plannedCase
	for suiteIndex, spec := range specs {
		scope := newScope(r)
		if err := spec(scope); err != nil {
			return nil, fmt.Errorf("%w: spec %d registration: %w", ErrHarnessFault, suiteIndex, err)
		}
		scope.seal()
		for caseIndex, tc := range scope.cases {
			plan = append(plan, plannedCase{
				description: tc.description,
				body:        tc.body,
				suiteIndex:  suiteIndex,
				caseIndex:   caseIndex,
			})
		}
	}
	return plan, nil
}

// selected reports whether the case passes the only-filter. An empty
// filter selects everything; otherwise any filter appearing as a
// substring of the description selects the case.
func (r *Runner) selected(description string) bool {
	if len(r.only) == 0 {
		return true
	}
	for _, filter := range r.only {
		if strings.Contains(description, filter) {
			return true
		}
	}
	return false
}

// prepare resets UI and persisted state before a case. A re-render
// rejection is fatal to the run; a store clear failure is only a warning.
func (r *Runner) prepare(ctx context.Context) error {
	if err := r.host.RequestRerender(ctx); err != nil {
		return fmt.Errorf("host re-render request failed: %w", err)
	}
	if r.clearStore {
		if err := r.store.Clear(ctx); err != nil {
			r.logger.Warn("Failed to clear persistent store between cases", "error", err)
		}
	}
	return nil
}

// execute races one case body against the wait time. The returned error
// is non-nil only when the surrounding context was cancelled, which
// aborts the run.
func (r *Runner) execute(ctx context.Context, pc plannedCase) (Result, error) {
	result := Result{
		Description: pc.description,
		SuiteIndex:  pc.suiteIndex,
		CaseIndex:   pc.caseIndex,
	}

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- fmt.Errorf("panic: %v", rec)
			}
		}()
		done <- pc.body(ctx)
	}()

	deadline := time.NewTimer(r.waitTime)
	defer deadline.Stop()

	select {
	case err := <-done:
		result.DurationMs = time.Since(start).Milliseconds()
		if err != nil {
			result.Status = StatusFailed
			result.Error = err.Error()
		} else {
			result.Status = StatusPassed
		}
		return result, nil
	case <-deadline.C:
		// Stop waiting on the body; it keeps whatever asynchronous work
		// it started and is never cancelled.
		elapsed := time.Since(start)
		result.DurationMs = elapsed.Milliseconds()
		result.Status = StatusTimedOut
		result.Error = fmt.Sprintf("%v: %s elapsed", ErrCaseTimedOut, elapsed.Round(time.Millisecond))
		return result, nil
	case <-ctx.Done():
		result.DurationMs = time.Since(start).Milliseconds()
		result.Status = StatusFailed
		result.Error = ctx.Err().Error()
		return result, fmt.Errorf("%w: run cancelled during case %q: %w", ErrHarnessFault, pc.description, ctx.Err())
	}
}

// record appends a result to the report, streams it to the reporter, and
// notifies observers. Reporter errors are logged, never propagated.
func (r *Runner) record(ctx context.Context, report *Report, result Result) {
	report.add(result)
	if err := r.reporter.OnTestResult(ctx, result); err != nil {
		r.logger.Warn("Reporter failed to handle result",
			"description", result.Description, "error", err)
	}
	r.emit(ctx, caseEventType(result.Status), result)
}

// finalize stamps the report and delivers it to the reporter exactly
// once. Delivery runs detached from ctx cancellation so an aborting run
// can still transmit its partial report.
func (r *Runner) finalize(ctx context.Context, report *Report) {
	if !report.FinishedAt.IsZero() {
		return
	}
	report.FinishedAt = time.Now()

	deliveryCtx := context.WithoutCancel(ctx)
	if err := r.reporter.OnComplete(deliveryCtx, report); err != nil {
		r.logger.Warn("Reporter failed to deliver report",
			"runId", report.RunID, "error", err)
	}
}

// abort performs best-effort delivery of the partial report accumulated
// before a harness fault.
func (r *Runner) abort(ctx context.Context, report *Report, cause error) {
	r.logger.Error("Test run aborted", "runId", report.RunID, "error", cause)
	r.finalize(ctx, report)
	r.emit(context.WithoutCancel(ctx), EventTypeRunFailed, map[string]any{
		"runId": report.RunID,
		"error": cause.Error(),
	})
}

// emit notifies observers of a harness lifecycle event.
func (r *Runner) emit(ctx context.Context, eventType string, data any) {
	r.observers.notify(ctx, NewCloudEvent(eventType, data), r.logger)
}
