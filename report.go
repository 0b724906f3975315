package harness

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the terminal state of one executed (or skipped) test case.
type Status string

const (
	// StatusPassed means the case body returned nil within its time bound.
	StatusPassed Status = "passed"
	// StatusFailed means the case body returned an error or panicked.
	StatusFailed Status = "failed"
	// StatusTimedOut means the case body did not settle within its time
	// bound. The body is abandoned, not cancelled.
	StatusTimedOut Status = "timed_out"
	// StatusSkipped means the case was excluded by the only-filter. It is
	// still listed in the report so totals reflect every declared case.
	StatusSkipped Status = "skipped"
)

// Result records the outcome of one test case. Results are immutable once
// the Runner records them.
type Result struct {
	// Description is the name the case was declared with.
	Description string `json:"description"`
	// SuiteIndex is the position of the originating spec in registration order.
	SuiteIndex int `json:"suiteIndex"`
	// CaseIndex is the position of the case within its spec, in declaration order.
	CaseIndex int `json:"caseIndex"`
	// Status is the terminal state of the case.
	Status Status `json:"status"`
	// Error holds the failure or timeout message, empty for passed and
	// skipped cases.
	Error string `json:"error,omitempty"`
	// DurationMs is how long the case ran, in milliseconds. Zero for
	// skipped cases.
	DurationMs int64 `json:"durationMs"`
}

// Report is the structured outcome of a full test run. Results preserve
// declaration order across all specs. The Runner hands the report to the
// reporter sink exactly once; sinks must not mutate it.
type Report struct {
	RunID      string    `json:"runId"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Results    []Result  `json:"results"`
	Total      int       `json:"totalCount"`
	Passed     int       `json:"passedCount"`
	Failed     int       `json:"failedCount"`
	TimedOut   int       `json:"timedOutCount"`
	Skipped    int       `json:"skippedCount"`
}

func newReport() *Report {
	return &Report{
		RunID:     newRunID(),
		StartedAt: time.Now(),
	}
}

// newRunID generates a time-ordered unique run identifier using UUIDv7,
// falling back to v4 if v7 generation fails.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// add appends a result and updates the counts.
func (r *Report) add(result Result) {
	r.Results = append(r.Results, result)
	r.Total++
	switch result.Status {
	case StatusPassed:
		r.Passed++
	case StatusFailed:
		r.Failed++
	case StatusTimedOut:
		r.TimedOut++
	case StatusSkipped:
		r.Skipped++
	}
}

// Summary returns a one-line human-readable digest of the report.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d total, %d passed, %d failed, %d timed out, %d skipped",
		r.Total, r.Passed, r.Failed, r.TimedOut, r.Skipped)
}
