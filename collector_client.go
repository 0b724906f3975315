package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultCollectorURL is where the companion collector process listens by
// default (see cmd/collector).
const DefaultCollectorURL = "http://127.0.0.1:8790/api/v1/reports"

// CollectorReporter is the default reporter sink: it serializes the
// finished report as JSON and POSTs it to a companion collector process.
// Transmission failures wrap ErrReporterTransmission; the Runner logs them
// and proceeds, so an unreachable collector never blocks or fails a run.
type CollectorReporter struct {
	url    string
	client *http.Client
	logger Logger
}

// NewCollectorReporter creates a reporter that transmits reports to the
// collector at url. An empty url falls back to DefaultCollectorURL.
func NewCollectorReporter(url string, logger Logger) *CollectorReporter {
	if url == "" {
		url = DefaultCollectorURL
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &CollectorReporter{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
		logger: logger,
	}
}

// OnStart implements Reporter as a no-op; the collector only receives
// finished reports.
func (c *CollectorReporter) OnStart(context.Context) {}

// OnTestResult implements Reporter as a no-op.
func (c *CollectorReporter) OnTestResult(context.Context, Result) error { return nil }

// OnComplete implements Reporter by transmitting the report.
func (c *CollectorReporter) OnComplete(ctx context.Context, report *Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("%w: encoding report: %w", ErrReporterTransmission, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: building request: %w", ErrReporterTransmission, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReporterTransmission, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: collector returned %s", ErrReporterTransmission, resp.Status)
	}

	c.logger.Debug("Report transmitted to collector", "runId", report.RunID, "url", c.url)
	return nil
}
