package harness

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterFuncAdapter(t *testing.T) {
	var received *Report
	sink := ReporterFunc(func(report *Report) { received = report })

	ctx := context.Background()
	sink.OnStart(ctx)
	require.NoError(t, sink.OnTestResult(ctx, Result{Status: StatusPassed}))

	report := newReport()
	require.NoError(t, sink.OnComplete(ctx, report))
	assert.Same(t, report, received)
}

func TestLogReporter(t *testing.T) {
	logger := &mockLogger{}
	sink := NewLogReporter(logger)
	ctx := context.Background()

	sink.OnStart(ctx)
	require.NoError(t, sink.OnTestResult(ctx, Result{Description: "ok", Status: StatusPassed}))
	require.NoError(t, sink.OnTestResult(ctx, Result{Description: "bad", Status: StatusFailed, Error: "x"}))
	require.NoError(t, sink.OnComplete(ctx, newReport()))

	assert.Len(t, logger.messages("info"), 3)
	assert.Len(t, logger.messages("error"), 1)
}

func TestMultiReporterFanOut(t *testing.T) {
	first := &recordingReporter{}
	second := &recordingReporter{}
	sink := MultiReporter{first, second}
	ctx := context.Background()

	sink.OnStart(ctx)
	require.NoError(t, sink.OnTestResult(ctx, Result{Status: StatusPassed}))
	require.NoError(t, sink.OnComplete(ctx, newReport()))

	assert.Equal(t, 1, first.started)
	assert.Equal(t, 1, second.started)
	assert.Len(t, first.results, 1)
	assert.Len(t, second.results, 1)
	assert.Len(t, first.completed, 1)
	assert.Len(t, second.completed, 1)
}

func TestMultiReporterContinuesPastFailure(t *testing.T) {
	failing := &erroringReporter{}
	healthy := &recordingReporter{}
	sink := MultiReporter{failing, healthy}

	err := sink.OnComplete(context.Background(), newReport())
	assert.Error(t, err)
	assert.Len(t, healthy.completed, 1, "one sink's failure must not stop the others")
}

func TestCollectorReporterTransmits(t *testing.T) {
	var received Report
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(req.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sink := NewCollectorReporter(server.URL, nil)
	report := newReport()
	report.add(Result{Description: "passes", Status: StatusPassed})

	require.NoError(t, sink.OnComplete(context.Background(), report))
	assert.Equal(t, report.RunID, received.RunID)
	assert.Equal(t, 1, received.Passed)
}

func TestCollectorReporterUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // nothing listening anymore

	sink := NewCollectorReporter(server.URL, nil)
	err := sink.OnComplete(context.Background(), newReport())
	assert.ErrorIs(t, err, ErrReporterTransmission)
}

func TestCollectorReporterRejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := NewCollectorReporter(server.URL, nil)
	err := sink.OnComplete(context.Background(), newReport())
	assert.ErrorIs(t, err, ErrReporterTransmission)
}

func TestCollectorReporterDefaultURL(t *testing.T) {
	sink := NewCollectorReporter("", nil)
	assert.Equal(t, DefaultCollectorURL, sink.url)
}
