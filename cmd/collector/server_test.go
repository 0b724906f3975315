package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/harness"
)

func newTestServer(t *testing.T) (*httptest.Server, *reportStore) {
	t.Helper()
	store := newReportStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httptest.NewServer(newRouter(store, logger))
	t.Cleanup(server.Close)
	return server, store
}

func postReport(t *testing.T, server *httptest.Server, report *harness.Report) *http.Response {
	t.Helper()
	payload, err := json.Marshal(report)
	require.NoError(t, err)
	resp, err := http.Post(server.URL+"/api/v1/reports", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func sampleReport(runID string) *harness.Report {
	return &harness.Report{
		RunID: runID,
		Results: []harness.Result{
			{Description: "passes", Status: harness.StatusPassed, DurationMs: 12},
			{Description: "fails", Status: harness.StatusFailed, Error: "assertion failed: x"},
		},
		Total:  2,
		Passed: 1,
		Failed: 1,
	}
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPostAndGetReport(t *testing.T) {
	server, store := newTestServer(t)

	resp := postReport(t, server, sampleReport("run-1"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	stored, ok := store.get("run-1")
	require.True(t, ok)
	assert.Equal(t, 2, stored.Total)

	getResp, err := http.Get(server.URL + "/api/v1/reports/run-1")
	require.NoError(t, err)
	defer func() { _ = getResp.Body.Close() }()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var fetched harness.Report
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&fetched))
	assert.Equal(t, "run-1", fetched.RunID)
	require.Len(t, fetched.Results, 2)
	assert.Equal(t, harness.StatusFailed, fetched.Results[1].Status)
}

func TestPostReportValidation(t *testing.T) {
	server, _ := newTestServer(t)

	t.Run("malformed payload", func(t *testing.T) {
		resp, err := http.Post(server.URL+"/api/v1/reports", "application/json",
			bytes.NewReader([]byte("{not json")))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing runId", func(t *testing.T) {
		resp := postReport(t, server, &harness.Report{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListReportsPreservesOrder(t *testing.T) {
	server, _ := newTestServer(t)
	postReport(t, server, sampleReport("run-1"))
	postReport(t, server, sampleReport("run-2"))
	// Re-posting an existing run replaces it without duplicating.
	postReport(t, server, sampleReport("run-1"))

	resp, err := http.Get(server.URL + "/api/v1/reports")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var reports []harness.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "run-1", reports[0].RunID)
	assert.Equal(t, "run-2", reports[1].RunID)
}

func TestGetUnknownReport(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/reports/unknown")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
