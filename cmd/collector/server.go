package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/GoCodeAlone/harness"
)

// reportStore holds received reports in memory, newest last.
type reportStore struct {
	mu      sync.RWMutex
	reports map[string]*harness.Report
	order   []string
}

func newReportStore() *reportStore {
	return &reportStore{reports: make(map[string]*harness.Report)}
}

func (s *reportStore) put(report *harness.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[report.RunID]; !exists {
		s.order = append(s.order, report.RunID)
	}
	s.reports[report.RunID] = report
}

func (s *reportStore) get(runID string) (*harness.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[runID]
	return report, ok
}

func (s *reportStore) list() []*harness.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reports := make([]*harness.Report, 0, len(s.order))
	for _, runID := range s.order {
		reports = append(reports, s.reports[runID])
	}
	return reports
}

// newRouter builds the collector's HTTP API.
func newRouter(store *reportStore, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Post("/", handlePostReport(store, logger))
		r.Get("/", handleListReports(store))
		r.Get("/{runID}", handleGetReport(store))
	})

	return r
}

func handlePostReport(store *reportStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var report harness.Report
		if err := json.NewDecoder(req.Body).Decode(&report); err != nil {
			http.Error(w, "invalid report payload: "+err.Error(), http.StatusBadRequest)
			return
		}
		if report.RunID == "" {
			http.Error(w, "report is missing runId", http.StatusBadRequest)
			return
		}

		store.put(&report)
		logger.Info("report received",
			"runId", report.RunID,
			"total", report.Total,
			"passed", report.Passed,
			"failed", report.Failed,
			"timedOut", report.TimedOut,
			"skipped", report.Skipped,
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"runId": report.RunID})
	}
}

func handleListReports(store *reportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(store.list())
	}
}

func handleGetReport(store *reportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		report, ok := store.get(chi.URLParam(req, "runID"))
		if !ok {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(report)
	}
}
