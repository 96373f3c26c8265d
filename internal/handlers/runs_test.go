package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agent-king/bibliography/internal/models"
	"github.com/agent-king/bibliography/internal/workflow"
)

func TestHandleRun(t *testing.T) {
	h := New(func(ctx context.Context) (*workflow.Report, error) {
		return &workflow.Report{Added: []models.Book{{TitleVF: "Holly"}}, Completed: 1}, nil
	})

	rec := httptest.NewRecorder()
	h.HandleRun(rec, httptest.NewRequest(http.MethodPost, "/api/run", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var report workflow.Report
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report.Completed != 1 || len(report.Added) != 1 {
		t.Errorf("Unexpected report: %+v", report)
	}

	rec = httptest.NewRecorder()
	h.HandleRuns(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	var runs []workflow.Report
	if err := json.NewDecoder(rec.Body).Decode(&runs); err != nil {
		t.Fatalf("Failed to decode runs: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("Expected 1 run in history, got %d", len(runs))
	}

	rec = httptest.NewRecorder()
	h.HandleRunDetail(rec, httptest.NewRequest(http.MethodGet, "/api/runs/0", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for run 0, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleRunDetail(rec, httptest.NewRequest(http.MethodGet, "/api/runs/3", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for run 3, got %d", rec.Code)
	}
}

func TestHandleRunErrors(t *testing.T) {
	h := New(func(ctx context.Context) (*workflow.Report, error) {
		return nil, errors.New("catalog unavailable")
	})

	tests := []struct {
		name   string
		method string
		want   int
	}{
		{"wrong method", http.MethodGet, http.StatusMethodNotAllowed},
		{"run failure", http.MethodPost, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleRun(rec, httptest.NewRequest(tt.method, "/api/run", nil))
			if rec.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestHandleRunRejectsConcurrentRuns(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	h := New(func(ctx context.Context) (*workflow.Report, error) {
		close(started)
		<-release
		return &workflow.Report{}, nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.HandleRun(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/run", nil))
	}()
	<-started

	rec := httptest.NewRecorder()
	h.HandleRun(rec, httptest.NewRequest(http.MethodPost, "/api/run", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 while a run is in progress, got %d", rec.Code)
	}

	close(release)
	<-done
}
