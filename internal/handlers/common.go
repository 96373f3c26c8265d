package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/agent-king/bibliography/internal/workflow"
)

// RunFunc executes one reconciliation pass.
type RunFunc func(ctx context.Context) (*workflow.Report, error)

// maxHistory bounds the reports kept in memory.
const maxHistory = 20

type Handler struct {
	run RunFunc

	mu      sync.RWMutex
	running bool
	history []*workflow.Report
}

func New(run RunFunc) *Handler {
	return &Handler{run: run}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
