package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/agent-king/bibliography/internal/workflow"
)

// HandleRun triggers a run on POST and answers with its report. Only one run
// may be in flight.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		h.writeError(w, "A run is already in progress", http.StatusConflict)
		return
	}
	h.running = true
	h.mu.Unlock()

	report, err := h.run(r.Context())

	h.mu.Lock()
	h.running = false
	if report != nil {
		h.history = append(h.history, report)
		if len(h.history) > maxHistory {
			h.history = h.history[len(h.history)-maxHistory:]
		}
	}
	h.mu.Unlock()

	if err != nil {
		h.writeError(w, "Run failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, report)
}

// HandleRuns lists the reports of past runs, oldest first.
func (h *Handler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.RLock()
	runs := make([]*workflow.Report, len(h.history))
	copy(runs, h.history)
	h.mu.RUnlock()

	h.writeJSON(w, runs)
}

// HandleRunDetail returns one past report by its index in HandleRuns.
func (h *Handler) HandleRunDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idx, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/api/runs/"))
	if err != nil {
		h.writeError(w, "Invalid run index", http.StatusBadRequest)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if idx < 0 || idx >= len(h.history) {
		h.writeError(w, "Run not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, h.history[idx])
}
