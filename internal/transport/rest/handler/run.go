package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"ascentra/internal/service"
)

// RunHandler handles run artifact endpoints
type RunHandler struct {
	analysisSvc *service.AnalysisService
}

// NewRunHandler creates a new run handler
func NewRunHandler(analysisSvc *service.AnalysisService) *RunHandler {
	return &RunHandler{analysisSvc: analysisSvc}
}

// Get handles GET /v1/runs/{runId}
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	runID := mux.Vars(r)["runId"]

	run, err := h.analysisSvc.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	if run == nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// ListBySession handles GET /v1/sessions/{sessionId}/runs
func (h *RunHandler) ListBySession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	runs, err := h.analysisSvc.ListRuns(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
