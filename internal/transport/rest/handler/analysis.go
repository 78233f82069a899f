package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"ascentra/internal/model"
	"ascentra/internal/service"
)

// AnalysisHandler handles cut validation, execution and prompt planning
type AnalysisHandler struct {
	sessionSvc  *service.SessionService
	analysisSvc *service.AnalysisService
	plannerSvc  *service.PlannerService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(sessionSvc *service.SessionService, analysisSvc *service.AnalysisService, plannerSvc *service.PlannerService) *AnalysisHandler {
	return &AnalysisHandler{
		sessionSvc:  sessionSvc,
		analysisSvc: analysisSvc,
		plannerSvc:  plannerSvc,
	}
}

// Validate handles POST /v1/sessions/{sessionId}/cuts/validate
func (h *AnalysisHandler) Validate(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var cut model.CutSpec
	if err := json.NewDecoder(r.Body).Decode(&cut); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	verrs, err := h.analysisSvc.Validate(r.Context(), sessionID, cut)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(verrs) > 0 {
		writeRejected(w, verrs)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "valid"})
}

// Execute handles POST /v1/sessions/{sessionId}/cuts/execute
func (h *AnalysisHandler) Execute(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var cut model.CutSpec
	if err := json.NewDecoder(r.Body).Decode(&cut); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	outcome, err := h.analysisSvc.Execute(r.Context(), sessionID, cut, "")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if outcome.Status == model.RunRejected {
		writeJSON(w, http.StatusUnprocessableEntity, outcome)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

type askResponse struct {
	Spec    *model.CutSpec      `json:"spec"`
	Outcome *service.RunOutcome `json:"outcome"`
}

// Ask handles POST /v1/sessions/{sessionId}/ask: plan a cut from a prompt,
// then run it through the same validation and execution as a direct spec.
func (h *AnalysisHandler) Ask(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	live, err := h.sessionSvc.Get(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cut, err := h.plannerSvc.PlanCut(r.Context(), live.Catalog, req.Prompt)
	if err != nil {
		writeError(w, http.StatusBadGateway, "planner failed: "+err.Error())
		return
	}

	outcome, err := h.analysisSvc.Execute(r.Context(), sessionID, *cut, req.Prompt)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if outcome.Status == model.RunRejected {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, askResponse{Spec: cut, Outcome: outcome})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrStudyNotFound):
		writeError(w, http.StatusNotFound, "study not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
