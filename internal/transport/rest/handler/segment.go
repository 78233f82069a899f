package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"ascentra/internal/engine"
	"ascentra/internal/model"
	"ascentra/internal/service"
)

// SegmentHandler handles segment endpoints
type SegmentHandler struct {
	sessionSvc  *service.SessionService
	analysisSvc *service.AnalysisService
}

// NewSegmentHandler creates a new segment handler
func NewSegmentHandler(sessionSvc *service.SessionService, analysisSvc *service.AnalysisService) *SegmentHandler {
	return &SegmentHandler{sessionSvc: sessionSvc, analysisSvc: analysisSvc}
}

type defineSegmentRequest struct {
	Name       string           `json:"name"`
	Definition model.FilterExpr `json:"definition"`
	Replace    bool             `json:"replace,omitempty"`
}

// Define handles POST /v1/sessions/{sessionId}/segments
func (h *SegmentHandler) Define(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req defineSegmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	spec := model.SegmentSpec{Name: req.Name, Definition: req.Definition}
	verrs, err := h.analysisSvc.DefineSegment(r.Context(), sessionID, spec, req.Replace)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, engine.ErrSegmentExists):
			writeError(w, http.StatusConflict, "segment already defined")
		default:
			writeError(w, http.StatusInternalServerError, "failed to define segment")
		}
		return
	}
	if len(verrs) > 0 {
		writeRejected(w, verrs)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name, "status": "defined"})
}

// List handles GET /v1/sessions/{sessionId}/segments
func (h *SegmentHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	live, err := h.sessionSvc.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get session")
		return
	}

	segments := make([]model.SegmentSpec, 0)
	for _, name := range live.Segments.Names() {
		if spec, ok := live.Segments.Get(name); ok {
			segments = append(segments, spec)
		}
	}
	writeJSON(w, http.StatusOK, segments)
}
