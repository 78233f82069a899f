package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"ascentra/internal/service"
	"ascentra/internal/transport/rest/middleware"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

type createSessionRequest struct {
	StudyID string `json:"study_id"`
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.StudyID == "" {
		writeError(w, http.StatusBadRequest, "study_id is required")
		return
	}

	analystID := middleware.GetAnalystID(r.Context())
	session, err := h.sessionSvc.Create(r.Context(), req.StudyID, analystID)
	if err != nil {
		if errors.Is(err, service.ErrStudyNotFound) {
			writeError(w, http.StatusNotFound, "study not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Get handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session":  live.Descriptor,
		"segments": live.Segments.Names(),
	})
}

// End handles DELETE /v1/sessions/{sessionId}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.sessionSvc.End(r.Context(), sessionID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to end session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}
