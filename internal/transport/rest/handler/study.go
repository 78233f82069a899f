package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"ascentra/internal/service"
)

// StudyHandler handles study endpoints
type StudyHandler struct {
	studySvc *service.StudyService
}

// NewStudyHandler creates a new study handler
func NewStudyHandler(studySvc *service.StudyService) *StudyHandler {
	return &StudyHandler{studySvc: studySvc}
}

type importStudyRequest struct {
	Name      string          `json:"name"`
	Questions json.RawMessage `json:"questions"`
	Responses string          `json:"responses_csv"`
}

// Import handles POST /v1/studies
func (h *StudyHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req importStudyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || len(req.Questions) == 0 || req.Responses == "" {
		writeError(w, http.StatusBadRequest, "name, questions and responses_csv are required")
		return
	}

	study, err := h.studySvc.Import(r.Context(), req.Name, req.Questions, []byte(req.Responses))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, study)
}

// List handles GET /v1/studies
func (h *StudyHandler) List(w http.ResponseWriter, r *http.Request) {
	studies, err := h.studySvc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list studies")
		return
	}
	writeJSON(w, http.StatusOK, studies)
}

// Get handles GET /v1/studies/{studyId}
func (h *StudyHandler) Get(w http.ResponseWriter, r *http.Request) {
	studyID := mux.Vars(r)["studyId"]

	study, err := h.studySvc.Get(r.Context(), studyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get study")
		return
	}
	if study == nil {
		writeError(w, http.StatusNotFound, "study not found")
		return
	}
	writeJSON(w, http.StatusOK, study)
}

// Delete handles DELETE /v1/studies/{studyId}
func (h *StudyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	studyID := mux.Vars(r)["studyId"]

	if err := h.studySvc.Delete(r.Context(), studyID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete study")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
