package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/service"
)

// SubjectHandler handles HTTP requests for subjects.
type SubjectHandler struct {
	service *service.SubjectService
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(svc *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// HandleCreate handles POST /api/note/createSubject requests.
func (h *SubjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.SubjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SubjectResponse{Message: "subject created successfully", Subject: sub})
}

// HandleUpdate handles PUT /api/note/updateSubject requests.
func (h *SubjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.SubjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sub, err := h.service.Update(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SubjectResponse{Message: "subject updated successfully", Subject: sub})
}

// HandleDelete handles DELETE /api/note/deleteSubject requests.
func (h *SubjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.SubjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Delete(r.Context(), userID, req.SubjectID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "subject deleted successfully"})
}

// HandleList handles GET /api/note/allSubjects requests.
func (h *SubjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	subjects, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, subjects)
}

// HandleNotes handles GET /api/note/subject/{subjectId}/notes requests.
func (h *SubjectHandler) HandleNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notes, err := h.service.Notes(r.Context(), userID, chi.URLParam(r, "subjectId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}
