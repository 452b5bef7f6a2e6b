package handler

import (
	"net/http"

	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/service"
)

// NoteHandler handles HTTP requests for notes.
type NoteHandler struct {
	service *service.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{service: svc}
}

// HandleCreate handles POST /api/note/createNote requests.
func (h *NoteHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.NoteResponse{Message: "note created successfully", Note: note})
}

// HandleUpdate handles PUT /api/note/updateNote requests.
func (h *NoteHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.service.Update(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.NoteResponse{Message: "note updated successfully", Note: note})
}

// HandleDelete handles DELETE /api/note/deleteNote requests.
func (h *NoteHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.NoteIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Delete(r.Context(), userID, req.ID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "note deleted successfully"})
}

// HandleList handles GET /api/note/allNotes requests.
func (h *NoteHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notes, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

// HandleListWindow returns a handler listing the notes created in window,
// for GET /api/note/{weekly,monthly,yearly}Notes.
func (h *NoteHandler) HandleListWindow(window service.Window) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		notes, err := h.service.ListWindow(r.Context(), userID, window)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, notes)
	}
}
