package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/service"
)

// ShareHandler handles HTTP requests for public note links.
type ShareHandler struct {
	service *service.ShareService
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(svc *service.ShareService) *ShareHandler {
	return &ShareHandler{service: svc}
}

// HandleShare handles POST /api/note/shareANote requests.
func (h *ShareHandler) HandleShare(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.NoteIDRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	link, err := h.service.Share(r.Context(), userID, req.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, link)
}

// HandleView handles GET /api/note/viewNote/{slug} requests. It needs no session.
func (h *ShareHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	note, err := h.service.View(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}
