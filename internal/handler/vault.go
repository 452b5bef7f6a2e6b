package handler

import (
	"net/http"

	"github.com/notevault/notevault-go/internal/model"
	"github.com/notevault/notevault-go/internal/service"
)

// VaultHandler handles HTTP requests for the password vault.
type VaultHandler struct {
	service *service.VaultService
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(svc *service.VaultService) *VaultHandler {
	return &VaultHandler{service: svc}
}

// HandleCreate handles POST /api/password/saveAPassword requests.
func (h *VaultHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.VaultEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.VaultCreatedResponse{Message: "password saved successfully", ID: id})
}

// HandleList handles GET /api/password/allPasswords requests.
func (h *VaultHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// HandleDelete handles DELETE /api/password/deleteAPassword requests.
func (h *VaultHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.VaultDeleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Delete(r.Context(), userID, req); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "password deleted successfully"})
}
