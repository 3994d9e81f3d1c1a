package handlers

import (
	"net/http"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// PasswordResetHandler şifre sıfırlama talepleri endpoint'leri
type PasswordResetHandler struct {
	resetService interfaces.PasswordResetServiceInterface
}

// NewPasswordResetHandler yeni handler oluşturur
func NewPasswordResetHandler(resetService interfaces.PasswordResetServiceInterface) *PasswordResetHandler {
	return &PasswordResetHandler{resetService: resetService}
}

// Create şifresini unutan kullanıcı talep açar (public, initData ile)
func (h *PasswordResetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.NewChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, warnings, err := h.resetService.Request(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created, "Şifre sıfırlama talebi alındı", warnings...)
}

// ListOpen admin: açık talepler
func (h *PasswordResetHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	requests, err := h.resetService.ListOpen(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests, "")
}

// Get admin: tek talep
func (h *PasswordResetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := h.resetService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req, "")
}

// Reset admin: şifreyi sıfırlar
func (h *PasswordResetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, warnings, err := h.resetService.Reset(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req, "Şifre sıfırlandı", warnings...)
}

// Reject admin: talebi reddeder
func (h *PasswordResetHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := h.resetService.Reject(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req, "Talep reddedildi")
}
