package handlers

import (
	"net/http"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// ProlongationHandler vade sonu aksiyon endpoint'leri
type ProlongationHandler struct {
	prolongationService interfaces.ProlongationServiceInterface
}

// NewProlongationHandler yeni handler oluşturur
func NewProlongationHandler(prolongationService interfaces.ProlongationServiceInterface) *ProlongationHandler {
	return &ProlongationHandler{prolongationService: prolongationService}
}

// RequestAction portföy sahibi (veya admin) vade sonu aksiyonunu bildirir
func (h *ProlongationHandler) RequestAction(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	depositID, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.ProlongationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.prolongationService.RequestAction(r.Context(), claims.UserID, claims.IsAdmin(), depositID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result, "Talep alındı", result.Warnings...)
}

// ListPending admin: çözülmemiş talepler
func (h *ProlongationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := h.prolongationService.ListPending(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pending, "")
}

// Resolve admin: talebi uygular (kapatma, kısmi çekim veya yeniden yatırım)
func (h *ProlongationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// gövde opsiyonel: sadece get_part_sum yeni tutar alabilir
	var req models.ResolveProlongationRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.prolongationService.Resolve(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result, "Talep işlendi", result.Warnings...)
}
