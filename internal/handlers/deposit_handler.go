package handlers

import (
	"net/http"
	"strconv"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// DepositHandler portföy talepleri, portföy okuma ve refund endpoint'leri
type DepositHandler struct {
	depositService interfaces.DepositServiceInterface
}

// NewDepositHandler yeni handler oluşturur
func NewDepositHandler(depositService interfaces.DepositServiceInterface) *DepositHandler {
	return &DepositHandler{depositService: depositService}
}

// CreateRequest kullanıcı yeni portföy talebi oluşturur
func (h *DepositHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.CreateDepositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, warnings, err := h.depositService.CreateRequest(r.Context(), claims.UserID, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created, "Portföy talebi oluşturuldu", warnings...)
}

// ListPendingRequests admin: işlenmemiş talepler
func (h *DepositHandler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.depositService.ListPendingRequests(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests, "")
}

// GetRequest admin: tek talep
func (h *DepositHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := h.depositService.GetRequest(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req, "")
}

// ApproveRequest admin: talebi onaylar, portföyü ve açılış operasyonunu oluşturur
func (h *DepositHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.ApproveDepositRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.depositService.ApproveRequest(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result, "Portföy oluşturuldu", result.Warnings...)
}

// ListOwn kullanıcının kendi portföyleri
func (h *DepositHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	deposits, err := h.depositService.ListUserDeposits(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deposits, "")
}

// Get portföy + operasyon zinciri; sadece sahibi veya admin görebilir
func (h *DepositHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, err := currentClaims(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := h.depositService.GetDeposit(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !claims.IsAdmin() && view.UserID != claims.UserID {
		writeError(w, r, &apperrors.RBACError{
			Message:    "Bu portföyü görüntüleme yetkiniz yok",
			StatusCode: http.StatusForbidden,
			Resource:   "deposit",
			Action:     r.Method,
		})
		return
	}

	writeJSON(w, http.StatusOK, view, "")
}

// ListAll admin: tüm portföyler, ?active=true ile sadece aktifler
func (h *DepositHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, apperrors.NewValidationError("active", "active true/false olmalıdır", raw))
			return
		}
		activeOnly = v
	}

	deposits, err := h.depositService.ListDeposits(r.Context(), activeOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deposits, "")
}

// Refund admin: portföye ek yatırım ekler
func (h *DepositHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.RefundRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.depositService.Refund(r.Context(), id, req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, result, "Ek yatırım eklendi")
}
