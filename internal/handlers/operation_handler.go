package handlers

import (
	"net/http"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// OperationHandler haftalık kapanış endpoint'i
type OperationHandler struct {
	settlementService interfaces.SettlementServiceInterface
}

// NewOperationHandler yeni handler oluşturur
func NewOperationHandler(settlementService interfaces.SettlementServiceInterface) *OperationHandler {
	return &OperationHandler{settlementService: settlementService}
}

// Settle admin: operasyona haftalık kâr/zarar yüzdesi girer
func (h *OperationHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req models.SettleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ProfitPercent == nil {
		writeError(w, r, apperrors.NewValidationError("profit_percent", "profit_percent zorunludur", nil))
		return
	}

	result, err := h.settlementService.Settle(r.Context(), id, *req.ProfitPercent)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result, "Hafta kapatıldı")
}
