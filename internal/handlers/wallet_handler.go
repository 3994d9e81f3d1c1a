package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// WalletHandler cüzdan adresi endpoint'leri
type WalletHandler struct {
	walletService interfaces.WalletServiceInterface
}

// NewWalletHandler yeni handler oluşturur
func NewWalletHandler(walletService interfaces.WalletServiceInterface) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// Get transfer yapılacak adresi isme göre döner
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.walletService.GetAddress(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet, "")
}

// Upsert admin: adresi ekler ya da günceller
func (h *WalletHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req models.UpsertWalletAddressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	wallet, err := h.walletService.UpsertAddress(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wallet, "Cüzdan adresi kaydedildi")
}
