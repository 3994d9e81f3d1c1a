package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// defaultPriceWindow from/to verilmezse listelenen gün sayısı
const defaultPriceWindow = 30

// PriceHandler BTC fiyatları ve kurlar
type PriceHandler struct {
	priceService interfaces.PriceServiceInterface
	loc          *time.Location
	now          func() time.Time
}

// NewPriceHandler yeni handler oluşturur
func NewPriceHandler(priceService interfaces.PriceServiceInterface, loc *time.Location) *PriceHandler {
	return &PriceHandler{priceService: priceService, loc: loc, now: time.Now}
}

// parseDay DD-MM-YYYY formatındaki günü iş zaman diliminde okur
func (h *PriceHandler) parseDay(field, raw string) (time.Time, error) {
	day, err := time.ParseInLocation(models.BitcoinPriceDateLayout, strings.TrimSpace(raw), h.loc)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(field, "tarih formatı DD-MM-YYYY olmalıdır", raw)
	}
	return day, nil
}

// ListBitcoinPrices ?from=DD-MM-YYYY&to=DD-MM-YYYY; varsayılan son 30 gün
func (h *PriceHandler) ListBitcoinPrices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	to := h.now().In(h.loc)
	if raw := q.Get("to"); raw != "" {
		parsed, err := h.parseDay("to", raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		to = parsed
	}

	from := to.AddDate(0, 0, -defaultPriceWindow)
	if raw := q.Get("from"); raw != "" {
		parsed, err := h.parseDay("from", raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		from = parsed
	}

	prices, err := h.priceService.ListBitcoinPrices(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prices, "")
}

// ListCryptoRates tüm kurlar
func (h *PriceHandler) ListCryptoRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.priceService.ListCryptoRates(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rates, "")
}

// FetchBitcoinPrices admin: tek gün (sadece from) veya aralık çeker
func (h *PriceHandler) FetchBitcoinPrices(w http.ResponseWriter, r *http.Request) {
	var req models.FetchPricesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.From == "" {
		writeError(w, r, apperrors.NewValidationError("from", "from zorunludur", nil))
		return
	}

	from, err := h.parseDay("from", req.From)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.To == "" {
		price, err := h.priceService.FetchDailyBitcoinPrice(r.Context(), from)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, price, "")
		return
	}

	to, err := h.parseDay("to", req.To)
	if err != nil {
		writeError(w, r, err)
		return
	}

	report, err := h.priceService.FetchRange(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report, "", report.Failures...)
}

// UpdateCryptoRate admin: kuru isme göre kaydeder
func (h *PriceHandler) UpdateCryptoRate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCryptoRateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	rate, err := h.priceService.UpdateCryptoRate(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rate, "Kur güncellendi")
}
