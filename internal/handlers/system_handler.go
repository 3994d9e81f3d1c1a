package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
)

// Pinger veritabanı sağlık kontrolü
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SystemHandler health ve manuel job endpoint'leri
type SystemHandler struct {
	db       Pinger
	maturity interfaces.MaturityServiceInterface
	loc      *time.Location
	now      func() time.Time
}

// NewSystemHandler yeni handler oluşturur
func NewSystemHandler(db Pinger, maturity interfaces.MaturityServiceInterface, loc *time.Location) *SystemHandler {
	return &SystemHandler{db: db, maturity: maturity, loc: loc, now: time.Now}
}

// Health servis ve veritabanı durumu
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check: veritabanı erişilemiyor")
		writeError(w, r, apperrors.NewDependencyError("postgres", "veritabanı erişilemiyor", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   h.now().In(h.loc).Format(time.RFC3339),
	}, "")
}

// RunMaturityScan admin: vade kontrolünü hemen çalıştırır
func (h *SystemHandler) RunMaturityScan(w http.ResponseWriter, r *http.Request) {
	report, err := h.maturity.ScanDepositsForProlong(r.Context(), h.now().In(h.loc))
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int("checked", report.Checked).Int("flagged", report.Flagged).Msg("Manuel vade kontrolü çalıştırıldı")
	writeJSON(w, http.StatusOK, report, "", report.Failures...)
}
