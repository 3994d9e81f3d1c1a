package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/auth"
	"github.com/onerilhan/go-portfolio-api/internal/middleware"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
)

// maxBodyBytes istek gövdesi üst sınırı
const maxBodyBytes = 1 << 20

// Response başarılı yanıt zarfı
type Response struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Message  string      `json:"message,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

// writeJSON başarılı yanıtı zarf içinde yazar
func writeJSON(w http.ResponseWriter, status int, data interface{}, message string, warnings ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := Response{Success: true, Data: data, Message: message}
	if len(warnings) > 0 {
		resp.Warnings = warnings
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("Yanıt encode edilemedi")
	}
}

// writeError hatayı tipine göre status koduyla yazar
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	middleware.WriteError(w, r, err)
}

// decodeJSON gövdeyi dst'ye okur; bilinmeyen alanlar reddedilmez
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewValidationError("body", "istek gövdesi boş", nil)
		}
		return apperrors.NewValidationError("body", "geçersiz JSON formatı: "+err.Error(), nil)
	}
	return nil
}

// decodeOptionalJSON boş gövdeyi hata saymaz
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.NewValidationError("body", "geçersiz JSON formatı: "+err.Error(), nil)
	}
	return nil
}

// pathID route'taki {id} değerini okur
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id", "geçersiz id", raw)
	}
	return id, nil
}

// currentClaims AuthMiddleware'in koyduğu kullanıcıyı döner
func currentClaims(r *http.Request) (*auth.Claims, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, &apperrors.AuthError{Message: "Kimlik doğrulama gerekli", StatusCode: http.StatusUnauthorized}
	}
	return claims, nil
}
