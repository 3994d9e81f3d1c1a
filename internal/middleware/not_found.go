package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/utils"
)

// NotFoundJSONHandler bilinmeyen route'lar için JSON 404
func NotFoundJSONHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Warn().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("client_ip", utils.GetClientIP(r)).
			Msg("404 Not Found")

		writeErrorBody(w, r, http.StatusNotFound,
			"Endpoint bulunamadı. API dokümantasyonunu kontrol edin.", errorConfig, "")
	}
}

// MethodNotAllowedJSONHandler route var ama metod desteklenmiyor
func MethodNotAllowedJSONHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Warn().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("405 Method Not Allowed")

		writeErrorBody(w, r, http.StatusMethodNotAllowed,
			"HTTP metodu bu endpoint için desteklenmiyor.", errorConfig, "")
	}
}
