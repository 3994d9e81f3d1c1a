package middleware

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/utils"
)

// logAPIError tipli hataları kategorisiyle loglar
func logAPIError(err errors.APIError, r *http.Request) {
	logEvent := log.Warn().
		Str("error_message", err.Error()).
		Int("status_code", err.Status()).
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Str("client_ip", utils.GetClientIP(r))

	switch e := err.(type) {
	case *errors.AuthError:
		logEvent.Str("category", "authentication").Msg("Kimlik doğrulama başarısız")

	case *errors.RBACError:
		logEvent.Str("category", "authorization").
			Str("resource", e.Resource).
			Str("action", e.Action).
			Msg("Yetki reddedildi")

	case *errors.ValidationError:
		logEvent.Str("category", "validation").
			Str("field", e.Field).
			Interface("value", e.Value).
			Msg("Validation hatası")

	case *errors.ConflictError:
		logEvent.Str("category", "conflict").Msg("Çakışma")

	case *errors.NotFoundError:
		logEvent.Str("category", "not_found").Str("resource", e.Resource).Msg("Kayıt bulunamadı")

	case *errors.DependencyError:
		log.Error().
			Err(e.Err).
			Str("dependency", e.Dependency).
			Str("error_message", e.Message).
			Str("path", r.URL.Path).
			Msg("Dış servis hatası")

	default:
		logEvent.Str("category", "api_error").Msg("API hatası")
	}
}

// logPanic panic detaylarını loglar
func logPanic(panicInfo *errors.PanicInfo, config *errors.ErrorConfig) {
	logEvent := log.Error().
		Str("type", "panic").
		Str("request_id", panicInfo.RequestID).
		Str("method", panicInfo.Method).
		Str("path", panicInfo.Path).
		Str("client_ip", panicInfo.ClientIP).
		Int64("user_id", panicInfo.UserID).
		Time("timestamp", panicInfo.Timestamp).
		Interface("panic_value", panicInfo.Value)

	if config.EnablePanicLogs {
		logEvent.Str("stack_trace", panicInfo.Stack)
	}

	logEvent.Msg("🔥 Server panic yakalandı")
}

// logError yanıtlanan hatayı status'a göre uygun seviyede loglar
func logError(r *http.Request, statusCode int, message string, requestID string) {
	logger := log.With().
		Str("request_id", requestID).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status_code", statusCode).
		Str("error", message).
		Logger()

	if statusCode >= 500 {
		logger.Error().Msg("Sunucu hatası döndü")
		return
	}
	logger.Debug().Msg("İstemci hatası döndü")
}
