package middleware

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/utils"
)

// errorConfig WriteError'un kullandığı ayarlar; ErrorHandlingMiddleware ile değiştirilir
var errorConfig = errors.DefaultErrorConfig()

// ErrorHandlingMiddleware panic recovery ve standart hata gövdesi
func ErrorHandlingMiddleware(config *errors.ErrorConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = errors.DefaultErrorConfig()
	}
	errorConfig = config

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &errorResponseWriter{ResponseWriter: w}

			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				// APIError panic'leri (auth, rbac) normal hata akışıdır
				if apiErr, ok := recovered.(errors.APIError); ok {
					logAPIError(apiErr, r)
					writeErrorBody(w, r, apiErr.Status(), publicMessage(apiErr, config), config, "")
					return
				}

				info := &errors.PanicInfo{
					Value:     recovered,
					Stack:     string(debug.Stack()),
					RequestID: w.Header().Get("X-Request-ID"),
					Method:    r.Method,
					Path:      r.URL.Path,
					ClientIP:  utils.GetClientIP(r),
					Timestamp: time.Now(),
				}
				if claims, ok := ClaimsFromContext(r.Context()); ok {
					info.UserID = claims.UserID
				}
				logPanic(info, config)

				if wrapped.wroteHeader {
					// gövde yazılmaya başlandıysa yapılacak bir şey yok
					return
				}
				writeErrorBody(w, r, http.StatusInternalServerError,
					getErrorMessage(http.StatusInternalServerError, config), config, info.Stack)
			}()

			next.ServeHTTP(wrapped, r)

			if wrapped.intercepted {
				writeErrorBody(w, r, wrapped.statusCode, getErrorMessage(wrapped.statusCode, config), config, "")
			}
		})
	}
}

// errorResponseWriter düz metin hata yanıtlarını (http.Error) JSON gövdeye çevirir.
// JSON hata gövdeleri olduğu gibi geçer.
type errorResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	intercepted bool
}

func (erw *errorResponseWriter) WriteHeader(code int) {
	if erw.wroteHeader || erw.intercepted {
		return
	}
	erw.statusCode = code

	if code >= 400 && !strings.HasPrefix(erw.Header().Get("Content-Type"), "application/json") {
		erw.intercepted = true
		erw.Header().Del("Content-Type")
		return
	}

	erw.wroteHeader = true
	erw.ResponseWriter.WriteHeader(code)
}

func (erw *errorResponseWriter) Write(b []byte) (int, error) {
	if erw.intercepted {
		return len(b), nil
	}
	if !erw.wroteHeader {
		erw.WriteHeader(http.StatusOK)
	}
	return erw.ResponseWriter.Write(b)
}

// WriteError hatayı tipine göre status koduyla JSON olarak yazar
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.StatusOf(err)

	var apiErr errors.APIError
	if stderrors.As(err, &apiErr) {
		logAPIError(apiErr, r)
	} else {
		log.Error().Err(err).Str("path", r.URL.Path).Str("method", r.Method).Msg("Beklenmeyen hata")
	}

	writeErrorBody(w, r, status, publicMessage(err, errorConfig), errorConfig, "")
}

// publicMessage istemciye gösterilecek mesaj; iç hata detayları 500'lerde gizlenir
func publicMessage(err error, config *errors.ErrorConfig) string {
	var depErr *errors.DependencyError
	if stderrors.As(err, &depErr) {
		if config.ShowStackTrace {
			return depErr.Error()
		}
		return depErr.Message
	}

	var apiErr errors.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Error()
	}

	if config.ShowStackTrace {
		return err.Error()
	}
	return getErrorMessage(http.StatusInternalServerError, config)
}

// writeErrorBody standart hata gövdesini yazar
func writeErrorBody(w http.ResponseWriter, r *http.Request, statusCode int, message string, config *errors.ErrorConfig, stack string) {
	response := errors.ErrorResponse{
		Success:   false,
		Error:     truncateString(message, config.MaxErrorLength),
		Code:      statusCode,
		Timestamp: time.Now().Format(time.RFC3339),
		RequestID: w.Header().Get("X-Request-ID"),
		Details: &errors.ErrorDetails{
			Method: r.Method,
			Path:   r.URL.Path,
		},
	}
	if config.ShowStackTrace && stack != "" {
		response.Stack = stack
	}

	// önceki handler'ın bıraktığı header'ları temizle
	for key := range w.Header() {
		if !keepOnError(config, key) {
			w.Header().Del(key)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Str("request_id", response.RequestID).Msg("Hata yanıtı encode edilemedi")
		return
	}

	logError(r, statusCode, message, response.RequestID)
}
