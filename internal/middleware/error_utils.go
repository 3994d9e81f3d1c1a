package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
)

// getErrorMessage status code'a göre istemci mesajı
func getErrorMessage(statusCode int, config *errors.ErrorConfig) string {
	if customMessage, exists := config.CustomErrorMap[statusCode]; exists {
		return customMessage
	}
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP Error %d", statusCode)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// includesHeader header adlarını kanonik biçimde karşılaştırır
func includesHeader(headers []string, key string) bool {
	for _, h := range headers {
		if http.CanonicalHeaderKey(h) == http.CanonicalHeaderKey(key) {
			return true
		}
	}
	return false
}

// securityHeaders SecurityHeadersMiddleware'in yazdığı, hata yanıtında da kalan header'lar
var securityHeaders = []string{
	"Content-Security-Policy",
	"Strict-Transport-Security",
	"X-Frame-Options",
	"Referrer-Policy",
	"Cache-Control",
	"X-Content-Type-Options",
	"Vary",
}

func keepOnError(config *errors.ErrorConfig, key string) bool {
	return includesHeader(config.IncludeHeaders, key) ||
		includesHeader(securityHeaders, key) ||
		strings.HasPrefix(http.CanonicalHeaderKey(key), "Access-Control-")
}

// truncateString mesajı maxLength'e keser
func truncateString(s string, maxLength int) string {
	if maxLength <= 3 || len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
