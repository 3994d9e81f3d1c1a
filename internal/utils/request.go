package utils

import (
	"net"
	"net/http"
	"strings"
)

// proxy'lerin gerçek istemciyi taşıdığı header'lar, öncelik sırasıyla
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP"}

// GetClientIP isteği yapan istemcinin IP'sini döner.
// Mini-app Telegram webview'inden ve reverse proxy arkasından gelir; geçersiz header değerleri yok sayılır.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := validIP(first); ip != "" {
			return ip
		}
	}

	for _, header := range clientIPHeaders {
		if ip := validIP(r.Header.Get(header)); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func validIP(raw string) string {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return ""
	}
	return ip.String()
}
