package middleware

import (
	"fmt"
	"net/http"
)

// SecurityConfig güvenlik header'ları
type SecurityConfig struct {
	ContentSecurityPolicy string
	HSTSMaxAge            int
	FrameOptions          string
	ReferrerPolicy        string
	NoStore               bool // portföy verisi cache'lenmez
}

// SecurityConfigFor ortama göre ayarlar; HSTS yalnızca production'da
func SecurityConfigFor(env string) *SecurityConfig {
	cfg := &SecurityConfig{
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		FrameOptions:          "DENY",
		ReferrerPolicy:        "no-referrer",
		NoStore:               true,
	}
	if env == "production" {
		cfg.HSTSMaxAge = 63072000
	}
	return cfg
}

// SecurityHeadersMiddleware JSON API için güvenlik header'larını ekler
func SecurityHeadersMiddleware(config *SecurityConfig) func(http.Handler) http.Handler {
	if config == nil {
		config = SecurityConfigFor("")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if config.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", config.ContentSecurityPolicy)
			}
			if config.HSTSMaxAge > 0 {
				h.Set("Strict-Transport-Security", fmt.Sprintf("max-age=%d; includeSubDomains", config.HSTSMaxAge))
			}
			if config.FrameOptions != "" {
				h.Set("X-Frame-Options", config.FrameOptions)
			}
			if config.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", config.ReferrerPolicy)
			}
			if config.NoStore {
				h.Set("Cache-Control", "no-store")
			}
			h.Set("X-Content-Type-Options", "nosniff")

			next.ServeHTTP(w, r)
		})
	}
}
