package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/auth"
	"github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
)

// ContextKey middleware'de context için key tipi
type ContextKey string

const UserContextKey ContextKey = "user"

// AuthMiddleware Bearer JWT doğrular ve claims'i context'e koyar
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			panic(&errors.AuthError{
				Message:    "Authorization header gerekli",
				StatusCode: http.StatusUnauthorized,
			})
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			panic(&errors.AuthError{
				Message:    "Authorization format: 'Bearer <token>'",
				StatusCode: http.StatusUnauthorized,
			})
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("Token doğrulama başarısız")
			panic(&errors.AuthError{
				Message:    "Geçersiz veya süresi dolmuş token",
				StatusCode: http.StatusUnauthorized,
			})
		}

		log.Debug().
			Int64("user_id", claims.UserID).
			Int64("tlgid", claims.TelegramID).
			Str("role", claims.Role).
			Str("path", r.URL.Path).
			Msg("🔐 Authentication successful")

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// WithClaims claims'i context'e ekler
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

// ClaimsFromContext AuthMiddleware'in koyduğu claims'i döner
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*auth.Claims)
	return claims, ok && claims != nil
}
