package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	// TokenTTL token geçerlilik süresi
	TokenTTL = 24 * time.Hour
	// RefreshWindow süresi dolan token bu kadar süre daha yenilenebilir
	RefreshWindow = 7 * 24 * time.Hour
)

var parser = jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

// JWT için secret key, Configure ile config'ten set edilir
var jwtSecret = []byte("your-secret-key-change-this-in-production")

// Configure secret key'i ayarlar (uygulama başlarken bir kez çağrılır)
func Configure(secret string) {
	if secret == "" {
		log.Warn().Msg("JWT secret boş, varsayılan anahtar kullanılıyor")
		return
	}
	jwtSecret = []byte(secret)
}

// Claims JWT payload'ını temsil eder
type Claims struct {
	UserID     int64  `json:"user_id"`
	TelegramID int64  `json:"tlgid"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken kullanıcı için JWT token oluşturur
func GenerateToken(userID, telegramID int64, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:     userID,
		TelegramID: telegramID,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	if err != nil {
		return "", fmt.Errorf("token oluşturulamadı: %w", err)
	}
	return tokenString, nil
}

func parse(tokenString string) (*jwt.Token, *Claims, error) {
	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	return token, claims, err
}

// ValidateToken JWT token'ını doğrular ve claims'i döner
func ValidateToken(tokenString string) (*Claims, error) {
	token, claims, err := parse(tokenString)
	if err != nil {
		return nil, fmt.Errorf("token parse edilemedi: %w", err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, fmt.Errorf("geçersiz token")
	}
	return claims, nil
}

// RefreshToken süresi dolmuş (ama RefreshWindow içindeki) token'dan yenisini üretir.
// Geçerli token yenilenmez; rol token'dakiyle aynı kalır.
func RefreshToken(tokenString string) (string, int64, error) {
	token, claims, err := parse(tokenString)

	switch {
	case err == nil && token.Valid:
		log.Warn().Int64("user_id", claims.UserID).Msg("Token refresh denendi ama token hala geçerli")
		return "", 0, fmt.Errorf("token hala geçerli, refresh gerekmiyor")

	case errors.Is(err, jwt.ErrTokenExpired):
		if claims.ExpiresAt == nil || time.Since(claims.ExpiresAt.Time) > RefreshWindow {
			log.Warn().Int64("user_id", claims.UserID).Msg("Refresh süresi geçmiş token")
			return "", 0, fmt.Errorf("token çok eski, tekrar giriş yapın")
		}

		newToken, genErr := GenerateToken(claims.UserID, claims.TelegramID, claims.Role)
		if genErr != nil {
			return "", 0, fmt.Errorf("yeni token oluşturulamadı: %w", genErr)
		}

		log.Info().Int64("user_id", claims.UserID).Msg("Token başarıyla refresh edildi")
		return newToken, int64(TokenTTL.Seconds()), nil

	case errors.Is(err, jwt.ErrTokenMalformed):
		return "", 0, fmt.Errorf("token malformed")

	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		log.Warn().Msg("Invalid signature ile refresh denendi")
		return "", 0, fmt.Errorf("token signature invalid")

	default:
		log.Error().Err(err).Msg("Token refresh başarısız")
		return "", 0, fmt.Errorf("token refresh edilemedi: %w", err)
	}
}

// IsAdmin token sahibinin admin rolünde olup olmadığını döner
func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}
