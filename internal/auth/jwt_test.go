package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	// Arrange
	Configure("test-secret")

	// Act
	token, err := GenerateToken(5, 123456, "admin")
	require.NoError(t, err)
	claims, err := ValidateToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(5), claims.UserID)
	assert.Equal(t, int64(123456), claims.TelegramID)
	assert.True(t, claims.IsAdmin())
}

func TestValidateToken_WrongSecret(t *testing.T) {
	Configure("first-secret")
	token, err := GenerateToken(1, 1, "user")
	require.NoError(t, err)

	Configure("second-secret")
	_, err = ValidateToken(token)

	assert.Error(t, err)
}

func TestRefreshToken_ExpiredToken(t *testing.T) {
	// Arrange
	Configure("refresh-secret")
	claims := &Claims{
		UserID:     9,
		TelegramID: 99,
		Role:       "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)

	// Act
	fresh, expiresIn, err := RefreshToken(expired)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(TokenTTL.Seconds()), expiresIn)
	refreshed, err := ValidateToken(fresh)
	require.NoError(t, err)
	assert.Equal(t, int64(99), refreshed.TelegramID)
}

func TestRefreshToken_StillValid(t *testing.T) {
	Configure("refresh-secret")
	token, err := GenerateToken(1, 1, "user")
	require.NoError(t, err)

	_, _, err = RefreshToken(token)

	assert.Error(t, err)
}

func TestRefreshToken_OutsideWindow(t *testing.T) {
	Configure("refresh-secret")
	claims := &Claims{
		UserID: 9,
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-RefreshWindow - time.Hour)),
		},
	}
	stale, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)

	_, _, err = RefreshToken(stale)

	assert.ErrorContains(t, err, "çok eski")
}

func TestValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	Configure("refresh-secret")
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1, Role: "admin"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ValidateToken(unsigned)

	assert.Error(t, err)
}
