package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/auth"
	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// AuthHandler giriş, şifre ve token endpoint'leri
type AuthHandler struct {
	userService interfaces.UserServiceInterface
}

// NewAuthHandler yeni handler oluşturur
func NewAuthHandler(userService interfaces.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Enter mini-app açılışında kullanıcıyı getirir, yoksa oluşturur
func (h *AuthHandler) Enter(w http.ResponseWriter, r *http.Request) {
	var req models.EnterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.userService.Enter(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user, "")
}

// SetPassword kullanıcının şifresini bir kez belirler
func (h *AuthHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.SetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.userService.SetPassword(r.Context(), &req); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, nil, "Şifre belirlendi")
}

// Login şifre ile JWT üretir
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	resp, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("user_id", resp.User.ID).Str("role", resp.User.Role).Msg("Kullanıcı giriş yaptı")
	writeJSON(w, http.StatusOK, resp, "")
}

// Refresh süresi dolmuş token'dan yenisini üretir
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, expiresIn, err := auth.RefreshToken(req.Token)
	if err != nil {
		writeError(w, r, &apperrors.AuthError{Message: err.Error(), StatusCode: http.StatusUnauthorized})
		return
	}

	writeJSON(w, http.StatusOK, models.RefreshResponse{Token: token, ExpiresIn: expiresIn}, "Token başarıyla yenilendi")
}
