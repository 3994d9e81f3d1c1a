package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/onerilhan/go-portfolio-api/internal/auth"
	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// minPasswordLength şifre için minimum uzunluk
const minPasswordLength = 6

// UserService giriş ve şifre business logic'i
type UserService struct {
	users    interfaces.UserRepositoryInterface
	adminIDs map[int64]bool
	verifier *auth.InitDataVerifier
}

// NewUserService yeni service oluşturur. adminIDs listesindeki Telegram id'leri her zaman admin rolü alır.
func NewUserService(users interfaces.UserRepositoryInterface, adminIDs []int64, verifier *auth.InitDataVerifier) *UserService {
	set := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		set[id] = true
	}
	return &UserService{users: users, adminIDs: set, verifier: verifier}
}

// telegramUser initData imzasını doğrular; doğrulanamayan istek 401 alır
func (s *UserService) telegramUser(initData string) (*auth.TelegramUser, error) {
	tgUser, err := s.verifier.Verify(initData)
	if err != nil {
		log.Warn().Err(err).Msg("Telegram initData doğrulanamadı")
		return nil, &apperrors.AuthError{Message: "Telegram doğrulaması başarısız", StatusCode: http.StatusUnauthorized}
	}
	return tgUser, nil
}

// effectiveRole yapılandırmadaki adminler kayıttaki rolü ezer
func (s *UserService) effectiveRole(user *models.User) string {
	if s.adminIDs[user.TelegramID] {
		return models.RoleAdmin
	}
	if user.Role == "" {
		return models.RoleUser
	}
	return user.Role
}

func normalizeLanguage(lang string) string {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case models.LanguageRU:
		return models.LanguageRU
	case models.LanguageDE:
		return models.LanguageDE
	default:
		return models.DefaultLanguage
	}
}

// Enter mini-app girişi: kullanıcı yoksa oluşturur
func (s *UserService) Enter(ctx context.Context, req *models.EnterRequest) (*models.User, error) {
	tgUser, err := s.telegramUser(req.InitData)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByTelegramID(ctx, tgUser.ID)
	if err == nil {
		user.Role = s.effectiveRole(user)
		return user, nil
	}
	if !errors.Is(err, models.ErrRecordNotFound) {
		return nil, err
	}

	language := req.Language
	if language == "" {
		language = tgUser.LanguageCode
	}
	name := strings.TrimSpace(tgUser.FirstName)
	if name == "" {
		name = tgUser.Username
	}
	newUser := &models.User{
		TelegramID: tgUser.ID,
		Username:   tgUser.Username,
		Name:       name,
		Language:   normalizeLanguage(language),
		Role:       models.RoleUser,
	}
	if s.adminIDs[tgUser.ID] {
		newUser.Role = models.RoleAdmin
	}

	created, err := s.users.Create(ctx, newUser)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("tlgid", created.TelegramID).Int64("user_id", created.ID).Msg("Yeni kullanıcı oluşturuldu")
	return created, nil
}

// SetPassword şifreyi belirler; şifre varsa önce admin sıfırlaması gerekir
func (s *UserService) SetPassword(ctx context.Context, req *models.SetPasswordRequest) error {
	tgUser, err := s.telegramUser(req.InitData)
	if err != nil {
		return err
	}
	if len(req.Password) < minPasswordLength {
		return apperrors.NewValidationError("password", fmt.Sprintf("şifre en az %d karakter olmalıdır", minPasswordLength), nil)
	}

	user, err := s.users.GetByTelegramID(ctx, tgUser.ID)
	if err != nil {
		return notFoundOr(err, "user", "kullanıcı bulunamadı")
	}
	if user.IsSetPassword {
		return apperrors.NewConflictError("şifre zaten belirlenmiş")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("şifre hashlenemedi: %w", err)
	}

	return s.users.SetPassword(ctx, user.ID, string(hashedPassword))
}

// Login şifreyi doğrular ve token döner
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	invalid := &apperrors.AuthError{Message: "Telegram id veya şifre hatalı", StatusCode: http.StatusUnauthorized}

	user, err := s.users.GetByTelegramID(ctx, req.TelegramID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if !user.IsSetPassword {
		return nil, &apperrors.AuthError{Message: "önce şifre belirlenmelidir", StatusCode: http.StatusUnauthorized}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, invalid
	}

	user.Role = s.effectiveRole(user)
	token, err := auth.GenerateToken(user.ID, user.TelegramID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("token oluşturulamadı: %w", err)
	}

	return &models.LoginResponse{
		User:      user,
		Token:     token,
		ExpiresIn: int64(auth.TokenTTL.Seconds()),
	}, nil
}
