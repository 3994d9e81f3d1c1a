package services

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/auth"
	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// PasswordResetService unutulan şifre akışı: kullanıcı talep açar, admin sıfırlar ya da reddeder.
// Sıfırlanan kullanıcı SetPassword ile yeni şifre belirler.
type PasswordResetService struct {
	uow      interfaces.UnitOfWork
	notifier interfaces.NotifierInterface
	verifier *auth.InitDataVerifier
}

// NewPasswordResetService yeni service oluşturur
func NewPasswordResetService(uow interfaces.UnitOfWork, notifier interfaces.NotifierInterface, verifier *auth.InitDataVerifier) *PasswordResetService {
	return &PasswordResetService{uow: uow, notifier: notifier, verifier: verifier}
}

// Request imzalı initData sahibi için sıfırlama talebi açar ve adminlere haber verir
func (s *PasswordResetService) Request(ctx context.Context, req *models.NewChangePasswordRequest) (*models.ChangePasswordRequest, []string, error) {
	tgUser, err := s.verifier.Verify(req.InitData)
	if err != nil {
		log.Warn().Err(err).Msg("Şifre sıfırlama talebinde initData doğrulanamadı")
		return nil, nil, &apperrors.AuthError{Message: "Telegram doğrulaması başarısız", StatusCode: http.StatusUnauthorized}
	}

	var created *models.ChangePasswordRequest
	err = s.uow.WithinTransaction(ctx, func(store interfaces.Store) error {
		user, err := store.Users().GetByTelegramID(ctx, tgUser.ID)
		if err != nil {
			return notFoundOr(err, "user", "kullanıcı bulunamadı")
		}

		open, err := store.PasswordResets().HasOpen(ctx, user.ID)
		if err != nil {
			return err
		}
		if open {
			return apperrors.NewConflictError("açık bir şifre sıfırlama talebi zaten var")
		}

		created, err = store.PasswordResets().Create(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().Int64("request_id", created.ID).Int64("user_id", created.UserID).Msg("Şifre sıfırlama talebi oluşturuldu")

	var warnings []string
	warnings = warnIfFailed(warnings, s.notifier.NotifyAdmins(ctx, NotifyAdminNewPasswordReset, nil), NotifyAdminNewPasswordReset)
	return created, warnings, nil
}

// ListOpen açık talepleri döner
func (s *PasswordResetService) ListOpen(ctx context.Context) ([]*models.ChangePasswordRequest, error) {
	return s.uow.Store().PasswordResets().ListOpen(ctx)
}

// Get talebi getirir
func (s *PasswordResetService) Get(ctx context.Context, id int64) (*models.ChangePasswordRequest, error) {
	req, err := s.uow.Store().PasswordResets().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "change_password_request", "şifre sıfırlama talebi bulunamadı")
	}
	return req, nil
}

// Reset talebi onaylar ve kullanıcının şifresini siler
func (s *PasswordResetService) Reset(ctx context.Context, id int64) (*models.ChangePasswordRequest, []string, error) {
	req, err := s.resolve(ctx, id, models.PasswordResetConfirmed, func(store interfaces.Store, req *models.ChangePasswordRequest) error {
		return notFoundOr(store.Users().ResetPassword(ctx, req.UserID), "user", "kullanıcı bulunamadı")
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().Int64("request_id", id).Int64("user_id", req.UserID).Msg("Kullanıcı şifresi sıfırlandı")

	var warnings []string
	warnings = warnIfFailed(warnings, s.notifier.Send(ctx, req.TelegramID, NotifyUserPasswordReset, nil), NotifyUserPasswordReset)
	return req, warnings, nil
}

// Reject talebi reddeder; şifre değişmez
func (s *PasswordResetService) Reject(ctx context.Context, id int64) (*models.ChangePasswordRequest, error) {
	req, err := s.resolve(ctx, id, models.PasswordResetRejected, nil)
	if err != nil {
		return nil, err
	}

	log.Info().Int64("request_id", id).Msg("Şifre sıfırlama talebi reddedildi")
	return req, nil
}

// resolve açık talebi kilitleyip kapatır; apply aynı transaction içinde çalışır
func (s *PasswordResetService) resolve(ctx context.Context, id int64, status string, apply func(store interfaces.Store, req *models.ChangePasswordRequest) error) (*models.ChangePasswordRequest, error) {
	var resolved *models.ChangePasswordRequest
	err := s.uow.WithinTransaction(ctx, func(store interfaces.Store) error {
		req, err := store.PasswordResets().LockByID(ctx, id)
		if err != nil {
			return notFoundOr(err, "change_password_request", "şifre sıfırlama talebi bulunamadı")
		}
		if req.Status != models.PasswordResetNew {
			return apperrors.NewConflictError("talep zaten işlenmiş")
		}

		if apply != nil {
			if err := apply(store, req); err != nil {
				return err
			}
		}
		if err := store.PasswordResets().Resolve(ctx, id, status); err != nil {
			return err
		}

		req.Status = status
		req.IsOperated = true
		resolved = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}
