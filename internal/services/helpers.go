package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// Bildirim şablon anahtarları
const (
	NotifyAdminNewDepositRequest      = "admin_new_deposit_rqst"
	NotifyAdminNewProlongationRequest = "admin_new_prolongation_rqst"
	NotifyAdminTimeToProlong          = "admin_time_to_prolong"
	NotifyAdminNewPasswordReset       = "admin_new_changepassword_rqst"
	NotifyUserDepositCreated          = "user_deposit_created"
	NotifyUserTimeToProlong           = "user_time_to_prolong"
	NotifyUserGetAllSum               = "user_deposit_get_all_sum"
	NotifyUserGetPartSum              = "user_deposit_get_part_sum"
	NotifyUserReinvestAll             = "user_deposit_reinvest_all"
	NotifyUserPasswordReset           = "user_password_reseted"
)

// notFoundOr repository'nin ErrRecordNotFound hatasını 404'e çevirir
func notFoundOr(err error, resource, message string) error {
	if errors.Is(err, models.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(resource, message)
	}
	return err
}

// serialize işi portföyün kuyruğunda çalıştırır; queue yoksa doğrudan çalıştırır
func serialize(ctx context.Context, queue *DepositQueue, depositID int64, name string, run func() error) error {
	if queue == nil {
		return run()
	}
	return queue.Do(ctx, depositID, name, run)
}

// warnIfFailed commit sonrası bildirim hatasını uyarı listesine ekler
func warnIfFailed(warnings []string, err error, key string) []string {
	if err == nil {
		return warnings
	}
	log.Warn().Err(err).Str("template", key).Msg("Bildirim gönderilemedi")
	return append(warnings, key+": "+err.Error())
}

// userRecipient kullanıcının Telegram id'sini bulur
func userRecipient(ctx context.Context, users interfaces.UserRepositoryInterface, userID int64) (*models.User, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "user", "kullanıcı bulunamadı")
	}
	return user, nil
}

// displayDate bildirimlerdeki tarih formatı (DD.MM.YYYY)
func displayDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02.01.2006")
}

// notifyUser kullanıcıya şablon mesajı gönderir, hatayı uyarıya çevirir
func notifyUser(ctx context.Context, users interfaces.UserRepositoryInterface, notifier interfaces.NotifierInterface, userID int64, key string, data map[string]string) []string {
	var warnings []string

	user, err := userRecipient(ctx, users, userID)
	if err != nil {
		return warnIfFailed(warnings, err, key)
	}
	return warnIfFailed(warnings, notifier.Send(ctx, user.TelegramID, key, data), key)
}
