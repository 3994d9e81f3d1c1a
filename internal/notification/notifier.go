package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/config"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// MessageSender Telegram gönderim yüzeyi
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text, buttonText string) error
}

// UserDirectory alıcının dilini bulmak için kullanıcı araması
type UserDirectory interface {
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
}

// Notifier şablonlu Telegram bildirimleri
type Notifier struct {
	sender  MessageSender
	catalog *Catalog
	users   UserDirectory
	admins  []int64
}

// NewNotifier yeni notifier oluşturur. sender nil ise mesajlar gönderilmez, sadece loglanır.
func NewNotifier(sender MessageSender, catalog *Catalog, users UserDirectory, admins []int64) *Notifier {
	return &Notifier{
		sender:  sender,
		catalog: catalog,
		users:   users,
		admins:  admins,
	}
}

// language alıcının dilini döner; kullanıcı yoksa varsayılan dil
func (n *Notifier) language(ctx context.Context, recipientID int64) string {
	if n.users == nil {
		return models.DefaultLanguage
	}
	user, err := n.users.GetByTelegramID(ctx, recipientID)
	if err != nil {
		if !errors.Is(err, models.ErrRecordNotFound) {
			log.Warn().Err(err).Int64("tlgid", recipientID).Msg("Alıcının dili okunamadı, varsayılan kullanılıyor")
		}
		return models.DefaultLanguage
	}
	if user.Language == "" {
		return models.DefaultLanguage
	}
	return user.Language
}

// Send tek alıcıya şablon mesajı gönderir
func (n *Notifier) Send(ctx context.Context, recipientID int64, key string, data map[string]string) error {
	text, button, err := n.catalog.Render(n.language(ctx, recipientID), key, data)
	if err != nil {
		return err
	}

	if n.sender == nil {
		log.Warn().Int64("tlgid", recipientID).Str("template", key).Msg("Bot token yok, bildirim atlandı")
		return nil
	}

	if err := n.sender.SendMessage(ctx, recipientID, text, button); err != nil {
		return fmt.Errorf("bildirim gönderilemedi (%d): %w", recipientID, err)
	}

	log.Debug().Int64("tlgid", recipientID).Str("template", key).Msg("📨 Bildirim gönderildi")
	return nil
}

// NotifyAdmins her admine ayrı gönderir; bir alıcının hatası diğerlerini engellemez
func (n *Notifier) NotifyAdmins(ctx context.Context, key string, data map[string]string) error {
	if len(n.admins) == 0 {
		log.Warn().Str("template", key).Msg("Admin listesi boş, bildirim atlandı")
		return nil
	}

	var errs []error
	for _, id := range n.admins {
		if err := n.Send(ctx, id, key, data); err != nil {
			log.Warn().Err(err).Int64("tlgid", id).Str("template", key).Msg("Admin bildirimi gönderilemedi")
			errs = append(errs, fmt.Errorf("admin %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// NewFromConfig gömülü şablonlarla notifier kurar; BOT_TOKEN boşsa gönderim kapalıdır
func NewFromConfig(cfg *config.Config, users UserDirectory) (*Notifier, error) {
	catalog, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}

	var sender MessageSender
	if cfg.BotToken != "" {
		sender = NewTelegramClient(cfg.TelegramAPIURL, cfg.BotToken, cfg.AppURL)
	} else {
		log.Warn().Msg("BOT_TOKEN tanımlı değil, Telegram bildirimleri gönderilmeyecek")
	}

	return NewNotifier(sender, catalog, users, cfg.AdminRecipients), nil
}
