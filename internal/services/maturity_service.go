package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	"github.com/onerilhan/go-portfolio-api/internal/ledger"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// MaturityService vadesi yaklaşan portföyleri işaretler ve haber verir
type MaturityService struct {
	uow        interfaces.UnitOfWork
	notifier   interfaces.NotifierInterface
	queue      *DepositQueue
	loc        *time.Location
	thresholds map[int]bool
}

// NewMaturityService yeni service oluşturur
func NewMaturityService(uow interfaces.UnitOfWork, notifier interfaces.NotifierInterface, queue *DepositQueue, loc *time.Location, thresholds []int) *MaturityService {
	set := make(map[int]bool, len(thresholds))
	for _, t := range thresholds {
		set[t] = true
	}
	return &MaturityService{
		uow:        uow,
		notifier:   notifier,
		queue:      queue,
		loc:        loc,
		thresholds: set,
	}
}

// ScanDepositsForProlong aktif portföyleri tarar. Kalan gün eşiklerden birine eşitse ve
// kullanıcı henüz aksiyon seçmediyse portföy işaretlenir, kullanıcıya ve adminlere mesaj gider.
// Tek portföyün hatası taramayı durdurmaz.
func (s *MaturityService) ScanDepositsForProlong(ctx context.Context, now time.Time) (*models.MaturityScanReport, error) {
	deposits, err := s.uow.Store().Deposits().ListAll(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("aktif portföyler alınamadı: %w", err)
	}

	report := &models.MaturityScanReport{}
	for _, d := range deposits {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++

		if d.IsMadeActionToProlong {
			continue
		}
		diffDays := ledger.DaysUntil(d.DateUntil, now, s.loc)
		if diffDays < 0 || !s.thresholds[diffDays] {
			continue
		}

		flagged, err := s.flag(ctx, d.ID)
		if err != nil {
			log.Error().Err(err).Int64("deposit_id", d.ID).Msg("Portföy vade işareti konulamadı")
			report.Failures = append(report.Failures, fmt.Sprintf("deposit %d: %v", d.ID, err))
			continue
		}
		if flagged == nil {
			continue
		}
		report.Flagged++

		log.Info().Int64("deposit_id", d.ID).Int("days_left", diffDays).Msg("Portföyün vade sonu yaklaşıyor")
		report.Failures = append(report.Failures, s.notify(ctx, flagged)...)
	}

	log.Info().
		Int("checked", report.Checked).
		Int("flagged", report.Flagged).
		Int("failures", len(report.Failures)).
		Msg("✅ Vade kontrolü tamamlandı")

	return report, nil
}

// flag portföyü kilit altında tekrar kontrol eder ve is_time_to_prolong işaretler.
// Bu arada aksiyon seçilmiş veya kapanmışsa nil döner.
func (s *MaturityService) flag(ctx context.Context, depositID int64) (*models.Deposit, error) {
	var flagged *models.Deposit
	err := serialize(ctx, s.queue, depositID, "maturity_flag", func() error {
		return s.uow.WithinTransaction(ctx, func(store interfaces.Store) error {
			deposit, err := store.Deposits().LockByID(ctx, depositID)
			if err != nil {
				return notFoundOr(err, "deposit", "portföy bulunamadı")
			}
			if !deposit.IsActive || deposit.IsMadeActionToProlong {
				return nil
			}

			deposit.IsTimeToProlong = true
			if err := store.Deposits().Update(ctx, deposit); err != nil {
				return err
			}
			flagged = deposit
			return nil
		})
	})
	return flagged, err
}

func (s *MaturityService) notify(ctx context.Context, deposit *models.Deposit) []string {
	var failures []string

	user, err := userRecipient(ctx, s.uow.Store().Users(), deposit.UserID)
	if err != nil {
		return append(failures, fmt.Sprintf("deposit %d: %v", deposit.ID, err))
	}

	if err := s.notifier.Send(ctx, user.TelegramID, NotifyUserTimeToProlong, nil); err != nil {
		log.Warn().Err(err).Int64("tlgid", user.TelegramID).Msg("Kullanıcıya vade bildirimi gönderilemedi")
		failures = append(failures, fmt.Sprintf("deposit %d user %d: %v", deposit.ID, user.TelegramID, err))
	}

	name := user.Name
	if name == "" {
		name = "unknown"
	}
	username := user.Username
	if username == "" {
		username = "no username"
	}

	err = s.notifier.NotifyAdmins(ctx, NotifyAdminTimeToProlong, map[string]string{
		"name":      name,
		"dateUntil": displayDate(deposit.DateUntil, s.loc),
		"username":  username,
	})
	if err != nil {
		log.Warn().Err(err).Int64("deposit_id", deposit.ID).Msg("Adminlere vade bildirimi gönderilemedi")
		failures = append(failures, fmt.Sprintf("deposit %d admins: %v", deposit.ID, err))
	}

	return failures
}
