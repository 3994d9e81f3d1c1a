package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	"github.com/onerilhan/go-portfolio-api/internal/ledger"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// cashValute get_part_sum ile açılan yeni portföyün para birimi
const cashValute = "cash"

// ProlongationService vade sonu akışı: kullanıcı aksiyon seçer, admin çözer
type ProlongationService struct {
	uow        interfaces.UnitOfWork
	notifier   interfaces.NotifierInterface
	queue      *DepositQueue
	loc        *time.Location
	thresholds []int
	now        func() time.Time
}

// NewProlongationService yeni service oluşturur
func NewProlongationService(uow interfaces.UnitOfWork, notifier interfaces.NotifierInterface, queue *DepositQueue, loc *time.Location, thresholds []int) *ProlongationService {
	return &ProlongationService{
		uow:        uow,
		notifier:   notifier,
		queue:      queue,
		loc:        loc,
		thresholds: thresholds,
		now:        time.Now,
	}
}

func (s *ProlongationService) maxThreshold() int {
	largest := 0
	for _, t := range s.thresholds {
		if t > largest {
			largest = t
		}
	}
	return largest
}

// RequestAction kullanıcının vade sonu seçimini kaydeder
func (s *ProlongationService) RequestAction(ctx context.Context, userID int64, isAdmin bool, depositID int64, req *models.ProlongationRequest) (*models.ProlongationResult, error) {
	if !models.IsValidProlongAction(req.ActionToProlong) {
		return nil, apperrors.NewValidationError("action_to_prolong", "geçersiz vade sonu aksiyonu", req.ActionToProlong)
	}
	if req.Amount.IsNegative() {
		return nil, apperrors.NewValidationError("amount", "miktar negatif olamaz", req.Amount.String())
	}
	if req.ActionToProlong == models.ActionGetPartSum && !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "kısmi çekimde yeni portföy tutarı zorunludur", req.Amount.String())
	}

	now := s.now()
	result := &models.ProlongationResult{}

	err := serialize(ctx, s.queue, depositID, "prolongation_request", func() error {
		return s.uow.WithinTransaction(ctx, func(store interfaces.Store) error {
			deposit, err := store.Deposits().LockByID(ctx, depositID)
			if err != nil {
				return notFoundOr(err, "deposit", "portföy bulunamadı")
			}
			if !isAdmin && deposit.UserID != userID {
				return &apperrors.RBACError{
					Message:    "bu portföy üzerinde işlem yetkiniz yok",
					StatusCode: http.StatusForbidden,
					Resource:   "deposit",
					Action:     "prolong",
				}
			}
			if !deposit.IsActive {
				return apperrors.NewConflictError("portföy kapalı")
			}

			if deposit.IsMadeActionToProlong && deposit.LinkToDepositProlongation != nil {
				existing, err := store.Prolongations().LockByID(ctx, *deposit.LinkToDepositProlongation)
				if err != nil {
					return notFoundOr(err, "deposit_prolongation", "bağlı vade talebi bulunamadı")
				}
				if !existing.IsOperated {
					return apperrors.NewConflictError("bu portföy için bekleyen bir vade talebi zaten var")
				}
			}

			if !deposit.IsTimeToProlong && ledger.DaysUntil(deposit.DateUntil, now, s.loc) > s.maxThreshold() {
				return apperrors.NewValidationError("deposit_id", "portföyün vade sonu henüz yaklaşmadı", depositID)
			}

			prolongation, err := store.Prolongations().Create(ctx, &models.DepositProlongation{
				UserID:             deposit.UserID,
				DepositID:          deposit.ID,
				ActionToProlong:    req.ActionToProlong,
				Valute:             strings.TrimSpace(req.Valute),
				CryptoCashCurrency: strings.TrimSpace(req.CryptoCashCurrency),
				Amount:             req.Amount.Decimal,
			})
			if err != nil {
				return err
			}

			deposit.IsTimeToProlong = true
			deposit.IsMadeActionToProlong = true
			deposit.LinkToDepositProlongation = &prolongation.ID
			if err := store.Deposits().Update(ctx, deposit); err != nil {
				return err
			}

			result.Prolongation = prolongation
			result.Deposit = deposit
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("deposit_id", depositID).
		Int64("prolongation_id", result.Prolongation.ID).
		Str("action", req.ActionToProlong).
		Msg("Vade sonu talebi oluşturuldu")

	result.Warnings = warnIfFailed(nil, s.notifier.NotifyAdmins(ctx, NotifyAdminNewProlongationRequest, nil), NotifyAdminNewProlongationRequest)
	return result, nil
}

// ListPending çözülmemiş vade taleplerini döner
func (s *ProlongationService) ListPending(ctx context.Context) ([]*models.DepositProlongation, error) {
	return s.uow.Store().Prolongations().ListPending(ctx)
}

// Resolve admin çözümü. Talep kilit altında tekrar okunur; çözülmüş talep ConflictError döner.
func (s *ProlongationService) Resolve(ctx context.Context, prolongationID int64, req *models.ResolveProlongationRequest) (*models.ProlongationResult, error) {
	p, err := s.uow.Store().Prolongations().GetByID(ctx, prolongationID)
	if err != nil {
		return nil, notFoundOr(err, "deposit_prolongation", "vade talebi bulunamadı")
	}
	depositID := p.DepositID

	now := s.now()
	result := &models.ProlongationResult{}
	var notifyKey string

	err = serialize(ctx, s.queue, depositID, "prolongation_resolve", func() error {
		return s.uow.WithinTransaction(ctx, func(store interfaces.Store) error {
			deposit, err := store.Deposits().LockByID(ctx, depositID)
			if err != nil {
				return notFoundOr(err, "deposit", "portföy bulunamadı")
			}

			prolongation, err := store.Prolongations().LockByID(ctx, prolongationID)
			if err != nil {
				return notFoundOr(err, "deposit_prolongation", "vade talebi bulunamadı")
			}
			if prolongation.IsOperated {
				return apperrors.NewConflictError("vade talebi zaten işlenmiş")
			}
			if !deposit.IsActive {
				return apperrors.NewConflictError("portföy kapalı")
			}

			switch prolongation.ActionToProlong {
			case models.ActionGetAllSum:
				deposit.IsActive = false
				notifyKey = NotifyUserGetAllSum

			case models.ActionGetPartSum:
				newDeposit, newOp, err := s.openPartSumDeposit(ctx, store, deposit, prolongation, req, now)
				if err != nil {
					return err
				}
				deposit.IsActive = false
				result.NewDeposit = newDeposit
				result.NewOperation = newOp
				notifyKey = NotifyUserGetPartSum

			case models.ActionReinvestAll:
				deposit.DateUntil = ledger.ExtendTerm(deposit.DateUntil)
				deposit.IsTimeToProlong = false
				deposit.IsMadeActionToProlong = false
				notifyKey = NotifyUserReinvestAll

			default:
				return apperrors.NewValidationError("action_to_prolong", "geçersiz vade sonu aksiyonu", prolongation.ActionToProlong)
			}

			if err := store.Deposits().Update(ctx, deposit); err != nil {
				return err
			}
			if err := store.Prolongations().MarkOperated(ctx, prolongation.ID, now); err != nil {
				return err
			}
			prolongation.IsOperated = true
			prolongation.OperatedAt = &now

			result.Prolongation = prolongation
			result.Deposit = deposit
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("prolongation_id", prolongationID).
		Int64("deposit_id", depositID).
		Str("action", result.Prolongation.ActionToProlong).
		Msg("Vade talebi çözüldü")

	result.Warnings = notifyUser(ctx, s.uow.Store().Users(), s.notifier, result.Deposit.UserID, notifyKey, nil)
	return result, nil
}

// openPartSumDeposit kısmi çekimde yeni nakit portföyü ve açılış haftasını oluşturur
func (s *ProlongationService) openPartSumDeposit(ctx context.Context, store interfaces.Store, old *models.Deposit, p *models.DepositProlongation, req *models.ResolveProlongationRequest, now time.Time) (*models.Deposit, *models.DepositOperation, error) {
	amount := p.Amount
	if req != nil && req.NewPortfolioAmount != nil {
		amount = *req.NewPortfolioAmount
	}
	if !amount.IsPositive() || !amount.Equal(amount.Truncate(0)) {
		return nil, nil, apperrors.NewValidationError("new_portfolio_amount", "yeni portföy tutarı pozitif tam sayı olmalıdır", amount.String())
	}

	currency := p.CryptoCashCurrency
	if currency == "" {
		currency = old.CryptoCashCurrency
	}

	newDeposit, err := store.Deposits().Create(ctx, &models.Deposit{
		UserID:             old.UserID,
		Valute:             cashValute,
		CryptoCashCurrency: currency,
		Amount:             amount,
		AmountInEur:        amount,
		ExchangeRate:       decimal.NewFromInt(1),
		Period:             old.Period,
		DateUntil:          ledger.ExtendTerm(old.DateUntil),
		RiskPercent:        old.RiskPercent,
	})
	if err != nil {
		return nil, nil, err
	}

	newOp, err := store.Operations().Create(ctx, ledger.OpeningOperation(newDeposit, amount, now, s.loc))
	if err != nil {
		return nil, nil, err
	}
	return newDeposit, newOp, nil
}
