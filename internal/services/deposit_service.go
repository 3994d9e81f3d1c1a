package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	"github.com/onerilhan/go-portfolio-api/internal/ledger"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// DepositService portföy talebi, açılış, okuma ve refund business logic'i
type DepositService struct {
	uow      interfaces.UnitOfWork
	notifier interfaces.NotifierInterface
	queue    *DepositQueue
	loc      *time.Location
	now      func() time.Time
}

// NewDepositService yeni service oluşturur
func NewDepositService(uow interfaces.UnitOfWork, notifier interfaces.NotifierInterface, queue *DepositQueue, loc *time.Location) *DepositService {
	return &DepositService{
		uow:      uow,
		notifier: notifier,
		queue:    queue,
		loc:      loc,
		now:      time.Now,
	}
}

// CreateRequest kullanıcının yeni portföy talebini kaydeder ve adminlere haber verir
func (s *DepositService) CreateRequest(ctx context.Context, userID int64, req *models.CreateDepositRequest) (*models.DepositRequest, []string, error) {
	valute := strings.TrimSpace(req.Valute)
	if valute == "" {
		return nil, nil, apperrors.NewValidationError("valute", "para birimi zorunludur", req.Valute)
	}
	if !req.Amount.IsPositive() {
		return nil, nil, apperrors.NewValidationError("amount", "miktar sıfırdan büyük olmalıdır", req.Amount.String())
	}
	if req.Period <= 0 {
		return nil, nil, apperrors.NewValidationError("period", "süre (ay) sıfırdan büyük olmalıdır", req.Period)
	}
	if req.RiskPercent.IsNegative() {
		return nil, nil, apperrors.NewValidationError("risk_percent", "risk yüzdesi negatif olamaz", req.RiskPercent.String())
	}

	var created *models.DepositRequest
	err := s.uow.WithinTransaction(ctx, func(store interfaces.Store) error {
		user, err := userRecipient(ctx, store.Users(), userID)
		if err != nil {
			return err
		}

		name := user.Name
		if username := strings.TrimSpace(req.Username); username != "" {
			name = username
		}
		if name != user.Name || user.IsFirstEnter {
			if err := store.Users().UpdateProfile(ctx, user.ID, name, false); err != nil {
				return fmt.Errorf("kullanıcı profili güncellenemedi: %w", err)
			}
		}

		created, err = store.DepositRequests().Create(ctx, &models.DepositRequest{
			UserID:             userID,
			Valute:             valute,
			CryptoCashCurrency: strings.TrimSpace(req.CryptoCashCurrency),
			Amount:             req.Amount.Decimal,
			Period:             req.Period,
			RiskPercent:        req.RiskPercent.Decimal,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info().Int64("request_id", created.ID).Int64("user_id", userID).Msg("Yeni portföy talebi oluşturuldu")

	var warnings []string
	warnings = warnIfFailed(warnings, s.notifier.NotifyAdmins(ctx, NotifyAdminNewDepositRequest, nil), NotifyAdminNewDepositRequest)
	return created, warnings, nil
}

// ListPendingRequests işlenmemiş talepleri döner
func (s *DepositService) ListPendingRequests(ctx context.Context) ([]*models.DepositRequest, error) {
	return s.uow.Store().DepositRequests().ListPending(ctx)
}

// GetRequest talebi getirir
func (s *DepositService) GetRequest(ctx context.Context, id int64) (*models.DepositRequest, error) {
	req, err := s.uow.Store().DepositRequests().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "deposit_request", "portföy talebi bulunamadı")
	}
	return req, nil
}

// ApproveRequest talebi onaylar: portföy ve açılış haftası tek transaction içinde oluşur
func (s *DepositService) ApproveRequest(ctx context.Context, requestID int64, req *models.ApproveDepositRequest) (*models.DepositCreationResult, error) {
	if !req.ExchangeRate.IsPositive() {
		return nil, apperrors.NewValidationError("exchange_rate", "kur sıfırdan büyük olmalıdır", req.ExchangeRate.String())
	}
	if req.AmountInEur != nil && !req.AmountInEur.IsPositive() {
		return nil, apperrors.NewValidationError("amount_in_eur", "EUR karşılığı sıfırdan büyük olmalıdır", req.AmountInEur.String())
	}

	now := s.now()
	result := &models.DepositCreationResult{}

	err := s.uow.WithinTransaction(ctx, func(store interfaces.Store) error {
		request, err := store.DepositRequests().LockByID(ctx, requestID)
		if err != nil {
			return notFoundOr(err, "deposit_request", "portföy talebi bulunamadı")
		}
		if request.IsOperated {
			return apperrors.NewConflictError("portföy talebi zaten işlenmiş")
		}

		converted := ledger.Round2(request.Amount.Mul(req.ExchangeRate))
		amountInEur := converted
		if req.AmountInEur != nil {
			amountInEur = ledger.Round2(*req.AmountInEur)
		}

		reqID := request.ID
		deposit, err := store.Deposits().Create(ctx, &models.Deposit{
			UserID:             request.UserID,
			DepositRequestID:   &reqID,
			Valute:             request.Valute,
			CryptoCashCurrency: request.CryptoCashCurrency,
			Amount:             request.Amount,
			AmountInEur:        amountInEur,
			ExchangeRate:       req.ExchangeRate,
			Period:             request.Period,
			DateUntil:          ledger.MaturityDate(now.In(s.loc), request.Period),
			RiskPercent:        request.RiskPercent,
		})
		if err != nil {
			return err
		}

		opening, err := store.Operations().Create(ctx, ledger.OpeningOperation(deposit, converted, now, s.loc))
		if err != nil {
			return err
		}

		if err := store.DepositRequests().MarkOperated(ctx, request.ID); err != nil {
			return err
		}

		result.Deposit = deposit
		result.OpeningOperation = opening
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("request_id", requestID).
		Int64("deposit_id", result.Deposit.ID).
		Str("amount_in_eur", result.Deposit.AmountInEur.StringFixed(2)).
		Msg("Portföy oluşturuldu")

	result.Warnings = notifyUser(ctx, s.uow.Store().Users(), s.notifier, result.Deposit.UserID, NotifyUserDepositCreated, nil)
	return result, nil
}

// GetDeposit portföyü zinciri ve değerlemesiyle döner
func (s *DepositService) GetDeposit(ctx context.Context, id int64) (*models.DepositView, error) {
	store := s.uow.Store()

	deposit, err := store.Deposits().GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "deposit", "portföy bulunamadı")
	}

	view, err := s.view(ctx, store, deposit)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListUserDeposits kullanıcının portföylerini değerlemeleriyle döner
func (s *DepositService) ListUserDeposits(ctx context.Context, userID int64) ([]*models.DepositView, error) {
	store := s.uow.Store()

	deposits, err := store.Deposits().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, store, deposits)
}

// ListDeposits tüm portföyleri döner (admin)
func (s *DepositService) ListDeposits(ctx context.Context, activeOnly bool) ([]*models.DepositView, error) {
	store := s.uow.Store()

	deposits, err := store.Deposits().ListAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, store, deposits)
}

func (s *DepositService) views(ctx context.Context, store interfaces.Store, deposits []*models.Deposit) ([]*models.DepositView, error) {
	views := make([]*models.DepositView, 0, len(deposits))
	for _, d := range deposits {
		v, err := s.view(ctx, store, d)
		if err != nil {
			return nil, err
		}
		v.Operations = nil
		views = append(views, v)
	}
	return views, nil
}

func (s *DepositService) view(ctx context.Context, store interfaces.Store, deposit *models.Deposit) (*models.DepositView, error) {
	ops, err := store.Operations().ListByDeposit(ctx, deposit.ID)
	if err != nil {
		return nil, err
	}
	ledger.SortChain(ops)

	return &models.DepositView{
		Deposit:    deposit,
		Valuation:  ledger.Valuate(deposit, ops),
		Operations: ops,
	}, nil
}

// Refund portföye ek yatırım ekler: son operasyon refund olarak kapanır, aynı haftada yeni kuyruk açılır
func (s *DepositService) Refund(ctx context.Context, depositID int64, value decimal.Decimal) (*models.RefundResult, error) {
	rounded := ledger.Round2(value)
	if !rounded.IsPositive() {
		return nil, apperrors.NewValidationError("value", "refund tutarı en az 0.01 olmalıdır", value.String())
	}
	value = rounded

	var result *models.RefundResult
	err := serialize(ctx, s.queue, depositID, "refund", func() error {
		return s.uow.WithinTransaction(ctx, func(store interfaces.Store) error {
			deposit, err := store.Deposits().LockByID(ctx, depositID)
			if err != nil {
				return notFoundOr(err, "deposit", "portföy bulunamadı")
			}
			if !deposit.IsActive {
				return apperrors.NewConflictError("portföy kapalı, refund yapılamaz")
			}

			latest, err := store.Operations().GetLatest(ctx, depositID)
			if err != nil {
				return notFoundOr(err, "deposit_operation", "portföyün operasyonu bulunamadı")
			}
			if !latest.IsTail() {
				return fmt.Errorf("portföy %d: %w", depositID, ledger.ErrBrokenChain)
			}

			newTail, err := store.Operations().Create(ctx, ledger.PlanRefund(latest, value))
			if err != nil {
				return err
			}
			latest.NextOperationID = &newTail.ID
			if err := store.Operations().Update(ctx, latest); err != nil {
				return err
			}

			entry, err := store.Deposits().AddRefund(ctx, depositID, s.now(), value)
			if err != nil {
				return err
			}
			deposit.RefundHistory = append(deposit.RefundHistory, *entry)
			deposit.IsRefunded = true
			if err := store.Deposits().Update(ctx, deposit); err != nil {
				return err
			}

			ops, err := store.Operations().ListByDeposit(ctx, depositID)
			if err != nil {
				return err
			}
			ledger.SortChain(ops)

			result = &models.RefundResult{
				Deposit:         deposit,
				RefundOperation: latest,
				NewOperation:    newTail,
				Valuation:       ledger.Valuate(deposit, ops),
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("deposit_id", depositID).
		Str("value", value.StringFixed(2)).
		Int64("new_operation_id", result.NewOperation.ID).
		Msg("Refund işlendi")

	return result, nil
}
