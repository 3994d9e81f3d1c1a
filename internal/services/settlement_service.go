package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	"github.com/onerilhan/go-portfolio-api/internal/ledger"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// SettlementService haftalık kâr/zarar kapanışı
type SettlementService struct {
	uow   interfaces.UnitOfWork
	queue *DepositQueue
	loc   *time.Location
}

// NewSettlementService yeni service oluşturur
func NewSettlementService(uow interfaces.UnitOfWork, queue *DepositQueue, loc *time.Location) *SettlementService {
	return &SettlementService{uow: uow, queue: queue, loc: loc}
}

// Settle operasyona yüzdeyi uygular. İlk kapanışta sonraki hafta açılır,
// tekrar kapanışta sonraki haftalar zincir boyunca yeniden hesaplanır.
func (s *SettlementService) Settle(ctx context.Context, operationID int64, percent decimal.Decimal) (*models.SettlementResult, error) {
	if !percent.Equal(ledger.RoundPercent(percent)) {
		return nil, apperrors.NewValidationError("percent",
			fmt.Sprintf("yüzde en fazla %d ondalık basamak içerebilir", ledger.PercentPlaces), percent.String())
	}

	op, err := s.uow.Store().Operations().GetByID(ctx, operationID)
	if err != nil {
		return nil, notFoundOr(err, "deposit_operation", "operasyon bulunamadı")
	}
	depositID := op.DepositID

	var result *models.SettlementResult
	err = serialize(ctx, s.queue, depositID, "settle", func() error {
		return s.uow.WithinTransaction(ctx, func(store interfaces.Store) error {
			deposit, err := store.Deposits().LockByID(ctx, depositID)
			if err != nil {
				return notFoundOr(err, "deposit", "portföy bulunamadı")
			}
			if !deposit.IsActive {
				return apperrors.NewConflictError("portföy kapalı, haftalık kapanış yapılamaz")
			}

			chain, err := store.Operations().ListByDeposit(ctx, depositID)
			if err != nil {
				return err
			}
			ledger.SortChain(chain)
			if err := ledger.VerifyChain(chain); err != nil {
				return fmt.Errorf("portföy %d: %w", depositID, err)
			}

			plan, err := ledger.PlanSettlement(chain, operationID, percent, s.loc)
			if err != nil {
				return settlementError(err)
			}

			if plan.NewOperation != nil {
				created, err := store.Operations().Create(ctx, plan.NewOperation)
				if err != nil {
					return err
				}
				plan.Target.NextOperationID = &created.ID
				plan.NewOperation = created
				chain = append(chain, created)
			}

			if err := store.Operations().Update(ctx, plan.Target); err != nil {
				return err
			}
			for _, op := range plan.Recalculated {
				if err := store.Operations().Update(ctx, op); err != nil {
					return err
				}
			}

			result = &models.SettlementResult{
				Operation:    plan.Target,
				NewOperation: plan.NewOperation,
				Recalculated: plan.Recalculated,
				Valuation:    ledger.Valuate(deposit, chain),
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("operation_id", operationID).
		Int64("deposit_id", depositID).
		Str("profit_percent", percent.String()).
		Int("recalculated", len(result.Recalculated)).
		Msg("Haftalık kapanış işlendi")

	return result, nil
}

func settlementError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrRefundOperation):
		return apperrors.NewValidationError("operation_id", "refund operasyonu kapatılamaz", nil)
	case errors.Is(err, ledger.ErrOperationNotInChain):
		return apperrors.NewNotFoundError("deposit_operation", "operasyon portföy zincirinde bulunamadı")
	default:
		return err
	}
}
