package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

const operationColumns = `id, deposit_id, user_id, week_date_start, week_date_finish, week_start_amount,
	week_finish_amount, number_of_week, sequence, profit_percent, is_filled, is_refund_operation,
	refund_value, next_operation, created_at, updated_at`

// OperationRepository haftalık operasyon database işlemleri
type OperationRepository struct {
	db db.Executor
}

// NewOperationRepository yeni repository oluşturur
func NewOperationRepository(exec db.Executor) *OperationRepository {
	return &OperationRepository{db: exec}
}

func scanOperation(row rowScanner) (*models.DepositOperation, error) {
	var (
		op   models.DepositOperation
		next sql.NullInt64
	)
	err := row.Scan(
		&op.ID,
		&op.DepositID,
		&op.UserID,
		&op.WeekDateStart,
		&op.WeekDateFinish,
		&op.WeekStartAmount,
		&op.WeekFinishAmount,
		&op.NumberOfWeek,
		&op.Sequence,
		&op.ProfitPercent,
		&op.IsFilled,
		&op.IsRefundOperation,
		&op.RefundValue,
		&next,
		&op.CreatedAt,
		&op.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if next.Valid {
		op.NextOperationID = &next.Int64
	}
	return &op, nil
}

// Create yeni operasyon ekler
func (r *OperationRepository) Create(ctx context.Context, op *models.DepositOperation) (*models.DepositOperation, error) {
	query := `
		INSERT INTO deposit_operations (deposit_id, user_id, week_date_start, week_date_finish,
			week_start_amount, week_finish_amount, number_of_week, sequence, profit_percent,
			is_filled, is_refund_operation, refund_value, next_operation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + operationColumns

	created, err := scanOperation(r.db.QueryRowContext(ctx, query,
		op.DepositID, op.UserID, op.WeekDateStart, op.WeekDateFinish,
		op.WeekStartAmount, op.WeekFinishAmount, op.NumberOfWeek, op.Sequence, op.ProfitPercent,
		op.IsFilled, op.IsRefundOperation, op.RefundValue, nullableID(op.NextOperationID),
	))
	if err != nil {
		return nil, fmt.Errorf("operasyon oluşturulamadı: %w", err)
	}
	return created, nil
}

// GetByID operasyonu getirir
func (r *OperationRepository) GetByID(ctx context.Context, id int64) (*models.DepositOperation, error) {
	query := `SELECT ` + operationColumns + ` FROM deposit_operations WHERE id = $1`

	op, err := scanOperation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("operasyon arama hatası: %w", err)
	}
	return op, nil
}

// ListByDeposit portföyün zincirini sequence sırasıyla döner
func (r *OperationRepository) ListByDeposit(ctx context.Context, depositID int64) ([]*models.DepositOperation, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM deposit_operations
		WHERE deposit_id = $1
		ORDER BY sequence ASC
	`

	rows, err := r.db.QueryContext(ctx, query, depositID)
	if err != nil {
		return nil, fmt.Errorf("operasyon sorgusu hatası: %w", err)
	}
	defer rows.Close()

	ops := make([]*models.DepositOperation, 0)
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("operasyon scan hatası: %w", err)
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("operasyonlar okunamadı: %w", err)
	}
	return ops, nil
}

// GetLatest en büyük sequence'a sahip operasyonu döner
func (r *OperationRepository) GetLatest(ctx context.Context, depositID int64) (*models.DepositOperation, error) {
	query := `
		SELECT ` + operationColumns + `
		FROM deposit_operations
		WHERE deposit_id = $1
		ORDER BY sequence DESC
		LIMIT 1
	`

	op, err := scanOperation(r.db.QueryRowContext(ctx, query, depositID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("son operasyon arama hatası: %w", err)
	}
	return op, nil
}

// Update operasyonun değişebilir alanlarını günceller
func (r *OperationRepository) Update(ctx context.Context, op *models.DepositOperation) error {
	query := `
		UPDATE deposit_operations
		SET week_start_amount = $1, week_finish_amount = $2, profit_percent = $3, is_filled = $4,
			is_refund_operation = $5, refund_value = $6, next_operation = $7, updated_at = NOW()
		WHERE id = $8
	`

	res, err := r.db.ExecContext(ctx, query,
		op.WeekStartAmount, op.WeekFinishAmount, op.ProfitPercent, op.IsFilled,
		op.IsRefundOperation, op.RefundValue, nullableID(op.NextOperationID), op.ID,
	)
	if err != nil {
		return fmt.Errorf("operasyon güncellenemedi: %w", err)
	}
	return requireAffected(res)
}
