package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

const depositRequestColumns = `id, user_id, valute, crypto_cash_currency, amount, period, risk_percent, is_operated, created_at, updated_at`

// DepositRequestRepository portföy talepleri database işlemleri
type DepositRequestRepository struct {
	db db.Executor
}

// NewDepositRequestRepository yeni repository oluşturur
func NewDepositRequestRepository(exec db.Executor) *DepositRequestRepository {
	return &DepositRequestRepository{db: exec}
}

func scanDepositRequest(row rowScanner) (*models.DepositRequest, error) {
	var req models.DepositRequest
	err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.Valute,
		&req.CryptoCashCurrency,
		&req.Amount,
		&req.Period,
		&req.RiskPercent,
		&req.IsOperated,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create yeni talep kaydeder
func (r *DepositRequestRepository) Create(ctx context.Context, req *models.DepositRequest) (*models.DepositRequest, error) {
	query := `
		INSERT INTO deposit_requests (user_id, valute, crypto_cash_currency, amount, period, risk_percent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + depositRequestColumns

	created, err := scanDepositRequest(r.db.QueryRowContext(ctx, query,
		req.UserID, req.Valute, req.CryptoCashCurrency, req.Amount, req.Period, req.RiskPercent,
	))
	if err != nil {
		return nil, fmt.Errorf("portföy talebi oluşturulamadı: %w", err)
	}
	return created, nil
}

// GetByID talebi getirir
func (r *DepositRequestRepository) GetByID(ctx context.Context, id int64) (*models.DepositRequest, error) {
	return r.get(ctx, `SELECT `+depositRequestColumns+` FROM deposit_requests WHERE id = $1`, id)
}

// LockByID talebi satır kilidiyle getirir
func (r *DepositRequestRepository) LockByID(ctx context.Context, id int64) (*models.DepositRequest, error) {
	return r.get(ctx, `SELECT `+depositRequestColumns+` FROM deposit_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *DepositRequestRepository) get(ctx context.Context, query string, id int64) (*models.DepositRequest, error) {
	req, err := scanDepositRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("portföy talebi arama hatası: %w", err)
	}
	return req, nil
}

// ListPending işlenmemiş talepleri eskiden yeniye listeler
func (r *DepositRequestRepository) ListPending(ctx context.Context) ([]*models.DepositRequest, error) {
	query := `
		SELECT ` + depositRequestColumns + `
		FROM deposit_requests
		WHERE is_operated = FALSE
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("portföy talepleri sorgusu hatası: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.DepositRequest, 0)
	for rows.Next() {
		req, err := scanDepositRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("portföy talebi scan hatası: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("portföy talepleri okunamadı: %w", err)
	}

	return requests, nil
}

// MarkOperated talebi işlenmiş olarak işaretler
func (r *DepositRequestRepository) MarkOperated(ctx context.Context, id int64) error {
	query := `UPDATE deposit_requests SET is_operated = TRUE, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("portföy talebi güncellenemedi: %w", err)
	}
	return requireAffected(res)
}
