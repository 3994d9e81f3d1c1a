package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

const prolongationColumns = `id, user_id, deposit_id, action_to_prolong, valute, crypto_cash_currency, amount,
	is_operated, operated_at, created_at, updated_at`

// ProlongationRepository vade sonu talepleri database işlemleri
type ProlongationRepository struct {
	db db.Executor
}

// NewProlongationRepository yeni repository oluşturur
func NewProlongationRepository(exec db.Executor) *ProlongationRepository {
	return &ProlongationRepository{db: exec}
}

func scanProlongation(row rowScanner) (*models.DepositProlongation, error) {
	var (
		p          models.DepositProlongation
		operatedAt sql.NullTime
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.DepositID,
		&p.ActionToProlong,
		&p.Valute,
		&p.CryptoCashCurrency,
		&p.Amount,
		&p.IsOperated,
		&operatedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if operatedAt.Valid {
		p.OperatedAt = &operatedAt.Time
	}
	return &p, nil
}

// Create yeni aksiyon talebi kaydeder
func (r *ProlongationRepository) Create(ctx context.Context, p *models.DepositProlongation) (*models.DepositProlongation, error) {
	query := `
		INSERT INTO deposit_prolongations (user_id, deposit_id, action_to_prolong, valute, crypto_cash_currency, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + prolongationColumns

	created, err := scanProlongation(r.db.QueryRowContext(ctx, query,
		p.UserID, p.DepositID, p.ActionToProlong, p.Valute, p.CryptoCashCurrency, p.Amount,
	))
	if err != nil {
		return nil, fmt.Errorf("vade talebi oluşturulamadı: %w", err)
	}
	return created, nil
}

// GetByID talebi getirir
func (r *ProlongationRepository) GetByID(ctx context.Context, id int64) (*models.DepositProlongation, error) {
	return r.get(ctx, `SELECT `+prolongationColumns+` FROM deposit_prolongations WHERE id = $1`, id)
}

// LockByID talebi satır kilidiyle getirir
func (r *ProlongationRepository) LockByID(ctx context.Context, id int64) (*models.DepositProlongation, error) {
	return r.get(ctx, `SELECT `+prolongationColumns+` FROM deposit_prolongations WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProlongationRepository) get(ctx context.Context, query string, id int64) (*models.DepositProlongation, error) {
	p, err := scanProlongation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("vade talebi arama hatası: %w", err)
	}
	return p, nil
}

// ListPending çözülmemiş talepleri listeler
func (r *ProlongationRepository) ListPending(ctx context.Context) ([]*models.DepositProlongation, error) {
	query := `
		SELECT ` + prolongationColumns + `
		FROM deposit_prolongations
		WHERE is_operated = FALSE
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vade talepleri sorgusu hatası: %w", err)
	}
	defer rows.Close()

	items := make([]*models.DepositProlongation, 0)
	for rows.Next() {
		p, err := scanProlongation(rows)
		if err != nil {
			return nil, fmt.Errorf("vade talebi scan hatası: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vade talepleri okunamadı: %w", err)
	}
	return items, nil
}

// MarkOperated talebi çözüldü olarak işaretler
func (r *ProlongationRepository) MarkOperated(ctx context.Context, id int64, at time.Time) error {
	query := `
		UPDATE deposit_prolongations
		SET is_operated = TRUE, operated_at = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("vade talebi güncellenemedi: %w", err)
	}
	return requireAffected(res)
}
