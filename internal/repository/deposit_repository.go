package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

const depositColumns = `id, user_id, deposit_request_id, valute, crypto_cash_currency, amount, amount_in_eur,
	exchange_rate, period, date_until, risk_percent, is_active, is_refunded, is_time_to_prolong,
	is_made_action_to_prolong, link_to_deposit_prolongation, created_at, updated_at`

// DepositRepository portföy database işlemleri
type DepositRepository struct {
	db db.Executor
}

// NewDepositRepository yeni repository oluşturur
func NewDepositRepository(exec db.Executor) *DepositRepository {
	return &DepositRepository{db: exec}
}

func scanDeposit(row rowScanner) (*models.Deposit, error) {
	var (
		d         models.Deposit
		requestID sql.NullInt64
		link      sql.NullInt64
	)
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&requestID,
		&d.Valute,
		&d.CryptoCashCurrency,
		&d.Amount,
		&d.AmountInEur,
		&d.ExchangeRate,
		&d.Period,
		&d.DateUntil,
		&d.RiskPercent,
		&d.IsActive,
		&d.IsRefunded,
		&d.IsTimeToProlong,
		&d.IsMadeActionToProlong,
		&link,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if requestID.Valid {
		d.DepositRequestID = &requestID.Int64
	}
	if link.Valid {
		d.LinkToDepositProlongation = &link.Int64
	}
	d.RefundHistory = make([]models.RefundEntry, 0)
	return &d, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

// Create yeni portföy oluşturur
func (r *DepositRepository) Create(ctx context.Context, d *models.Deposit) (*models.Deposit, error) {
	query := `
		INSERT INTO deposits (user_id, deposit_request_id, valute, crypto_cash_currency, amount, amount_in_eur,
			exchange_rate, period, date_until, risk_percent, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
		RETURNING ` + depositColumns

	created, err := scanDeposit(r.db.QueryRowContext(ctx, query,
		d.UserID, nullableID(d.DepositRequestID), d.Valute, d.CryptoCashCurrency, d.Amount, d.AmountInEur,
		d.ExchangeRate, d.Period, d.DateUntil, d.RiskPercent,
	))
	if err != nil {
		return nil, fmt.Errorf("portföy oluşturulamadı: %w", err)
	}
	return created, nil
}

// GetByID portföyü refund geçmişiyle getirir
func (r *DepositRepository) GetByID(ctx context.Context, id int64) (*models.Deposit, error) {
	return r.get(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1`, id)
}

// LockByID portföy satırını kilitler; aynı portföy üzerindeki diğer transaction'lar commit'e kadar bekler
func (r *DepositRepository) LockByID(ctx context.Context, id int64) (*models.Deposit, error) {
	return r.get(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1 FOR UPDATE`, id)
}

func (r *DepositRepository) get(ctx context.Context, query string, id int64) (*models.Deposit, error) {
	d, err := scanDeposit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("portföy arama hatası: %w", err)
	}

	history, err := r.refundHistory(ctx, []int64{d.ID})
	if err != nil {
		return nil, err
	}
	d.RefundHistory = append(d.RefundHistory, history[d.ID]...)
	return d, nil
}

// ListByUser kullanıcının portföylerini listeler
func (r *DepositRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, userID)
}

// ListAll tüm portföyleri listeler, activeOnly ile sadece aktifler
func (r *DepositRepository) ListAll(ctx context.Context, activeOnly bool) ([]*models.Deposit, error) {
	query := `SELECT ` + depositColumns + ` FROM deposits WHERE ($1 = FALSE OR is_active = TRUE) ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, activeOnly)
}

func (r *DepositRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Deposit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("portföy sorgusu hatası: %w", err)
	}
	defer rows.Close()

	deposits := make([]*models.Deposit, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("portföy scan hatası: %w", err)
		}
		deposits = append(deposits, d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("portföyler okunamadı: %w", err)
	}
	if len(ids) == 0 {
		return deposits, nil
	}

	history, err := r.refundHistory(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range deposits {
		d.RefundHistory = append(d.RefundHistory, history[d.ID]...)
	}
	return deposits, nil
}

// refundHistory verilen portföylerin refund kayıtlarını tarih sırasıyla gruplar
func (r *DepositRepository) refundHistory(ctx context.Context, depositIDs []int64) (map[int64][]models.RefundEntry, error) {
	query := `
		SELECT id, deposit_id, date, value
		FROM deposit_refunds
		WHERE deposit_id = ANY($1)
		ORDER BY date ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(depositIDs))
	if err != nil {
		return nil, fmt.Errorf("refund geçmişi sorgusu hatası: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]models.RefundEntry)
	for rows.Next() {
		var e models.RefundEntry
		if err := rows.Scan(&e.ID, &e.DepositID, &e.Date, &e.Value); err != nil {
			return nil, fmt.Errorf("refund geçmişi scan hatası: %w", err)
		}
		result[e.DepositID] = append(result[e.DepositID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("refund geçmişi okunamadı: %w", err)
	}
	return result, nil
}

// Update portföyün değişebilir alanlarını günceller
func (r *DepositRepository) Update(ctx context.Context, d *models.Deposit) error {
	query := `
		UPDATE deposits
		SET date_until = $1, is_active = $2, is_refunded = $3, is_time_to_prolong = $4,
			is_made_action_to_prolong = $5, link_to_deposit_prolongation = $6, updated_at = NOW()
		WHERE id = $7
	`

	res, err := r.db.ExecContext(ctx, query,
		d.DateUntil, d.IsActive, d.IsRefunded, d.IsTimeToProlong,
		d.IsMadeActionToProlong, nullableID(d.LinkToDepositProlongation), d.ID,
	)
	if err != nil {
		return fmt.Errorf("portföy güncellenemedi: %w", err)
	}
	return requireAffected(res)
}

// AddRefund refund geçmişine kayıt ekler
func (r *DepositRepository) AddRefund(ctx context.Context, depositID int64, date time.Time, value decimal.Decimal) (*models.RefundEntry, error) {
	query := `
		INSERT INTO deposit_refunds (deposit_id, date, value)
		VALUES ($1, $2, $3)
		RETURNING id, deposit_id, date, value
	`

	var e models.RefundEntry
	err := r.db.QueryRowContext(ctx, query, depositID, date, value).Scan(&e.ID, &e.DepositID, &e.Date, &e.Value)
	if err != nil {
		return nil, fmt.Errorf("refund kaydı eklenemedi: %w", err)
	}
	return &e, nil
}
