package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// listeleme için kullanıcının Telegram id'si ve adı join ile gelir
const passwordResetSelect = `
	SELECT r.id, r.user_id, u.tlgid, u.name, r.status, r.is_operated, r.created_at, r.updated_at
	FROM change_password_requests r
	JOIN users u ON u.id = r.user_id`

// PasswordResetRepository şifre sıfırlama talepleri database işlemleri
type PasswordResetRepository struct {
	db db.Executor
}

// NewPasswordResetRepository yeni repository oluşturur
func NewPasswordResetRepository(exec db.Executor) *PasswordResetRepository {
	return &PasswordResetRepository{db: exec}
}

func scanPasswordReset(row rowScanner) (*models.ChangePasswordRequest, error) {
	var req models.ChangePasswordRequest
	err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.TelegramID,
		&req.UserName,
		&req.Status,
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
func (r *PasswordResetRepository) Create(ctx context.Context, userID int64) (*models.ChangePasswordRequest, error) {
	query := `
		WITH created AS (
			INSERT INTO change_password_requests (user_id)
			VALUES ($1)
			RETURNING id, user_id, status, is_operated, created_at, updated_at
		)
		SELECT c.id, c.user_id, u.tlgid, u.name, c.status, c.is_operated, c.created_at, c.updated_at
		FROM created c
		JOIN users u ON u.id = c.user_id`

	req, err := scanPasswordReset(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("şifre sıfırlama talebi oluşturulamadı: %w", err)
	}
	return req, nil
}

// GetByID talebi getirir
func (r *PasswordResetRepository) GetByID(ctx context.Context, id int64) (*models.ChangePasswordRequest, error) {
	return r.get(ctx, passwordResetSelect+` WHERE r.id = $1`, id)
}

// LockByID talebi satır kilidiyle getirir
func (r *PasswordResetRepository) LockByID(ctx context.Context, id int64) (*models.ChangePasswordRequest, error) {
	return r.get(ctx, passwordResetSelect+` WHERE r.id = $1 FOR UPDATE OF r`, id)
}

func (r *PasswordResetRepository) get(ctx context.Context, query string, id int64) (*models.ChangePasswordRequest, error) {
	req, err := scanPasswordReset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("şifre sıfırlama talebi arama hatası: %w", err)
	}
	return req, nil
}

// HasOpen kullanıcının açık talebi olup olmadığını döner
func (r *PasswordResetRepository) HasOpen(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM change_password_requests WHERE user_id = $1 AND status = 'new')`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("açık talep kontrolü hatası: %w", err)
	}
	return exists, nil
}

// ListOpen açık talepleri yeniden eskiye listeler
func (r *PasswordResetRepository) ListOpen(ctx context.Context) ([]*models.ChangePasswordRequest, error) {
	query := passwordResetSelect + `
		WHERE r.status = 'new' AND r.is_operated = FALSE
		ORDER BY r.created_at DESC, r.id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("şifre sıfırlama talepleri sorgusu hatası: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.ChangePasswordRequest, 0)
	for rows.Next() {
		req, err := scanPasswordReset(rows)
		if err != nil {
			return nil, fmt.Errorf("şifre sıfırlama talebi scan hatası: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("şifre sıfırlama talepleri okunamadı: %w", err)
	}

	return requests, nil
}

// Resolve talebi kapatır
func (r *PasswordResetRepository) Resolve(ctx context.Context, id int64, status string) error {
	query := `
		UPDATE change_password_requests
		SET status = $1, is_operated = TRUE, updated_at = NOW()
		WHERE id = $2
	`

	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("şifre sıfırlama talebi güncellenemedi: %w", err)
	}
	return requireAffected(res)
}
