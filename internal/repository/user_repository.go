package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

const userColumns = `id, tlgid, username, name, language, role, password_hash, is_set_password, is_first_enter, created_at, updated_at`

// UserRepository kullanıcı database işlemleri
type UserRepository struct {
	db db.Executor
}

// NewUserRepository yeni repository oluşturur
func NewUserRepository(exec db.Executor) *UserRepository {
	return &UserRepository{db: exec}
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
		&user.Name,
		&user.Language,
		&user.Role,
		&user.PasswordHash,
		&user.IsSetPassword,
		&user.IsFirstEnter,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create yeni kullanıcı oluşturur
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (tlgid, username, name, language, role, is_first_enter)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.TelegramID, user.Username, user.Name, user.Language, user.Role,
	))
	if err != nil {
		return nil, fmt.Errorf("kullanıcı oluşturulamadı: %w", err)
	}

	return created, nil
}

// GetByID ID ile kullanıcı bulur
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("kullanıcı arama hatası: %w", err)
	}

	return user, nil
}

// GetByTelegramID Telegram id ile kullanıcı bulur
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE tlgid = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("kullanıcı arama hatası: %w", err)
	}

	return user, nil
}

// SetPassword şifre hash'ini kaydeder
func (r *UserRepository) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, is_set_password = TRUE, updated_at = NOW()
		WHERE id = $2
	`

	res, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("şifre kaydedilemedi: %w", err)
	}
	return requireAffected(res)
}

// UpdateProfile isim ve ilk giriş bilgisini günceller
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, name string, isFirstEnter bool) error {
	query := `
		UPDATE users
		SET name = $1, is_first_enter = $2, updated_at = NOW()
		WHERE id = $3
	`

	res, err := r.db.ExecContext(ctx, query, name, isFirstEnter, id)
	if err != nil {
		return fmt.Errorf("kullanıcı güncellenemedi: %w", err)
	}
	return requireAffected(res)
}

// ResetPassword şifreyi siler; kullanıcı initData ile yeniden şifre belirler
func (r *UserRepository) ResetPassword(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET password_hash = '', is_set_password = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("şifre sıfırlanamadı: %w", err)
	}
	return requireAffected(res)
}

// requireAffected hiç satır etkilenmediyse ErrRecordNotFound döner
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("etkilenen satır sayısı alınamadı: %w", err)
	}
	if n == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}
