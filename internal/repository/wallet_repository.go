package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

const walletColumns = `id, name, address, created_at, updated_at`

// WalletRepository cüzdan adresleri database işlemleri
type WalletRepository struct {
	db db.Executor
}

// NewWalletRepository yeni repository oluşturur
func NewWalletRepository(exec db.Executor) *WalletRepository {
	return &WalletRepository{db: exec}
}

func scanWallet(row rowScanner) (*models.WalletAddress, error) {
	var w models.WalletAddress
	if err := row.Scan(&w.ID, &w.Name, &w.Address, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByName adresi isme göre getirir
func (r *WalletRepository) GetByName(ctx context.Context, name string) (*models.WalletAddress, error) {
	query := `SELECT ` + walletColumns + ` FROM wallet_addresses WHERE name = $1`

	w, err := scanWallet(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("cüzdan adresi arama hatası: %w", err)
	}
	return w, nil
}

// Upsert adresi ekler, isim varsa günceller
func (r *WalletRepository) Upsert(ctx context.Context, name, address string) (*models.WalletAddress, error) {
	query := `
		INSERT INTO wallet_addresses (name, address)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET address = EXCLUDED.address, updated_at = NOW()
		RETURNING ` + walletColumns

	w, err := scanWallet(r.db.QueryRowContext(ctx, query, name, address))
	if err != nil {
		return nil, fmt.Errorf("cüzdan adresi kaydedilemedi: %w", err)
	}
	return w, nil
}
