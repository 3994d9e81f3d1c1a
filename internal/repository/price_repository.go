package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// PriceRepository BTC fiyatı ve kripto kurları database işlemleri
type PriceRepository struct {
	db db.Executor
}

// NewPriceRepository yeni repository oluşturur
func NewPriceRepository(exec db.Executor) *PriceRepository {
	return &PriceRepository{db: exec}
}

func scanBitcoinPrice(row rowScanner) (*models.BitcoinPrice, error) {
	var (
		p        models.BitcoinPrice
		usd, eur decimal.NullDecimal
	)
	if err := row.Scan(&p.ID, &p.Date, &p.Day, &usd, &eur, &p.CreatedAt); err != nil {
		return nil, err
	}
	if usd.Valid {
		p.PriceUsd = &usd.Decimal
	}
	if eur.Valid {
		p.PriceEur = &eur.Decimal
	}
	return &p, nil
}

func nullableDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// GetBitcoinPrice DD-MM-YYYY anahtarıyla günlük fiyatı getirir
func (r *PriceRepository) GetBitcoinPrice(ctx context.Context, date string) (*models.BitcoinPrice, error) {
	query := `SELECT id, date, day, price_usd, price_eur, created_at FROM bitcoin_prices WHERE date = $1`

	p, err := scanBitcoinPrice(r.db.QueryRowContext(ctx, query, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("BTC fiyatı arama hatası: %w", err)
	}
	return p, nil
}

// SaveBitcoinPrice günlük fiyatı ekler; aynı gün varsa fiyatları günceller
func (r *PriceRepository) SaveBitcoinPrice(ctx context.Context, price *models.BitcoinPrice) (*models.BitcoinPrice, error) {
	query := `
		INSERT INTO bitcoin_prices (date, day, price_usd, price_eur)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date) DO UPDATE
		SET price_usd = COALESCE(EXCLUDED.price_usd, bitcoin_prices.price_usd),
			price_eur = COALESCE(EXCLUDED.price_eur, bitcoin_prices.price_eur)
		RETURNING id, date, day, price_usd, price_eur, created_at
	`

	saved, err := scanBitcoinPrice(r.db.QueryRowContext(ctx, query,
		price.Date, price.Day, nullableDecimal(price.PriceUsd), nullableDecimal(price.PriceEur),
	))
	if err != nil {
		return nil, fmt.Errorf("BTC fiyatı kaydedilemedi: %w", err)
	}
	return saved, nil
}

// ListBitcoinPrices [from, to] aralığındaki fiyatları gün sırasıyla listeler
func (r *PriceRepository) ListBitcoinPrices(ctx context.Context, from, to time.Time) ([]*models.BitcoinPrice, error) {
	query := `
		SELECT id, date, day, price_usd, price_eur, created_at
		FROM bitcoin_prices
		WHERE day BETWEEN $1 AND $2
		ORDER BY day ASC
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("BTC fiyat sorgusu hatası: %w", err)
	}
	defer rows.Close()

	prices := make([]*models.BitcoinPrice, 0)
	for rows.Next() {
		p, err := scanBitcoinPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("BTC fiyatı scan hatası: %w", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("BTC fiyatları okunamadı: %w", err)
	}
	return prices, nil
}

// ListCryptoRates tüm kurları isim sırasıyla döner
func (r *PriceRepository) ListCryptoRates(ctx context.Context) ([]*models.CryptoRate, error) {
	query := `SELECT id, name, value, updated_at FROM crypto_rates ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("kur sorgusu hatası: %w", err)
	}
	defer rows.Close()

	rates := make([]*models.CryptoRate, 0)
	for rows.Next() {
		var rate models.CryptoRate
		if err := rows.Scan(&rate.ID, &rate.Name, &rate.Value, &rate.UpdatedAt); err != nil {
			return nil, fmt.Errorf("kur scan hatası: %w", err)
		}
		rates = append(rates, &rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kurlar okunamadı: %w", err)
	}
	return rates, nil
}

// UpsertCryptoRate kuru isme göre ekler veya günceller
func (r *PriceRepository) UpsertCryptoRate(ctx context.Context, name string, value decimal.Decimal) (*models.CryptoRate, error) {
	query := `
		INSERT INTO crypto_rates (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING id, name, value, updated_at
	`

	var rate models.CryptoRate
	err := r.db.QueryRowContext(ctx, query, name, value).Scan(&rate.ID, &rate.Name, &rate.Value, &rate.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("kur kaydedilemedi: %w", err)
	}
	return &rate, nil
}
