package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BitcoinPriceDateLayout günlük BTC kaydının anahtar formatı (DD-MM-YYYY)
const BitcoinPriceDateLayout = "02-01-2006"

// BitcoinPrice günlük BTC kapanış fiyatı
type BitcoinPrice struct {
	ID        int64            `json:"id" db:"id"`
	Date      string           `json:"date" db:"date"`
	Day       time.Time        `json:"day" db:"day"`
	PriceUsd  *decimal.Decimal `json:"price_usd" db:"price_usd"`
	PriceEur  *decimal.Decimal `json:"price_eur" db:"price_eur"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// CryptoRate isim/değer şeklinde kur kaydı
type CryptoRate struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Value     decimal.Decimal `json:"value" db:"value"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// UpdateCryptoRateRequest kur güncelleme girişi
type UpdateCryptoRateRequest struct {
	Name  string          `json:"name"`
	Value FlexibleDecimal `json:"value"`
}

// FetchPricesRequest admin BTC fiyat çekme isteği (tek gün veya aralık)
type FetchPricesRequest struct {
	From string `json:"from"` // DD-MM-YYYY
	To   string `json:"to"`   // DD-MM-YYYY
}

// PriceFetchReport aralık çekme sonucu
type PriceFetchReport struct {
	Saved    []*BitcoinPrice `json:"saved"`
	Failures []string        `json:"failures,omitempty"`
}

// MaturityScanReport vade kontrol job'ı sonucu
type MaturityScanReport struct {
	Checked  int      `json:"checked"`
	Flagged  int      `json:"flagged"`
	Failures []string `json:"failures,omitempty"`
}
