package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositRequest kullanıcının yeni portföy talebi
type DepositRequest struct {
	ID                 int64           `json:"id" db:"id"`
	UserID             int64           `json:"user_id" db:"user_id"`
	Valute             string          `json:"valute" db:"valute"`
	CryptoCashCurrency string          `json:"crypto_cash_currency" db:"crypto_cash_currency"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	Period             int             `json:"period" db:"period"`
	RiskPercent        decimal.Decimal `json:"risk_percent" db:"risk_percent"`
	IsOperated         bool            `json:"is_operated" db:"is_operated"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateDepositRequest yeni portföy talebi girişi
type CreateDepositRequest struct {
	Valute             string          `json:"valute"`
	CryptoCashCurrency string          `json:"crypto_cash_currency"`
	Amount             FlexibleDecimal `json:"amount"`
	Period             int             `json:"period"`
	RiskPercent        FlexibleDecimal `json:"risk_percent"`
	Username           string          `json:"username"`
}

// ApproveDepositRequest admin onayı: kur ve opsiyonel EUR karşılığı
type ApproveDepositRequest struct {
	ExchangeRate decimal.Decimal  `json:"exchange_rate"`
	AmountInEur  *decimal.Decimal `json:"amount_in_eur,omitempty"`
}

// DepositCreationResult onaydan sonra oluşan portföy ve açılış operasyonu
type DepositCreationResult struct {
	Deposit          *Deposit          `json:"deposit"`
	OpeningOperation *DepositOperation `json:"opening_operation"`
	Warnings         []string          `json:"-"`
}
