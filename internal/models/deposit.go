package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundEntry portföye yapılan ek yatırım (refund) kaydı
type RefundEntry struct {
	ID        int64           `json:"id" db:"id"`
	DepositID int64           `json:"deposit_id" db:"deposit_id"`
	Date      time.Time       `json:"date" db:"date"`
	Value     decimal.Decimal `json:"value" db:"value"`
}

// Deposit kullanıcının yatırım portföyü
type Deposit struct {
	ID                        int64           `json:"id" db:"id"`
	UserID                    int64           `json:"user_id" db:"user_id"`
	DepositRequestID          *int64          `json:"deposit_request_id,omitempty" db:"deposit_request_id"`
	Valute                    string          `json:"valute" db:"valute"`
	CryptoCashCurrency        string          `json:"crypto_cash_currency" db:"crypto_cash_currency"`
	Amount                    decimal.Decimal `json:"amount" db:"amount"`
	AmountInEur               decimal.Decimal `json:"amount_in_eur" db:"amount_in_eur"`
	ExchangeRate              decimal.Decimal `json:"exchange_rate" db:"exchange_rate"`
	Period                    int             `json:"period" db:"period"`
	DateUntil                 time.Time       `json:"date_until" db:"date_until"`
	RiskPercent               decimal.Decimal `json:"risk_percent" db:"risk_percent"`
	IsActive                  bool            `json:"is_active" db:"is_active"`
	IsRefunded                bool            `json:"is_refunded" db:"is_refunded"`
	IsTimeToProlong           bool            `json:"is_time_to_prolong" db:"is_time_to_prolong"`
	IsMadeActionToProlong     bool            `json:"is_made_action_to_prolong" db:"is_made_action_to_prolong"`
	LinkToDepositProlongation *int64          `json:"link_to_deposit_prolongation,omitempty" db:"link_to_deposit_prolongation"`
	RefundHistory             []RefundEntry   `json:"refund_history"`
	CreatedAt                 time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at" db:"updated_at"`
}

// Valuation portföyün türetilmiş değerleri (her okumada yeniden hesaplanır)
type Valuation struct {
	TotalInitialPrice     decimal.Decimal `json:"total_initial_price"`
	ProfitSum             decimal.Decimal `json:"profit_sum"`
	CurrentPortfolioValue decimal.Decimal `json:"current_portfolio_value"`
	ProfitEur             decimal.Decimal `json:"profit_eur"`
	ProfitPercent         decimal.Decimal `json:"profit_percent"`
}

// DepositView portföy + değerleme (+ opsiyonel operasyon zinciri)
type DepositView struct {
	*Deposit
	Valuation
	Operations []*DepositOperation `json:"operations,omitempty"`
}

// RefundRequest portföye ek yatırım isteği
type RefundRequest struct {
	Value decimal.Decimal `json:"value"`
}

// RefundResult refund sonrası oluşan durum
type RefundResult struct {
	Deposit         *Deposit          `json:"deposit"`
	RefundOperation *DepositOperation `json:"refund_operation"`
	NewOperation    *DepositOperation `json:"new_operation"`
	Valuation       Valuation         `json:"valuation"`
}
