package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vade sonu aksiyonları
const (
	ActionGetAllSum   = "get_all_sum"
	ActionGetPartSum  = "get_part_sum"
	ActionReinvestAll = "reinvest_all"
)

// IsValidProlongAction aksiyonun tanımlı olup olmadığını kontrol eder
func IsValidProlongAction(action string) bool {
	switch action {
	case ActionGetAllSum, ActionGetPartSum, ActionReinvestAll:
		return true
	}
	return false
}

// DepositProlongation vade sonu aksiyon talebi; bir kez çözülür
type DepositProlongation struct {
	ID                 int64           `json:"id" db:"id"`
	UserID             int64           `json:"user_id" db:"user_id"`
	DepositID          int64           `json:"deposit_id" db:"deposit_id"`
	ActionToProlong    string          `json:"action_to_prolong" db:"action_to_prolong"`
	Valute             string          `json:"valute" db:"valute"`
	CryptoCashCurrency string          `json:"crypto_cash_currency" db:"crypto_cash_currency"`
	Amount             decimal.Decimal `json:"amount" db:"amount"`
	IsOperated         bool            `json:"is_operated" db:"is_operated"`
	OperatedAt         *time.Time      `json:"operated_at,omitempty" db:"operated_at"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at" db:"updated_at"`
}

// ProlongationRequest kullanıcının vade sonu aksiyon seçimi
type ProlongationRequest struct {
	ActionToProlong    string          `json:"action_to_prolong"`
	Valute             string          `json:"valute"`
	CryptoCashCurrency string          `json:"crypto_cash_currency"`
	Amount             FlexibleDecimal `json:"amount"`
}

// ResolveProlongationRequest admin çözüm isteği
type ResolveProlongationRequest struct {
	NewPortfolioAmount *decimal.Decimal `json:"new_portfolio_amount,omitempty"`
}

// ProlongationResult aksiyon talebi/çözümü sonucu
type ProlongationResult struct {
	Prolongation *DepositProlongation `json:"prolongation"`
	Deposit      *Deposit             `json:"deposit"`
	NewDeposit   *Deposit             `json:"new_deposit,omitempty"`
	NewOperation *DepositOperation    `json:"new_operation,omitempty"`
	Warnings     []string             `json:"-"`
}
