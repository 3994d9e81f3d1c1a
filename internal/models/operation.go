package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositOperation bir portföyün haftalık değerleme kaydı.
// Zincir next_operation ile bağlıdır; sıralama sequence alanıyla yapılır.
type DepositOperation struct {
	ID                int64           `json:"id" db:"id"`
	DepositID         int64           `json:"deposit_id" db:"deposit_id"`
	UserID            int64           `json:"user_id" db:"user_id"`
	WeekDateStart     time.Time       `json:"week_date_start" db:"week_date_start"`
	WeekDateFinish    time.Time       `json:"week_date_finish" db:"week_date_finish"`
	WeekStartAmount   decimal.Decimal `json:"week_start_amount" db:"week_start_amount"`
	WeekFinishAmount  decimal.Decimal `json:"week_finish_amount" db:"week_finish_amount"`
	NumberOfWeek      int             `json:"number_of_week" db:"number_of_week"`
	Sequence          int             `json:"sequence" db:"sequence"`
	ProfitPercent     decimal.Decimal `json:"profit_percent" db:"profit_percent"`
	IsFilled          bool            `json:"is_filled" db:"is_filled"`
	IsRefundOperation bool            `json:"is_refund_operation" db:"is_refund_operation"`
	RefundValue       decimal.Decimal `json:"refund_value" db:"refund_value"`
	NextOperationID   *int64          `json:"next_operation,omitempty" db:"next_operation"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// IsTail zincirin son halkası mı
func (o *DepositOperation) IsTail() bool {
	return o.NextOperationID == nil
}

// SettleRequest haftalık kâr/zarar yüzdesi girişi
type SettleRequest struct {
	ProfitPercent *decimal.Decimal `json:"profit_percent"`
}

// SettlementResult haftalık kapanış sonucu
type SettlementResult struct {
	Operation    *DepositOperation   `json:"operation"`
	NewOperation *DepositOperation   `json:"new_operation,omitempty"`
	Recalculated []*DepositOperation `json:"recalculated,omitempty"`
	Valuation    Valuation           `json:"valuation"`
}
