package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/onerilhan/go-portfolio-api/internal/models"
)

var hundred = decimal.NewFromInt(100)

// PercentPlaces kâr yüzdesinin saklandığı ondalık basamak sayısı (NUMERIC(10,4))
const PercentPlaces int32 = 4

// Round2 tutarı 2 ondalık basamağa yuvarlar
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// RoundPercent yüzdeyi saklanan hassasiyete yuvarlar
func RoundPercent(percent decimal.Decimal) decimal.Decimal {
	return percent.Round(PercentPlaces)
}

// ApplyProfit haftanın bitiş tutarını hesaplar: round2(start + start * pct / 100)
func ApplyProfit(start, percent decimal.Decimal) decimal.Decimal {
	profit := start.Mul(percent).Div(hundred)
	return Round2(start.Add(profit))
}

// Valuate portföyün güncel değerini operasyon zincirinden hesaplar.
// Refund operasyonları kâra dahil edilmez, doldurulmamış haftalar da sayılmaz.
func Valuate(deposit *models.Deposit, operations []*models.DepositOperation) models.Valuation {
	totalInitial := deposit.AmountInEur
	for _, refund := range deposit.RefundHistory {
		totalInitial = totalInitial.Add(refund.Value)
	}

	profitSum := decimal.Zero
	for _, op := range operations {
		if !op.IsFilled || op.IsRefundOperation {
			continue
		}
		profitSum = profitSum.Add(op.WeekFinishAmount.Sub(op.WeekStartAmount))
	}

	profitPercent := decimal.Zero
	if !totalInitial.IsZero() {
		profitPercent = profitSum.Div(totalInitial).Mul(hundred)
	}

	return models.Valuation{
		TotalInitialPrice:     Round2(totalInitial),
		ProfitSum:             Round2(profitSum),
		CurrentPortfolioValue: Round2(totalInitial.Add(profitSum)),
		ProfitEur:             Round2(profitSum),
		ProfitPercent:         Round2(profitPercent),
	}
}
