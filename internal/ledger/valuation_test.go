package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onerilhan/go-portfolio-api/internal/models"
)

func TestValuate_ExcludesRefundAndOpenWeeks(t *testing.T) {
	// Arrange
	deposit := &models.Deposit{
		AmountInEur:   dec("1000"),
		RefundHistory: []models.RefundEntry{{Value: dec("200")}},
	}
	operations := []*models.DepositOperation{
		{WeekStartAmount: dec("1000"), WeekFinishAmount: dec("1050"), IsFilled: true},
		{WeekStartAmount: dec("1050"), WeekFinishAmount: dec("1250"), IsFilled: true, IsRefundOperation: true},
		{WeekStartAmount: dec("1250"), WeekFinishAmount: dec("1300"), IsFilled: false},
	}

	// Act
	valuation := Valuate(deposit, operations)

	// Assert
	assert.Equal(t, "1200.00", valuation.TotalInitialPrice.StringFixed(2))
	assert.Equal(t, "50.00", valuation.ProfitSum.StringFixed(2))
	assert.Equal(t, "50.00", valuation.ProfitEur.StringFixed(2))
	assert.Equal(t, "1250.00", valuation.CurrentPortfolioValue.StringFixed(2))
	assert.Equal(t, "4.17", valuation.ProfitPercent.StringFixed(2))
}

func TestValuate_ZeroPrincipal(t *testing.T) {
	deposit := &models.Deposit{}

	valuation := Valuate(deposit, nil)

	assert.True(t, valuation.ProfitPercent.IsZero())
	assert.True(t, valuation.CurrentPortfolioValue.IsZero())
}

func TestApplyProfit_Rounding(t *testing.T) {
	assert.Equal(t, "1280.10", ApplyProfit(dec("1255"), dec("2")).StringFixed(2))
	assert.Equal(t, "33.34", ApplyProfit(dec("33.33"), dec("0.03")).StringFixed(2))
	assert.Equal(t, "900.00", ApplyProfit(dec("1000"), dec("-10")).StringFixed(2))
}
