package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

func newPriceEnv() (*PriceService, *memDB, *MockPriceFeed) {
	db := newMemDB()
	feed := new(MockPriceFeed)
	return NewPriceService(db.Store().Prices(), feed, testLoc), db, feed
}

func TestPriceService_FetchDailyBitcoinPrice_Idempotent(t *testing.T) {
	// Arrange
	svc, _, feed := newPriceEnv()
	ctx := context.Background()
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, testLoc)
	feed.On("DailyClose", mock.Anything, day).Return(dec("67123.45"), nil).Once()
	feed.On("DailyCloseEur", mock.Anything, day).Return(dec("57654.32"), nil).Once()

	// Act
	first, err := svc.FetchDailyBitcoinPrice(ctx, testNow)
	require.NoError(t, err)
	second, err := svc.FetchDailyBitcoinPrice(ctx, testNow.Add(3*time.Hour))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "14-10-2026", first.Date)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.PriceUsd.Equal(dec("67123.45")))
	require.NotNil(t, second.PriceEur)
	assert.True(t, second.PriceEur.Equal(dec("57654.32")))
	feed.AssertNumberOfCalls(t, "DailyClose", 1)
	feed.AssertNumberOfCalls(t, "DailyCloseEur", 1)
}

// EUR kapanışı alınamazsa USD kaydedilir, sonraki çalıştırma sadece EUR'yu tamamlar
func TestPriceService_FetchDailyBitcoinPrice_FillsMissingEur(t *testing.T) {
	// Arrange
	svc, _, feed := newPriceEnv()
	ctx := context.Background()
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, testLoc)
	feed.On("DailyClose", mock.Anything, day).Return(dec("67123.45"), nil).Once()
	feed.On("DailyCloseEur", mock.Anything, day).
		Return(decimal.Zero, apperrors.NewDependencyError("binance", "istek başarısız", nil)).Once()
	feed.On("DailyCloseEur", mock.Anything, day).Return(dec("57654.32"), nil).Once()

	// Act
	partial, err := svc.FetchDailyBitcoinPrice(ctx, testNow)
	require.NoError(t, err)
	completed, err := svc.FetchDailyBitcoinPrice(ctx, testNow)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, partial.PriceEur)
	assert.True(t, partial.PriceUsd.Equal(dec("67123.45")))
	require.NotNil(t, completed.PriceEur)
	assert.True(t, completed.PriceEur.Equal(dec("57654.32")))
	assert.True(t, completed.PriceUsd.Equal(dec("67123.45")))
	feed.AssertNumberOfCalls(t, "DailyClose", 1)
	feed.AssertNumberOfCalls(t, "DailyCloseEur", 2)
}

func TestPriceService_FetchDailyBitcoinPrice_FeedError(t *testing.T) {
	// Arrange
	svc, _, feed := newPriceEnv()
	feed.On("DailyClose", mock.Anything, mock.Anything).
		Return(decimal.Zero, apperrors.NewNotFoundError("bitcoin_price", "veri yok"))

	// Act
	price, err := svc.FetchDailyBitcoinPrice(context.Background(), testNow)

	// Assert
	assert.Nil(t, price)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))
}

func TestPriceService_FetchRange(t *testing.T) {
	// Arrange
	svc, _, feed := newPriceEnv()
	ctx := context.Background()
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, testLoc)
	to := time.Date(2026, 10, 3, 0, 0, 0, 0, testLoc)

	feed.On("DailyClose", mock.Anything, from).Return(dec("60000"), nil)
	feed.On("DailyClose", mock.Anything, from.AddDate(0, 0, 1)).
		Return(decimal.Zero, apperrors.NewDependencyError("binance", "istek başarısız", nil))
	feed.On("DailyClose", mock.Anything, to).Return(dec("61000"), nil)
	feed.On("DailyCloseEur", mock.Anything, mock.Anything).Return(dec("52000"), nil)

	// Act
	report, err := svc.FetchRange(ctx, from, to)

	// Assert
	require.NoError(t, err)
	assert.Len(t, report.Saved, 2)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0], "02-10-2026")

	prices, err := svc.ListBitcoinPrices(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, prices, 2)
	assert.Equal(t, "01-10-2026", prices[0].Date)
}

func TestPriceService_FetchRange_Validation(t *testing.T) {
	// Arrange
	svc, _, _ := newPriceEnv()
	ctx := context.Background()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, testLoc)

	// Act
	_, errReversed := svc.FetchRange(ctx, from, from.AddDate(0, 0, -1))
	_, errTooLong := svc.FetchRange(ctx, from, from.AddDate(0, 0, maxFetchDays))

	// Assert
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(errReversed))
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(errTooLong))
}

func TestPriceService_UpdateCryptoRate(t *testing.T) {
	// Arrange
	svc, _, _ := newPriceEnv()
	ctx := context.Background()

	// Act
	_, errName := svc.UpdateCryptoRate(ctx, &models.UpdateCryptoRateRequest{Name: " ", Value: models.FlexibleDecimal{Decimal: dec("1")}})
	_, errValue := svc.UpdateCryptoRate(ctx, &models.UpdateCryptoRateRequest{Name: "USDT", Value: models.FlexibleDecimal{Decimal: dec("0")}})
	_, err := svc.UpdateCryptoRate(ctx, &models.UpdateCryptoRateRequest{Name: "USDT", Value: models.FlexibleDecimal{Decimal: dec("0.92")}})
	require.NoError(t, err)
	updated, err := svc.UpdateCryptoRate(ctx, &models.UpdateCryptoRateRequest{Name: "USDT", Value: models.FlexibleDecimal{Decimal: dec("0.93")}})

	// Assert
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(errName))
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusOf(errValue))
	require.NoError(t, err)
	assert.True(t, updated.Value.Equal(dec("0.93")))

	rates, err := svc.ListCryptoRates(ctx)
	require.NoError(t, err)
	assert.Len(t, rates, 1)
}
