package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
)

const (
	usdSymbol = "BTCUSDT"
	eurSymbol = "BTCEUR"
	// kline dizisinde kapanış fiyatının indeksi
	closeIndex = 4
)

// BinanceClient Binance public klines endpoint'inden günlük kapanış fiyatı okur
type BinanceClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewBinanceClient yeni istemci oluşturur
func NewBinanceClient(baseURL string) *BinanceClient {
	return &BinanceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// DailyClose verilen takvim gününün (UTC) 1d kline kapanışını USD olarak döner
func (c *BinanceClient) DailyClose(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	return c.dailyClose(ctx, usdSymbol, day)
}

// DailyCloseEur aynı günün BTCEUR kapanışı
func (c *BinanceClient) DailyCloseEur(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	return c.dailyClose(ctx, eurSymbol, day)
}

func (c *BinanceClient) dailyClose(ctx context.Context, symbol string, day time.Time) (decimal.Decimal, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", "1d")
	q.Set("startTime", strconv.FormatInt(start.UnixMilli(), 10))
	q.Set("endTime", strconv.FormatInt(end.UnixMilli(), 10))
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v3/klines?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("binance isteği oluşturulamadı: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, apperrors.NewDependencyError("binance", "binance isteği başarısız", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return decimal.Zero, apperrors.NewDependencyError("binance", "binance yanıtı okunamadı", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, apperrors.NewDependencyError("binance",
			fmt.Sprintf("binance beklenmeyen status: %d", resp.StatusCode), nil)
	}

	var klines [][]json.RawMessage
	if err := json.Unmarshal(body, &klines); err != nil {
		return decimal.Zero, apperrors.NewDependencyError("binance", "binance yanıtı parse edilemedi", err)
	}
	if len(klines) == 0 || len(klines[0]) <= closeIndex {
		return decimal.Zero, apperrors.NewNotFoundError("bitcoin_price",
			fmt.Sprintf("%s %s için kline bulunamadı", symbol, start.Format("2006-01-02")))
	}

	// fiyat string olarak gelir: "67123.45000000"
	var raw string
	if err := json.Unmarshal(klines[0][closeIndex], &raw); err != nil {
		return decimal.Zero, apperrors.NewDependencyError("binance", "kapanış fiyatı okunamadı", err)
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewDependencyError("binance", "kapanış fiyatı geçersiz", err)
	}

	log.Debug().Str("symbol", symbol).Str("day", start.Format("2006-01-02")).Str("close", price.String()).Msg("Binance kapanış fiyatı alındı")
	return price, nil
}
