package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// maxFetchDays admin geriye dönük çekme aralığının üst sınırı
const maxFetchDays = 366

// PriceService günlük BTC fiyatı ve kripto kurları
type PriceService struct {
	prices interfaces.PriceRepositoryInterface
	feed   interfaces.PriceFeedInterface
	loc    *time.Location
}

// NewPriceService yeni service oluşturur
func NewPriceService(prices interfaces.PriceRepositoryInterface, feed interfaces.PriceFeedInterface, loc *time.Location) *PriceService {
	return &PriceService{prices: prices, feed: feed, loc: loc}
}

// calendarDay günün iş zaman dilimindeki 00:00 anı
func (s *PriceService) calendarDay(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
}

// FetchDailyBitcoinPrice günün USD ve EUR kapanışını kaydeder. İki fiyat da kayıtlıysa dış servise gidilmez;
// EUR alınamazsa USD yine kaydedilir ve eksik fiyat sonraki çalıştırmada tamamlanır.
func (s *PriceService) FetchDailyBitcoinPrice(ctx context.Context, day time.Time) (*models.BitcoinPrice, error) {
	day = s.calendarDay(day)
	key := day.Format(models.BitcoinPriceDateLayout)

	existing, err := s.prices.GetBitcoinPrice(ctx, key)
	if err == nil && existing.PriceUsd != nil && existing.PriceEur != nil {
		log.Debug().Str("date", key).Msg("BTC fiyatı zaten kayıtlı")
		return existing, nil
	}
	if err != nil && !errors.Is(err, models.ErrRecordNotFound) {
		return nil, err
	}

	price := &models.BitcoinPrice{Date: key, Day: day}
	if existing != nil && existing.PriceUsd != nil {
		price.PriceUsd = existing.PriceUsd
	} else {
		usd, err := s.feed.DailyClose(ctx, day)
		if err != nil {
			return nil, err
		}
		price.PriceUsd = &usd
	}

	eur, err := s.feed.DailyCloseEur(ctx, day)
	if err != nil {
		log.Warn().Err(err).Str("date", key).Msg("BTC EUR fiyatı alınamadı, sadece USD kaydediliyor")
	} else {
		price.PriceEur = &eur
	}

	saved, err := s.prices.SaveBitcoinPrice(ctx, price)
	if err != nil {
		return nil, err
	}

	event := log.Info().Str("date", key).Str("price_usd", price.PriceUsd.String())
	if price.PriceEur != nil {
		event = event.Str("price_eur", price.PriceEur.String())
	}
	event.Msg("BTC fiyatı kaydedildi")
	return saved, nil
}

// FetchRange [from, to] aralığındaki her gün için fiyat çeker; gün bazlı hatalar rapora yazılır
func (s *PriceService) FetchRange(ctx context.Context, from, to time.Time) (*models.PriceFetchReport, error) {
	from = s.calendarDay(from)
	to = s.calendarDay(to)

	if to.Before(from) {
		return nil, apperrors.NewValidationError("to", "bitiş tarihi başlangıçtan önce olamaz", to.Format(models.BitcoinPriceDateLayout))
	}
	if days := int(to.Sub(from).Hours()/24) + 1; days > maxFetchDays {
		return nil, apperrors.NewValidationError("to", fmt.Sprintf("en fazla %d gün çekilebilir", maxFetchDays), days)
	}

	report := &models.PriceFetchReport{Saved: make([]*models.BitcoinPrice, 0)}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		price, err := s.FetchDailyBitcoinPrice(ctx, day)
		if err != nil {
			key := day.Format(models.BitcoinPriceDateLayout)
			log.Warn().Err(err).Str("date", key).Msg("BTC fiyatı çekilemedi")
			report.Failures = append(report.Failures, key+": "+err.Error())
			continue
		}
		report.Saved = append(report.Saved, price)
	}

	return report, nil
}

// ListBitcoinPrices kayıtlı fiyatları listeler
func (s *PriceService) ListBitcoinPrices(ctx context.Context, from, to time.Time) ([]*models.BitcoinPrice, error) {
	if to.Before(from) {
		return nil, apperrors.NewValidationError("to", "bitiş tarihi başlangıçtan önce olamaz", nil)
	}
	return s.prices.ListBitcoinPrices(ctx, s.calendarDay(from), s.calendarDay(to))
}

// ListCryptoRates tüm kurları döner
func (s *PriceService) ListCryptoRates(ctx context.Context) ([]*models.CryptoRate, error) {
	return s.prices.ListCryptoRates(ctx)
}

// UpdateCryptoRate kuru isme göre kaydeder
func (s *PriceService) UpdateCryptoRate(ctx context.Context, req *models.UpdateCryptoRateRequest) (*models.CryptoRate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "kur adı zorunludur", req.Name)
	}
	if !req.Value.IsPositive() {
		return nil, apperrors.NewValidationError("value", "kur değeri sıfırdan büyük olmalıdır", req.Value.String())
	}

	rate, err := s.prices.UpsertCryptoRate(ctx, name, req.Value.Decimal)
	if err != nil {
		return nil, err
	}

	log.Info().Str("name", name).Str("value", rate.Value.String()).Msg("Kur güncellendi")
	return rate, nil
}
