package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
)

// jobTimeout tek bir job çalıştırmasının üst sınırı
const jobTimeout = 10 * time.Minute

// Job adları (-run-once ve admin endpoint'i bu adları kullanır)
const (
	MaturityScanJob = "maturity-scan"
	BitcoinPriceJob = "btc-price"
	AllJobs         = "all"
)

// Services job'ların ihtiyaç duyduğu servisler
type Services struct {
	Maturity interfaces.MaturityServiceInterface
	Prices   interfaces.PriceServiceInterface
}

// JobRunner zamanlanmış job'ları koordine eder
type JobRunner struct {
	services *Services
	loc      *time.Location
	now      func() time.Time
}

// NewJobRunner yeni job runner oluşturur
func NewJobRunner(services *Services, loc *time.Location) *JobRunner {
	return &JobRunner{
		services: services,
		loc:      loc,
		now:      time.Now,
	}
}

// runWithRecovery job'ı panic korumasıyla çalıştırır
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("job", jobName).Interface("panic", r).Msg("🔥 Job panic ile sonlandı")
			err = fmt.Errorf("job panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	log.Info().Str("job", jobName).Msg("Job başladı")
	if err := jobFunc(ctx); err != nil {
		log.Error().Err(err).Str("job", jobName).Dur("duration", time.Since(start)).Msg("Job başarısız")
		return err
	}
	log.Info().Str("job", jobName).Dur("duration", time.Since(start)).Msg("Job tamamlandı")
	return nil
}

// ScanMaturity vadesi yaklaşan portföyleri işaretler
func (jr *JobRunner) ScanMaturity() {
	_ = jr.runWithRecovery(MaturityScanJob, func(ctx context.Context) error {
		report, err := jr.services.Maturity.ScanDepositsForProlong(ctx, jr.now().In(jr.loc))
		if err != nil {
			return err
		}
		log.Info().
			Int("checked", report.Checked).
			Int("flagged", report.Flagged).
			Int("failures", len(report.Failures)).
			Msg("Vade kontrolü tamamlandı")
		for _, f := range report.Failures {
			log.Warn().Str("job", MaturityScanJob).Msg(f)
		}
		return nil
	})
}

// FetchBitcoinPrice bir önceki günün BTC kapanış fiyatını kaydeder
func (jr *JobRunner) FetchBitcoinPrice() {
	_ = jr.runWithRecovery(BitcoinPriceJob, func(ctx context.Context) error {
		// gün henüz kapanmadığı için dünün kline'ı alınır
		day := jr.now().In(jr.loc).AddDate(0, 0, -1)
		price, err := jr.services.Prices.FetchDailyBitcoinPrice(ctx, day)
		if err != nil {
			return err
		}
		event := log.Info().Str("date", price.Date)
		if price.PriceUsd != nil {
			event = event.Str("usd", price.PriceUsd.String())
		}
		event.Msg("BTC fiyatı kaydedildi")
		return nil
	})
}

// RunAll tüm job'ları sırayla çalıştırır (manuel çalıştırma için)
func (jr *JobRunner) RunAll() {
	jr.FetchBitcoinPrice()
	jr.ScanMaturity()
}

// Run adıyla verilen job'ı çalıştırır; bilinmeyen ad false döner
func (jr *JobRunner) Run(name string) bool {
	switch name {
	case MaturityScanJob:
		jr.ScanMaturity()
	case BitcoinPriceJob:
		jr.FetchBitcoinPrice()
	case AllJobs:
		jr.RunAll()
	default:
		return false
	}
	return true
}
