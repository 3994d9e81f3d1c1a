package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/config"
	"github.com/onerilhan/go-portfolio-api/internal/jobs"
)

// Scheduler cron job zamanlamasını yönetir
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler iş zaman diliminde, saniye hassasiyetli cron oluşturur ve job'ları kaydeder
func NewScheduler(jobRunner *jobs.JobRunner, cfg config.SchedulerConfig, loc *time.Location) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) registerJobs(cfg config.SchedulerConfig) error {
	// Vade kontrolü (günlük)
	if _, err := s.cron.AddFunc(cfg.MaturityScan, s.jobs.ScanMaturity); err != nil {
		return fmt.Errorf("%s job'ı kaydedilemedi: %w", jobs.MaturityScanJob, err)
	}

	// BTC kapanış fiyatı (günlük)
	if _, err := s.cron.AddFunc(cfg.BitcoinPrice, s.jobs.FetchBitcoinPrice); err != nil {
		return fmt.Errorf("%s job'ı kaydedilemedi: %w", jobs.BitcoinPriceJob, err)
	}

	log.Info().
		Str("maturity_scan", cfg.MaturityScan).
		Str("btc_price", cfg.BitcoinPrice).
		Msg("Cron job'ları kaydedildi")
	return nil
}

// Start scheduler'ı başlatır
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Msg("⏰ Cron scheduler başladı")
}

// Stop çalışan job'ların bitmesini bekleyerek durdurur
func (s *Scheduler) Stop() {
	log.Info().Msg("Cron scheduler durduruluyor...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Cron scheduler durdu")
}

// Entries kayıtlı job sayısı
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
