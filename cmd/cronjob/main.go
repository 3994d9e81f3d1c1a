package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/onerilhan/go-portfolio-api/internal/config"
	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/jobs"
	"github.com/onerilhan/go-portfolio-api/internal/logger"
	"github.com/onerilhan/go-portfolio-api/internal/notification"
	"github.com/onerilhan/go-portfolio-api/internal/pricefeed"
	"github.com/onerilhan/go-portfolio-api/internal/repository"
	"github.com/onerilhan/go-portfolio-api/internal/scheduler"
	"github.com/onerilhan/go-portfolio-api/internal/services"
)

func main() {
	runOnce := flag.String("run-once", "", "Tek bir job çalıştırıp çık (maturity-scan, btc-price, all)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		stdlog.Println(".env dosyası bulunamadı, ortam değişkenlerinden okunacak.")
	}

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	loc := cfg.Location()

	log.Info().
		Str("environment", cfg.AppEnv).
		Str("timezone", loc.String()).
		Msg("⏰ Portföy cron runner başlatıldı")

	database, err := db.Connect(cfg.GetDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Veritabanı bağlantısı başarısız")
	}
	defer database.Close()

	uow := repository.NewUnitOfWork(database)
	store := uow.Store()

	notifier, err := notification.NewFromConfig(cfg, store.Users())
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Bildirim şablonları yüklenemedi")
	}

	// süreç içi per-deposit sıra; API süreciyle arasındaki sıra satır kilitleriyle sağlanır
	queue := services.NewDepositQueue(cfg.QueueWorkers, cfg.QueueBufferSize)
	queue.Start()
	defer queue.Stop()

	jobRunner := jobs.NewJobRunner(&jobs.Services{
		Maturity: services.NewMaturityService(uow, notifier, queue, loc, cfg.ProlongThresholds),
		Prices:   services.NewPriceService(store.Prices(), pricefeed.NewBinanceClient(cfg.BinanceAPIURL), loc),
	}, loc)

	if *runOnce != "" {
		log.Info().Str("job", *runOnce).Msg("Job bir kez çalıştırılıyor")
		if !jobRunner.Run(*runOnce) {
			log.Error().Str("job", *runOnce).Msg("Bilinmeyen job adı")
			fmt.Printf("Kullanılabilir job'lar:\n")
			fmt.Printf("  - %s\n", jobs.MaturityScanJob)
			fmt.Printf("  - %s\n", jobs.BitcoinPriceJob)
			fmt.Printf("  - %s\n", jobs.AllJobs)
			queue.Stop()
			database.Close()
			os.Exit(1)
		}
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner, cfg.Scheduler, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Scheduler kurulamadı")
	}
	cronScheduler.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("🛑 Shutdown signal alındı, scheduler durduruluyor...")
	cronScheduler.Stop()
	log.Info().Msg("👋 Cron runner kapatıldı")
}
